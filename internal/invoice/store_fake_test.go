package invoice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"bizbooks/internal/apperr"
	"bizbooks/internal/models"
)

// memStore is an in-memory Store. Transactions are serialised and roll back on error.
type memStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	nextID   uint
	invoices map[uint]models.Invoice

	// staleLatest makes FindLatestInvoiceNumber report "" this many times,
	// as a concurrent writer would see it before another transaction commits.
	staleLatest int
	saveErr     error

	// abortSaves makes Save fail this many times the way a deadlocked or
	// serialization-failed transaction is reported by the repository.
	abortSaves int

	// parallel lets transactions overlap instead of running one at a time.
	// With readers set, the first readerCount calls to FindLatestInvoiceNumber
	// wait for each other, so every one of them sees the same latest number.
	parallel    bool
	readers     *sync.WaitGroup
	readerCount int

	saves       int
	latestCalls int
	sawDeadline bool
}

func newMemStore() *memStore {
	return &memStore{invoices: map[uint]models.Invoice{}}
}

func cloneInvoice(inv models.Invoice) models.Invoice {
	inv.Items = append([]models.InvoiceItem(nil), inv.Items...)
	return inv
}

func (m *memStore) Transaction(ctx context.Context, fn func(tx Store) error) error {
	if m.parallel {
		// nothing is written before Save fails, so there is nothing to roll back
		return fn(m)
	}
	m.txMu.Lock()
	defer m.txMu.Unlock()

	m.mu.Lock()
	snapshot := make(map[uint]models.Invoice, len(m.invoices))
	for id, inv := range m.invoices {
		snapshot[id] = cloneInvoice(inv)
	}
	nextID := m.nextID
	m.mu.Unlock()

	if err := fn(m); err != nil {
		m.mu.Lock()
		m.invoices = snapshot
		m.nextID = nextID
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memStore) Save(ctx context.Context, inv *models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.saves++
	if _, ok := ctx.Deadline(); ok {
		m.sawDeadline = true
	}
	if m.saveErr != nil {
		return apperr.Storage("memStore.Save", m.saveErr)
	}
	if m.abortSaves > 0 {
		m.abortSaves--
		return &apperr.Error{Op: "memStore.Save", Kind: apperr.ErrConflict, Message: "transaction aborted by a concurrent writer"}
	}
	for id, existing := range m.invoices {
		if id != inv.ID && existing.InvoiceNo == inv.InvoiceNo {
			return apperr.Conflict("memStore.Save", "invoice_no", "duplicate invoice number")
		}
	}

	if inv.ID == 0 {
		m.nextID++
		inv.ID = m.nextID
	}
	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
		if inv.Items[i].ID == 0 {
			inv.Items[i].ID = uint(i + 1)
		}
	}
	m.invoices[inv.ID] = cloneInvoice(*inv)
	return nil
}

func (m *memStore) Delete(ctx context.Context, inv *models.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.invoices, inv.ID)
	return nil
}

func (m *memStore) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	inv, ok := m.invoices[id]
	if !ok {
		return nil, apperr.NotFound("memStore.FindByID", fmt.Sprintf("invoice %d not found", id))
	}
	out := cloneInvoice(inv)
	return &out, nil
}

func (m *memStore) FindByInvoiceNo(ctx context.Context, invoiceNo string) (*models.Invoice, error) {
	found := m.filter(func(inv models.Invoice) bool { return inv.InvoiceNo == invoiceNo })
	if len(found) > 0 {
		return &found[0], nil
	}
	return nil, apperr.NotFound("memStore.FindByInvoiceNo", fmt.Sprintf("invoice %s not found", invoiceNo))
}

func (m *memStore) ExistsByInvoiceNo(ctx context.Context, invoiceNo string) (bool, error) {
	_, err := m.FindByInvoiceNo(ctx, invoiceNo)
	if errors.Is(err, apperr.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (m *memStore) FindLatestInvoiceNumber(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.latestCalls++
	if m.staleLatest > 0 {
		m.staleLatest--
		return "", nil
	}
	var latest uint
	for id := range m.invoices {
		if id > latest {
			latest = id
		}
	}
	latestNo := ""
	if latest != 0 {
		latestNo = m.invoices[latest].InvoiceNo
	}

	if m.readers != nil && m.latestCalls <= m.readerCount {
		m.mu.Unlock()
		m.readers.Done()
		m.readers.Wait()
		m.mu.Lock()
	}
	return latestNo, nil
}

// filter returns matching invoices, newest first.
func (m *memStore) filter(keep func(models.Invoice) bool) []models.Invoice {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []models.Invoice
	for _, inv := range m.invoices {
		if keep(inv) {
			out = append(out, cloneInvoice(inv))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (m *memStore) List(ctx context.Context) ([]models.Invoice, error) {
	return m.filter(func(models.Invoice) bool { return true }), nil
}

func (m *memStore) Search(ctx context.Context, term string) ([]models.Invoice, error) {
	term = strings.ToLower(term)
	return m.filter(func(inv models.Invoice) bool {
		return strings.Contains(strings.ToLower(inv.InvoiceNo), term) ||
			strings.Contains(strings.ToLower(inv.CustomerName), term) ||
			strings.Contains(inv.CustomerMobile, term)
	}), nil
}

func (m *memStore) FindByCustomerName(ctx context.Context, name string) ([]models.Invoice, error) {
	name = strings.ToLower(name)
	return m.filter(func(inv models.Invoice) bool {
		return strings.Contains(strings.ToLower(inv.CustomerName), name)
	}), nil
}

func (m *memStore) FindByCustomerMobile(ctx context.Context, mobile string) ([]models.Invoice, error) {
	return m.filter(func(inv models.Invoice) bool { return inv.CustomerMobile == mobile }), nil
}

func (m *memStore) FindByDateRange(ctx context.Context, from, to time.Time) ([]models.Invoice, error) {
	return m.filter(func(inv models.Invoice) bool {
		return !inv.InvoiceDate.Before(from) && !inv.InvoiceDate.After(to)
	}), nil
}

func (m *memStore) FindSince(ctx context.Context, since time.Time) ([]models.Invoice, error) {
	return m.filter(func(inv models.Invoice) bool { return !inv.InvoiceDate.Before(since) }), nil
}

func (m *memStore) FindByStatus(ctx context.Context, status models.PaymentStatus) ([]models.Invoice, error) {
	return m.filter(func(inv models.Invoice) bool { return inv.PaymentStatus == status }), nil
}

func (m *memStore) Count(ctx context.Context) (int64, error) {
	list, _ := m.List(ctx)
	return int64(len(list)), nil
}

func (m *memStore) CountByStatus(ctx context.Context, status models.PaymentStatus) (int64, error) {
	list, _ := m.FindByStatus(ctx, status)
	return int64(len(list)), nil
}

func (m *memStore) CountSince(ctx context.Context, since time.Time) (int64, error) {
	list, _ := m.FindSince(ctx, since)
	return int64(len(list)), nil
}

func (m *memStore) PaidRevenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	paid := m.filter(func(inv models.Invoice) bool {
		if inv.PaymentStatus != models.PaymentPaid {
			return false
		}
		if !from.IsZero() && inv.InvoiceDate.Before(from) {
			return false
		}
		return to.IsZero() || inv.InvoiceDate.Before(to)
	})
	return sumTotals(paid), nil
}

func sumTotals(invoices []models.Invoice) decimal.Decimal {
	total := decimal.Zero
	for _, inv := range invoices {
		total = total.Add(inv.TotalAmount)
	}
	return total
}

type fakeNotifier struct {
	mu          sync.Mutex
	ok          bool
	calls       []string
	sawDeadline bool
}

func (f *fakeNotifier) SendInvoiceNotification(ctx context.Context, inv *models.Invoice) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, inv.InvoiceNo)
	_, f.sawDeadline = ctx.Deadline()
	return f.ok
}
