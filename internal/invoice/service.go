package invoice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bizbooks/internal/apperr"
	"bizbooks/internal/logger"
	"bizbooks/internal/models"
)

// DefaultTimeout bounds every store round trip made by the service.
const DefaultTimeout = 5 * time.Second

// recentWindow is the look-back used by Recent and Statistics.
const recentWindow = 30 * 24 * time.Hour

// Service owns the invoice lifecycle: creation with number assignment,
// updates, status changes, deletion and queries.
type Service struct {
	store      Store
	notifier   Notifier
	now        func() time.Time
	timeout    time.Duration
	autoNotify bool
	log        zerolog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithNotifier sets the collaborator used to message customers.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTimeout bounds each store call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

// WithAutoNotify sends a notification after every successful create.
func WithAutoNotify(enabled bool) Option {
	return func(s *Service) { s.autoNotify = enabled }
}

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates an invoice service on top of store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:   store,
		now:     time.Now,
		timeout: DefaultTimeout,
		log:     logger.WithComponent("invoice"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Create persists draft as a new invoice.
//
// Items are calculated and the total recomputed; a blank status becomes PENDING and
// a blank invoice number is generated inside the write transaction. A generated
// number that loses a race is regenerated once; a supplied number that is taken
// fails with ErrConflict. draft itself is not modified.
func (s *Service) Create(ctx context.Context, draft *models.Invoice) (*models.Invoice, error) {
	const op = "invoice.Create"

	if draft == nil {
		return nil, apperr.Validation(op, "", "invoice is required")
	}
	generated := strings.TrimSpace(draft.InvoiceNo) == ""
	attempts := 1
	if generated {
		attempts = 2
	}

	log := logger.Tag(ctx, s.log)
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var inv *models.Invoice
		inv, err = s.createOnce(ctx, draft, generated)
		if err == nil {
			log.Info().
				Uint("invoice_id", inv.ID).
				Str("invoice_no", inv.InvoiceNo).
				Str("total", inv.TotalAmount.StringFixed(2)).
				Msg("Invoice created")
			if s.autoNotify {
				s.notify(ctx, inv)
			}
			return inv, nil
		}
		if !generated || !errors.Is(err, apperr.ErrConflict) {
			return nil, err
		}
		log.Warn().Err(err).Int("attempt", attempt).Msg("Generated invoice number collided")
	}
	return nil, err
}

func (s *Service) createOnce(ctx context.Context, draft *models.Invoice, generated bool) (*models.Invoice, error) {
	const op = "invoice.Create"

	inv := *draft
	inv.ID = 0
	inv.InvoiceNo = strings.TrimSpace(draft.InvoiceNo)
	inv.CustomerName = strings.TrimSpace(draft.CustomerName)
	if inv.PaymentStatus == "" {
		inv.PaymentStatus = models.PaymentPending
	}
	if err := ReplaceItems(&inv, draft.Items); err != nil {
		return nil, err
	}

	now := s.now()
	if inv.InvoiceDate.IsZero() {
		inv.InvoiceDate = now
	}
	inv.CreatedAt = now
	inv.UpdatedAt = now

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.store.Transaction(ctx, func(tx Store) error {
		if generated {
			last, err := tx.FindLatestInvoiceNumber(ctx)
			if err != nil {
				return err
			}
			inv.InvoiceNo = NextInvoiceNumber(last, now)
		}

		exists, err := tx.ExistsByInvoiceNo(ctx, inv.InvoiceNo)
		if err != nil {
			return err
		}
		if exists {
			return apperr.Conflict(op, "invoice_no", fmt.Sprintf("invoice number %s already exists", inv.InvoiceNo))
		}

		if err := ValidateForPersistence(&inv); err != nil {
			return err
		}
		return tx.Save(ctx, &inv)
	})
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	return &inv, nil
}

// Update replaces the editable fields and the whole item list of invoice id.
// The invoice number and creation time are kept.
func (s *Service) Update(ctx context.Context, id uint, draft *models.Invoice) (*models.Invoice, error) {
	const op = "invoice.Update"

	if draft == nil {
		return nil, apperr.Validation(op, "", "invoice is required")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var updated *models.Invoice
	err := s.store.Transaction(ctx, func(tx Store) error {
		existing, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}

		existing.CustomerName = strings.TrimSpace(draft.CustomerName)
		existing.CustomerMobile = draft.CustomerMobile
		existing.CustomerAddress = draft.CustomerAddress
		if !draft.InvoiceDate.IsZero() {
			existing.InvoiceDate = draft.InvoiceDate
		}
		if draft.PaymentStatus != "" {
			existing.PaymentStatus = draft.PaymentStatus
		}
		if err := ReplaceItems(existing, draft.Items); err != nil {
			return err
		}
		existing.UpdatedAt = s.now()

		if err := ValidateForPersistence(existing); err != nil {
			return err
		}
		if err := tx.Save(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, apperr.Storage(op, err)
	}

	s.log.Info().Uint("invoice_id", updated.ID).Str("invoice_no", updated.InvoiceNo).Msg("Invoice updated")
	return updated, nil
}

// UpdateStatus sets the payment status of invoice id. rawStatus is matched case-insensitively.
func (s *Service) UpdateStatus(ctx context.Context, id uint, rawStatus string) (*models.Invoice, error) {
	const op = "invoice.UpdateStatus"

	status, ok := models.ParsePaymentStatus(rawStatus)
	if !ok {
		return nil, apperr.Validation(op, "status", fmt.Sprintf("invalid payment status %q", rawStatus))
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var updated *models.Invoice
	err := s.store.Transaction(ctx, func(tx Store) error {
		existing, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		existing.PaymentStatus = status
		existing.UpdatedAt = s.now()
		if err := ValidateForPersistence(existing); err != nil {
			return err
		}
		if err := tx.Save(ctx, existing); err != nil {
			return err
		}
		updated = existing
		return nil
	})
	if err != nil {
		return nil, apperr.Storage(op, err)
	}

	s.log.Info().Uint("invoice_id", id).Str("status", string(status)).Msg("Invoice status updated")
	return updated, nil
}

// Delete removes invoice id and its items.
func (s *Service) Delete(ctx context.Context, id uint) error {
	const op = "invoice.Delete"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.store.Transaction(ctx, func(tx Store) error {
		existing, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		return tx.Delete(ctx, existing)
	})
	if err != nil {
		return apperr.Storage(op, err)
	}

	s.log.Info().Uint("invoice_id", id).Msg("Invoice deleted")
	return nil
}

// Get returns invoice id with its items.
func (s *Service) Get(ctx context.Context, id uint) (*models.Invoice, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	inv, err := s.store.FindByID(ctx, id)
	return inv, apperr.Storage("invoice.Get", err)
}

// GetByNumber returns the invoice numbered invoiceNo.
func (s *Service) GetByNumber(ctx context.Context, invoiceNo string) (*models.Invoice, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	inv, err := s.store.FindByInvoiceNo(ctx, strings.TrimSpace(invoiceNo))
	return inv, apperr.Storage("invoice.GetByNumber", err)
}

// NumberExists reports whether invoiceNo is already taken.
func (s *Service) NumberExists(ctx context.Context, invoiceNo string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	exists, err := s.store.ExistsByInvoiceNo(ctx, strings.TrimSpace(invoiceNo))
	return exists, apperr.Storage("invoice.NumberExists", err)
}

// NextNumber previews the number the next generated invoice would receive.
// It reserves nothing.
func (s *Service) NextNumber(ctx context.Context) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	last, err := s.store.FindLatestInvoiceNumber(ctx)
	if err != nil {
		return "", apperr.Storage("invoice.NextNumber", err)
	}
	return NextInvoiceNumber(last, s.now()), nil
}

// List returns every invoice.
func (s *Service) List(ctx context.Context) ([]models.Invoice, error) {
	return s.query(ctx, "invoice.List", func(ctx context.Context) ([]models.Invoice, error) {
		return s.store.List(ctx)
	})
}

// Search matches term against invoice number, customer name and mobile.
// A blank term lists everything.
func (s *Service) Search(ctx context.Context, term string) ([]models.Invoice, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx)
	}
	return s.query(ctx, "invoice.Search", func(ctx context.Context) ([]models.Invoice, error) {
		return s.store.Search(ctx, term)
	})
}

// ByCustomerName returns invoices whose customer name contains name, ignoring case.
func (s *Service) ByCustomerName(ctx context.Context, name string) ([]models.Invoice, error) {
	return s.query(ctx, "invoice.ByCustomerName", func(ctx context.Context) ([]models.Invoice, error) {
		return s.store.FindByCustomerName(ctx, strings.TrimSpace(name))
	})
}

// ByMobile returns invoices issued to mobile.
func (s *Service) ByMobile(ctx context.Context, mobile string) ([]models.Invoice, error) {
	return s.query(ctx, "invoice.ByMobile", func(ctx context.Context) ([]models.Invoice, error) {
		return s.store.FindByCustomerMobile(ctx, strings.TrimSpace(mobile))
	})
}

// ByDateRange returns invoices dated within [from, to].
func (s *Service) ByDateRange(ctx context.Context, from, to time.Time) ([]models.Invoice, error) {
	const op = "invoice.ByDateRange"
	if to.Before(from) {
		return nil, apperr.Validation(op, "end_date", "end date must not be before start date")
	}
	return s.query(ctx, op, func(ctx context.Context) ([]models.Invoice, error) {
		return s.store.FindByDateRange(ctx, from, to)
	})
}

// Recent returns invoices dated within the last 30 days.
func (s *Service) Recent(ctx context.Context) ([]models.Invoice, error) {
	since := s.now().Add(-recentWindow)
	return s.query(ctx, "invoice.Recent", func(ctx context.Context) ([]models.Invoice, error) {
		return s.store.FindSince(ctx, since)
	})
}

// ByStatus returns invoices in the given payment status.
func (s *Service) ByStatus(ctx context.Context, rawStatus string) ([]models.Invoice, error) {
	const op = "invoice.ByStatus"
	status, ok := models.ParsePaymentStatus(rawStatus)
	if !ok {
		return nil, apperr.Validation(op, "status", fmt.Sprintf("invalid payment status %q", rawStatus))
	}
	return s.query(ctx, op, func(ctx context.Context) ([]models.Invoice, error) {
		return s.store.FindByStatus(ctx, status)
	})
}

func (s *Service) query(ctx context.Context, op string, fn func(context.Context) ([]models.Invoice, error)) ([]models.Invoice, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	invoices, err := fn(ctx)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	if invoices == nil {
		invoices = []models.Invoice{}
	}
	return invoices, nil
}

// Statistics summarises invoice counts and paid revenue.
func (s *Service) Statistics(ctx context.Context) (*models.InvoiceStats, error) {
	const op = "invoice.Statistics"

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var stats models.InvoiceStats
	var err error
	if stats.TotalInvoices, err = s.store.Count(ctx); err != nil {
		return nil, apperr.Storage(op, err)
	}
	if stats.TotalRevenue, err = s.store.PaidRevenue(ctx, time.Time{}, time.Time{}); err != nil {
		return nil, apperr.Storage(op, err)
	}
	if stats.PaidInvoices, err = s.store.CountByStatus(ctx, models.PaymentPaid); err != nil {
		return nil, apperr.Storage(op, err)
	}
	if stats.PendingInvoices, err = s.store.CountByStatus(ctx, models.PaymentPending); err != nil {
		return nil, apperr.Storage(op, err)
	}
	if stats.OverdueInvoices, err = s.store.CountByStatus(ctx, models.PaymentOverdue); err != nil {
		return nil, apperr.Storage(op, err)
	}
	if stats.RecentInvoicesCount, err = s.store.CountSince(ctx, s.now().Add(-recentWindow)); err != nil {
		return nil, apperr.Storage(op, err)
	}
	return &stats, nil
}

// MonthlyRevenue sums PAID invoices dated in the given calendar month.
func (s *Service) MonthlyRevenue(ctx context.Context, year int, month time.Month) (*models.MonthlyRevenue, error) {
	const op = "invoice.MonthlyRevenue"
	if month < time.January || month > time.December {
		return nil, apperr.Validation(op, "month", "month must be between 1 and 12")
	}
	if year < 1 {
		return nil, apperr.Validation(op, "year", "year must be positive")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	from := time.Date(year, month, 1, 0, 0, 0, 0, s.now().Location())
	revenue, err := s.store.PaidRevenue(ctx, from, from.AddDate(0, 1, 0))
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	return &models.MonthlyRevenue{Year: year, Month: int(month), Revenue: revenue}, nil
}

// SendNotification messages the customer of invoice id and reports delivery.
func (s *Service) SendNotification(ctx context.Context, id uint) (bool, error) {
	const op = "invoice.SendNotification"

	inv, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(inv.CustomerMobile) == "" {
		return false, apperr.Validation(op, "customer_mobile", "invoice has no customer mobile number")
	}
	return s.notify(ctx, inv), nil
}

// notify never fails the caller; the outcome is only logged.
func (s *Service) notify(ctx context.Context, inv *models.Invoice) bool {
	if s.notifier == nil {
		s.log.Warn().Str("invoice_no", inv.InvoiceNo).Msg("No notifier configured, skipping notification")
		return false
	}
	if strings.TrimSpace(inv.CustomerMobile) == "" {
		return false
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	sent := s.notifier.SendInvoiceNotification(ctx, inv)
	log := logger.Tag(ctx, s.log)
	event := log.Info()
	if !sent {
		event = log.Warn()
	}
	event.Str("invoice_no", inv.InvoiceNo).Bool("sent", sent).Msg("Invoice notification")
	return sent
}
