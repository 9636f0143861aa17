package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizbooks/internal/apperr"
	"bizbooks/internal/invoice"
	"bizbooks/internal/logger"
	"bizbooks/internal/models"
	"bizbooks/internal/repository"
	"bizbooks/internal/testutil"
)

var now = time.Date(2026, time.October, 14, 12, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newInvoiceService(t *testing.T) (*invoice.Service, *repository.InvoiceRepository) {
	t.Helper()
	repo := repository.NewInvoiceRepository(testutil.OpenDB(t))
	svc := invoice.NewService(repo,
		invoice.WithClock(func() time.Time { return now }),
		invoice.WithLogger(logger.Nop()),
	)
	return svc, repo
}

func salesDraft(customer string, items ...models.InvoiceItem) *models.Invoice {
	return &models.Invoice{CustomerName: customer, CustomerMobile: "9876543210", Items: items}
}

func line(name string, qty int, price string) models.InvoiceItem {
	return models.InvoiceItem{ItemName: name, Quantity: qty, UnitPrice: dec(price), CGSTRate: dec("9"), SGSTRate: dec("9")}
}

func TestInvoiceRepositoryRoundTrip(t *testing.T) {
	svc, repo := newInvoiceService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, salesDraft("Asha", line("Widget", 2, "100.00"), line("Gadget", 1, "100.00")))
	require.NoError(t, err)
	assert.Equal(t, "INV202610141230", created.InvoiceNo)

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "354.00", loaded.TotalAmount.StringFixed(2))
	assert.Equal(t, models.PaymentPending, loaded.PaymentStatus)
	require.Len(t, loaded.Items, 2)
	assert.Equal(t, "Widget", loaded.Items[0].ItemName)
	assert.Equal(t, "18.00", loaded.Items[0].CGSTAmount.StringFixed(2))
	assert.Equal(t, "236.00", loaded.Items[0].TotalPrice.StringFixed(2))

	byNo, err := repo.FindByInvoiceNo(ctx, created.InvoiceNo)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byNo.ID)

	latest, err := repo.FindLatestInvoiceNumber(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.InvoiceNo, latest)
}

func TestInvoiceRepositoryMissingRows(t *testing.T) {
	_, repo := newInvoiceService(t)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, 42)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = repo.FindByInvoiceNo(ctx, "INV000001")
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	latest, err := repo.FindLatestInvoiceNumber(ctx)
	require.NoError(t, err)
	assert.Empty(t, latest)

	taken, err := repo.ExistsByInvoiceNo(ctx, "INV000001")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestInvoiceRepositoryUniqueNumberIsConflict(t *testing.T) {
	_, repo := newInvoiceService(t)
	ctx := context.Background()

	first := &models.Invoice{InvoiceNo: "INV000001", CustomerName: "Asha", InvoiceDate: now,
		PaymentStatus: models.PaymentPending, TotalAmount: dec("10.00")}
	require.NoError(t, repo.Save(ctx, first))

	dup := &models.Invoice{InvoiceNo: "INV000001", CustomerName: "Ravi", InvoiceDate: now,
		PaymentStatus: models.PaymentPending, TotalAmount: dec("10.00")}
	err := repo.Save(ctx, dup)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestInvoiceSequenceContinuesFromLatest(t *testing.T) {
	svc, _ := newInvoiceService(t)
	ctx := context.Background()

	supplied := salesDraft("Asha", line("Widget", 1, "10.00"))
	supplied.InvoiceNo = "INV000042"
	_, err := svc.Create(ctx, supplied)
	require.NoError(t, err)

	next, err := svc.Create(ctx, salesDraft("Ravi", line("Widget", 1, "10.00")))
	require.NoError(t, err)
	assert.Equal(t, "INV000043", next.InvoiceNo)

	_, err = svc.Create(ctx, supplied)
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestInvoiceUpdateReplacesItemRows(t *testing.T) {
	svc, repo := newInvoiceService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, salesDraft("Asha", line("Widget", 2, "100.00"), line("Gadget", 1, "100.00")))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, salesDraft("Asha", line("Bolt", 3, "50.00")))
	require.NoError(t, err)
	assert.Equal(t, "177.00", updated.TotalAmount.StringFixed(2))

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, "Bolt", loaded.Items[0].ItemName)
	assert.Equal(t, "177.00", loaded.TotalAmount.StringFixed(2))

	var rows int64
	require.NoError(t, repo.DB().Model(&models.InvoiceItem{}).Count(&rows).Error)
	assert.Equal(t, int64(1), rows)
}

func TestInvoiceStatusChangeKeepsItems(t *testing.T) {
	svc, repo := newInvoiceService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, salesDraft("Asha", line("Widget", 1, "10.00")))
	require.NoError(t, err)
	itemID := created.Items[0].ID

	_, err = svc.UpdateStatus(ctx, created.ID, "paid")
	require.NoError(t, err)

	loaded, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPaid, loaded.PaymentStatus)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, itemID, loaded.Items[0].ID)
}

func TestInvoiceDeleteRemovesItems(t *testing.T) {
	svc, repo := newInvoiceService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, salesDraft("Asha", line("Widget", 1, "10.00"), line("Gadget", 1, "20.00")))
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	var rows int64
	require.NoError(t, repo.DB().Model(&models.InvoiceItem{}).Count(&rows).Error)
	assert.Zero(t, rows)
}

func TestInvoiceTransactionRollsBack(t *testing.T) {
	_, repo := newInvoiceService(t)
	ctx := context.Background()

	err := repo.Transaction(ctx, func(tx invoice.Store) error {
		inv := &models.Invoice{InvoiceNo: "INV000001", CustomerName: "Asha", InvoiceDate: now,
			PaymentStatus: models.PaymentPending, TotalAmount: dec("10.00")}
		if err := tx.Save(ctx, inv); err != nil {
			return err
		}
		return apperr.Validation("test", "items", "forced failure")
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	taken, err := repo.ExistsByInvoiceNo(ctx, "INV000001")
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestInvoiceQueries(t *testing.T) {
	svc, repo := newInvoiceService(t)
	ctx := context.Background()

	ravi := salesDraft("Ravi Kumar", line("Widget", 2, "100.00"))
	ravi.CustomerMobile = "9000000001"
	ravi.PaymentStatus = models.PaymentPaid
	ravi.InvoiceDate = now.AddDate(0, 0, -3)
	_, err := svc.Create(ctx, ravi)
	require.NoError(t, err)

	asha := salesDraft("Asha", line("Gadget", 1, "50.00"))
	asha.PaymentStatus = models.PaymentOverdue
	_, err = svc.Create(ctx, asha)
	require.NoError(t, err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Asha", list[0].CustomerName)
	assert.Len(t, list[1].Items, 1)

	found, err := repo.Search(ctx, "ravi")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	found, err = repo.Search(ctx, "9000000001")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	byName, err := repo.FindByCustomerName(ctx, "KUMAR")
	require.NoError(t, err)
	assert.Len(t, byName, 1)

	byMobile, err := repo.FindByCustomerMobile(ctx, "9876543210")
	require.NoError(t, err)
	assert.Len(t, byMobile, 1)

	ranged, err := repo.FindByDateRange(ctx, now.AddDate(0, 0, -5), now.AddDate(0, 0, -1))
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "Ravi Kumar", ranged[0].CustomerName)

	overdue, err := repo.FindByStatus(ctx, models.PaymentOverdue)
	require.NoError(t, err)
	assert.Len(t, overdue, 1)

	stats, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalInvoices)
	assert.Equal(t, "236.00", stats.TotalRevenue.StringFixed(2))
	assert.Equal(t, int64(1), stats.PaidInvoices)
	assert.Equal(t, int64(0), stats.PendingInvoices)
	assert.Equal(t, int64(1), stats.OverdueInvoices)
	assert.Equal(t, int64(2), stats.RecentInvoicesCount)

	october, err := svc.MonthlyRevenue(ctx, 2026, time.October)
	require.NoError(t, err)
	assert.Equal(t, "236.00", october.Revenue.StringFixed(2))
}

func TestInvoiceRecentFiltersOnInvoiceDate(t *testing.T) {
	svc, repo := newInvoiceService(t)
	ctx := context.Background()

	old := salesDraft("Asha", line("Widget", 1, "10.00"))
	old.InvoiceDate = now.AddDate(0, -3, 0)
	_, err := svc.Create(ctx, old)
	require.NoError(t, err)

	_, err = svc.Create(ctx, salesDraft("Ravi", line("Gadget", 1, "20.00")))
	require.NoError(t, err)

	since := now.AddDate(0, 0, -30)
	recent, err := repo.FindSince(ctx, since)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "Ravi", recent[0].CustomerName)

	n, err := repo.CountSince(ctx, since)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
