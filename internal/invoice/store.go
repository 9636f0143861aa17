package invoice

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"bizbooks/internal/models"
)

// Store persists invoices together with their items.
//
// Lookups of absent records return an apperr.ErrNotFound error. Writes that
// violate the unique invoice number return apperr.ErrConflict.
type Store interface {
	// Transaction runs fn against a Store bound to one atomic unit of work.
	// The unit commits when fn returns nil and rolls back otherwise.
	Transaction(ctx context.Context, fn func(tx Store) error) error

	// Save inserts inv when its ID is zero and updates it otherwise, assigning IDs.
	// Items not present in inv.Items are removed.
	Save(ctx context.Context, inv *models.Invoice) error
	Delete(ctx context.Context, inv *models.Invoice) error

	FindByID(ctx context.Context, id uint) (*models.Invoice, error)
	FindByInvoiceNo(ctx context.Context, invoiceNo string) (*models.Invoice, error)
	ExistsByInvoiceNo(ctx context.Context, invoiceNo string) (bool, error)
	// FindLatestInvoiceNumber returns the number of the most recently inserted
	// invoice, or "" when there is none.
	FindLatestInvoiceNumber(ctx context.Context) (string, error)

	Finder
}

// Finder holds the read-only queries. Results are ordered newest first.
type Finder interface {
	List(ctx context.Context) ([]models.Invoice, error)
	Search(ctx context.Context, term string) ([]models.Invoice, error)
	FindByCustomerName(ctx context.Context, name string) ([]models.Invoice, error)
	FindByCustomerMobile(ctx context.Context, mobile string) ([]models.Invoice, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]models.Invoice, error)
	FindSince(ctx context.Context, since time.Time) ([]models.Invoice, error)
	FindByStatus(ctx context.Context, status models.PaymentStatus) ([]models.Invoice, error)

	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.PaymentStatus) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	// PaidRevenue sums TotalAmount of PAID invoices dated in [from, to).
	// A zero bound leaves that side open.
	PaidRevenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

// Notifier delivers an invoice message to the customer's mobile number.
// It reports success and never fails the caller.
type Notifier interface {
	SendInvoiceNotification(ctx context.Context, inv *models.Invoice) bool
}
