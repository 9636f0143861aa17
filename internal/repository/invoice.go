package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizbooks/internal/invoice"
	"bizbooks/internal/models"
	"bizbooks/internal/money"
)

// InvoiceRepository stores sales invoices and their items.
type InvoiceRepository struct {
	db *gorm.DB
}

var _ invoice.Store = (*InvoiceRepository)(nil)

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// newestFirst orders invoices by invoice date, then insertion order.
func newestFirst(db *gorm.DB) *gorm.DB {
	return db.Order("invoice_date DESC").Order("id DESC")
}

func (r *InvoiceRepository) Transaction(ctx context.Context, fn func(tx invoice.Store) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&InvoiceRepository{db: tx})
	})
	return translate("repository.Invoice.Transaction", err)
}

func (r *InvoiceRepository) Save(ctx context.Context, inv *models.Invoice) error {
	const op = "repository.Invoice.Save"

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if inv.ID == 0 {
			return tx.Create(inv).Error
		}

		keep := make([]uint, 0, len(inv.Items))
		for _, item := range inv.Items {
			if item.ID != 0 {
				keep = append(keep, item.ID)
			}
		}
		stale := tx.Where("invoice_id = ?", inv.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}

		if err := tx.Omit(clause.Associations).Save(inv).Error; err != nil {
			return err
		}
		for i := range inv.Items {
			inv.Items[i].InvoiceID = inv.ID
			if err := tx.Save(&inv.Items[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return translate(op, err)
}

func (r *InvoiceRepository) Delete(ctx context.Context, inv *models.Invoice) error {
	const op = "repository.Invoice.Delete"

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", inv.ID).Delete(&models.InvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Invoice{}, inv.ID).Error
	})
	return translate(op, err)
}

func (r *InvoiceRepository) FindByID(ctx context.Context, id uint) (*models.Invoice, error) {
	q := r.db.WithContext(ctx).Preload("Items", orderedItems).Where("id = ?", id)
	return findOne[models.Invoice](q, "repository.Invoice.FindByID", fmt.Sprintf("invoice %d not found", id))
}

func (r *InvoiceRepository) FindByInvoiceNo(ctx context.Context, invoiceNo string) (*models.Invoice, error) {
	q := r.db.WithContext(ctx).Preload("Items", orderedItems).Where("invoice_no = ?", invoiceNo)
	return findOne[models.Invoice](q, "repository.Invoice.FindByInvoiceNo", fmt.Sprintf("invoice %s not found", invoiceNo))
}

func (r *InvoiceRepository) ExistsByInvoiceNo(ctx context.Context, invoiceNo string) (bool, error) {
	q := r.db.WithContext(ctx).Where("invoice_no = ?", invoiceNo)
	return exists[models.Invoice](q, "repository.Invoice.ExistsByInvoiceNo")
}

// FindLatestInvoiceNumber locks the most recently inserted invoice row so concurrent
// creators in other transactions wait for this one to commit.
func (r *InvoiceRepository) FindLatestInvoiceNumber(ctx context.Context) (string, error) {
	var latest models.Invoice
	err := forUpdate(r.db.WithContext(ctx)).
		Select("id", "invoice_no").
		Order("id DESC").
		Limit(1).
		Find(&latest).Error
	if err != nil {
		return "", translate("repository.Invoice.FindLatestInvoiceNumber", err)
	}
	return latest.InvoiceNo, nil
}

func (r *InvoiceRepository) find(ctx context.Context, op string, scopes ...func(*gorm.DB) *gorm.DB) ([]models.Invoice, error) {
	q := r.db.WithContext(ctx).Scopes(scopes...).Scopes(newestFirst).Preload("Items", orderedItems)
	return findAll[models.Invoice](q, op)
}

func (r *InvoiceRepository) List(ctx context.Context) ([]models.Invoice, error) {
	return r.find(ctx, "repository.Invoice.List")
}

func (r *InvoiceRepository) Search(ctx context.Context, term string) ([]models.Invoice, error) {
	pattern := likePattern(term)
	return r.find(ctx, "repository.Invoice.Search", func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(invoice_no) LIKE ? OR LOWER(customer_name) LIKE ? OR customer_mobile LIKE ?",
			pattern, pattern, pattern)
	})
}

func (r *InvoiceRepository) FindByCustomerName(ctx context.Context, name string) ([]models.Invoice, error) {
	return r.find(ctx, "repository.Invoice.FindByCustomerName", func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(customer_name) LIKE ?", likePattern(name))
	})
}

func (r *InvoiceRepository) FindByCustomerMobile(ctx context.Context, mobile string) ([]models.Invoice, error) {
	return r.find(ctx, "repository.Invoice.FindByCustomerMobile", func(db *gorm.DB) *gorm.DB {
		return db.Where("customer_mobile = ?", mobile)
	})
}

func (r *InvoiceRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]models.Invoice, error) {
	return r.find(ctx, "repository.Invoice.FindByDateRange", func(db *gorm.DB) *gorm.DB {
		return db.Where("invoice_date >= ? AND invoice_date <= ?", from, to)
	})
}

func (r *InvoiceRepository) FindSince(ctx context.Context, since time.Time) ([]models.Invoice, error) {
	return r.find(ctx, "repository.Invoice.FindSince", func(db *gorm.DB) *gorm.DB {
		return db.Where("invoice_date >= ?", since)
	})
}

func (r *InvoiceRepository) FindByStatus(ctx context.Context, status models.PaymentStatus) ([]models.Invoice, error) {
	return r.find(ctx, "repository.Invoice.FindByStatus", func(db *gorm.DB) *gorm.DB {
		return db.Where("payment_status = ?", status)
	})
}

func (r *InvoiceRepository) count(ctx context.Context, op string, scope func(*gorm.DB) *gorm.DB) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Invoice{}).Scopes(scope).Count(&n).Error; err != nil {
		return 0, translate(op, err)
	}
	return n, nil
}

func (r *InvoiceRepository) Count(ctx context.Context) (int64, error) {
	return r.count(ctx, "repository.Invoice.Count", func(db *gorm.DB) *gorm.DB { return db })
}

func (r *InvoiceRepository) CountByStatus(ctx context.Context, status models.PaymentStatus) (int64, error) {
	return r.count(ctx, "repository.Invoice.CountByStatus", func(db *gorm.DB) *gorm.DB {
		return db.Where("payment_status = ?", status)
	})
}

func (r *InvoiceRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	return r.count(ctx, "repository.Invoice.CountSince", func(db *gorm.DB) *gorm.DB {
		return db.Where("invoice_date >= ?", since)
	})
}

func (r *InvoiceRepository) PaidRevenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	const op = "repository.Invoice.PaidRevenue"

	q := r.db.WithContext(ctx).
		Model(&models.Invoice{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("payment_status = ?", models.PaymentPaid)
	if !from.IsZero() {
		q = q.Where("invoice_date >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("invoice_date < ?", to)
	}

	var total decimal.Decimal
	if err := q.Row().Scan(&total); err != nil {
		return decimal.Zero, translate(op, err)
	}
	return money.Round(total), nil
}
