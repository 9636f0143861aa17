package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"bizbooks/internal/models"
	"bizbooks/internal/service"
)

type VendorInvoiceRepository struct {
	db *gorm.DB
}

var _ service.VendorInvoiceStore = (*VendorInvoiceRepository)(nil)

func NewVendorInvoiceRepository(db *gorm.DB) *VendorInvoiceRepository {
	return &VendorInvoiceRepository{db: db}
}

func latestPurchaseFirst(db *gorm.DB) *gorm.DB {
	return db.Order("date_time DESC").Order("id DESC")
}

func (r *VendorInvoiceRepository) Transaction(ctx context.Context, fn func(tx service.VendorInvoiceStore) error) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&VendorInvoiceRepository{db: tx})
	})
	return translate("repository.VendorInvoice.Transaction", err)
}

// Save inserts or updates inv and replaces its items.
func (r *VendorInvoiceRepository) Save(ctx context.Context, inv *models.VendorInvoice) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if inv.ID == 0 {
			return tx.Create(inv).Error
		}
		if err := tx.Where("vendor_invoice_id = ?", inv.ID).Delete(&models.VendorInvoiceItem{}).Error; err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Save(inv).Error; err != nil {
			return err
		}
		for i := range inv.Items {
			inv.Items[i].ID = 0
			inv.Items[i].VendorInvoiceID = inv.ID
		}
		if len(inv.Items) == 0 {
			return nil
		}
		return tx.Create(&inv.Items).Error
	})
	return translate("repository.VendorInvoice.Save", err)
}

func (r *VendorInvoiceRepository) Delete(ctx context.Context, inv *models.VendorInvoice) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vendor_invoice_id = ?", inv.ID).Delete(&models.VendorInvoiceItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.VendorInvoice{}, inv.ID).Error
	})
	return translate("repository.VendorInvoice.Delete", err)
}

func (r *VendorInvoiceRepository) FindByID(ctx context.Context, id uint) (*models.VendorInvoice, error) {
	q := r.db.WithContext(ctx).Preload("Items", orderedItems).Where("id = ?", id)
	return findOne[models.VendorInvoice](q, "repository.VendorInvoice.FindByID", fmt.Sprintf("vendor invoice %d not found", id))
}

func (r *VendorInvoiceRepository) FindByInvoiceNo(ctx context.Context, invoiceNo string) (*models.VendorInvoice, error) {
	q := r.db.WithContext(ctx).Preload("Items", orderedItems).Where("invoice_no = ?", invoiceNo)
	return findOne[models.VendorInvoice](q, "repository.VendorInvoice.FindByInvoiceNo",
		fmt.Sprintf("vendor invoice %s not found", invoiceNo))
}

func (r *VendorInvoiceRepository) ExistsByInvoiceNo(ctx context.Context, invoiceNo string) (bool, error) {
	q := r.db.WithContext(ctx).Where("invoice_no = ?", invoiceNo)
	return exists[models.VendorInvoice](q, "repository.VendorInvoice.ExistsByInvoiceNo")
}

func (r *VendorInvoiceRepository) find(ctx context.Context, op string, scope func(*gorm.DB) *gorm.DB) ([]models.VendorInvoice, error) {
	q := r.db.WithContext(ctx).Scopes(scope, latestPurchaseFirst).Preload("Items", orderedItems)
	return findAll[models.VendorInvoice](q, op)
}

func (r *VendorInvoiceRepository) List(ctx context.Context) ([]models.VendorInvoice, error) {
	return r.find(ctx, "repository.VendorInvoice.List", func(db *gorm.DB) *gorm.DB { return db })
}

func (r *VendorInvoiceRepository) FindByVendorID(ctx context.Context, vendorID uint) ([]models.VendorInvoice, error) {
	return r.find(ctx, "repository.VendorInvoice.FindByVendorID", func(db *gorm.DB) *gorm.DB {
		return db.Where("vendor_id = ?", vendorID)
	})
}

func (r *VendorInvoiceRepository) FindByVendorName(ctx context.Context, name string) ([]models.VendorInvoice, error) {
	return r.find(ctx, "repository.VendorInvoice.FindByVendorName", func(db *gorm.DB) *gorm.DB {
		return db.Where("LOWER(vendor_name) LIKE ?", likePattern(name))
	})
}

func (r *VendorInvoiceRepository) FindByVendorPhone(ctx context.Context, phone string) ([]models.VendorInvoice, error) {
	return r.find(ctx, "repository.VendorInvoice.FindByVendorPhone", func(db *gorm.DB) *gorm.DB {
		return db.Where("vendor_phone = ?", phone)
	})
}

func (r *VendorInvoiceRepository) FindByDateRange(ctx context.Context, from, to time.Time) ([]models.VendorInvoice, error) {
	return r.find(ctx, "repository.VendorInvoice.FindByDateRange", func(db *gorm.DB) *gorm.DB {
		return db.Where("date_time >= ? AND date_time <= ?", from, to)
	})
}
