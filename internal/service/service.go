// Package service holds the record-keeping services for customers, vendors,
// products and vendor (purchase) invoices. Sales invoices live in package invoice.
package service

import (
	"context"
	"time"

	"bizbooks/internal/models"
)

type CustomerStore interface {
	List(ctx context.Context) ([]models.Customer, error)
	FindByID(ctx context.Context, id uint) (*models.Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	Search(ctx context.Context, term string) ([]models.Customer, error)
	Save(ctx context.Context, c *models.Customer) error
	Delete(ctx context.Context, c *models.Customer) error
}

type VendorStore interface {
	VendorLookup
	List(ctx context.Context) ([]models.Vendor, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByPhone(ctx context.Context, phone string) (bool, error)
	ExistsByGSTNumber(ctx context.Context, gst string) (bool, error)
	Search(ctx context.Context, term string) ([]models.Vendor, error)
	Save(ctx context.Context, v *models.Vendor) error
	Delete(ctx context.Context, v *models.Vendor) error
}

// VendorLookup resolves the vendor a purchase invoice refers to.
type VendorLookup interface {
	FindByID(ctx context.Context, id uint) (*models.Vendor, error)
}

type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	Search(ctx context.Context, term string) ([]models.Product, error)
	Save(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, p *models.Product) error
}

type VendorInvoiceStore interface {
	Transaction(ctx context.Context, fn func(tx VendorInvoiceStore) error) error
	Save(ctx context.Context, inv *models.VendorInvoice) error
	Delete(ctx context.Context, inv *models.VendorInvoice) error
	FindByID(ctx context.Context, id uint) (*models.VendorInvoice, error)
	FindByInvoiceNo(ctx context.Context, invoiceNo string) (*models.VendorInvoice, error)
	ExistsByInvoiceNo(ctx context.Context, invoiceNo string) (bool, error)
	List(ctx context.Context) ([]models.VendorInvoice, error)
	FindByVendorID(ctx context.Context, vendorID uint) ([]models.VendorInvoice, error)
	FindByVendorName(ctx context.Context, name string) ([]models.VendorInvoice, error)
	FindByVendorPhone(ctx context.Context, phone string) ([]models.VendorInvoice, error)
	FindByDateRange(ctx context.Context, from, to time.Time) ([]models.VendorInvoice, error)
}
