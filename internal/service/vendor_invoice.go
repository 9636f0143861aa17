package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"bizbooks/internal/apperr"
	"bizbooks/internal/invoice"
	"bizbooks/internal/logger"
	"bizbooks/internal/models"
)

// VendorInvoiceService records purchase invoices. Item totals and invoice sums are
// always recomputed with the sales invoice calculator.
type VendorInvoiceService struct {
	store   VendorInvoiceStore
	vendors VendorLookup
	now     func() time.Time
	log     zerolog.Logger
}

func NewVendorInvoiceService(store VendorInvoiceStore, vendors VendorLookup) *VendorInvoiceService {
	return &VendorInvoiceService{
		store:   store,
		vendors: vendors,
		now:     time.Now,
		log:     logger.WithComponent("vendor_invoice"),
	}
}

// calculateVendorInvoice fills the derived amounts of inv and its items.
func calculateVendorInvoice(op string, inv *models.VendorInvoice) error {
	if len(inv.Items) == 0 {
		return apperr.Validation(op, "items", "invoice must contain at least one item")
	}

	subtotal, tax := decimal.Zero, decimal.Zero
	for i := range inv.Items {
		item := &inv.Items[i]
		amounts, err := invoice.CalculateItem(invoice.ItemInput{
			ItemName:  item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			CGSTRate:  item.CGSTPercent,
			SGSTRate:  item.SGSTPercent,
		})
		if err != nil {
			var appErr *apperr.Error
			if errors.As(err, &appErr) {
				return apperr.Validation(op, fmt.Sprintf("items[%d].%s", i, appErr.Field), appErr.Message)
			}
			return err
		}
		item.ProductName = strings.TrimSpace(item.ProductName)
		item.TaxAmount = amounts.TaxAmount
		item.Total = amounts.TotalPrice
		subtotal = subtotal.Add(amounts.Subtotal)
		tax = tax.Add(amounts.TaxAmount)
	}

	inv.Subtotal = subtotal
	inv.TotalTax = tax
	inv.GrandTotal = subtotal.Add(tax)
	return nil
}

// prepare normalises draft, resolves its vendor and computes every amount.
func (s *VendorInvoiceService) prepare(ctx context.Context, op string, draft *models.VendorInvoice) (*models.VendorInvoice, error) {
	inv := *draft
	inv.Items = append([]models.VendorInvoiceItem(nil), draft.Items...)
	inv.InvoiceNo = strings.TrimSpace(inv.InvoiceNo)

	if inv.InvoiceNo == "" {
		return nil, apperr.Validation(op, "invoice_no", "invoice number is required")
	}
	if inv.VendorID == 0 {
		return nil, apperr.Validation(op, "vendor_id", "vendor is required")
	}

	vendor, err := s.vendors.FindByID(ctx, inv.VendorID)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, apperr.Validation(op, "vendor_id", fmt.Sprintf("vendor %d does not exist", inv.VendorID))
	}
	if err != nil {
		return nil, apperr.Storage(op, err)
	}
	if strings.TrimSpace(inv.VendorName) == "" {
		inv.VendorName = vendor.Name
	}
	if strings.TrimSpace(inv.VendorAddress) == "" {
		inv.VendorAddress = vendor.Address
	}
	if strings.TrimSpace(inv.VendorPhone) == "" {
		inv.VendorPhone = vendor.Phone
	}
	if inv.DateTime.IsZero() {
		inv.DateTime = s.now()
	}

	if err := calculateVendorInvoice(op, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *VendorInvoiceService) Create(ctx context.Context, draft *models.VendorInvoice) (*models.VendorInvoice, error) {
	const op = "vendor_invoice.Create"

	inv, err := s.prepare(ctx, op, draft)
	if err != nil {
		return nil, err
	}
	inv.ID = 0

	err = s.store.Transaction(ctx, func(tx VendorInvoiceStore) error {
		taken, err := tx.ExistsByInvoiceNo(ctx, inv.InvoiceNo)
		if err != nil {
			return err
		}
		if taken {
			return apperr.Conflict(op, "invoice_no", fmt.Sprintf("vendor invoice %s already exists", inv.InvoiceNo))
		}
		return tx.Save(ctx, inv)
	})
	if err != nil {
		return nil, apperr.Storage(op, err)
	}

	s.log.Info().
		Uint("vendor_invoice_id", inv.ID).
		Str("invoice_no", inv.InvoiceNo).
		Str("grand_total", inv.GrandTotal.StringFixed(2)).
		Msg("Vendor invoice created")
	return inv, nil
}

// Update replaces vendor invoice id, including its items.
func (s *VendorInvoiceService) Update(ctx context.Context, id uint, draft *models.VendorInvoice) (*models.VendorInvoice, error) {
	const op = "vendor_invoice.Update"

	inv, err := s.prepare(ctx, op, draft)
	if err != nil {
		return nil, err
	}

	err = s.store.Transaction(ctx, func(tx VendorInvoiceStore) error {
		existing, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if existing.InvoiceNo != inv.InvoiceNo {
			taken, err := tx.ExistsByInvoiceNo(ctx, inv.InvoiceNo)
			if err != nil {
				return err
			}
			if taken {
				return apperr.Conflict(op, "invoice_no", fmt.Sprintf("vendor invoice %s already exists", inv.InvoiceNo))
			}
		}
		inv.ID = existing.ID
		inv.CreatedAt = existing.CreatedAt
		return tx.Save(ctx, inv)
	})
	if err != nil {
		return nil, apperr.Storage(op, err)
	}

	s.log.Info().Uint("vendor_invoice_id", id).Msg("Vendor invoice updated")
	return inv, nil
}

func (s *VendorInvoiceService) Delete(ctx context.Context, id uint) error {
	const op = "vendor_invoice.Delete"

	err := s.store.Transaction(ctx, func(tx VendorInvoiceStore) error {
		existing, err := tx.FindByID(ctx, id)
		if err != nil {
			return err
		}
		return tx.Delete(ctx, existing)
	})
	if err != nil {
		return apperr.Storage(op, err)
	}
	s.log.Info().Uint("vendor_invoice_id", id).Msg("Vendor invoice deleted")
	return nil
}

func (s *VendorInvoiceService) Get(ctx context.Context, id uint) (*models.VendorInvoice, error) {
	inv, err := s.store.FindByID(ctx, id)
	return inv, apperr.Storage("vendor_invoice.Get", err)
}

func (s *VendorInvoiceService) GetByNumber(ctx context.Context, invoiceNo string) (*models.VendorInvoice, error) {
	inv, err := s.store.FindByInvoiceNo(ctx, strings.TrimSpace(invoiceNo))
	return inv, apperr.Storage("vendor_invoice.GetByNumber", err)
}

func (s *VendorInvoiceService) List(ctx context.Context) ([]models.VendorInvoice, error) {
	invoices, err := s.store.List(ctx)
	return invoices, apperr.Storage("vendor_invoice.List", err)
}

func (s *VendorInvoiceService) ByVendorID(ctx context.Context, vendorID uint) ([]models.VendorInvoice, error) {
	invoices, err := s.store.FindByVendorID(ctx, vendorID)
	return invoices, apperr.Storage("vendor_invoice.ByVendorID", err)
}

func (s *VendorInvoiceService) ByVendorName(ctx context.Context, name string) ([]models.VendorInvoice, error) {
	invoices, err := s.store.FindByVendorName(ctx, strings.TrimSpace(name))
	return invoices, apperr.Storage("vendor_invoice.ByVendorName", err)
}

func (s *VendorInvoiceService) ByVendorPhone(ctx context.Context, phone string) ([]models.VendorInvoice, error) {
	invoices, err := s.store.FindByVendorPhone(ctx, strings.TrimSpace(phone))
	return invoices, apperr.Storage("vendor_invoice.ByVendorPhone", err)
}

// ByNumber returns the invoice numbered invoiceNo as a list of zero or one entries.
func (s *VendorInvoiceService) ByNumber(ctx context.Context, invoiceNo string) ([]models.VendorInvoice, error) {
	inv, err := s.GetByNumber(ctx, invoiceNo)
	if errors.Is(err, apperr.ErrNotFound) {
		return []models.VendorInvoice{}, nil
	}
	if err != nil {
		return nil, err
	}
	return []models.VendorInvoice{*inv}, nil
}

func (s *VendorInvoiceService) ByDateRange(ctx context.Context, from, to time.Time) ([]models.VendorInvoice, error) {
	const op = "vendor_invoice.ByDateRange"
	if to.Before(from) {
		return nil, apperr.Validation(op, "end_date", "end date must not be before start date")
	}
	invoices, err := s.store.FindByDateRange(ctx, from, to)
	return invoices, apperr.Storage(op, err)
}
