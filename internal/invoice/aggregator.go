package invoice

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"bizbooks/internal/apperr"
	"bizbooks/internal/models"
	"bizbooks/internal/money"
)

// RecomputeTotal sums the TotalPrice of items. An empty list totals zero.
func RecomputeTotal(items []models.InvoiceItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.TotalPrice)
	}
	return total
}

// ValidateForPersistence recomputes inv.TotalAmount from its items and then checks
// every invariant an invoice must hold before it is written.
func ValidateForPersistence(inv *models.Invoice) error {
	const op = "invoice.ValidateForPersistence"

	inv.TotalAmount = RecomputeTotal(inv.Items)

	if strings.TrimSpace(inv.InvoiceNo) == "" {
		return apperr.Validation(op, "invoice_no", "invoice number is required")
	}
	if strings.TrimSpace(inv.CustomerName) == "" {
		return apperr.Validation(op, "customer_name", "customer name is required")
	}
	if !inv.PaymentStatus.Valid() {
		return apperr.Validation(op, "payment_status", fmt.Sprintf("invalid payment status %q", inv.PaymentStatus))
	}
	if len(inv.Items) == 0 {
		return apperr.Validation(op, "items", "invoice must contain at least one item")
	}
	for i, item := range inv.Items {
		field := fmt.Sprintf("items[%d]", i)
		switch {
		case item.Quantity <= 0:
			return apperr.Validation(op, field+".quantity", "all items must have positive quantity")
		case !money.IsPositive(item.UnitPrice):
			return apperr.Validation(op, field+".unit_price", "all items must have positive unit price")
		case !money.IsPositive(item.TotalPrice):
			return apperr.Validation(op, field+".total_price", "all items must have positive total price")
		}
	}
	if !money.IsPositive(inv.TotalAmount) {
		return apperr.Validation(op, "total_amount",
			fmt.Sprintf("invoice total must be greater than 0, got %s", money.Format(inv.TotalAmount)))
	}
	return nil
}

// AddItem calculates item, appends it to inv and refreshes the total.
func AddItem(inv *models.Invoice, item models.InvoiceItem) error {
	item.ID = 0
	item.InvoiceID = inv.ID
	if err := ApplyItem(&item); err != nil {
		return err
	}
	inv.Items = append(inv.Items, item)
	inv.TotalAmount = RecomputeTotal(inv.Items)
	return nil
}

// RemoveItem drops the item at index and refreshes the total.
func RemoveItem(inv *models.Invoice, index int) error {
	if index < 0 || index >= len(inv.Items) {
		return apperr.Validation("invoice.RemoveItem", "items", fmt.Sprintf("no item at position %d", index))
	}
	items := make([]models.InvoiceItem, 0, len(inv.Items)-1)
	items = append(items, inv.Items[:index]...)
	items = append(items, inv.Items[index+1:]...)
	inv.Items = items
	inv.TotalAmount = RecomputeTotal(inv.Items)
	return nil
}

// ReplaceItems discards the current items of inv and attaches freshly calculated
// copies of items. inv is left untouched when any item is invalid.
func ReplaceItems(inv *models.Invoice, items []models.InvoiceItem) error {
	replaced := make([]models.InvoiceItem, 0, len(items))
	for i, item := range items {
		item.ID = 0
		item.InvoiceID = inv.ID
		if err := ApplyItem(&item); err != nil {
			return itemError(i, err)
		}
		replaced = append(replaced, item)
	}
	inv.Items = replaced
	inv.TotalAmount = RecomputeTotal(inv.Items)
	return nil
}

// ClearItems removes every item. The invoice is not persistable until items are added again.
func ClearItems(inv *models.Invoice) {
	inv.Items = nil
	inv.TotalAmount = decimal.Zero
}

// itemError prefixes the field of a validation error with the item position.
func itemError(index int, err error) error {
	var appErr *apperr.Error
	if !errors.As(err, &appErr) {
		return err
	}
	prefixed := *appErr
	prefixed.Field = fmt.Sprintf("items[%d].%s", index, appErr.Field)
	return &prefixed
}
