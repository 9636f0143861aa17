package invoice

import (
	"strings"

	"github.com/shopspring/decimal"

	"bizbooks/internal/apperr"
	"bizbooks/internal/models"
	"bizbooks/internal/money"
)

// ItemInput is the client-supplied part of a line item.
type ItemInput struct {
	ItemName  string
	Quantity  int
	UnitPrice decimal.Decimal
	CGSTRate  decimal.Decimal // percent; zero value means no CGST
	SGSTRate  decimal.Decimal // percent; zero value means no SGST
}

// ItemAmounts holds the derived amounts of a line item.
type ItemAmounts struct {
	Subtotal   decimal.Decimal
	CGSTAmount decimal.Decimal
	SGSTAmount decimal.Decimal
	TaxAmount  decimal.Decimal
	TotalPrice decimal.Decimal
}

// CalculateItem computes the tax amounts and line total of one item.
//
// subtotal = unitPrice * quantity, each tax = round(subtotal * rate / 100),
// total = subtotal + cgst + sgst. It has no side effects.
func CalculateItem(in ItemInput) (ItemAmounts, error) {
	const op = "invoice.CalculateItem"

	if strings.TrimSpace(in.ItemName) == "" {
		return ItemAmounts{}, apperr.Validation(op, "item_name", "item name is required")
	}
	if in.Quantity < 1 {
		return ItemAmounts{}, apperr.Validation(op, "quantity", "quantity must be at least 1")
	}
	if !money.IsPositive(in.UnitPrice) {
		return ItemAmounts{}, apperr.Validation(op, "unit_price", "unit price must be greater than 0")
	}
	if !money.HasValidScale(in.UnitPrice) {
		return ItemAmounts{}, apperr.Validation(op, "unit_price", "unit price may have at most 2 decimal places")
	}
	if in.CGSTRate.Sign() < 0 {
		return ItemAmounts{}, apperr.Validation(op, "cgst_rate", "cgst rate must not be negative")
	}
	if in.SGSTRate.Sign() < 0 {
		return ItemAmounts{}, apperr.Validation(op, "sgst_rate", "sgst rate must not be negative")
	}

	subtotal := in.UnitPrice.Mul(decimal.NewFromInt(int64(in.Quantity)))
	cgst := money.Percent(subtotal, in.CGSTRate)
	sgst := money.Percent(subtotal, in.SGSTRate)
	tax := cgst.Add(sgst)

	return ItemAmounts{
		Subtotal:   subtotal,
		CGSTAmount: cgst,
		SGSTAmount: sgst,
		TaxAmount:  tax,
		TotalPrice: subtotal.Add(tax),
	}, nil
}

// ApplyItem runs CalculateItem on item and overwrites its derived amounts.
func ApplyItem(item *models.InvoiceItem) error {
	amounts, err := CalculateItem(ItemInput{
		ItemName:  item.ItemName,
		Quantity:  item.Quantity,
		UnitPrice: item.UnitPrice,
		CGSTRate:  item.CGSTRate,
		SGSTRate:  item.SGSTRate,
	})
	if err != nil {
		return err
	}

	item.ItemName = strings.TrimSpace(item.ItemName)
	item.CGSTAmount = amounts.CGSTAmount
	item.SGSTAmount = amounts.SGSTAmount
	item.TaxAmount = amounts.TaxAmount
	item.TotalPrice = amounts.TotalPrice
	return nil
}
