package invoice_test

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"bizbooks/internal/invoice"
)

func ExampleCalculateItem() {
	amounts, err := invoice.CalculateItem(invoice.ItemInput{
		ItemName:  "Widget",
		Quantity:  2,
		UnitPrice: decimal.RequireFromString("100.00"),
		CGSTRate:  decimal.NewFromInt(9),
		SGSTRate:  decimal.NewFromInt(9),
	})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(amounts.TaxAmount.StringFixed(2), amounts.TotalPrice.StringFixed(2))
	// Output: 36.00 236.00
}

func ExampleNextInvoiceNumber() {
	now := time.Date(2026, time.October, 14, 9, 5, 0, 0, time.UTC)
	fmt.Println(invoice.NextInvoiceNumber("INV000042", now))
	fmt.Println(invoice.NextInvoiceNumber("", now))
	// Output:
	// INV000043
	// INV202610140905
}
