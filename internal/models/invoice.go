package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentPending       PaymentStatus = "PENDING"
	PaymentPaid          PaymentStatus = "PAID"
	PaymentPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentCancelled     PaymentStatus = "CANCELLED"
	PaymentOverdue       PaymentStatus = "OVERDUE"
)

// PaymentStatuses lists every accepted status in display order.
var PaymentStatuses = []PaymentStatus{
	PaymentPending,
	PaymentPaid,
	PaymentPartiallyPaid,
	PaymentCancelled,
	PaymentOverdue,
}

// Valid reports whether s is one of the five known statuses.
func (s PaymentStatus) Valid() bool {
	for _, known := range PaymentStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// ParsePaymentStatus matches raw case-insensitively against the known statuses.
func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	s := PaymentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	return s, s.Valid()
}

// Invoice is a sales invoice. It exclusively owns its Items.
type Invoice struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	InvoiceNo       string          `gorm:"size:32;uniqueIndex;not null" json:"invoice_no"`
	CustomerName    string          `gorm:"size:100;not null;index" json:"customer_name"`
	CustomerMobile  string          `gorm:"size:15;index" json:"customer_mobile"`
	CustomerAddress string          `gorm:"type:text" json:"customer_address"`
	InvoiceDate     time.Time       `gorm:"not null;index" json:"invoice_date"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaymentStatus   PaymentStatus   `gorm:"size:20;not null;index" json:"payment_status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Items           []InvoiceItem   `gorm:"foreignKey:InvoiceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
}

// InvoiceItem is one line of an Invoice. The amount fields are derived and always recomputed.
type InvoiceItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	InvoiceID       uint            `gorm:"index;not null" json:"invoice_id"`
	ItemName        string          `gorm:"size:150;not null" json:"item_name"`
	ItemDescription string          `gorm:"size:255" json:"item_description"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	CGSTRate        decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"cgst_rate"`
	SGSTRate        decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"sgst_rate"`
	CGSTAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"cgst_amount"`
	SGSTAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"sgst_amount"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	TotalPrice      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
}

// InvoiceStats is the dashboard summary over all invoices.
type InvoiceStats struct {
	TotalInvoices       int64           `json:"total_invoices"`
	TotalRevenue        decimal.Decimal `json:"total_revenue"`
	PaidInvoices        int64           `json:"paid_invoices"`
	PendingInvoices     int64           `json:"pending_invoices"`
	OverdueInvoices     int64           `json:"overdue_invoices"`
	RecentInvoicesCount int64           `json:"recent_invoices_count"`
}

// MonthlyRevenue is the paid revenue of one calendar month.
type MonthlyRevenue struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
}
