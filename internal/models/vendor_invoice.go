package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// VendorInvoice is a purchase invoice received from a Vendor.
type VendorInvoice struct {
	ID            uint                `gorm:"primaryKey" json:"id"`
	InvoiceNo     string              `gorm:"size:50;uniqueIndex;not null" json:"invoice_no"`
	VendorID      uint                `gorm:"index;not null" json:"vendor_id"`
	VendorName    string              `gorm:"size:100;not null;index" json:"vendor_name"`
	VendorAddress string              `gorm:"size:255" json:"vendor_address"`
	VendorPhone   string              `gorm:"size:15;index" json:"vendor_phone"`
	DateTime      time.Time           `gorm:"not null;index" json:"date_time"`
	Subtotal      decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	TotalTax      decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"total_tax"`
	GrandTotal    decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"grand_total"`
	Items         []VendorInvoiceItem `gorm:"foreignKey:VendorInvoiceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type VendorInvoiceItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	VendorInvoiceID uint            `gorm:"index;not null" json:"vendor_invoice_id"`
	ProductID       uint            `gorm:"not null" json:"product_id"`
	ProductName     string          `gorm:"size:150;not null" json:"product_name"`
	Category        string          `gorm:"size:100" json:"category"`
	Quantity        int             `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	CGSTPercent     decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"cgst_percent"`
	SGSTPercent     decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"sgst_percent"`
	TaxAmount       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
}
