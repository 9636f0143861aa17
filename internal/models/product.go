package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:150;not null;index" json:"name"`
	Category    string          `gorm:"size:100;not null;index" json:"category"`
	Description string          `gorm:"type:text" json:"description"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	CGSTRate    decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"cgst_rate"` // default rate suggested on invoice lines
	SGSTRate    decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"sgst_rate"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}
