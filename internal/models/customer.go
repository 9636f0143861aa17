package models

import (
	"time"
)

type Customer struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:100;not null;index" json:"name"`
	Email         string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone         string    `gorm:"size:15;uniqueIndex;not null" json:"phone"`
	Address       string    `gorm:"type:text" json:"address"`
	WhatsappOptIn bool      `gorm:"default:false" json:"whatsapp_opt_in"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
