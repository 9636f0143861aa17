package models

import "time"

type Vendor struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:100;not null;index" json:"name"`
	Email       string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone       string    `gorm:"size:10;uniqueIndex;not null" json:"phone"`
	Address     string    `gorm:"size:255;not null" json:"address"`
	GSTNumber   string    `gorm:"column:gst_number;size:15;uniqueIndex;not null" json:"gst_number"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
