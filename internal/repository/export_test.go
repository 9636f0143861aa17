package repository

import "gorm.io/gorm"

// DB exposes the handle for assertions in external tests.
func (r *InvoiceRepository) DB() *gorm.DB {
	return r.db
}
