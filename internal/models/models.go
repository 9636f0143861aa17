package models

// All lists every model migrated by AutoMigrate, parents before children.
func All() []interface{} {
	return []interface{}{
		&Customer{},
		&Vendor{},
		&Product{},
		&Invoice{},
		&InvoiceItem{},
		&VendorInvoice{},
		&VendorInvoiceItem{},
	}
}
