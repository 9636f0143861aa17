package database

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bizbooks/internal/logger"
	"bizbooks/internal/models"
)

// SeedDemoData adds a small catalogue and one customer. Existing rows are left alone.
func SeedDemoData(db *gorm.DB) error {
	log := logger.WithComponent("seeder")

	products := []models.Product{
		{Name: "LED Bulb 9W", Category: "Electricals", UnitPrice: decimal.RequireFromString("120.00"),
			CGSTRate: decimal.NewFromInt(9), SGSTRate: decimal.NewFromInt(9)},
		{Name: "PVC Pipe 1in", Category: "Plumbing", UnitPrice: decimal.RequireFromString("85.50"),
			CGSTRate: decimal.NewFromInt(6), SGSTRate: decimal.NewFromInt(6)},
		{Name: "Installation Service", Category: "Services", UnitPrice: decimal.RequireFromString("500.00")},
	}
	for _, p := range products {
		var product models.Product
		if err := db.Where(models.Product{Name: p.Name}).Attrs(p).FirstOrCreate(&product).Error; err != nil {
			log.Error().Err(err).Str("product", p.Name).Msg("Failed to seed product")
			return err
		}
	}

	customer := models.Customer{
		Name:    "Walk-in Customer",
		Email:   "walkin@example.com",
		Phone:   "9000000000",
		Address: "Counter sale",
	}
	var existing models.Customer
	if err := db.Where(models.Customer{Email: customer.Email}).Attrs(customer).FirstOrCreate(&existing).Error; err != nil {
		log.Error().Err(err).Msg("Failed to seed customer")
		return err
	}

	log.Info().Int("products", len(products)).Msg("Demo data seeded")
	return nil
}
