package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"bizbooks/internal/apperr"
	"bizbooks/internal/logger"
	"bizbooks/internal/models"
	"bizbooks/internal/money"
)

type ProductService struct {
	store ProductStore
	log   zerolog.Logger
}

func NewProductService(store ProductStore) *ProductService {
	return &ProductService{store: store, log: logger.WithComponent("product")}
}

func validateProduct(op string, p *models.Product) error {
	if err := check(op,
		rule{"name", p.Name, "required,max=150", "name is required and must not exceed 150 characters"},
		rule{"category", p.Category, "required,max=100", "category is required and must not exceed 100 characters"},
	); err != nil {
		return err
	}
	switch {
	case !money.IsPositive(p.UnitPrice):
		return apperr.Validation(op, "unit_price", "unit price must be greater than 0")
	case !money.HasValidScale(p.UnitPrice):
		return apperr.Validation(op, "unit_price", "unit price may have at most 2 decimal places")
	case p.CGSTRate.Sign() < 0:
		return apperr.Validation(op, "cgst_rate", "cgst rate must not be negative")
	case p.SGSTRate.Sign() < 0:
		return apperr.Validation(op, "sgst_rate", "sgst rate must not be negative")
	}
	return nil
}

func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.List(ctx)
	return products, apperr.Storage("product.List", err)
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.store.FindByID(ctx, id)
	return p, apperr.Storage("product.Get", err)
}

func (s *ProductService) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	const op = "product.Create"

	created := *p
	created.ID = 0
	created.Name = strings.TrimSpace(created.Name)
	created.Category = strings.TrimSpace(created.Category)
	if err := validateProduct(op, &created); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, &created); err != nil {
		return nil, apperr.Storage(op, err)
	}

	s.log.Info().Uint("product_id", created.ID).Str("name", created.Name).Msg("Product created")
	return &created, nil
}

func (s *ProductService) Update(ctx context.Context, id uint, p *models.Product) (*models.Product, error) {
	const op = "product.Update"

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}

	existing.Name = strings.TrimSpace(p.Name)
	existing.Category = strings.TrimSpace(p.Category)
	existing.Description = p.Description
	existing.UnitPrice = p.UnitPrice
	existing.CGSTRate = p.CGSTRate
	existing.SGSTRate = p.SGSTRate
	if err := validateProduct(op, existing); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, existing); err != nil {
		return nil, apperr.Storage(op, err)
	}

	s.log.Info().Uint("product_id", id).Msg("Product updated")
	return existing, nil
}

// Delete soft-deletes product id.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	const op = "product.Delete"

	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return apperr.Storage(op, err)
	}
	if err := s.store.Delete(ctx, p); err != nil {
		return apperr.Storage(op, err)
	}
	s.log.Info().Uint("product_id", id).Msg("Product deleted")
	return nil
}

// Search matches term against name and category.
func (s *ProductService) Search(ctx context.Context, term string) ([]models.Product, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx)
	}
	products, err := s.store.Search(ctx, term)
	return products, apperr.Storage("product.Search", err)
}
