package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bizbooks/internal/models"
	"bizbooks/internal/service"
)

// ProductRepository stores the catalogue. Deletes are soft.
type ProductRepository struct {
	db *gorm.DB
}

var _ service.ProductStore = (*ProductRepository)(nil)

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return findAll[models.Product](r.db.WithContext(ctx).Order("name ASC"), "repository.Product.List")
}

func (r *ProductRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	q := r.db.WithContext(ctx).Where("id = ?", id)
	return findOne[models.Product](q, "repository.Product.FindByID", fmt.Sprintf("product %d not found", id))
}

func (r *ProductRepository) Search(ctx context.Context, term string) ([]models.Product, error) {
	pattern := likePattern(term)
	q := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ?", pattern, pattern).
		Order("name ASC")
	return findAll[models.Product](q, "repository.Product.Search")
}

func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	return translate("repository.Product.Save", r.db.WithContext(ctx).Save(p).Error)
}

func (r *ProductRepository) Delete(ctx context.Context, p *models.Product) error {
	return translate("repository.Product.Delete", r.db.WithContext(ctx).Delete(p).Error)
}
