package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bizbooks/internal/models"
	"bizbooks/internal/service"
)

type CustomerRepository struct {
	db *gorm.DB
}

var _ service.CustomerStore = (*CustomerRepository)(nil)

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	return findAll[models.Customer](r.db.WithContext(ctx).Order("name ASC"), "repository.Customer.List")
}

func (r *CustomerRepository) FindByID(ctx context.Context, id uint) (*models.Customer, error) {
	q := r.db.WithContext(ctx).Where("id = ?", id)
	return findOne[models.Customer](q, "repository.Customer.FindByID", fmt.Sprintf("customer %d not found", id))
}

func (r *CustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists[models.Customer](r.db.WithContext(ctx).Where("email = ?", email), "repository.Customer.ExistsByEmail")
}

func (r *CustomerRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return exists[models.Customer](r.db.WithContext(ctx).Where("phone = ?", phone), "repository.Customer.ExistsByPhone")
}

func (r *CustomerRepository) Search(ctx context.Context, term string) ([]models.Customer, error) {
	pattern := likePattern(term)
	q := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?", pattern, pattern, pattern).
		Order("name ASC")
	return findAll[models.Customer](q, "repository.Customer.Search")
}

func (r *CustomerRepository) Save(ctx context.Context, c *models.Customer) error {
	return translate("repository.Customer.Save", r.db.WithContext(ctx).Save(c).Error)
}

func (r *CustomerRepository) Delete(ctx context.Context, c *models.Customer) error {
	return translate("repository.Customer.Delete", r.db.WithContext(ctx).Delete(c).Error)
}
