package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"bizbooks/internal/models"
	"bizbooks/internal/service"
)

type VendorRepository struct {
	db *gorm.DB
}

var _ service.VendorStore = (*VendorRepository)(nil)

func NewVendorRepository(db *gorm.DB) *VendorRepository {
	return &VendorRepository{db: db}
}

func (r *VendorRepository) List(ctx context.Context) ([]models.Vendor, error) {
	return findAll[models.Vendor](r.db.WithContext(ctx).Order("name ASC"), "repository.Vendor.List")
}

func (r *VendorRepository) FindByID(ctx context.Context, id uint) (*models.Vendor, error) {
	q := r.db.WithContext(ctx).Where("id = ?", id)
	return findOne[models.Vendor](q, "repository.Vendor.FindByID", fmt.Sprintf("vendor %d not found", id))
}

func (r *VendorRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return exists[models.Vendor](r.db.WithContext(ctx).Where("email = ?", email), "repository.Vendor.ExistsByEmail")
}

func (r *VendorRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return exists[models.Vendor](r.db.WithContext(ctx).Where("phone = ?", phone), "repository.Vendor.ExistsByPhone")
}

func (r *VendorRepository) ExistsByGSTNumber(ctx context.Context, gst string) (bool, error) {
	return exists[models.Vendor](r.db.WithContext(ctx).Where("gst_number = ?", gst), "repository.Vendor.ExistsByGSTNumber")
}

func (r *VendorRepository) Search(ctx context.Context, term string) ([]models.Vendor, error) {
	pattern := likePattern(term)
	q := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ? OR LOWER(gst_number) LIKE ?",
			pattern, pattern, pattern, pattern).
		Order("name ASC")
	return findAll[models.Vendor](q, "repository.Vendor.Search")
}

func (r *VendorRepository) Save(ctx context.Context, v *models.Vendor) error {
	return translate("repository.Vendor.Save", r.db.WithContext(ctx).Save(v).Error)
}

func (r *VendorRepository) Delete(ctx context.Context, v *models.Vendor) error {
	return translate("repository.Vendor.Delete", r.db.WithContext(ctx).Delete(v).Error)
}
