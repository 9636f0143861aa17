package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"bizbooks/internal/apperr"
	"bizbooks/internal/logger"
	"bizbooks/internal/models"
)

type VendorService struct {
	store VendorStore
	log   zerolog.Logger
}

func NewVendorService(store VendorStore) *VendorService {
	return &VendorService{store: store, log: logger.WithComponent("vendor")}
}

func normalizeVendor(v *models.Vendor) {
	v.Name = strings.TrimSpace(v.Name)
	v.Email = normalizeEmail(v.Email)
	v.Phone = strings.TrimSpace(v.Phone)
	v.Address = strings.TrimSpace(v.Address)
	v.GSTNumber = strings.ToUpper(strings.TrimSpace(v.GSTNumber))
	v.Description = strings.TrimSpace(v.Description)
}

func validateVendor(op string, v *models.Vendor) error {
	return check(op,
		rule{"name", v.Name, "required,min=2,max=100", "name must be between 2 and 100 characters"},
		rule{"email", v.Email, "required,email,max=100", "a valid email address of at most 100 characters is required"},
		rule{"phone", v.Phone, "len=10,number", "phone number must be exactly 10 digits"},
		rule{"address", v.Address, "required,max=255", "address is required and must not exceed 255 characters"},
		rule{"gst_number", v.GSTNumber, "len=15,alphanum", "GST number must be 15 alphanumeric characters"},
		rule{"description", v.Description, "max=255", "description must not exceed 255 characters"},
	)
}

// List returns all vendors, or those matching search when it is not blank.
func (s *VendorService) List(ctx context.Context, search string) ([]models.Vendor, error) {
	if strings.TrimSpace(search) != "" {
		return s.Search(ctx, search)
	}
	vendors, err := s.store.List(ctx)
	return vendors, apperr.Storage("vendor.List", err)
}

func (s *VendorService) Get(ctx context.Context, id uint) (*models.Vendor, error) {
	v, err := s.store.FindByID(ctx, id)
	return v, apperr.Storage("vendor.Get", err)
}

func (s *VendorService) Create(ctx context.Context, v *models.Vendor) (*models.Vendor, error) {
	const op = "vendor.Create"

	created := *v
	created.ID = 0
	normalizeVendor(&created)
	if err := validateVendor(op, &created); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, op, &created, nil); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, &created); err != nil {
		return nil, apperr.Storage(op, err)
	}

	s.log.Info().Uint("vendor_id", created.ID).Str("gst_number", created.GSTNumber).Msg("Vendor created")
	return &created, nil
}

func (s *VendorService) Update(ctx context.Context, id uint, v *models.Vendor) (*models.Vendor, error) {
	const op = "vendor.Update"

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}

	changes := *v
	normalizeVendor(&changes)
	if err := validateVendor(op, &changes); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, op, &changes, existing); err != nil {
		return nil, err
	}

	existing.Name = changes.Name
	existing.Email = changes.Email
	existing.Phone = changes.Phone
	existing.Address = changes.Address
	existing.GSTNumber = changes.GSTNumber
	existing.Description = changes.Description
	if err := s.store.Save(ctx, existing); err != nil {
		return nil, apperr.Storage(op, err)
	}

	s.log.Info().Uint("vendor_id", id).Msg("Vendor updated")
	return existing, nil
}

func (s *VendorService) ensureUnique(ctx context.Context, op string, v, current *models.Vendor) error {
	checks := []struct {
		field   string
		value   string
		changed bool
		exists  func(context.Context, string) (bool, error)
	}{
		{"email", v.Email, current == nil || current.Email != v.Email, s.store.ExistsByEmail},
		{"phone", v.Phone, current == nil || current.Phone != v.Phone, s.store.ExistsByPhone},
		{"gst_number", v.GSTNumber, current == nil || current.GSTNumber != v.GSTNumber, s.store.ExistsByGSTNumber},
	}
	for _, c := range checks {
		if !c.changed {
			continue
		}
		taken, err := c.exists(ctx, c.value)
		if err != nil {
			return apperr.Storage(op, err)
		}
		if taken {
			return apperr.Conflict(op, c.field, fmt.Sprintf("a vendor with %s %s already exists", c.field, c.value))
		}
	}
	return nil
}

func (s *VendorService) Delete(ctx context.Context, id uint) error {
	const op = "vendor.Delete"

	v, err := s.store.FindByID(ctx, id)
	if err != nil {
		return apperr.Storage(op, err)
	}
	if err := s.store.Delete(ctx, v); err != nil {
		return apperr.Storage(op, err)
	}
	s.log.Info().Uint("vendor_id", id).Msg("Vendor deleted")
	return nil
}

// Search matches term against name, email, phone and GST number.
func (s *VendorService) Search(ctx context.Context, term string) ([]models.Vendor, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx, "")
	}
	vendors, err := s.store.Search(ctx, term)
	return vendors, apperr.Storage("vendor.Search", err)
}
