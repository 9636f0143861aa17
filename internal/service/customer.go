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

type CustomerService struct {
	store CustomerStore
	log   zerolog.Logger
}

func NewCustomerService(store CustomerStore) *CustomerService {
	return &CustomerService{store: store, log: logger.WithComponent("customer")}
}

func normalizeCustomer(c *models.Customer) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = normalizeEmail(c.Email)
	c.Phone = digitsOnly(c.Phone)
	c.Address = strings.TrimSpace(c.Address)
}

func validateCustomer(op string, c *models.Customer) error {
	return check(op,
		rule{"name", c.Name, "required,max=100", "name is required and must not exceed 100 characters"},
		rule{"email", c.Email, "required,email,max=100", "a valid email address is required"},
		rule{"phone", c.Phone, "len=10,number", "phone number must be exactly 10 digits"},
	)
}

// List returns all customers ordered by name.
func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.store.List(ctx)
	return customers, apperr.Storage("customer.List", err)
}

func (s *CustomerService) Get(ctx context.Context, id uint) (*models.Customer, error) {
	c, err := s.store.FindByID(ctx, id)
	return c, apperr.Storage("customer.Get", err)
}

// Create stores a new customer. Email and phone must be unused.
func (s *CustomerService) Create(ctx context.Context, c *models.Customer) (*models.Customer, error) {
	const op = "customer.Create"

	created := *c
	created.ID = 0
	normalizeCustomer(&created)
	if err := validateCustomer(op, &created); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, op, &created, nil); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, &created); err != nil {
		return nil, apperr.Storage(op, err)
	}

	s.log.Info().Uint("customer_id", created.ID).Msg("Customer created")
	return &created, nil
}

// Update replaces the fields of customer id. Uniqueness is only checked for changed values.
func (s *CustomerService) Update(ctx context.Context, id uint, c *models.Customer) (*models.Customer, error) {
	const op = "customer.Update"

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage(op, err)
	}

	changes := *c
	normalizeCustomer(&changes)
	if err := validateCustomer(op, &changes); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, op, &changes, existing); err != nil {
		return nil, err
	}

	existing.Name = changes.Name
	existing.Email = changes.Email
	existing.Phone = changes.Phone
	existing.Address = changes.Address
	existing.WhatsappOptIn = changes.WhatsappOptIn
	if err := s.store.Save(ctx, existing); err != nil {
		return nil, apperr.Storage(op, err)
	}

	s.log.Info().Uint("customer_id", id).Msg("Customer updated")
	return existing, nil
}

func (s *CustomerService) ensureUnique(ctx context.Context, op string, c, current *models.Customer) error {
	if current == nil || current.Email != c.Email {
		taken, err := s.store.ExistsByEmail(ctx, c.Email)
		if err != nil {
			return apperr.Storage(op, err)
		}
		if taken {
			return apperr.Conflict(op, "email", fmt.Sprintf("a customer with email %s already exists", c.Email))
		}
	}
	if current == nil || current.Phone != c.Phone {
		taken, err := s.store.ExistsByPhone(ctx, c.Phone)
		if err != nil {
			return apperr.Storage(op, err)
		}
		if taken {
			return apperr.Conflict(op, "phone", fmt.Sprintf("a customer with phone %s already exists", c.Phone))
		}
	}
	return nil
}

func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	const op = "customer.Delete"

	c, err := s.store.FindByID(ctx, id)
	if err != nil {
		return apperr.Storage(op, err)
	}
	if err := s.store.Delete(ctx, c); err != nil {
		return apperr.Storage(op, err)
	}
	s.log.Info().Uint("customer_id", id).Msg("Customer deleted")
	return nil
}

// Search matches term against name, email and phone. A blank term lists everyone.
func (s *CustomerService) Search(ctx context.Context, term string) ([]models.Customer, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return s.List(ctx)
	}
	customers, err := s.store.Search(ctx, term)
	return customers, apperr.Storage("customer.Search", err)
}

func (s *CustomerService) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	taken, err := s.store.ExistsByEmail(ctx, normalizeEmail(email))
	return taken, apperr.Storage("customer.ExistsByEmail", err)
}
