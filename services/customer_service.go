package services

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"salonpro-crm/models"
)

const (
	BackendFile     = "file"
	BackendDatabase = "database"
)

// CustomerService is the contract the HTTP layer depends on. Both the file
// store and the database store implement it.
type CustomerService interface {
	ListAll(ctx context.Context) ([]models.Customer, error)
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*models.Customer, error)
	SearchByName(ctx context.Context, term string) ([]models.Customer, error)
	Create(ctx context.Context, input CreateCustomerInput) (*models.Customer, error)
	Update(ctx context.Context, id string, input UpdateCustomerInput) (*models.Customer, error)
	AddVisit(ctx context.Context, id string, servicesTaken []string, notes string) (*models.ServiceVisit, error)
	Delete(ctx context.Context, id string) (bool, error)

	// Backend names the active storage, BackendFile or BackendDatabase.
	Backend() string
	Close() error
}

// CreateCustomerInput carries the fields accepted when creating a customer.
// Uniqueness of PhoneNumber is checked by the caller.
type CreateCustomerInput struct {
	Name            string
	PhoneNumber     string
	PreferredStyles []string
	Notes           string
}

// UpdateCustomerInput is a partial update. Nil fields and empty strings are
// left unchanged; a non-nil PreferredStyles replaces the list, even when empty.
type UpdateCustomerInput struct {
	Name            *string
	PhoneNumber     *string
	PreferredStyles *[]string
	Notes           *string
}

func (in UpdateCustomerInput) applyTo(c *models.Customer) {
	if in.Name != nil && *in.Name != "" {
		c.Name = *in.Name
	}
	if in.PhoneNumber != nil && *in.PhoneNumber != "" {
		c.PhoneNumber = *in.PhoneNumber
	}
	if in.PreferredStyles != nil {
		styles := *in.PreferredStyles
		if styles == nil {
			styles = []string{}
		}
		c.UpdatePreferredStyles(styles)
	}
	if in.Notes != nil && *in.Notes != "" {
		c.UpdateNotes(*in.Notes)
	}
}

func sortByName(customers []models.Customer) {
	slices.SortStableFunc(customers, func(a, b models.Customer) int {
		return cmp.Compare(a.Name, b.Name)
	})
}

func nameMatches(name, term string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(term))
}
