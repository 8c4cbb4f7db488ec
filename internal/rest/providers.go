package rest

import (
	"context"

	"github.com/erp/storefront/internal/api"
)

// Provider is a supplier contact referenced by import transactions.
type Provider struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContactName string `json:"contactName"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Address     string `json:"address"`
}

// ProviderInput carries the editable provider fields. Create and update
// both return the full stored record, which is what allows the store layer
// to patch its local copy instead of refetching.
type ProviderInput struct {
	Name        string `json:"name" validate:"required"`
	ContactName string `json:"contactName"`
	Phone       string `json:"phone" validate:"omitempty,min=6"`
	Email       string `json:"email" validate:"omitempty,email"`
	Address     string `json:"address"`
}

// ProviderService wraps the provider (supplier) endpoints.
type ProviderService struct {
	client *api.Client
}

// NewProviderService creates a new ProviderService
func NewProviderService(client *api.Client) *ProviderService {
	return &ProviderService{client: client}
}

// List fetches all providers. The list is small enough to hold client-side.
func (s *ProviderService) List(ctx context.Context) ([]Provider, error) {
	var providers []Provider
	if err := s.client.Get(ctx, "/providers", nil, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

// Create creates a provider and returns the stored record.
func (s *ProviderService) Create(ctx context.Context, input ProviderInput) (*Provider, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	var p Provider
	if err := s.client.Post(ctx, "/providers", input, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update updates a provider and returns the stored record.
func (s *ProviderService) Update(ctx context.Context, id string, input ProviderInput) (*Provider, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	var p Provider
	if err := s.client.Put(ctx, "/providers/"+id, input, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete deletes a provider.
func (s *ProviderService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/providers/"+id)
}
