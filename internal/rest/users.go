package rest

import (
	"context"
	"time"

	"github.com/erp/storefront/internal/api"
)

// User is the authenticated customer or back-office employee record.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// UpdateUserInput carries the editable profile fields.
type UpdateUserInput struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"omitempty,min=6"`
	Address string `json:"address"`
}

// UserService wraps the user endpoints.
type UserService struct {
	client *api.Client
}

// NewUserService creates a new UserService
func NewUserService(client *api.Client) *UserService {
	return &UserService{client: client}
}

// Get fetches a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*User, error) {
	var user User
	if err := s.client.Get(ctx, "/users/"+id, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates a user's profile and returns the updated record.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*User, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	var user User
	if err := s.client.Put(ctx, "/users/"+id, input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
