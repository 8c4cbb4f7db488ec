package rest

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/erp/storefront/internal/api"
)

// Notification is an admin-authored announcement, possibly still a draft.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Draft     bool      `json:"draft"`
	CreatedAt time.Time `json:"createdAt"`
}

// NotificationQuery holds list filters for notifications.
type NotificationQuery struct {
	Page     int
	PageSize int
	Search   string
	Draft    *bool
}

// CreateNotificationInput carries the fields for a new notification.
type CreateNotificationInput struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Draft   bool   `json:"draft"`
}

// UpdateNotificationInput carries the mutable notification fields.
type UpdateNotificationInput struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	Draft   bool   `json:"draft"`
}

// NotificationService wraps the notification endpoints.
type NotificationService struct {
	client *api.Client
}

// NewNotificationService creates a new NotificationService
func NewNotificationService(client *api.Client) *NotificationService {
	return &NotificationService{client: client}
}

// Get fetches a notification by id.
func (s *NotificationService) Get(ctx context.Context, id string) (*Notification, error) {
	var n Notification
	if err := s.client.Get(ctx, "/notifications/"+id, nil, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// List fetches one page of notifications. The endpoint is 1-based.
func (s *NotificationService) List(ctx context.Context, q NotificationQuery) (api.Page[Notification], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.Draft != nil {
		query.Set("draft", strconv.FormatBool(*q.Draft))
	}

	body, err := s.client.GetRaw(ctx, "/notifications", query)
	if err != nil {
		return api.Page[Notification]{}, err
	}
	return api.DecodePage[Notification](body, q.Page, q.PageSize, false)
}

// Create creates a notification and returns the stored record.
func (s *NotificationService) Create(ctx context.Context, input CreateNotificationInput) (*Notification, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	var n Notification
	if err := s.client.Post(ctx, "/notifications", input, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Update updates a notification and returns the stored record.
func (s *NotificationService) Update(ctx context.Context, id string, input UpdateNotificationInput) (*Notification, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	var n Notification
	if err := s.client.Put(ctx, "/notifications/"+id, input, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

// Delete deletes a notification.
func (s *NotificationService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/notifications/"+id)
}
