package rest

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/erp/storefront/internal/api"
	"github.com/shopspring/decimal"
)

// DiscountType distinguishes percentage from fixed-amount discounts.
type DiscountType string

// Discount types as named by the backend.
const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// Discount status ids as assigned by the backend.
const (
	DiscountStatusActive   = 1
	DiscountStatusInactive = 2
)

// Discount mirrors the backend discount record. There is no partial-patch
// endpoint; updates always resend the full record.
type Discount struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Value         decimal.Decimal `json:"value"`
	Type          DiscountType    `json:"type"`
	UsageLimit    int             `json:"usageLimit"`
	StatusID      int             `json:"statusId"`
	MinOrderValue decimal.Decimal `json:"minOrderValue"`
	MaxOrderValue decimal.Decimal `json:"maxOrderValue"`
	StartsAt      time.Time       `json:"startsAt"`
	EndsAt        time.Time       `json:"endsAt"`
}

// Active reports whether the discount's status id marks it active.
func (d *Discount) Active() bool {
	return d.StatusID == DiscountStatusActive
}

// DiscountQuery holds list filters for discounts.
type DiscountQuery struct {
	Page     int
	PageSize int
	Search   string
	StatusID int
}

// DiscountInput carries the full editable discount record for create and
// update.
type DiscountInput struct {
	Code          string          `json:"code" validate:"required"`
	Value         decimal.Decimal `json:"value" validate:"required"`
	Type          DiscountType    `json:"type" validate:"required,oneof=percentage fixed"`
	UsageLimit    int             `json:"usageLimit" validate:"gte=0"`
	StatusID      int             `json:"statusId" validate:"oneof=1 2"`
	MinOrderValue decimal.Decimal `json:"minOrderValue"`
	MaxOrderValue decimal.Decimal `json:"maxOrderValue"`
	StartsAt      time.Time       `json:"startsAt"`
	EndsAt        time.Time       `json:"endsAt"`
}

// DiscountService wraps the discount endpoints.
type DiscountService struct {
	client *api.Client
}

// NewDiscountService creates a new DiscountService
func NewDiscountService(client *api.Client) *DiscountService {
	return &DiscountService{client: client}
}

// List fetches one page of discounts. The endpoint is 1-based.
func (s *DiscountService) List(ctx context.Context, q DiscountQuery) (api.Page[Discount], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.StatusID != 0 {
		query.Set("statusId", strconv.Itoa(q.StatusID))
	}

	body, err := s.client.GetRaw(ctx, "/discounts", query)
	if err != nil {
		return api.Page[Discount]{}, err
	}
	return api.DecodePage[Discount](body, q.Page, q.PageSize, false)
}

// Create creates a discount and returns the stored record.
func (s *DiscountService) Create(ctx context.Context, input DiscountInput) (*Discount, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	var d Discount
	if err := s.client.Post(ctx, "/discounts", input, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Update resends the full discount record and returns the stored record.
func (s *DiscountService) Update(ctx context.Context, id string, input DiscountInput) (*Discount, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	var d Discount
	if err := s.client.Put(ctx, "/discounts/"+id, input, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// ToggleStatus flips the discount's status id and resends the full record.
func (s *DiscountService) ToggleStatus(ctx context.Context, d Discount) (*Discount, error) {
	statusID := DiscountStatusActive
	if d.StatusID == DiscountStatusActive {
		statusID = DiscountStatusInactive
	}
	input := DiscountInput{
		Code:          d.Code,
		Value:         d.Value,
		Type:          d.Type,
		UsageLimit:    d.UsageLimit,
		StatusID:      statusID,
		MinOrderValue: d.MinOrderValue,
		MaxOrderValue: d.MaxOrderValue,
		StartsAt:      d.StartsAt,
		EndsAt:        d.EndsAt,
	}
	return s.Update(ctx, d.ID, input)
}

// Delete deletes a discount.
func (s *DiscountService) Delete(ctx context.Context, id string) error {
	return s.client.Delete(ctx, "/discounts/"+id)
}
