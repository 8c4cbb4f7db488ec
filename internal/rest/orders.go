package rest

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/erp/storefront/internal/api"
	"github.com/shopspring/decimal"
)

// OrderStatus is the server-owned order state. The client never enforces
// transition legality; it only triggers transition requests and re-fetches.
type OrderStatus string

// Order statuses as named by the backend.
const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipping   OrderStatus = "shipping"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusDenied     OrderStatus = "denied"
)

// OrderItem is a line item carrying the price at time of purchase.
type OrderItem struct {
	VariationID string          `json:"variationId"`
	Name        string          `json:"name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
}

// Address is a billing or shipping address.
type Address struct {
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2"`
	City       string `json:"city" validate:"required"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode" validate:"required"`
	Country    string `json:"country" validate:"required"`
}

// Order mirrors the backend order record.
type Order struct {
	ID             string          `json:"id"`
	Status         OrderStatus     `json:"status"`
	Items          []OrderItem     `json:"items"`
	BillingAddress Address         `json:"billingAddress"`
	TaxRate        decimal.Decimal `json:"taxRate"`
	Total          decimal.Decimal `json:"total"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// OrderQuery holds list filters for orders.
type OrderQuery struct {
	Page     int
	PageSize int
	Status   OrderStatus
	Search   string
	From     *time.Time
	To       *time.Time
	SortBy   string
}

// OrderService wraps the order endpoints.
type OrderService struct {
	client *api.Client
}

// NewOrderService creates a new OrderService
func NewOrderService(client *api.Client) *OrderService {
	return &OrderService{client: client}
}

// Get fetches an order by id.
func (s *OrderService) Get(ctx context.Context, id string) (*Order, error) {
	var order Order
	if err := s.client.Get(ctx, "/orders/"+id, nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// List fetches one page of orders. The order endpoint counts pages from 0,
// so the client's 1-based page is translated at this boundary.
func (s *OrderService) List(ctx context.Context, q OrderQuery) (api.Page[Order], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page-1))
	query.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.Status != "" {
		query.Set("status", string(q.Status))
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}
	if q.From != nil {
		query.Set("from", q.From.Format(time.RFC3339))
	}
	if q.To != nil {
		query.Set("to", q.To.Format(time.RFC3339))
	}
	if q.SortBy != "" {
		query.Set("sortBy", q.SortBy)
	}

	body, err := s.client.GetRaw(ctx, "/orders", query)
	if err != nil {
		return api.Page[Order]{}, err
	}
	return api.DecodePage[Order](body, q.Page, q.PageSize, true)
}

// Cancel requests cancellation and returns the re-fetched order.
func (s *OrderService) Cancel(ctx context.Context, id string) (*Order, error) {
	return s.transition(ctx, id, "cancel")
}

// Approve approves an order under review and returns the re-fetched order.
func (s *OrderService) Approve(ctx context.Context, id string) (*Order, error) {
	return s.transition(ctx, id, "approve")
}

// Reject rejects an order under review and returns the re-fetched order.
func (s *OrderService) Reject(ctx context.Context, id string) (*Order, error) {
	return s.transition(ctx, id, "reject")
}

// Ship marks an order as shipped and returns the re-fetched order.
func (s *OrderService) Ship(ctx context.Context, id string) (*Order, error) {
	return s.transition(ctx, id, "ship")
}

// transition posts a status-transition request and re-fetches the order.
// The server is the sole authority on transition legality.
func (s *OrderService) transition(ctx context.Context, id, action string) (*Order, error) {
	if err := s.client.Post(ctx, "/orders/"+id+"/"+action, nil, nil); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}
