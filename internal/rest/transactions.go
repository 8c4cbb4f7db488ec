package rest

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/erp/storefront/internal/api"
	"github.com/shopspring/decimal"
)

// TransactionType classifies an inventory movement.
type TransactionType string

// Transaction types as named by the backend.
const (
	TransactionTypeImport  TransactionType = "import"
	TransactionTypeSale    TransactionType = "sale"
	TransactionTypeReserve TransactionType = "reserve"
)

// Transaction is an immutable ledger entry of inventory movement tied to a
// stock variation. Imports reference the supplying provider.
type Transaction struct {
	ID               string          `json:"id"`
	Type             TransactionType `json:"type"`
	StockVariationID string          `json:"stockVariationId"`
	ProviderID       string          `json:"providerId,omitempty"`
	EmployeeID       string          `json:"employeeId,omitempty"`
	Quantity         int             `json:"quantity"`
	UnitCost         decimal.Decimal `json:"unitCost"`
	CreatedAt        time.Time       `json:"createdAt"`
}

// TransactionQuery holds list filters for transactions.
type TransactionQuery struct {
	Page        int
	PageSize    int
	Type        TransactionType
	WarehouseID string
	Search      string
	From        *time.Time
	To          *time.Time
}

// CreateTransactionInput carries the fields for a new ledger entry.
type CreateTransactionInput struct {
	Type             TransactionType `json:"type" validate:"required,oneof=import sale reserve"`
	StockVariationID string          `json:"stockVariationId" validate:"required"`
	ProviderID       string          `json:"providerId" validate:"required_if=Type import"`
	EmployeeID       string          `json:"employeeId"`
	Quantity         int             `json:"quantity" validate:"required,gt=0"`
	UnitCost         decimal.Decimal `json:"unitCost"`
}

// TransactionService wraps the inventory-transaction endpoints.
type TransactionService struct {
	client *api.Client
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(client *api.Client) *TransactionService {
	return &TransactionService{client: client}
}

// List fetches one page of transactions. The endpoint is 1-based.
func (s *TransactionService) List(ctx context.Context, q TransactionQuery) (api.Page[Transaction], error) {
	query := url.Values{}
	query.Set("page", strconv.Itoa(q.Page))
	query.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.Type != "" {
		query.Set("type", string(q.Type))
	}
	if q.WarehouseID != "" {
		query.Set("warehouseId", q.WarehouseID)
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

	body, err := s.client.GetRaw(ctx, "/transactions", query)
	if err != nil {
		return api.Page[Transaction]{}, err
	}
	return api.DecodePage[Transaction](body, q.Page, q.PageSize, false)
}

// Create records a new inventory movement and returns the stored entry.
func (s *TransactionService) Create(ctx context.Context, input CreateTransactionInput) (*Transaction, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}
	var t Transaction
	if err := s.client.Post(ctx, "/transactions", input, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
