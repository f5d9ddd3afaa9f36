package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/dhnam02/crm-api/internal/entity"
)

type CustomerRepo interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, limit int) ([]domain.Customer, error)
	Count(ctx context.Context) (int, error)
	// WithinTx runs fn against a transactional view of the repo and commits
	// when fn returns nil. An error from fn rolls the transaction back.
	WithinTx(ctx context.Context, fn func(CustomerRepo) error) error
}

type ProductRepo interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context, limit int) ([]domain.Product, error)
	ListLowStock(ctx context.Context, threshold int) ([]domain.Product, error)
	AddStock(ctx context.Context, id string, delta int) error
	WithinTx(ctx context.Context, fn func(ProductRepo) error) error
}

type OrderRepo interface {
	// Create persists the order row and its product associations
	// (o.ProductIDs) atomically; a failed association leaves no order behind.
	Create(ctx context.Context, o *domain.Order) error
	List(ctx context.Context, limit int) ([]domain.Order, error)
	ListSince(ctx context.Context, since time.Time, limit int) ([]OrderWithCustomer, error)
	Count(ctx context.Context) (int, error)
	// TotalRevenue sums the stored total_amount of every order. Totals are
	// frozen at order creation; current product prices never enter here.
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
}

// OrderWithCustomer is the read shape for the reminder flow (kept out of domain).
type OrderWithCustomer struct {
	Order         domain.Order
	CustomerEmail string
}

// EventPublisher fans entity-created events out to the message broker.
// Publishing is best effort; mutations succeed even when the broker is down.
type EventPublisher interface {
	CustomerCreated(ctx context.Context, c domain.Customer) error
	OrderCreated(ctx context.Context, o domain.Order) error
}
