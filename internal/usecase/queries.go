package usecase

import (
	"context"
	"log/slog"
	"time"

	domain "github.com/dhnam02/crm-api/internal/entity"
)

// maxListRows caps every list-all query. The API exposes no pagination, so
// the cap is a server-side guard rather than a contract; hitting it is
// logged, not an error.
const maxListRows = 10000

type Queries struct {
	customers CustomerRepo
	products  ProductRepo
	orders    OrderRepo
	log       *slog.Logger
}

func NewQueries(customers CustomerRepo, products ProductRepo, orders OrderRepo, log *slog.Logger) *Queries {
	return &Queries{customers: customers, products: products, orders: orders, log: log}
}

func (q *Queries) AllCustomers(ctx context.Context) ([]domain.Customer, error) {
	rows, err := q.customers.List(ctx, maxListRows)
	if err != nil {
		return nil, err
	}
	q.warnIfCapped(ctx, "customers", len(rows))
	return rows, nil
}

func (q *Queries) AllProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := q.products.List(ctx, maxListRows)
	if err != nil {
		return nil, err
	}
	q.warnIfCapped(ctx, "products", len(rows))
	return rows, nil
}

func (q *Queries) AllOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := q.orders.List(ctx, maxListRows)
	if err != nil {
		return nil, err
	}
	q.warnIfCapped(ctx, "orders", len(rows))
	return rows, nil
}

// OrdersSince feeds the reminder job: orders placed at or after since,
// each paired with its customer's email.
func (q *Queries) OrdersSince(ctx context.Context, since time.Time) ([]OrderWithCustomer, error) {
	rows, err := q.orders.ListSince(ctx, since, maxListRows)
	if err != nil {
		return nil, err
	}
	q.warnIfCapped(ctx, "orders_since", len(rows))
	return rows, nil
}

func (q *Queries) warnIfCapped(_ context.Context, what string, n int) {
	if n >= maxListRows && q.log != nil {
		q.log.Warn("list query hit row cap", "collection", what, "cap", maxListRows)
	}
}
