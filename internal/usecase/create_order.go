package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/dhnam02/crm-api/internal/entity"
)

type CreateOrderInput struct {
	CustomerID string
	ProductIDs []string
	OrderDate  *time.Time // nil defaults to creation time
}

type CreateOrderOutput struct {
	Order *domain.Order
}

type CreateOrder struct {
	customers CustomerRepo
	products  ProductRepo
	orders    OrderRepo
	events    EventPublisher
	log       *slog.Logger
}

func NewCreateOrder(customers CustomerRepo, products ProductRepo, orders OrderRepo, events EventPublisher, log *slog.Logger) *CreateOrder {
	return &CreateOrder{customers: customers, products: products, orders: orders, events: events, log: log}
}

func (uc *CreateOrder) Execute(ctx context.Context, in CreateOrderInput) (CreateOrderOutput, error) {
	if _, err := uc.customers.GetByID(ctx, in.CustomerID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return CreateOrderOutput{}, validation("invalid customer ID")
		}
		return CreateOrderOutput{}, err
	}
	if len(in.ProductIDs) == 0 {
		return CreateOrderOutput{}, validation("at least one product is required")
	}

	// Total is the exact decimal sum of prices as observed now; it is stored
	// on the order and never recomputed from later price changes. A repeated
	// id is priced once per occurrence but associated once, keeping its
	// first position.
	total := decimal.Zero
	ids := make([]string, 0, len(in.ProductIDs))
	seen := make(map[string]bool, len(in.ProductIDs))
	for _, pid := range in.ProductIDs {
		p, err := uc.products.GetByID(ctx, pid)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return CreateOrderOutput{}, validation("invalid product ID: " + pid)
			}
			return CreateOrderOutput{}, err
		}
		total = total.Add(p.Price)
		if !seen[p.ID] {
			seen[p.ID] = true
			ids = append(ids, p.ID)
		}
	}

	now := time.Now().UTC()
	orderDate := now
	if in.OrderDate != nil {
		orderDate = *in.OrderDate
	}
	o := &domain.Order{
		ID:          uuid.NewString(),
		CustomerID:  in.CustomerID,
		ProductIDs:  ids,
		OrderDate:   orderDate,
		TotalAmount: total,
		CreatedAt:   now,
	}
	if err := o.Validate(); err != nil {
		return CreateOrderOutput{}, validation(err.Error())
	}
	if err := uc.orders.Create(ctx, o); err != nil {
		return CreateOrderOutput{}, err
	}

	if uc.events != nil {
		if err := uc.events.OrderCreated(ctx, *o); err != nil && uc.log != nil {
			uc.log.Warn("order.created publish failed", "order_id", o.ID, "err", err)
		}
	}
	return CreateOrderOutput{Order: o}, nil
}
