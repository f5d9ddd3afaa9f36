package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/dhnam02/crm-api/internal/entity"
)

// In-memory repos backing the usecase tests. WithinTx runs fn against a
// scratch copy and swaps it in on commit, so rollback semantics hold.

type memCustomerRepo struct {
	customers  []domain.Customer
	failCommit bool
}

func (r *memCustomerRepo) Create(_ context.Context, c *domain.Customer) error {
	for _, have := range r.customers {
		if have.Email == c.Email {
			return ErrEmailTaken
		}
	}
	r.customers = append(r.customers, *c)
	return nil
}

func (r *memCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	for i := range r.customers {
		if r.customers[i].ID == id {
			c := r.customers[i]
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memCustomerRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, c := range r.customers {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *memCustomerRepo) List(_ context.Context, limit int) ([]domain.Customer, error) {
	if len(r.customers) > limit {
		return append([]domain.Customer(nil), r.customers[:limit]...), nil
	}
	return append([]domain.Customer(nil), r.customers...), nil
}

func (r *memCustomerRepo) Count(_ context.Context) (int, error) {
	return len(r.customers), nil
}

func (r *memCustomerRepo) WithinTx(_ context.Context, fn func(CustomerRepo) error) error {
	scratch := &memCustomerRepo{customers: append([]domain.Customer(nil), r.customers...)}
	if err := fn(scratch); err != nil {
		return err
	}
	if r.failCommit {
		return errors.New("disk full")
	}
	r.customers = scratch.customers
	return nil
}

type memProductRepo struct {
	products   []domain.Product
	failCommit bool
}

func (r *memProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.products = append(r.products, *p)
	return nil
}

func (r *memProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	for i := range r.products {
		if r.products[i].ID == id {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (r *memProductRepo) List(_ context.Context, limit int) ([]domain.Product, error) {
	if len(r.products) > limit {
		return append([]domain.Product(nil), r.products[:limit]...), nil
	}
	return append([]domain.Product(nil), r.products...), nil
}

func (r *memProductRepo) ListLowStock(_ context.Context, threshold int) ([]domain.Product, error) {
	var low []domain.Product
	for _, p := range r.products {
		if p.Stock < threshold {
			low = append(low, p)
		}
	}
	return low, nil
}

func (r *memProductRepo) AddStock(_ context.Context, id string, delta int) error {
	for i := range r.products {
		if r.products[i].ID == id {
			r.products[i].Stock += delta
			return nil
		}
	}
	return ErrNotFound
}

func (r *memProductRepo) WithinTx(_ context.Context, fn func(ProductRepo) error) error {
	scratch := &memProductRepo{products: append([]domain.Product(nil), r.products...)}
	if err := fn(scratch); err != nil {
		return err
	}
	if r.failCommit {
		return errors.New("disk full")
	}
	r.products = scratch.products
	return nil
}

type memOrderRepo struct {
	orders    []domain.Order
	assoc     map[string][]string
	customers *memCustomerRepo // for reminder emails
}

func newMemOrderRepo(customers *memCustomerRepo) *memOrderRepo {
	return &memOrderRepo{assoc: map[string][]string{}, customers: customers}
}

// Create mirrors the storage layout: the (order_id, product_id) pair is a
// primary key, so a repeated id reaching the association is an error and
// nothing of the order persists.
func (r *memOrderRepo) Create(_ context.Context, o *domain.Order) error {
	seen := map[string]bool{}
	for _, pid := range o.ProductIDs {
		if seen[pid] {
			return errors.New("duplicate entry for key 'order_products.PRIMARY'")
		}
		seen[pid] = true
	}
	r.orders = append(r.orders, *o)
	r.assoc[o.ID] = append([]string(nil), o.ProductIDs...)
	return nil
}

func (r *memOrderRepo) List(_ context.Context, limit int) ([]domain.Order, error) {
	if len(r.orders) > limit {
		return append([]domain.Order(nil), r.orders[:limit]...), nil
	}
	return append([]domain.Order(nil), r.orders...), nil
}

func (r *memOrderRepo) ListSince(_ context.Context, since time.Time, limit int) ([]OrderWithCustomer, error) {
	var out []OrderWithCustomer
	for _, o := range r.orders {
		if o.OrderDate.Before(since) {
			continue
		}
		email := ""
		if r.customers != nil {
			if c, err := r.customers.GetByID(context.Background(), o.CustomerID); err == nil {
				email = c.Email
			}
		}
		out = append(out, OrderWithCustomer{Order: o, CustomerEmail: email})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *memOrderRepo) Count(_ context.Context) (int, error) {
	return len(r.orders), nil
}

func (r *memOrderRepo) TotalRevenue(_ context.Context) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, o := range r.orders {
		total = total.Add(o.TotalAmount)
	}
	return total, nil
}

type memPublisher struct {
	customerEvents []domain.Customer
	orderEvents    []domain.Order
	fail           bool
}

func (p *memPublisher) CustomerCreated(_ context.Context, c domain.Customer) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.customerEvents = append(p.customerEvents, c)
	return nil
}

func (p *memPublisher) OrderCreated(_ context.Context, o domain.Order) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.orderEvents = append(p.orderEvents, o)
	return nil
}
