package repo

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/dhnam02/crm-api/internal/entity"
	"github.com/dhnam02/crm-api/internal/usecase"
)

// In-memory repositories for local development and handler tests. Insertion
// order is preserved, matching the "repository-native order" the list
// queries promise. WithinTx is a plain mutex scope: single-process use only.

type MemoryCustomerRepo struct {
	mu        sync.RWMutex
	customers []domain.Customer
}

func NewMemoryCustomerRepo() *MemoryCustomerRepo { return &MemoryCustomerRepo{} }

func (r *MemoryCustomerRepo) Create(_ context.Context, c *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, have := range r.customers {
		if have.Email == c.Email {
			return usecase.ErrEmailTaken
		}
	}
	r.customers = append(r.customers, *c)
	return nil
}

func (r *MemoryCustomerRepo) GetByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.customers {
		if r.customers[i].ID == id {
			c := r.customers[i]
			return &c, nil
		}
	}
	return nil, usecase.ErrNotFound
}

func (r *MemoryCustomerRepo) EmailExists(_ context.Context, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.customers {
		if c.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *MemoryCustomerRepo) List(_ context.Context, limit int) ([]domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.customers)
	if n > limit {
		n = limit
	}
	return append([]domain.Customer(nil), r.customers[:n]...), nil
}

func (r *MemoryCustomerRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.customers), nil
}

func (r *MemoryCustomerRepo) WithinTx(_ context.Context, fn func(usecase.CustomerRepo) error) error {
	// no isolation to offer in-process; run fn against self
	return fn(r)
}

var _ usecase.CustomerRepo = (*MemoryCustomerRepo)(nil)

type MemoryProductRepo struct {
	mu       sync.RWMutex
	products []domain.Product
}

func NewMemoryProductRepo() *MemoryProductRepo { return &MemoryProductRepo{} }

func (r *MemoryProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = append(r.products, *p)
	return nil
}

func (r *MemoryProductRepo) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.products {
		if r.products[i].ID == id {
			p := r.products[i]
			return &p, nil
		}
	}
	return nil, usecase.ErrNotFound
}

func (r *MemoryProductRepo) List(_ context.Context, limit int) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.products)
	if n > limit {
		n = limit
	}
	return append([]domain.Product(nil), r.products[:n]...), nil
}

func (r *MemoryProductRepo) ListLowStock(_ context.Context, threshold int) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var low []domain.Product
	for _, p := range r.products {
		if p.Stock < threshold {
			low = append(low, p)
		}
	}
	return low, nil
}

func (r *MemoryProductRepo) AddStock(_ context.Context, id string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.products {
		if r.products[i].ID == id {
			r.products[i].Stock += delta
			return nil
		}
	}
	return usecase.ErrNotFound
}

func (r *MemoryProductRepo) WithinTx(_ context.Context, fn func(usecase.ProductRepo) error) error {
	return fn(r)
}

var _ usecase.ProductRepo = (*MemoryProductRepo)(nil)

type MemoryOrderRepo struct {
	mu        sync.RWMutex
	orders    []domain.Order
	assoc     map[string][]string
	customers *MemoryCustomerRepo
}

func NewMemoryOrderRepo(customers *MemoryCustomerRepo) *MemoryOrderRepo {
	return &MemoryOrderRepo{assoc: map[string][]string{}, customers: customers}
}

func (r *MemoryOrderRepo) Create(_ context.Context, o *domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders = append(r.orders, *o)
	r.assoc[o.ID] = append([]string(nil), o.ProductIDs...)
	return nil
}

func (r *MemoryOrderRepo) List(_ context.Context, limit int) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := len(r.orders)
	if n > limit {
		n = limit
	}
	out := append([]domain.Order(nil), r.orders[:n]...)
	for i := range out {
		out[i].ProductIDs = append([]string(nil), r.assoc[out[i].ID]...)
	}
	return out, nil
}

func (r *MemoryOrderRepo) ListSince(ctx context.Context, since time.Time, limit int) ([]usecase.OrderWithCustomer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []usecase.OrderWithCustomer
	for _, o := range r.orders {
		if o.OrderDate.Before(since) {
			continue
		}
		email := ""
		if r.customers != nil {
			if c, err := r.customers.GetByID(ctx, o.CustomerID); err == nil {
				email = c.Email
			}
		}
		out = append(out, usecase.OrderWithCustomer{Order: o, CustomerEmail: email})
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryOrderRepo) Count(_ context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.orders), nil
}

func (r *MemoryOrderRepo) TotalRevenue(_ context.Context) (decimal.Decimal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := decimal.Zero
	for _, o := range r.orders {
		total = total.Add(o.TotalAmount)
	}
	return total, nil
}

var _ usecase.OrderRepo = (*MemoryOrderRepo)(nil)
