package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNoCustomer = errors.New("customer is required")
	ErrNoProducts = errors.New("at least one product is required")
)

type Order struct {
	ID          string
	CustomerID  string
	ProductIDs  []string
	OrderDate   time.Time
	TotalAmount decimal.Decimal
	CreatedAt   time.Time
}

func (o *Order) Validate() error {
	if o.CustomerID == "" {
		return ErrNoCustomer
	}
	if len(o.ProductIDs) == 0 {
		return ErrNoProducts
	}
	return nil
}
