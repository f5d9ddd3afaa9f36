package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNonPositivePrice = errors.New("price must be positive")
	ErrNegativeStock    = errors.New("stock cannot be negative")
)

type Product struct {
	ID        string
	Name      string
	Price     decimal.Decimal
	Stock     int
	CreatedAt time.Time
}

func (p *Product) Validate() error {
	if !p.Price.IsPositive() {
		return ErrNonPositivePrice
	}
	if p.Stock < 0 {
		return ErrNegativeStock
	}
	return nil
}
