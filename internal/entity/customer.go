package domain

import (
	"errors"
	"time"
)

var ErrEmptyName = errors.New("name is required")

type Customer struct {
	ID        string
	Name      string
	Email     string
	Phone     string // optional, empty means not provided
	CreatedAt time.Time
}

func (c *Customer) Validate() error {
	if c.Name == "" {
		return ErrEmptyName
	}
	return nil
}
