package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/dhnam02/crm-api/internal/entity"
)

type CreateProductInput struct {
	Name  string
	Price decimal.Decimal
	Stock *int // nil defaults to 0
}

type CreateProductOutput struct {
	Product *domain.Product
}

type CreateProduct struct {
	repo ProductRepo
}

func NewCreateProduct(repo ProductRepo) *CreateProduct {
	return &CreateProduct{repo: repo}
}

func (uc *CreateProduct) Execute(ctx context.Context, in CreateProductInput) (CreateProductOutput, error) {
	stock := 0
	if in.Stock != nil {
		stock = *in.Stock
	}
	p := &domain.Product{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Price:     in.Price,
		Stock:     stock,
		CreatedAt: time.Now().UTC(),
	}
	if err := p.Validate(); err != nil {
		return CreateProductOutput{}, validation(err.Error())
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return CreateProductOutput{}, err
	}
	return CreateProductOutput{Product: p}, nil
}
