package usecase

import (
	"context"

	domain "github.com/dhnam02/crm-api/internal/entity"
)

type RestockLowStockOutput struct {
	Products []domain.Product // post-restock state
	Message  string
}

// RestockLowStock tops up every product whose stock fell below the threshold.
// The scan and the updates share one transaction so a half-restocked catalog
// is never visible.
type RestockLowStock struct {
	repo      ProductRepo
	threshold int
	increment int
}

func NewRestockLowStock(repo ProductRepo, threshold, increment int) *RestockLowStock {
	if threshold <= 0 {
		threshold = 10
	}
	if increment <= 0 {
		increment = 10
	}
	return &RestockLowStock{repo: repo, threshold: threshold, increment: increment}
}

func (uc *RestockLowStock) Execute(ctx context.Context) (RestockLowStockOutput, error) {
	var updated []domain.Product
	err := uc.repo.WithinTx(ctx, func(tx ProductRepo) error {
		low, err := tx.ListLowStock(ctx, uc.threshold)
		if err != nil {
			return err
		}
		for _, p := range low {
			if err := tx.AddStock(ctx, p.ID, uc.increment); err != nil {
				return err
			}
			p.Stock += uc.increment
			updated = append(updated, p)
		}
		return nil
	})
	if err != nil {
		return RestockLowStockOutput{}, &TxError{Err: err}
	}
	return RestockLowStockOutput{Products: updated, Message: "Low stock products updated"}, nil
}
