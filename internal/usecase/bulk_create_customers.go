package usecase

import (
	"context"
	"fmt"
	"log/slog"

	domain "github.com/dhnam02/crm-api/internal/entity"
)

type BulkCreateCustomersOutput struct {
	Customers []domain.Customer
	Errors    []string
}

// BulkCreateCustomers creates many customers in one storage transaction.
// Items are validated independently: a failed item is recorded under its
// input index and skipped, the rest of the batch proceeds. Only a failure
// of the transaction itself aborts the whole batch.
type BulkCreateCustomers struct {
	repo   CustomerRepo
	events EventPublisher
	log    *slog.Logger
}

func NewBulkCreateCustomers(repo CustomerRepo, events EventPublisher, log *slog.Logger) *BulkCreateCustomers {
	return &BulkCreateCustomers{repo: repo, events: events, log: log}
}

func (uc *BulkCreateCustomers) Execute(ctx context.Context, in []CreateCustomerInput) (BulkCreateCustomersOutput, error) {
	var out BulkCreateCustomersOutput
	err := uc.repo.WithinTx(ctx, func(tx CustomerRepo) error {
		for idx, item := range in {
			c, err := insertCustomer(ctx, tx, item)
			if err != nil {
				if IsValidation(err) {
					out.Errors = append(out.Errors, fmt.Sprintf("Customer %d: %s", idx, err.Error()))
					continue
				}
				// storage failure, not bad input: abort and roll back
				return err
			}
			out.Customers = append(out.Customers, *c)
		}
		return nil
	})
	if err != nil {
		return BulkCreateCustomersOutput{}, &TxError{Err: err}
	}

	// events go out only after the batch committed
	for i := range out.Customers {
		publishCustomerCreated(ctx, uc.events, uc.log, out.Customers[i])
	}
	return out, nil
}
