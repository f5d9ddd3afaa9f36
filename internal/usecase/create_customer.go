package usecase

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	domain "github.com/dhnam02/crm-api/internal/entity"
)

type CreateCustomerInput struct {
	Name  string
	Email string
	Phone string
}

type CreateCustomerOutput struct {
	Customer *domain.Customer
	Message  string
}

type CreateCustomer struct {
	repo   CustomerRepo
	events EventPublisher
	log    *slog.Logger
}

func NewCreateCustomer(repo CustomerRepo, events EventPublisher, log *slog.Logger) *CreateCustomer {
	return &CreateCustomer{repo: repo, events: events, log: log}
}

func (uc *CreateCustomer) Execute(ctx context.Context, in CreateCustomerInput) (CreateCustomerOutput, error) {
	c, err := insertCustomer(ctx, uc.repo, in)
	if err != nil {
		return CreateCustomerOutput{}, err
	}
	publishCustomerCreated(ctx, uc.events, uc.log, *c)
	return CreateCustomerOutput{Customer: c, Message: "Customer created successfully"}, nil
}

// insertCustomer validates in and persists the customer through repo.
// The bulk path shares it, passing a transactional repo view.
func insertCustomer(ctx context.Context, repo CustomerRepo, in CreateCustomerInput) (*domain.Customer, error) {
	if !validEmail(in.Email) {
		return nil, validation("invalid email")
	}
	exists, err := repo.EmailExists(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, validation("email already exists")
	}
	if !validPhone(in.Phone) {
		return nil, validation("invalid phone")
	}

	c := &domain.Customer{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: time.Now().UTC(),
	}
	if err := c.Validate(); err != nil {
		return nil, validation(err.Error())
	}
	if err := repo.Create(ctx, c); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			// the unique index beat our pre-check under a concurrent writer
			return nil, validation("email already exists")
		}
		return nil, err
	}
	return c, nil
}

func publishCustomerCreated(ctx context.Context, events EventPublisher, log *slog.Logger, c domain.Customer) {
	if events == nil {
		return
	}
	if err := events.CustomerCreated(ctx, c); err != nil && log != nil {
		log.Warn("customer.created publish failed", "customer_id", c.ID, "err", err)
	}
}
