package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestBulkCreateCustomersBestEffort(t *testing.T) {
	repo := &memCustomerRepo{}
	uc := NewBulkCreateCustomers(repo, nil, nil)

	out, err := uc.Execute(context.Background(), []CreateCustomerInput{
		{Name: "Alice", Email: "alice@example.com"},
		{Name: "Broken", Email: "not-an-email"},
		{Name: "Carol", Email: "carol@example.com"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Customers) != 2 {
		t.Fatalf("created = %d, want 2", len(out.Customers))
	}
	if out.Customers[0].Name != "Alice" || out.Customers[1].Name != "Carol" {
		t.Errorf("created order mismatch: %q, %q", out.Customers[0].Name, out.Customers[1].Name)
	}
	if len(out.Errors) != 1 {
		t.Fatalf("errors = %v, want exactly one", out.Errors)
	}
	if !strings.HasPrefix(out.Errors[0], "Customer 1: ") {
		t.Errorf("error %q must be tagged with input index 1", out.Errors[0])
	}
	if len(repo.customers) != 2 {
		t.Errorf("persisted = %d, want 2 (valid items persist despite the failed one)", len(repo.customers))
	}
}

func TestBulkCreateCustomersDuplicateInsideBatch(t *testing.T) {
	repo := &memCustomerRepo{}
	uc := NewBulkCreateCustomers(repo, nil, nil)

	out, err := uc.Execute(context.Background(), []CreateCustomerInput{
		{Name: "Alice", Email: "same@example.com"},
		{Name: "Clone", Email: "same@example.com"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Customers) != 1 {
		t.Fatalf("created = %d, want 1", len(out.Customers))
	}
	if len(out.Errors) != 1 || !strings.Contains(out.Errors[0], "email already exists") {
		t.Fatalf("errors = %v, want one duplicate-email error", out.Errors)
	}
	if !strings.HasPrefix(out.Errors[0], "Customer 1: ") {
		t.Errorf("duplicate must be flagged on the second item: %q", out.Errors[0])
	}
}

func TestBulkCreateCustomersCommitFailure(t *testing.T) {
	repo := &memCustomerRepo{failCommit: true}
	uc := NewBulkCreateCustomers(repo, nil, nil)

	_, err := uc.Execute(context.Background(), []CreateCustomerInput{
		{Name: "Alice", Email: "alice@example.com"},
	})
	var txErr *TxError
	if !errors.As(err, &txErr) {
		t.Fatalf("err = %v, want TxError", err)
	}
	if len(repo.customers) != 0 {
		t.Errorf("failed commit must leave nothing behind, got %d rows", len(repo.customers))
	}
}

func TestBulkCreateCustomersEmptyBatch(t *testing.T) {
	uc := NewBulkCreateCustomers(&memCustomerRepo{}, nil, nil)
	out, err := uc.Execute(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out.Customers) != 0 || len(out.Errors) != 0 {
		t.Errorf("empty batch should create nothing: %+v", out)
	}
}
