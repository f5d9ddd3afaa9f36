package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/dhnam02/crm-api/internal/entity"
)

func TestGenerateReport(t *testing.T) {
	customers := &memCustomerRepo{customers: []domain.Customer{
		{ID: "c1", Email: "a@example.com"},
		{ID: "c2", Email: "b@example.com"},
		{ID: "c3", Email: "c@example.com"},
	}}
	orders := newMemOrderRepo(customers)
	orders.orders = []domain.Order{
		{ID: "o1", CustomerID: "c1", TotalAmount: decimal.RequireFromString("10.00")},
		{ID: "o2", CustomerID: "c2", TotalAmount: decimal.RequireFromString("20.00")},
	}

	uc := NewGenerateReport(customers, orders)
	sum, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ts := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	line := sum.Line(ts)
	if !strings.Contains(line, "3 customers, 2 orders, 30.00 revenue") {
		t.Errorf("line = %q", line)
	}
	if !strings.HasPrefix(line, "2026-08-31 09:00:00 - Report: ") {
		t.Errorf("line prefix wrong: %q", line)
	}
}

func TestGenerateReportIdempotent(t *testing.T) {
	customers := &memCustomerRepo{customers: []domain.Customer{{ID: "c1", Email: "a@example.com"}}}
	orders := newMemOrderRepo(customers)
	orders.orders = []domain.Order{{ID: "o1", CustomerID: "c1", TotalAmount: decimal.RequireFromString("10.00")}}

	uc := NewGenerateReport(customers, orders)
	first, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := uc.Execute(context.Background())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}

	if first.Customers != second.Customers || first.Orders != second.Orders || !first.Revenue.Equal(second.Revenue) {
		t.Errorf("report is not idempotent: %+v vs %+v", first, second)
	}
	if len(customers.customers) != 1 || len(orders.orders) != 1 {
		t.Errorf("report must not mutate state")
	}
}

func TestReportLineEmptyData(t *testing.T) {
	sum := ReportSummary{Revenue: decimal.Zero}
	line := sum.Line(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	if !strings.Contains(line, "0 customers, 0 orders, 0.00 revenue") {
		t.Errorf("line = %q", line)
	}
}
