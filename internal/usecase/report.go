package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type ReportSummary struct {
	Customers int
	Orders    int
	Revenue   decimal.Decimal
}

// Line renders the stable report format consumed by downstream tooling:
//
//	2026-08-31 09:00:00 - Report: 3 customers, 2 orders, 30.00 revenue
func (s ReportSummary) Line(ts time.Time) string {
	return fmt.Sprintf("%s - Report: %d customers, %d orders, %s revenue",
		ts.Format("2006-01-02 15:04:05"), s.Customers, s.Orders, s.Revenue.StringFixed(2))
}

// GenerateReport aggregates the current committed state. Revenue is the sum
// of stored order totals, so it is unaffected by later price changes. The
// aggregation reads only; running it twice with no data changes yields
// identical summaries.
type GenerateReport struct {
	customers CustomerRepo
	orders    OrderRepo
}

func NewGenerateReport(customers CustomerRepo, orders OrderRepo) *GenerateReport {
	return &GenerateReport{customers: customers, orders: orders}
}

func (uc *GenerateReport) Execute(ctx context.Context) (ReportSummary, error) {
	customers, err := uc.customers.Count(ctx)
	if err != nil {
		return ReportSummary{}, err
	}
	orders, err := uc.orders.Count(ctx)
	if err != nil {
		return ReportSummary{}, err
	}
	revenue, err := uc.orders.TotalRevenue(ctx)
	if err != nil {
		return ReportSummary{}, err
	}
	return ReportSummary{Customers: customers, Orders: orders, Revenue: revenue}, nil
}
