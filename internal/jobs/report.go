package jobs

import (
	"context"
	"time"

	"github.com/dhnam02/crm-api/internal/apiclient"
	"github.com/dhnam02/crm-api/internal/usecase"
)

type reportAPI interface {
	Report(ctx context.Context) (apiclient.Report, error)
}

// WeeklyReport fetches the aggregate totals and appends one summary line.
type WeeklyReport struct {
	api  reportAPI
	sink *Sink
	now  func() time.Time
}

func NewWeeklyReport(api reportAPI, sink *Sink) *WeeklyReport {
	return &WeeklyReport{api: api, sink: sink, now: time.Now}
}

func (j *WeeklyReport) Run(ctx context.Context) error {
	rep, err := j.api.Report(ctx)
	if err != nil {
		return err
	}
	sum := usecase.ReportSummary{
		Customers: rep.Customers,
		Orders:    rep.Orders,
		Revenue:   rep.Revenue,
	}
	return j.sink.Line("%s", sum.Line(j.now()))
}
