package jobs

import (
	"context"
	"time"

	"github.com/dhnam02/crm-api/internal/apiclient"
)

type restockAPI interface {
	RestockLowStock(ctx context.Context) (apiclient.RestockResult, error)
}

// LowStock triggers the restock mutation and records each updated product.
type LowStock struct {
	api  restockAPI
	sink *Sink
	now  func() time.Time
}

func NewLowStock(api restockAPI, sink *Sink) *LowStock {
	return &LowStock{api: api, sink: sink, now: time.Now}
}

func (j *LowStock) Run(ctx context.Context) error {
	ts := j.now().Format("2006-01-02 15:04:05")

	res, err := j.api.RestockLowStock(ctx)
	if err != nil {
		if werr := j.sink.Line("[%s] ERROR: %v", ts, err); werr != nil {
			return werr
		}
		return err
	}
	for _, p := range res.Products {
		if err := j.sink.Line("[%s] %s: stock now %d", ts, p.Name, p.Stock); err != nil {
			return err
		}
	}
	return nil
}
