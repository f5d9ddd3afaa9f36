package jobs

import (
	"context"
	"time"

	"github.com/dhnam02/crm-api/internal/apiclient"
)

type ordersAPI interface {
	OrdersSince(ctx context.Context, since time.Time) ([]apiclient.Order, error)
}

// Reminders logs recent orders whose customers should be contacted.
type Reminders struct {
	api    ordersAPI
	sink   *Sink
	window time.Duration
	now    func() time.Time
}

func NewReminders(api ordersAPI, sink *Sink, window time.Duration) *Reminders {
	if window <= 0 {
		window = 7 * 24 * time.Hour
	}
	return &Reminders{api: api, sink: sink, window: window, now: time.Now}
}

func (j *Reminders) Run(ctx context.Context) error {
	now := j.now()
	ts := now.Format("2006-01-02 15:04:05")

	orders, err := j.api.OrdersSince(ctx, now.Add(-j.window))
	if err != nil {
		if werr := j.sink.Line("[%s] ERROR: %v", ts, err); werr != nil {
			return werr
		}
		return err
	}
	for _, o := range orders {
		if err := j.sink.Line("[%s] Order ID: %s, Customer Email: %s", ts, o.ID, o.CustomerEmail); err != nil {
			return err
		}
	}
	return nil
}
