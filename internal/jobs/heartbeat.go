package jobs

import (
	"context"
	"time"
)

type healthAPI interface {
	Health(ctx context.Context) error
}

// Heartbeat appends a liveness line every run. An unreachable API is
// reported in the line but is not a job failure.
type Heartbeat struct {
	api  healthAPI
	sink *Sink
	now  func() time.Time
}

func NewHeartbeat(api healthAPI, sink *Sink) *Heartbeat {
	return &Heartbeat{api: api, sink: sink, now: time.Now}
}

func (h *Heartbeat) Run(ctx context.Context) error {
	status := "API OK"
	if err := h.api.Health(ctx); err != nil {
		status = "API unreachable: " + err.Error()
	}
	return h.sink.Line("%s CRM is alive. %s", h.now().Format("02/01/2006-15:04:05"), status)
}
