package jobs

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var jobRuns = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "crm_job_runs_total",
		Help: "Scheduled job runs by outcome.",
	},
	[]string{"job", "status"},
)
