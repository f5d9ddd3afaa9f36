// Package jobs holds the scheduled maintenance jobs and the runner that
// wraps them with locking, timeouts, and metrics for cron execution.
package jobs

import (
	"context"
	"log/slog"
	"time"
)

// Locker serializes a job across scheduler replicas. A nil Locker means
// single-instance operation with no coordination.
type Locker interface {
	TryLock(ctx context.Context, job string) (bool, error)
	Unlock(ctx context.Context, job string) error
}

type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

type Runner struct {
	lock    Locker
	timeout time.Duration
	log     *slog.Logger
}

func NewRunner(lock Locker, timeout time.Duration, log *slog.Logger) *Runner {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Runner{lock: lock, timeout: timeout, log: log}
}

// Func adapts a Job into the niladic function the cron scheduler invokes.
// Lock acquisition is best effort: if the lock store is unreachable the job
// still runs, but a held lock skips the run. Failures are logged and
// counted, never fatal to the scheduler.
func (r *Runner) Func(j Job) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		if r.lock != nil {
			ok, err := r.lock.TryLock(ctx, j.Name)
			if err != nil {
				r.log.Warn("job lock unavailable, running anyway", "job", j.Name, "err", err)
			} else if !ok {
				r.log.Info("job already running elsewhere, skipping", "job", j.Name)
				jobRuns.WithLabelValues(j.Name, "skipped").Inc()
				return
			} else {
				// the job context may be spent by now; release on a fresh one
				defer func() {
					uctx, ucancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer ucancel()
					_ = r.lock.Unlock(uctx, j.Name)
				}()
			}
		}

		start := time.Now()
		if err := j.Run(ctx); err != nil {
			r.log.Error("job failed", "job", j.Name, "took", time.Since(start), "err", err)
			jobRuns.WithLabelValues(j.Name, "error").Inc()
			return
		}
		r.log.Info("job done", "job", j.Name, "took", time.Since(start))
		jobRuns.WithLabelValues(j.Name, "ok").Inc()
	}
}
