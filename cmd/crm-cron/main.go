package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/dhnam02/crm-api/configs"
	"github.com/dhnam02/crm-api/internal/adapter/cache"
	"github.com/dhnam02/crm-api/internal/apiclient"
	"github.com/dhnam02/crm-api/internal/jobs"
	"github.com/dhnam02/crm-api/internal/logging"
)

func main() {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "dev"
	}

	cfg, err := configs.Load("configs", env)
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.Init("crm-cron", cfg.App.LogFile, cfg.App.LogLevel)

	// redis backs the cross-replica job lock; without it jobs still run
	var lock jobs.Locker
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       0,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, running without job lock", "err", err)
	} else {
		lock = cache.NewRedisJobLock(rdb, cfg.Redis.LockTTL)
	}
	cancel()

	api := apiclient.New(apiclient.Config{
		BaseURL:      cfg.Jobs.APIBaseURL,
		ClientID:     cfg.Jobs.ClientID,
		ClientSecret: cfg.Jobs.ClientSecret,
		Timeout:      cfg.Jobs.CallTimeout,
		Attempts:     cfg.Jobs.Attempts,
	}, logging.New("apiclient"))

	heartbeatSink := jobs.NewFileSink(cfg.Jobs.HeartbeatLog)
	lowStockSink := jobs.NewFileSink(cfg.Jobs.LowStockLog)
	remindersSink := jobs.NewFileSink(cfg.Jobs.RemindersLog)
	reportSink := jobs.NewFileSink(cfg.Jobs.ReportLog)

	runner := jobs.NewRunner(lock, 2*time.Minute, logging.New("jobs"))

	c := cron.New()
	schedule := func(spec, name string, run func(context.Context) error) {
		if _, err := c.AddFunc(spec, runner.Func(jobs.Job{Name: name, Run: run})); err != nil {
			log.Fatalf("schedule %s (%q): %v", name, spec, err)
		}
	}
	schedule(cfg.Jobs.HeartbeatSpec, "heartbeat", jobs.NewHeartbeat(api, heartbeatSink).Run)
	schedule(cfg.Jobs.LowStockSpec, "low_stock", jobs.NewLowStock(api, lowStockSink).Run)
	schedule(cfg.Jobs.RemindersSpec, "order_reminders", jobs.NewReminders(api, remindersSink, cfg.Jobs.ReminderWindow).Run)
	schedule(cfg.Jobs.ReportSpec, "weekly_report", jobs.NewWeeklyReport(api, reportSink).Run)

	// expose crm_job_runs_total where it is produced
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(cfg.Jobs.MetricsAddr, mux); err != nil {
			logger.Warn("metrics listener stopped", "addr", cfg.Jobs.MetricsAddr, "err", err)
		}
	}()

	c.Start()
	logger.Info("crm-cron started",
		"heartbeat", cfg.Jobs.HeartbeatSpec,
		"low_stock", cfg.Jobs.LowStockSpec,
		"order_reminders", cfg.Jobs.RemindersSpec,
		"weekly_report", cfg.Jobs.ReportSpec,
	)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("crm-cron stopping")
	<-c.Stop().Done()

	for _, s := range []*jobs.Sink{heartbeatSink, lowStockSink, remindersSink, reportSink} {
		_ = s.Close()
	}
	_ = rdb.Close()
}
