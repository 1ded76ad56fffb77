package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"statuspage-cron/api"
	"statuspage-cron/api/v1/monitor"
	"statuspage-cron/client"
	"statuspage-cron/config"
	v1 "statuspage-cron/services/v1"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	deps := v1.Dependencies{
		HTTP: &http.Client{Timeout: cfg.CheckTimeout},
	}
	if cfg.PostgresURI != "" {
		deps.Postgres, err = client.OpenPostgres(cfg.PostgresURI)
		if err != nil {
			log.Fatal(err)
		}
		defer deps.Postgres.Close()
	}

	var history *v1.RedisHistory
	if cfg.RedisURI != "" {
		deps.Redis, err = client.ConnectRedis(cfg.RedisURI, cfg.CheckTimeout)
		if err != nil {
			log.Fatal(err)
		}
		defer deps.Redis.Close()
		history = v1.NewRedisHistory(deps.Redis)
	}

	services, err := v1.BuildServices(cfg.Services, deps)
	if err != nil {
		log.Fatal(err)
	}

	page := client.NewStatuspageClient(cfg.StatuspageBaseURL, cfg.PageID, cfg.StatuspageAPIKey, cfg.RequestTimeout)

	var recorder v1.Recorder
	if history != nil {
		recorder = history
	}
	checker := v1.NewHealthChecker(cfg.CheckTimeout, recorder)
	tracker := v1.NewIncidentTracker()
	reconciler := v1.NewReconciler(page, tracker, v1.ReconcilerOptions{
		RequestTimeout:       cfg.RequestTimeout,
		KeepOnResolveFailure: !cfg.ClearOnResolveFailure,
	})
	reporter := v1.NewReporter(services, checker, reconciler, page)

	if cfg.SchedulerEnabled {
		scheduler, err := v1.NewScheduler(reporter, cfg.CycleSchedule, cfg.DailySchedule)
		if err != nil {
			log.Fatalf("[CRON] Failed to add jobs: %v", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	var historyReader monitor.HistoryReader
	if history != nil {
		historyReader = history
	}
	srv := api.NewServer(cfg.Port, monitor.NewHandler(reporter, tracker, historyReader))

	go func() {
		log.Printf("Server is running on http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
}
