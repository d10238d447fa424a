package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zaapr0x/mc-hook/internal/broadcast"
	"github.com/zaapr0x/mc-hook/internal/config"
	"github.com/zaapr0x/mc-hook/internal/journal"
	"github.com/zaapr0x/mc-hook/internal/logger"
	"github.com/zaapr0x/mc-hook/internal/notify"
	"github.com/zaapr0x/mc-hook/internal/stream"
	"github.com/zaapr0x/mc-hook/pkg/blockbreak"
	"github.com/zaapr0x/mc-hook/pkg/host/hostsim"
	"github.com/zaapr0x/mc-hook/pkg/pickup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	log := logger.Setup(cfg)

	log.Info("Starting mc-hook simulator",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"journal_backend", cfg.Journal.Backend,
		"poll_period_ticks", cfg.PollPeriodTicks,
		"tick_rate", cfg.TickRate,
		"seed", cfg.Seed)

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer pingCancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err, "redis_url", cfg.RedisURL)
		os.Exit(1)
	}
	log.Info("Redis connection established successfully")

	var j journal.Journal
	switch cfg.Journal.Backend {
	case config.JournalRedis:
		j = journal.NewRedis(rdb, cfg.Journal.Retention, log)
	case config.JournalSQLite:
		sq, err := journal.OpenSQLite(cfg.Journal.SQLitePath, log)
		if err != nil {
			log.Error("Failed to open SQLite journal", "error", err, "path", cfg.Journal.SQLitePath)
			os.Exit(1)
		}
		j = sq
	case config.JournalJSONL:
		j = journal.NewJSONL(cfg.Journal.JSONLDir)
	case config.JournalNone:
		log.Info("Journaling disabled")
	}

	// Simulated game host. The hooks only see the host interfaces, so
	// a real embedding would swap this block out and keep the rest.
	world := hostsim.NewWorld()
	scheduler := hostsim.NewScheduler()
	breaks := hostsim.NewBreaks()
	commands := hostsim.NewCommands()
	activity := hostsim.NewActivity(world, breaks, cfg.Seed, log)

	detector := pickup.NewDetector(world, scheduler, log)
	forwarder := blockbreak.NewForwarder(breaks, commands, log)

	publisher := broadcast.NewPublisher(rdb, log)
	hub := stream.NewHub(log)

	sinks := make([]journal.Sink, 0, 4)
	if j != nil {
		sinks = append(sinks, j)
	}
	sinks = append(sinks, publisher, hub)
	if cfg.WebhookURL != "" {
		sinks = append(sinks, notify.NewWebhook(cfg.WebhookURL, log))
		log.Info("Webhook delivery enabled", "url", cfg.WebhookURL)
	}
	recorder := journal.NewRecorder(log, sinks...)

	if err := detector.RegisterEvery(recorder.Pickup, cfg.PollPeriodTicks); err != nil {
		log.Error("Failed to register pickup listener", "error", err)
		os.Exit(1)
	}
	if err := forwarder.Register(recorder.BlockBreak); err != nil {
		log.Error("Failed to register block break listener", "error", err)
		os.Exit(1)
	}

	// Scripted players act once per simulated second.
	stopActivity := scheduler.ScheduleRepeating(activity.Tick, cfg.TickRate)

	simCtx, simCancel := context.WithCancel(context.Background())
	defer simCancel()
	simDone := make(chan struct{})
	go func() {
		defer close(simDone)
		scheduler.Run(simCtx, cfg.TickRate)
	}()
	log.Info("Simulation running", "driver", activity.String(), "tick_rate", cfg.TickRate)

	mux := http.NewServeMux()
	mux.Handle("/health", stream.NewHealthHandler(j, hub, log))
	mux.Handle("/v1/events", stream.NewEventsHandler(j, log))
	mux.Handle("/ws", hub)

	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Simulator is shutting down...")

	// Stop producing events, then drain what is queued. The recorder
	// must not close until the tick loop has fully exited.
	stopActivity()
	simCancel()
	<-simDone
	recorder.Close()
	hub.Close()

	if j != nil {
		if err := j.Close(); err != nil {
			log.Error("Error closing journal", "error", err)
		}
	}
	if err := rdb.Close(); err != nil {
		log.Error("Error closing Redis connection", "error", err)
	}

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Simulator exited")
}
