package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/snirkop89/ppe-lambdas/core/config"
	"github.com/snirkop89/ppe-lambdas/core/eventbus"
	"github.com/snirkop89/ppe-lambdas/core/logger"
	"golang.org/x/sync/errgroup"
)

func main() {
	log := logger.NewLogger("local-gateway", slog.LevelInfo)

	// Environment first, flags override it. Without EVENT_BUS_BACKEND the
	// gateway keeps events in the local journal rather than EventBridge.
	cfg, err := config.Load()
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}

	addr := flag.String("addr", ":8080", "address to listen on, i.e 127.0.0.1:8000")
	schedule := flag.String("report-schedule", "", "cron expression firing the daily report, i.e \"0 6 * * *\"")
	flag.StringVar(&cfg.EventBus.Backend, "bus", defaultBackend(cfg, os.LookupEnv), "event bus backend: eventbridge, kafka or journal")
	flag.StringVar(&cfg.EventBus.JournalPath, "journal-path", cfg.EventBus.JournalPath, "directory of the local event journal")
	flag.StringVar(&cfg.EventBus.KafkaServers, "kafka-server", cfg.EventBus.KafkaServers, "kafka server address")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
	log = logger.NewLogger("local-gateway", cfg.Level())

	// Prepare a context to catch cancelation signals.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer cancel()

	bus, closeBus, err := eventbus.New(ctx, cfg.EventBus, log)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
	defer closeBus()

	app := newApplication(log, bus)

	g, ctx := errgroup.WithContext(ctx)

	if *schedule != "" {
		s, err := newScheduler(*schedule, log, func(ctx context.Context, at time.Time) {
			if _, err := app.reports.Handle(ctx, newLocalTrigger(at)); err != nil {
				log.Error("scheduled report", "error", err)
			}
		})
		if err != nil {
			log.Error(err.Error())
			os.Exit(1)
		}
		g.Go(func() error {
			return s.Run(ctx)
		})
	}

	srv := &http.Server{
		Addr:         *addr,
		Handler:      app.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	// ######  HTTP server
	g.Go(func() error {
		log.Info("Starting HTTP server", "addr", srv.Addr, "bus", cfg.EventBus.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("Received termination signal. Shutting down server")

		tCtx, tcancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer tcancel()

		if err := srv.Shutdown(tCtx); err != nil {
			log.Error(err.Error())
			return err
		}
		log.Info("Server shutdown completed")
		return nil
	})
	// ########

	// Wait for any error in intialization for shutdown.
	if err := g.Wait(); err != nil {
		log.Error(err.Error())
	}
}

// defaultBackend returns the backend used when -bus is not given.
func defaultBackend(cfg config.Config, lookupEnv func(string) (string, bool)) string {
	if v, ok := lookupEnv("EVENT_BUS_BACKEND"); ok && v != "" {
		return cfg.EventBus.Backend
	}
	return config.BackendJournal
}
