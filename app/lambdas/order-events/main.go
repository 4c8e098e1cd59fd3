package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/snirkop89/ppe-lambdas/core/config"
	"github.com/snirkop89/ppe-lambdas/core/eventbus"
	"github.com/snirkop89/ppe-lambdas/core/logger"
	"github.com/snirkop89/ppe-lambdas/functions/orderevents"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.NewLogger("order-events", slog.LevelInfo).Error(err.Error())
		os.Exit(1)
	}

	log := logger.NewLogger(cfg.ServiceName+"-events", cfg.Level())

	h, closeBus, err := newHandler(context.Background(), cfg, log)
	if err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}

	// lambda.Start never returns, so the bus is flushed when the runtime
	// sends SIGTERM before shutting the execution environment down.
	lambda.StartWithOptions(h.Handle, lambda.WithEnableSIGTERM(closeBus))
}

// newHandler builds the publisher and its bus once per execution
// environment; the bus is reused across invocations.
func newHandler(ctx context.Context, cfg config.Config, log *slog.Logger) (*orderevents.Handler, func(), error) {
	bus, closeBus, err := eventbus.New(ctx, cfg.EventBus, log)
	if err != nil {
		return nil, nil, err
	}
	return orderevents.New(log, bus), closeBus, nil
}
