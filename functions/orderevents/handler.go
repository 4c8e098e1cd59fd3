// Package orderevents implements the handler that republishes an order
// payload as an order.submitted event.
package orderevents

import (
	"context"
	"fmt"
	"log/slog"

	v1 "github.com/snirkop89/ppe-lambdas/api/v1"
	"github.com/snirkop89/ppe-lambdas/core/eventbus"
	"github.com/snirkop89/ppe-lambdas/core/logger"
)

const PublishedMessage = "Event published successfully"

type Handler struct {
	log *slog.Logger
	bus eventbus.Bus
}

func New(log *slog.Logger, bus eventbus.Bus) *Handler {
	return &Handler{log: log, bus: bus}
}

// Handle sends payload to the bus exactly once. A nil payload is rejected
// before anything is sent; an empty one is published as {}.
func (h *Handler) Handle(ctx context.Context, payload map[string]any) (string, error) {
	if payload == nil {
		return "", v1.ErrInvalidInput
	}
	log := logger.FromContext(ctx, h.log)

	ev, err := v1.NewOrderSubmitted(payload)
	if err != nil {
		log.Error("Failed to build event", "error", err)
		return "", fmt.Errorf("%w: %w", v1.ErrDispatchFailure, err)
	}

	id, err := h.bus.PutEvent(ctx, ev)
	if err != nil {
		log.Error("Failed to publish event", "detailType", ev.DetailType, "error", err)
		return "", fmt.Errorf("%w: %w", v1.ErrDispatchFailure, err)
	}

	log.Info("Event published", "eventId", id, "source", ev.Source, "detailType", ev.DetailType)
	return PublishedMessage, nil
}
