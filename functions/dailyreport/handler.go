// Package dailyreport implements the handler fired by the daily report
// schedule.
package dailyreport

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/snirkop89/ppe-lambdas/core/logger"
)

const (
	CompletedMessage = "Daily report generated successfully"

	unknown = "unknown"
)

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// Handle accepts a nil trigger, in which case the trigger time and id are
// logged as unknown.
func (h *Handler) Handle(ctx context.Context, trigger *events.CloudWatchEvent) (string, error) {
	log := logger.FromContext(ctx, h.log)

	triggeredAt, id := unknown, unknown
	if trigger != nil {
		if !trigger.Time.IsZero() {
			triggeredAt = trigger.Time.Format(time.RFC3339Nano)
		}
		if trigger.ID != "" {
			id = trigger.ID
		}
	}

	log.Info("Scheduled event triggered at: " + triggeredAt)
	log.Info("Event ID: " + id)
	log.Info("Generating daily report...")
	log.Info("Daily report generation completed")

	return CompletedMessage, nil
}
