package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adhocore/gronx"
)

// scheduler fires fn at every tick of a cron expression until its context
// is canceled.
type scheduler struct {
	expr string
	log  *slog.Logger
	fn   func(ctx context.Context, at time.Time)

	now      func() time.Time
	nextTick func(expr string, after time.Time) (time.Time, error)
}

func newScheduler(expr string, log *slog.Logger, fn func(ctx context.Context, at time.Time)) (*scheduler, error) {
	if !gronx.New().IsValid(expr) {
		return nil, fmt.Errorf("invalid cron expression %q", expr)
	}
	return &scheduler{
		expr:     expr,
		log:      log,
		fn:       fn,
		now:      time.Now,
		nextTick: nextCronTick,
	}, nil
}

func nextCronTick(expr string, after time.Time) (time.Time, error) {
	return gronx.NextTickAfter(expr, after, false)
}

func (s *scheduler) Run(ctx context.Context) error {
	s.log.Info("Started report schedule", "expr", s.expr)
	for {
		next, err := s.nextTick(s.expr, s.now())
		if err != nil {
			return fmt.Errorf("next tick: %w", err)
		}

		timer := time.NewTimer(next.Sub(s.now()))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
			s.fn(ctx, next)
		}
	}
}
