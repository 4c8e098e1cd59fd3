package logger

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"golang.org/x/term"
)

func NewLogger(service string, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	// Create handle based on TTY environment. Lambda never has one, so
	// CloudWatch always receives JSON.
	var h slog.Handler
	if term.IsTerminal(int(os.Stderr.Fd())) {
		h = slog.NewTextHandler(os.Stderr, opts)
	} else {
		h = slog.NewJSONHandler(os.Stderr, opts)
	}
	l := slog.New(h.WithAttrs([]slog.Attr{{Key: "service", Value: slog.StringValue(service)}}))
	return l
}

// ParseLevel maps debug, info, warn and error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// FromContext returns log annotated with the Lambda request id, when ctx
// carries one.
func FromContext(ctx context.Context, log *slog.Logger) *slog.Logger {
	lc, ok := lambdacontext.FromContext(ctx)
	if !ok || lc.AwsRequestID == "" {
		return log
	}
	return log.With("requestId", lc.AwsRequestID)
}

func LoggingMiddleware(logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			attributes := []slog.Attr{
				slog.String("method", r.Method),
				slog.String("user-agent", r.UserAgent()),
				slog.String("path", r.URL.Path),
			}

			start := time.Now()
			next.ServeHTTP(w, r)

			attributes = append(attributes, slog.String("latency", time.Since(start).String()))

			logger.WithGroup("http").LogAttrs(r.Context(), slog.LevelInfo, "Handled request", attributes...)
		})
	}
}
