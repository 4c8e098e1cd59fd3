// Package logtest provides an slog handler that records log records for
// assertions in tests.
package logtest

import (
	"context"
	"log/slog"
	"sync"
)

type Record struct {
	Level   slog.Level
	Message string
	Attrs   map[string]any
}

// Recorder keeps every record handled by loggers derived from it.
type Recorder struct {
	mu      sync.Mutex
	records []Record
}

func New() (*slog.Logger, *Recorder) {
	rec := &Recorder{}
	return slog.New(&handler{rec: rec}), rec
}

func (r *Recorder) Records() []Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Record, len(r.records))
	copy(out, r.records)
	return out
}

func (r *Recorder) Messages() []string {
	recs := r.Records()
	msgs := make([]string, len(recs))
	for i, rec := range recs {
		msgs[i] = rec.Message
	}
	return msgs
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

type handler struct {
	rec   *Recorder
	attrs []slog.Attr
	group string
}

func (h *handler) Enabled(context.Context, slog.Level) bool { return true }

func (h *handler) Handle(_ context.Context, r slog.Record) error {
	attrs := make(map[string]any, len(h.attrs)+r.NumAttrs())
	for _, a := range h.attrs {
		attrs[a.Key] = a.Value.Any()
	}
	r.Attrs(func(a slog.Attr) bool {
		key := a.Key
		if h.group != "" {
			key = h.group + "." + key
		}
		attrs[key] = a.Value.Any()
		return true
	})

	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	h.rec.records = append(h.rec.records, Record{Level: r.Level, Message: r.Message, Attrs: attrs})
	return nil
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &next
}

func (h *handler) WithGroup(name string) slog.Handler {
	next := *h
	if next.group != "" {
		name = next.group + "." + name
	}
	next.group = name
	return &next
}
