package main

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	v1 "github.com/snirkop89/ppe-lambdas/api/v1"
	"github.com/snirkop89/ppe-lambdas/core/eventbus"
	"github.com/snirkop89/ppe-lambdas/core/httpio"
	"github.com/snirkop89/ppe-lambdas/core/logger"
	"github.com/snirkop89/ppe-lambdas/functions/dailyreport"
	"github.com/snirkop89/ppe-lambdas/functions/orderevents"
	"github.com/snirkop89/ppe-lambdas/functions/ordersubmit"
)

const defaultListLimit = 20

type application struct {
	log       *slog.Logger
	orders    *ordersubmit.Handler
	reports   *dailyreport.Handler
	publisher *orderevents.Handler

	// journal is set only when events are stored locally.
	journal *eventbus.Journal
}

func newApplication(log *slog.Logger, bus eventbus.Bus) *application {
	app := &application{
		log:       log,
		orders:    ordersubmit.New(log.With("function", "order-submit")),
		reports:   dailyreport.New(log.With("function", "daily-report")),
		publisher: orderevents.New(log.With("function", "order-events"), bus),
	}
	if j, ok := bus.(*eventbus.Journal); ok {
		app.journal = j
	}
	return app
}

func (app *application) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(logger.LoggingMiddleware(app.log))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/healthcheck", httpio.HealthCheckHandler(app.log))
		r.Post("/orders", app.submitOrderHandler)
		r.Post("/events", app.publishEventHandler)
		r.Post("/reports", app.generateReportHandler)
		if app.journal != nil {
			r.Get("/events", app.listEventsHandler)
		}
	})
	return r
}

func (app *application) submitOrderHandler(w http.ResponseWriter, r *http.Request) {
	req, err := httpio.ToProxyRequest(r, middleware.GetReqID(r.Context()))
	if err != nil {
		app.log.Error(err.Error())
		httpio.BadRequestResponse(w, err.Error())
		return
	}

	resp, err := app.orders.Handle(r.Context(), req)
	if err != nil {
		app.log.Error(err.Error())
		httpio.InternalServerErrorResponse(w, err.Error())
		return
	}
	if err := httpio.WriteProxyResponse(w, resp); err != nil {
		app.log.Error("Writing response", "error", err)
	}
}

func (app *application) publishEventHandler(w http.ResponseWriter, r *http.Request) {
	// An empty body is passed on as a nil payload, the same as JSON null.
	var payload map[string]any
	if err := httpio.Decode(r.Body, &payload); err != nil && !errors.Is(err, io.EOF) {
		app.log.Error(err.Error())
		httpio.BadRequestResponse(w, "malformed payload")
		return
	}

	msg, err := app.publisher.Handle(r.Context(), payload)
	switch {
	case errors.Is(err, v1.ErrInvalidInput):
		httpio.BadRequestResponse(w, err.Error())
		return
	case err != nil:
		httpio.WriteJSON(w, http.StatusBadGateway, map[string]string{
			"error": err.Error(),
		})
		return
	}

	if err := httpio.WriteJSON(w, http.StatusAccepted, map[string]string{"message": msg}); err != nil {
		app.log.Error("Writing response", "error", err)
	}
}

func (app *application) generateReportHandler(w http.ResponseWriter, r *http.Request) {
	msg, err := app.reports.Handle(r.Context(), newLocalTrigger(time.Now()))
	if err != nil {
		app.log.Error(err.Error())
		httpio.InternalServerErrorResponse(w, err.Error())
		return
	}
	if err := httpio.WriteJSON(w, http.StatusOK, map[string]string{"message": msg}); err != nil {
		app.log.Error("Writing response", "error", err)
	}
}

func (app *application) listEventsHandler(w http.ResponseWriter, r *http.Request) {
	limit := defaultListLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			httpio.BadRequestResponse(w, "limit must be a positive integer")
			return
		}
		limit = n
	}

	list, err := app.journal.List(r.Context(), limit)
	if err != nil {
		app.log.Error(err.Error())
		httpio.InternalServerErrorResponse(w, "listing events")
		return
	}
	if list == nil {
		list = []v1.PublishedEvent{}
	}
	if err := httpio.WriteJSON(w, http.StatusOK, map[string]any{"events": list}); err != nil {
		app.log.Error("Writing response", "error", err)
	}
}

// newLocalTrigger builds the event EventBridge Scheduler would deliver.
func newLocalTrigger(at time.Time) *events.CloudWatchEvent {
	return &events.CloudWatchEvent{
		Version:    "0",
		ID:         uuid.NewString(),
		DetailType: "Scheduled Event",
		Source:     "local.gateway",
		Time:       at.UTC(),
		Detail:     json.RawMessage(`{}`),
	}
}
