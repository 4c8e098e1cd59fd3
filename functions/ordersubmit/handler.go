// Package ordersubmit implements the API Gateway handler that accepts an
// order submission.
package ordersubmit

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	v1 "github.com/snirkop89/ppe-lambdas/api/v1"
	"github.com/snirkop89/ppe-lambdas/core/httpio"
	"github.com/snirkop89/ppe-lambdas/core/logger"
)

const successMessage = "Order submitted successfully"

type response struct {
	Message string `json:"message"`
	OrderID string `json:"orderId"`
}

type Handler struct {
	log *slog.Logger
}

func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// Handle never returns an error. Every failure is reported to the caller
// as a 500 response.
func (h *Handler) Handle(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	log := logger.FromContext(ctx, h.log)

	body, err := httpio.RequestBody(req)
	if err != nil {
		log.Error("reading request body", "error", err)
		return httpio.ProxyInternalServerError(), nil
	}

	order, err := v1.ParseOrderPayload(body)
	if err != nil {
		log.Error("parsing order payload", "error", err)
		return httpio.ProxyInternalServerError(), nil
	}

	resp, err := httpio.ProxyJSON(http.StatusOK, response{
		Message: successMessage,
		OrderID: order.OrderID,
	})
	if err != nil {
		log.Error("writing response", "error", err)
		return httpio.ProxyInternalServerError(), nil
	}

	log.Info("Order submitted", "orderId", order.OrderID)
	return resp, nil
}
