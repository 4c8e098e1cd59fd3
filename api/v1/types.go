package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrMalformedPayload is returned when a request body is absent or cannot be parsed.
	ErrMalformedPayload = errors.New("malformed payload")
	// ErrInvalidInput is returned when an event payload is nil.
	ErrInvalidInput = errors.New("Input cannot be null")
	// ErrDispatchFailure is returned when the event bus rejects an event.
	ErrDispatchFailure = errors.New("Failed to publish event")
)

type Header struct {
	ID          string    `json:"id"`          // GUID representing the event
	PublishedAt time.Time `json:"publishedAt"` // Time when event was published
}

func NewHeader() Header {
	return Header{
		ID:          uuid.NewString(),
		PublishedAt: time.Now().UTC(),
	}
}

// OrderPayload is the body accepted by the order submission endpoint.
// A missing orderId decodes to the empty string.
type OrderPayload struct {
	OrderID string `json:"orderId"`
}

// ParseOrderPayload decodes a request body into an OrderPayload. Unknown
// fields are ignored, but a null or non-object body is malformed.
func ParseOrderPayload(body []byte) (OrderPayload, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return OrderPayload{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if raw == nil {
		return OrderPayload{}, ErrMalformedPayload
	}

	var p OrderPayload
	if id, ok := raw["orderId"]; ok {
		if err := json.Unmarshal(id, &p.OrderID); err != nil {
			return OrderPayload{}, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
		}
	}
	return p, nil
}
