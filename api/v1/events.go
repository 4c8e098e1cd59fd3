package v1

import (
	"encoding/json"
	"fmt"
)

const (
	OrdersSource       = "myapp.orders"
	OrderSubmittedType = "order.submitted"
)

// DomainEvent is a single event handed to an event bus.
type DomainEvent struct {
	Source     string          `json:"source"`
	DetailType string          `json:"detailType"`
	Detail     json.RawMessage `json:"detail"`
}

// NewOrderSubmitted serializes payload into an order.submitted event.
func NewOrderSubmitted(payload map[string]any) (DomainEvent, error) {
	detail, err := json.Marshal(payload)
	if err != nil {
		return DomainEvent{}, fmt.Errorf("marshal detail: %w", err)
	}
	return DomainEvent{
		Source:     OrdersSource,
		DetailType: OrderSubmittedType,
		Detail:     detail,
	}, nil
}

// PublishedEvent is the envelope written by buses that do not assign
// their own event ids.
type PublishedEvent struct {
	Header Header `json:"header"`
	DomainEvent
}

func (e DomainEvent) Publish() PublishedEvent {
	return PublishedEvent{
		Header:      NewHeader(),
		DomainEvent: e,
	}
}
