package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	v1 "github.com/snirkop89/ppe-lambdas/api/v1"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutEvents struct {
	inputs []*eventbridge.PutEventsInput
	out    *eventbridge.PutEventsOutput
	err    error
}

func (f *fakePutEvents) PutEvents(ctx context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	f.inputs = append(f.inputs, in)
	return f.out, f.err
}

func testEvent() v1.DomainEvent {
	return v1.DomainEvent{
		Source:     v1.OrdersSource,
		DetailType: v1.OrderSubmittedType,
		Detail:     json.RawMessage(`{"orderId":"order-123"}`),
	}
}

func TestEventBridge_PutEvent(t *testing.T) {
	client := &fakePutEvents{out: &eventbridge.PutEventsOutput{
		Entries: []types.PutEventsResultEntry{{EventId: aws.String("test-event-id")}},
	}}
	bus := NewEventBridge(client, "orders-bus")
	fixed := time.Date(2024, 5, 1, 6, 0, 0, 0, time.UTC)
	bus.now = func() time.Time { return fixed }

	id, err := bus.PutEvent(context.Background(), testEvent())
	require.NoError(t, err)
	assert.Equal(t, "test-event-id", id)

	require.Len(t, client.inputs, 1)
	require.Len(t, client.inputs[0].Entries, 1)
	entry := client.inputs[0].Entries[0]
	assert.Equal(t, "orders-bus", aws.ToString(entry.EventBusName))
	assert.Equal(t, "myapp.orders", aws.ToString(entry.Source))
	assert.Equal(t, "order.submitted", aws.ToString(entry.DetailType))
	assert.JSONEq(t, `{"orderId":"order-123"}`, aws.ToString(entry.Detail))
	assert.Equal(t, fixed, aws.ToTime(entry.Time))
}

func TestEventBridge_ClientError(t *testing.T) {
	cause := errors.New("EventBridge error")
	bus := NewEventBridge(&fakePutEvents{err: cause}, "default")

	_, err := bus.PutEvent(context.Background(), testEvent())
	require.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "put events")
}

func TestEventBridge_RejectedEntry(t *testing.T) {
	client := &fakePutEvents{out: &eventbridge.PutEventsOutput{
		FailedEntryCount: 1,
		Entries: []types.PutEventsResultEntry{{
			ErrorCode:    aws.String("InternalFailure"),
			ErrorMessage: aws.String("try again"),
		}},
	}}
	bus := NewEventBridge(client, "default")

	_, err := bus.PutEvent(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "InternalFailure")
	assert.Contains(t, err.Error(), "try again")
}

func TestEventBridge_NoEntries(t *testing.T) {
	bus := NewEventBridge(&fakePutEvents{out: &eventbridge.PutEventsOutput{}}, "default")

	_, err := bus.PutEvent(context.Background(), testEvent())
	assert.Error(t, err)
}
