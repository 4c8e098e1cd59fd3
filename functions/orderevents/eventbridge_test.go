package orderevents

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	"github.com/snirkop89/ppe-lambdas/core/eventbus"
	"github.com/snirkop89/ppe-lambdas/core/logger/logtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubEventBridge struct {
	calls []*eventbridge.PutEventsInput
	err   error
}

func (s *stubEventBridge) PutEvents(ctx context.Context, in *eventbridge.PutEventsInput, _ ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error) {
	s.calls = append(s.calls, in)
	if s.err != nil {
		return nil, s.err
	}
	return &eventbridge.PutEventsOutput{
		Entries: []types.PutEventsResultEntry{{EventId: aws.String("test-event-id")}},
	}, nil
}

func TestHandle_EventBridgeRequest(t *testing.T) {
	log, rec := logtest.New()
	client := &stubEventBridge{}
	h := New(log, eventbus.NewEventBridge(client, "default"))

	result, err := h.Handle(context.Background(), testInput())
	require.NoError(t, err)
	assert.Equal(t, "Event published successfully", result)

	require.Len(t, client.calls, 1)
	entries := client.calls[0].Entries
	require.NotEmpty(t, entries)
	assert.Equal(t, "order.submitted", aws.ToString(entries[0].DetailType))
	assert.Equal(t, "myapp.orders", aws.ToString(entries[0].Source))
	assert.NotEmpty(t, aws.ToString(entries[0].Detail))
	assert.Equal(t, 1, rec.Len())
}

func TestHandle_EventBridgeException(t *testing.T) {
	log, rec := logtest.New()
	client := &stubEventBridge{err: errors.New("EventBridge error")}
	h := New(log, eventbus.NewEventBridge(client, "default"))

	_, err := h.Handle(context.Background(), testInput())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to publish event")
	assert.Equal(t, 1, rec.Len())
}
