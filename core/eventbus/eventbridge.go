package eventbus

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge"
	"github.com/aws/aws-sdk-go-v2/service/eventbridge/types"
	v1 "github.com/snirkop89/ppe-lambdas/api/v1"
)

// PutEventsAPI is the part of the EventBridge client the bus uses.
type PutEventsAPI interface {
	PutEvents(ctx context.Context, params *eventbridge.PutEventsInput, optFns ...func(*eventbridge.Options)) (*eventbridge.PutEventsOutput, error)
}

type EventBridge struct {
	client  PutEventsAPI
	busName string
	now     func() time.Time
}

func NewEventBridge(client PutEventsAPI, busName string) *EventBridge {
	return &EventBridge{
		client:  client,
		busName: busName,
		now:     time.Now,
	}
}

func (b *EventBridge) PutEvent(ctx context.Context, ev v1.DomainEvent) (string, error) {
	out, err := b.client.PutEvents(ctx, &eventbridge.PutEventsInput{
		Entries: []types.PutEventsRequestEntry{{
			EventBusName: aws.String(b.busName),
			Source:       aws.String(ev.Source),
			DetailType:   aws.String(ev.DetailType),
			Detail:       aws.String(string(ev.Detail)),
			Time:         aws.Time(b.now()),
		}},
	})
	if err != nil {
		return "", fmt.Errorf("put events: %w", err)
	}
	if len(out.Entries) == 0 {
		return "", errors.New("put events: no result entries returned")
	}

	entry := out.Entries[0]
	if out.FailedEntryCount > 0 || entry.ErrorCode != nil {
		return "", fmt.Errorf("put events: entry rejected: %s: %s",
			aws.ToString(entry.ErrorCode), aws.ToString(entry.ErrorMessage))
	}
	return aws.ToString(entry.EventId), nil
}
