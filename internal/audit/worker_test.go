package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerDrainsInboxToSink(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := NewPublisher(16)
	sink := NewMemorySink()
	worker := NewWorker(sink, pub.Inbox())

	done := make(chan error, 1)
	go func() { done <- worker.Run(ctx) }()

	pub.Emit(ctx, NewEvent(ActionSubmit, "ST1TEST", "0", "food"))
	pub.Emit(ctx, NewEvent(ActionAmend, "ST1TEST", "0", ""))

	require.Eventually(t, func() bool {
		return len(sink.List()) == 2
	}, time.Second, 10*time.Millisecond)

	events := sink.List()
	assert.Equal(t, ActionSubmit, events[0].Action)
	assert.Equal(t, "0", events[0].Subject)
	assert.NotEmpty(t, events[0].ID)
	assert.Equal(t, ActionAmend, events[1].Action)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

type failingSink struct{}

func (failingSink) Append(context.Context, Event) error {
	return errors.New("broker unavailable")
}

func TestWorkerStopsOnSinkError(t *testing.T) {
	ctx := context.Background()
	pub := NewPublisher(16)
	worker := NewWorker(failingSink{}, pub.Inbox())

	pub.Emit(ctx, NewEvent(ActionSetFee, "", "", "750"))

	err := worker.Run(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker unavailable")
}

func TestPublisherDropsWhenFull(t *testing.T) {
	ctx := context.Background()
	pub := NewPublisher(1)

	pub.Emit(ctx, NewEvent(ActionSubmit, "ST1TEST", "0", ""))
	pub.Emit(ctx, NewEvent(ActionSubmit, "ST1TEST", "1", ""))

	select {
	case <-pub.Dropped():
	default:
		t.Fatal("expected a drop signal")
	}
	assert.Len(t, pub.Inbox(), 1)
}
