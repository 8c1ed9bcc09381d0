//go:build integration

package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"reliefregistry/pkg/testutil/containers"
)

func TestKafkaSinkAppend(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container := containers.NewRedpandaContainer(t)

	const topic = "relief.registry.audit.test"
	sink, err := NewKafkaSink(ctx, []string{container.Broker}, topic)
	require.NoError(t, err)
	defer sink.Close()

	want := NewEvent(ActionSubmit, "ST1TEST", "0", "food")
	require.NoError(t, sink.Append(ctx, want))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(container.Broker),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	fetches := consumer.PollFetches(fetchCtx)
	require.NoError(t, fetches.Err())

	records := fetches.Records()
	require.Len(t, records, 1)
	assert.Equal(t, []byte(want.Subject), records[0].Key)

	var got Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, ActionSubmit, got.Action)
	assert.Equal(t, "ST1TEST", got.Actor)
	assert.Equal(t, "food", got.Detail)
}

func TestKafkaSinkTopicCreationIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container := containers.NewRedpandaContainer(t)

	const topic = "relief.registry.audit.idempotent"
	first, err := NewKafkaSink(ctx, []string{container.Broker}, topic)
	require.NoError(t, err)
	first.Close()

	second, err := NewKafkaSink(ctx, []string{container.Broker}, topic)
	require.NoError(t, err)
	second.Close()
}
