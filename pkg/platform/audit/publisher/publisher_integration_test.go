//go:build integration

package publisher_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kgo"

	"mintguard/pkg/platform/audit"
	"mintguard/pkg/platform/audit/publisher"
	"mintguard/pkg/testutil/containers"
)

func TestKafkaPublisher(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	rp := containers.NewRedpandaContainer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	pub, err := publisher.NewKafka(rp.Brokers, "mintguard.audit")
	require.NoError(t, err)

	topic := pub.Topic(audit.CategorySecurity)

	admClient, err := kgo.NewClient(kgo.SeedBrokers(rp.Brokers...))
	require.NoError(t, err)
	defer admClient.Close()
	adm := kadm.NewClient(admClient)
	_, err = adm.CreateTopics(ctx, 1, 1, nil, topic)
	require.NoError(t, err)

	ev := audit.Event{
		ID:          uuid.NewString(),
		Category:    audit.CategorySecurity,
		Timestamp:   time.Now().UTC().Truncate(time.Millisecond),
		Anchor:      "anchor-1",
		Action:      audit.ActionTransitionRejected,
		Code:        "insufficient_quorum",
		MintedDelta: 50,
		Supply:      100,
	}
	require.NoError(t, pub.Publish(ctx, ev))
	require.NoError(t, pub.Close(ctx))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(rp.Brokers...),
		kgo.ConsumeTopics(topic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.Len(t, records, 1)

	require.Equal(t, topic, records[0].Topic)
	require.Equal(t, []byte("anchor-1"), records[0].Key)

	var got audit.Event
	require.NoError(t, json.Unmarshal(records[0].Value, &got))
	require.Equal(t, ev, got)
}
