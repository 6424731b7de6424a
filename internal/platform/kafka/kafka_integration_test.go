//go:build integration

package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"orgdesk/internal/platform/config"
	id "orgdesk/pkg/domain"
	audit "orgdesk/pkg/platform/audit"
	kafkasink "orgdesk/pkg/platform/audit/sink/kafka"
	"orgdesk/pkg/testutil/containers"
)

func TestAuditSinkRoundTrip(t *testing.T) {
	broker := containers.NewKafkaContainer(t)
	cfg := config.KafkaConfig{
		Brokers:           []string{broker.Broker},
		AuditTopic:        "orgdesk.audit.test",
		NotificationTopic: "orgdesk.notifications.test",
		Partitions:        1,
		ReplicationFactor: 1,
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := NewClient(cfg)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, EnsureTopics(ctx, client, cfg))
	require.NoError(t, EnsureTopics(ctx, client, cfg), "second provisioning is a no-op")

	tenantID := id.TenantID(uuid.New())
	sink := kafkasink.New(client, cfg.AuditTopic)
	require.NoError(t, sink.Append(ctx, audit.Event{
		TenantID:  tenantID,
		Timestamp: time.Now(),
		Action:    string(audit.EventStaffOnboarded),
	}))

	consumer, err := kgo.NewClient(
		kgo.SeedBrokers(broker.Broker),
		kgo.ConsumeTopics(cfg.AuditTopic),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	require.NoError(t, err)
	defer consumer.Close()

	fetches := consumer.PollFetches(ctx)
	require.NoError(t, fetches.Err())
	records := fetches.Records()
	require.NotEmpty(t, records)
	assert.Equal(t, tenantID.String(), string(records[0].Key))
}
