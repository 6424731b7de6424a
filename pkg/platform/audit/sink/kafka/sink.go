// Package kafka publishes audit events as JSON records for downstream
// compliance and SIEM consumers.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	audit "orgdesk/pkg/platform/audit"
)

// Producer is the subset of *kgo.Client the sink needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Sink implements audit.Sink. Records are keyed by tenant so a tenant's
// events stay ordered within one partition.
type Sink struct {
	producer Producer
	topic    string
}

func New(producer Producer, topic string) *Sink {
	return &Sink{producer: producer, topic: topic}
}

// payload is the wire shape; field names are part of the consumer contract.
type payload struct {
	ID        string   `json:"id"`
	Category  string   `json:"category"`
	Timestamp string   `json:"timestamp"`
	TenantID  string   `json:"tenant_id"`
	ActorID   string   `json:"actor_id,omitempty"`
	StaffID   string   `json:"staff_id,omitempty"`
	SessionID string   `json:"session_id,omitempty"`
	Subject   string   `json:"subject,omitempty"`
	Action    string   `json:"action"`
	Decision  string   `json:"decision,omitempty"`
	Reason    string   `json:"reason,omitempty"`
	Channels  []string `json:"channels,omitempty"`
	RequestID string   `json:"request_id,omitempty"`
	ClientIP  string   `json:"client_ip,omitempty"`
	Device    string   `json:"device,omitempty"`
}

func (s *Sink) Append(ctx context.Context, event audit.Event) error {
	category := event.Category
	if category == "" {
		category = audit.AuditEvent(event.Action).Category()
	}

	p := payload{
		ID:        uuid.NewString(),
		Category:  string(category),
		Timestamp: event.Timestamp.UTC().Format(time.RFC3339Nano),
		TenantID:  event.TenantID.String(),
		SessionID: event.SessionID,
		Subject:   event.Subject,
		Action:    event.Action,
		Decision:  event.Decision,
		Reason:    event.Reason,
		Channels:  event.Channels,
		RequestID: event.RequestID,
		ClientIP:  event.ClientIP,
		Device:    event.Device,
	}
	if !event.ActorID.IsNil() {
		p.ActorID = event.ActorID.String()
	}
	if !event.StaffID.IsNil() {
		p.StaffID = event.StaffID.String()
	}

	value, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}

	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(p.TenantID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "category", Value: []byte(p.Category)},
			{Key: "action", Value: []byte(p.Action)},
		},
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce audit record: %w", err)
	}
	return nil
}
