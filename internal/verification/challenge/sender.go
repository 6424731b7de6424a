package challenge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

// Sender delivers a code to its target. Delivery is fire-and-forget from the
// wizard's point of view; only Confirm changes verification state.
type Sender interface {
	Send(ctx context.Context, channel Channel, target, code string) error
}

// LogSender writes codes to the log. Development only.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, channel Channel, target, code string) error {
	s.logger.DebugContext(ctx, "verification code issued",
		"channel", string(channel),
		"target", Mask(channel, target),
		"code", code,
	)
	return nil
}

// Producer is the subset of *kgo.Client the Kafka sender needs.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// KafkaSender hands codes to the notification service over a Kafka topic.
type KafkaSender struct {
	producer Producer
	topic    string
}

func NewKafkaSender(producer Producer, topic string) *KafkaSender {
	return &KafkaSender{producer: producer, topic: topic}
}

type notification struct {
	Template string `json:"template"`
	Channel  string `json:"channel"`
	Target   string `json:"target"`
	Code     string `json:"code"`
	SentAt   string `json:"sent_at"`
}

func (s *KafkaSender) Send(ctx context.Context, channel Channel, target, code string) error {
	value, err := json.Marshal(notification{
		Template: "verification_code",
		Channel:  string(channel),
		Target:   target,
		Code:     code,
		SentAt:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("marshal notification: %w", err)
	}
	record := &kgo.Record{
		Topic: s.topic,
		Key:   []byte(target),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "channel", Value: []byte(channel)},
		},
	}
	if err := s.producer.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("produce notification: %w", err)
	}
	return nil
}

// Mask hides most of a target for logs: "a***@example.com", "******3210".
func Mask(channel Channel, target string) string {
	switch channel {
	case ChannelEmail:
		for i := 0; i < len(target); i++ {
			if target[i] == '@' {
				if i == 0 {
					return target
				}
				return target[:1] + "***" + target[i:]
			}
		}
	case ChannelPhone:
		if len(target) > 4 {
			masked := make([]byte, len(target))
			for i := range masked {
				masked[i] = '*'
			}
			copy(masked[len(target)-4:], target[len(target)-4:])
			return string(masked)
		}
	}
	return "***"
}
