// Package events publishes billing changes to Kafka so downstream systems
// (accounting exports, tenant notifications) can follow reading and payment
// updates. Publishing is synchronous and best-effort: a broker failure is
// logged and never undoes the billing write.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"property-backoffice/config"
	"property-backoffice/internal/model"
)

// Event types.
const (
	TypeReadingUpserted = "reading.upserted"
	TypeReadingPaid     = "reading.paid"
	TypeReadingUnpaid   = "reading.unpaid"
)

// Event is the JSON payload written to the topic, keyed by ReadingID.
type Event struct {
	Type          string               `json:"type"`
	ReadingID     string               `json:"reading_id"`
	RoomID        string               `json:"room_id"`
	BillingMonth  string               `json:"billing_month"`
	TotalAmount   float64              `json:"total_amount"`
	IsPaid        bool                 `json:"is_paid"`
	PaymentMethod *model.PaymentMethod `json:"payment_method,omitempty"`
	OccurredAt    time.Time            `json:"occurred_at"`
}

// FromReading builds an event of the given type for r.
func FromReading(eventType string, r model.MeterReading, now time.Time) Event {
	return Event{
		Type:          eventType,
		ReadingID:     r.ID,
		RoomID:        r.RoomID,
		BillingMonth:  r.BillingMonth.UTC().Format("2006-01"),
		TotalAmount:   r.TotalAmount,
		IsPaid:        r.IsPaid,
		PaymentMethod: r.PaymentMethod,
		OccurredAt:    now.UTC(),
	}
}

// Publisher sends billing events.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
	Close() error
}

// New returns a Kafka publisher when events are enabled, otherwise a no-op.
func New(cfg config.EventsConfig, logger *zap.Logger) (Publisher, error) {
	if !cfg.Enabled {
		return NopPublisher{}, nil
	}

	acks, err := parseRequiredAcks(cfg.RequiredAcks)
	if err != nil {
		return nil, err
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Producer.RequiredAcks = acks
	saramaConfig.Producer.Retry.Max = cfg.RetryMax
	saramaConfig.Producer.Return.Successes = true // required by SyncProducer
	saramaConfig.Producer.Return.Errors = true

	producer, err := sarama.NewSyncProducer(cfg.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("error creating Sarama SyncProducer: %w", err)
	}
	logger.Info("Kafka billing event publisher ready",
		zap.Strings("brokers", cfg.Brokers),
		zap.String("topic", cfg.Topic),
	)
	return newKafkaPublisher(producer, cfg.Topic, logger), nil
}

// KafkaPublisher writes events through a sarama SyncProducer.
type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
	logger   *zap.Logger
}

func newKafkaPublisher(producer sarama.SyncProducer, topic string, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic, logger: logger}
}

// Publish sends ev and waits for the broker acknowledgement.
func (p *KafkaPublisher) Publish(ctx context.Context, ev Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: p.topic,
		Key:   sarama.StringEncoder(ev.ReadingID),
		Value: sarama.ByteEncoder(payload),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event_type"), Value: []byte(ev.Type)},
		},
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		p.logger.Warn("Failed to publish billing event",
			zap.String("type", ev.Type),
			zap.String("reading_id", ev.ReadingID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish %s for reading %s: %w", ev.Type, ev.ReadingID, err)
	}

	p.logger.Debug("Published billing event",
		zap.String("type", ev.Type),
		zap.String("reading_id", ev.ReadingID),
		zap.Int32("partition", partition),
		zap.Int64("offset", offset),
	)
	return nil
}

// Close flushes and closes the producer.
func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
func (NopPublisher) Close() error                        { return nil }

func parseRequiredAcks(v string) (sarama.RequiredAcks, error) {
	switch strings.ToLower(v) {
	case "none", "no_response":
		return sarama.NoResponse, nil
	case "leader", "local", "wait_for_local", "1":
		return sarama.WaitForLocal, nil
	case "all", "wait_for_all", "-1":
		return sarama.WaitForAll, nil
	default:
		return sarama.WaitForAll, fmt.Errorf("invalid kafka required_acks: %s", v)
	}
}
