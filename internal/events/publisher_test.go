package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"property-backoffice/config"
	"property-backoffice/internal/model"
)

func TestKafkaPublisher_Publish(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	pub := newKafkaPublisher(producer, "billing-events", zap.NewNop())

	method := model.PaymentCash
	reading := model.MeterReading{
		ID:            "reading-1",
		RoomID:        "room-1",
		BillingMonth:  time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		TotalAmount:   3797.5,
		IsPaid:        true,
		PaymentMethod: &method,
	}
	now := time.Date(2024, 5, 20, 10, 0, 0, 0, time.UTC)

	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var ev Event
		if err := json.Unmarshal(val, &ev); err != nil {
			return err
		}
		if ev.Type != TypeReadingPaid || ev.ReadingID != "reading-1" || ev.BillingMonth != "2024-05" {
			return errors.New("unexpected event payload: " + string(val))
		}
		if ev.PaymentMethod == nil || *ev.PaymentMethod != model.PaymentCash {
			return errors.New("payment method missing")
		}
		return nil
	})

	err := pub.Publish(context.Background(), FromReading(TypeReadingPaid, reading, now))
	require.NoError(t, err)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_PublishFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	pub := newKafkaPublisher(producer, "billing-events", zap.NewNop())

	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := pub.Publish(context.Background(), Event{Type: TypeReadingUpserted, ReadingID: "r"})
	require.Error(t, err)
	assert.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, pub.Close())
}

func TestKafkaPublisher_CancelledContext(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	pub := newKafkaPublisher(producer, "billing-events", zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := pub.Publish(ctx, Event{Type: TypeReadingUnpaid, ReadingID: "r"})
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, pub.Close())
}

func TestNew_DisabledIsNop(t *testing.T) {
	pub, err := New(config.EventsConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, NopPublisher{}, pub)
	assert.NoError(t, pub.Publish(context.Background(), Event{}))
	assert.NoError(t, pub.Close())
}

func TestParseRequiredAcks(t *testing.T) {
	testCases := map[string]sarama.RequiredAcks{
		"none":   sarama.NoResponse,
		"leader": sarama.WaitForLocal,
		"1":      sarama.WaitForLocal,
		"ALL":    sarama.WaitForAll,
		"-1":     sarama.WaitForAll,
	}
	for in, expected := range testCases {
		got, err := parseRequiredAcks(in)
		require.NoError(t, err, in)
		assert.Equal(t, expected, got, in)
	}

	_, err := parseRequiredAcks("sometimes")
	assert.Error(t, err)
}
