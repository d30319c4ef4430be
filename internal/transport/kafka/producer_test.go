package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"

	"service-delivery/internal/domain"
)

func TestPublisher_Publish_SendsJSON(t *testing.T) {
	t.Parallel()

	agent := "agent-1"
	at := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	evt := domain.DeliveryEvent{
		Type:       domain.EventDeliveryAccepted,
		DeliveryID: "d1",
		OrderID:    "o1",
		Status:     domain.DeliveryAssigned,
		AgentID:    &agent,
		Version:    2,
		OccurredAt: at,
	}

	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got DeliveryEventDTO
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		want := FromDeliveryEvent(evt)
		if got.Type != want.Type || got.DeliveryID != "d1" || got.Version != 2 || *got.AgentID != agent {
			return errors.New("unexpected payload")
		}
		return nil
	})

	p := NewPublisherWithProducer(sp, "delivery.events")
	require.NoError(t, p.Publish(context.Background(), evt))
	require.NoError(t, p.Close())
}

func TestPublisher_Publish_BrokerError(t *testing.T) {
	t.Parallel()

	sp := mocks.NewSyncProducer(t, nil)
	sp.ExpectSendMessageAndFail(sarama.ErrNotLeaderForPartition)

	p := NewPublisherWithProducer(sp, "delivery.events")
	err := p.Publish(context.Background(), domain.DeliveryEvent{Type: domain.EventDeliveryCreated, OrderID: "o1"})
	require.ErrorIs(t, err, sarama.ErrNotLeaderForPartition)
	require.NoError(t, p.Close())
}

func TestPublisher_Publish_CancelledContext(t *testing.T) {
	t.Parallel()

	sp := mocks.NewSyncProducer(t, nil)
	p := NewPublisherWithProducer(sp, "delivery.events")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, p.Publish(ctx, domain.DeliveryEvent{}), context.Canceled)
	require.NoError(t, p.Close())
}

func TestNewPublisher_SkipsWhenNotConfigured(t *testing.T) {
	t.Parallel()

	p, err := NewPublisher(nil, "delivery.events")
	require.NoError(t, err)
	require.Nil(t, p)

	p, err = NewPublisher([]string{"b:9092"}, " ")
	require.NoError(t, err)
	require.Nil(t, p)

	var nilPub *Publisher
	require.NoError(t, nilPub.Close())
}

func TestNewPublisher_FactoryError(t *testing.T) {
	orig := newSyncProducer
	t.Cleanup(func() { newSyncProducer = orig })

	sentinel := errors.New("no brokers")
	newSyncProducer = func([]string, *sarama.Config) (sarama.SyncProducer, error) {
		return nil, sentinel
	}

	p, err := NewPublisher([]string{"b:9092"}, "delivery.events")
	require.ErrorIs(t, err, sentinel)
	require.Nil(t, p)
}

func TestNopPublisher(t *testing.T) {
	t.Parallel()

	require.NoError(t, NopPublisher{}.Publish(context.Background(), domain.DeliveryEvent{}))
}
