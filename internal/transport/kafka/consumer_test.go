package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/require"

	"service-delivery/internal/service/orders"
	testlog "service-delivery/internal/testutil"
)

type fakeGroup struct{}

func (fakeGroup) Consume(context.Context, []string, sarama.ConsumerGroupHandler) error { return nil }
func (fakeGroup) Errors() <-chan error {
	ch := make(chan error)
	close(ch)
	return ch
}
func (fakeGroup) Close() error              { return nil }
func (fakeGroup) Pause(map[string][]int32)  {}
func (fakeGroup) Resume(map[string][]int32) {}
func (fakeGroup) PauseAll()                 {}
func (fakeGroup) ResumeAll()                {}

func TestNewConsumer_SkipsWhenNoKafkaConfig(t *testing.T) {
	t.Parallel()

	rec := testlog.New()

	got, err := NewConsumer(rec.Logger(), nil, "gid", "topic", func(context.Context, orders.Event) error { return nil })
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = NewConsumer(rec.Logger(), []string{"b:9092"}, "", "topic", nil)
	require.NoError(t, err)
	require.Nil(t, got)

	got, err = NewConsumer(rec.Logger(), []string{"b:9092"}, "gid", "   ", nil)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestNewConsumer_ReturnsErrorWhenSaramaFails(t *testing.T) {
	orig := newConsumerGroup
	t.Cleanup(func() { newConsumerGroup = orig })

	sentinel := errors.New("boom")
	newConsumerGroup = func(_ []string, _ string, _ *sarama.Config) (sarama.ConsumerGroup, error) {
		return nil, sentinel
	}

	rec := testlog.New()
	got, err := NewConsumer(rec.Logger(), []string{"b:9092"}, "gid", "topic", nil)
	require.ErrorIs(t, err, sentinel)
	require.Nil(t, got)
}

func TestNewConsumer_UsesGroupFactory(t *testing.T) {
	orig := newConsumerGroup
	t.Cleanup(func() { newConsumerGroup = orig })

	var gotBrokers []string
	var gotGroup string
	newConsumerGroup = func(brokers []string, groupID string, cfg *sarama.Config) (sarama.ConsumerGroup, error) {
		gotBrokers, gotGroup = brokers, groupID
		require.Equal(t, sarama.OffsetOldest, cfg.Consumer.Offsets.Initial)
		return fakeGroup{}, nil
	}

	got, err := NewConsumer(testlog.New().Logger(), []string{"b:9092"}, "gid", "orders.events", nil)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, []string{"b:9092"}, gotBrokers)
	require.Equal(t, "gid", gotGroup)
	require.Equal(t, defaultHandleAttempts, got.attempts)
	require.NoError(t, got.Close())
}

func TestConsumer_Run_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := &Consumer{group: fakeGroup{}, topic: "t", logger: testlog.New().Logger()}
	require.ErrorIs(t, c.Run(ctx), context.Canceled)

	var nilConsumer *Consumer
	require.NoError(t, nilConsumer.Run(ctx))
	require.NoError(t, nilConsumer.Close())
}
