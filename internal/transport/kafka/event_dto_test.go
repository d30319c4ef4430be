package kafka_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"service-delivery/internal/domain"
	"service-delivery/internal/service/orders"
	"service-delivery/internal/transport/kafka"
)

func TestToDomain_TrimsAndCopiesFields(t *testing.T) {
	t.Parallel()

	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	dto := kafka.EventDTO{
		OrderID:   "  order-1  ",
		Status:    "  paid  ",
		CreatedAt: ts,
	}

	got := kafka.ToDomain(dto)

	require.Equal(t, orders.Event{
		OrderID:   "order-1",
		Status:    "paid",
		CreatedAt: ts,
	}, got)
}

func TestFromDeliveryEvent(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 1, 2, 3, 4, 5, 0, time.FixedZone("IST", 19800))
	got := kafka.FromDeliveryEvent(domain.DeliveryEvent{
		Type:       domain.EventDeliveryUpdated,
		DeliveryID: "d1",
		OrderID:    "o1",
		Status:     domain.DeliveryInTransit,
		Version:    3,
		OccurredAt: at,
	})

	require.Equal(t, "delivery_updated", got.Type)
	require.Equal(t, "IN_TRANSIT", got.Status)
	require.Nil(t, got.AgentID)
	require.Equal(t, time.UTC, got.OccurredAt.Location())
	require.True(t, got.OccurredAt.Equal(at))
	require.Nil(t, got.OrderTotal)
}

func TestFromDeliveryEvent_OrderTotal(t *testing.T) {
	t.Parallel()

	total := decimal.RequireFromString("249.5")
	got := kafka.FromDeliveryEvent(domain.DeliveryEvent{
		Type:       domain.EventDeliveryCreated,
		DeliveryID: "d1",
		OrderID:    "o1",
		Status:     domain.DeliveryAssigned,
		Version:    1,
		OrderTotal: &total,
	})

	require.NotNil(t, got.OrderTotal)
	require.Equal(t, "249.50", *got.OrderTotal)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	require.Contains(t, string(raw), `"order_total":"249.50"`)
}
