package app

import (
	"context"
	"time"

	"go.uber.org/dig"

	"service-delivery/internal/config"
	"service-delivery/internal/logx"
	"service-delivery/internal/service/delivery"
	"service-delivery/internal/service/orders"
	"service-delivery/internal/transport/kafka"
)

type orderEventHandler interface {
	Handle(ctx context.Context, e orders.Event) error
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		func(svc *delivery.Service, logger logx.Logger) *orders.Processor {
			return orders.NewProcessor(svc, logger)
		},
		func(cfg *config.Config, logger logx.Logger, p *orders.Processor) (*kafka.Consumer, error) {
			h := makeOrdersKafka(p, cfg.CreateBudget())
			return kafka.NewConsumer(logger, cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.OrdersTopic, h)
		},
	)
}

// makeOrdersKafka bounds each order event by timeout.
func makeOrdersKafka(h orderEventHandler, timeout time.Duration) kafka.HandleFunc {
	return func(ctx context.Context, event orders.Event) error {
		if timeout <= 0 {
			return h.Handle(ctx, event)
		}
		hCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return h.Handle(hCtx, event)
	}
}
