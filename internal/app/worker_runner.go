package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"service-delivery/internal/logx"
	"service-delivery/internal/transport/kafka"
)

// WorkerRunner runs the order events consumer
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun consumes order events until the container context is done
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

type workerIn struct {
	dig.In

	Ctx       context.Context
	Pool      *pgxpool.Pool
	Logger    logx.Logger
	Consumer  *kafka.Consumer
	Publisher *kafka.Publisher `optional:"true"`
}

func runWorker(container *dig.Container) error {
	return container.Invoke(func(in workerIn) error {
		return workerRun(in.Ctx, in.Pool, in.Logger, in.Consumer, in.Publisher)
	})
}

func workerRun(
	ctx context.Context,
	pool *pgxpool.Pool,
	logger logx.Logger,
	consumer *kafka.Consumer,
	publisher *kafka.Publisher,
) error {
	if consumer == nil {
		return fmt.Errorf("kafka consumer is nil: KAFKA_BROKERS, KAFKA_GROUP_ID and KAFKA_ORDERS_TOPIC are required")
	}
	defer closeWorker(pool, logger, consumer, publisher)

	logger.Info("service-delivery-worker started")
	return consumer.Run(ctx)
}

func closeWorker(pool *pgxpool.Pool, logger logx.Logger, consumer *kafka.Consumer, publisher *kafka.Publisher) {
	if err := consumer.Close(); err != nil {
		logger.Error("kafka consumer close error", logx.Err(err))
	}
	closeResources(pool, publisher, logger)
}
