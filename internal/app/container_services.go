package app

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-delivery/internal/config"
	"service-delivery/internal/gateway/geocoder"
	"service-delivery/internal/logx"
	"service-delivery/internal/metrics"
	"service-delivery/internal/repository"
	"service-delivery/internal/service/agent"
	"service-delivery/internal/service/delivery"
	"service-delivery/internal/service/resolver"
	"service-delivery/internal/service/tracking"
	"service-delivery/internal/transport/kafka"
)

func registerDomainServices(container *dig.Container) error {
	return provideAll(container,
		newGeocoder,
		newResolver,
		newEventPublisher,
		newDeliveryService,
		func(cfg *config.Config, repo *repository.AgentRepo, logger logx.Logger) *agent.Service {
			return agent.NewService(repo, logger, cfg.Timeouts.Operation)
		},
		func(cfg *config.Config, deliveries *repository.DeliveryRepo, agents *repository.AgentRepo) *tracking.Service {
			return tracking.NewService(deliveries, agents, cfg.Timeouts.Operation)
		},
	)
}

type geocoderIn struct {
	dig.In

	Config   *config.Config
	Logger   logx.Logger
	Retries  prometheus.Counter     `name:"geocoder_retries_total"`
	Outcomes *prometheus.CounterVec `name:"geocoder_requests_total"`
}

func newGeocoder(in geocoderIn) *geocoder.RetryingGeocoder {
	g := in.Config.Geocoder
	provider := geocoder.NewHTTPGeocoder(geocoder.Config{
		BaseURL:   g.BaseURL,
		APIKey:    g.APIKey,
		UserAgent: g.UserAgent,
		Timeout:   g.Timeout,
	}, nil)
	return geocoder.NewRetryingGeocoder(provider, in.Logger, in.Retries, in.Outcomes, geocoder.RetryConfig{
		MaxAttempts: g.MaxAttempts,
		BaseDelay:   g.BaseDelay,
		MaxDelay:    g.MaxDelay,
	})
}

type resolverIn struct {
	dig.In

	Config  *config.Config
	Logger  logx.Logger
	Orders  *repository.OrderRepo
	Retries prometheus.Counter `name:"order_lookup_retries_total"`
}

func newResolver(in resolverIn) *resolver.Resolver {
	return resolver.New(in.Orders, in.Logger, in.Retries, resolver.Config{
		Attempts: in.Config.Resolver.Attempts,
		Delay:    in.Config.Resolver.Delay,
	})
}

// newEventPublisher returns nil when Kafka is not configured.
func newEventPublisher(cfg *config.Config) (*kafka.Publisher, error) {
	return kafka.NewPublisher(cfg.Kafka.Brokers, cfg.Kafka.DeliveryTopic)
}

type deliveryIn struct {
	dig.In

	Config     *config.Config
	Logger     logx.Logger
	Deliveries *repository.DeliveryRepo
	Agents     *repository.AgentRepo
	Orders     *repository.OrderRepo
	Resolver   *resolver.Resolver
	Geocoder   *geocoder.RetryingGeocoder
	Publisher  *kafka.Publisher
	Metrics    *metrics.DeliveryRecorder
}

func newDeliveryService(in deliveryIn) *delivery.Service {
	deps := delivery.Deps{
		Store:     in.Deliveries,
		Orders:    in.Resolver,
		Geocoder:  in.Geocoder,
		Locations: in.Orders,
		Agents:    in.Agents,
		Events:    kafka.NopPublisher{},
		Metrics:   in.Metrics,
		Logger:    in.Logger,
	}
	if in.Publisher != nil {
		deps.Events = in.Publisher
	}
	return delivery.NewService(deps, delivery.Config{
		OperationTimeout: in.Config.Timeouts.Operation,
		CreateTimeout:    in.Config.CreateBudget(),
		GeocodeTimeout:   in.Config.Geocoder.Budget() + time.Second,
	})
}
