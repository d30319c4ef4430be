package app

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-delivery/internal/config"
	"service-delivery/internal/http/handlers"
	"service-delivery/internal/http/opsserver"
	"service-delivery/internal/http/router"
)

type opsServerOut struct {
	dig.Out

	Server *http.Server `name:"ops_server"`
}

func registerHTTP(container *dig.Container) error {
	return provideAll(container,
		handlers.New,
		handlers.NewDeliveryUsecase,
		handlers.NewAgentUsecase,
		handlers.NewTrackingUsecase,
		handlers.NewDeliveryHandler,
		handlers.NewAgentHandler,
		newRateLimitMiddleware,
		router.New,
		newHTTPServer,
		newOpsServer,
	)
}

// newOpsServer returns a nil server when the ops listener is disabled.
func newOpsServer(cfg *config.Config, gatherer prometheus.Gatherer) opsServerOut {
	if !cfg.Ops.Enabled || strings.TrimSpace(cfg.Ops.Addr) == "" {
		return opsServerOut{}
	}
	return opsServerOut{Server: &http.Server{
		Addr:              cfg.Ops.Addr,
		Handler:           opsserver.Handler(opsserver.Config{User: cfg.Ops.User, Pass: cfg.Ops.Pass}, gatherer),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}}
}
