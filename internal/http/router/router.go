package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-delivery/internal/config"
	"service-delivery/internal/http/handlers"
	mw "service-delivery/internal/http/middleware"
	"service-delivery/internal/http/middleware/ratelimit"
	"service-delivery/internal/logx"
)

// Params are the router dependencies resolved by the container.
type Params struct {
	dig.In

	Config     *config.Config
	Logger     logx.Logger
	Base       *handlers.Handlers
	Deliveries *handlers.DeliveryHandler
	Agents     *handlers.AgentHandler

	RateLimit       *ratelimit.Middleware    `optional:"true"`
	RequestsTotal   *prometheus.CounterVec   `name:"http_requests_total" optional:"true"`
	RequestDuration *prometheus.HistogramVec `name:"http_request_duration_seconds" optional:"true"`
}

// New constructs a chi-based http.Handler with base middleware and routes.
func New(p Params) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Observability(p.Logger, p.RequestsTotal, p.RequestDuration))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout(p.Config)))

	r.Get("/ping", p.Base.Ping)
	r.Method(http.MethodHead, "/healthcheck", http.HandlerFunc(p.Base.HealthcheckHead))
	r.NotFound(p.Base.NotFound)
	r.MethodNotAllowed(p.Base.MethodNotAllowed)

	var secret string
	if p.Config != nil {
		secret = p.Config.Auth.JWTSecret
	}

	r.Route("/api/v1", func(api chi.Router) {
		api.Use(mw.Actor(secret, p.Logger))
		if p.RateLimit != nil {
			api.Use(p.RateLimit.Handler())
		}

		api.Route("/deliveries", func(d chi.Router) {
			d.Post("/", p.Deliveries.Create)
			d.Get("/", p.Deliveries.List)
			d.Get("/{id}", p.Deliveries.Get)
			d.Patch("/{id}", p.Deliveries.Update)
			d.Post("/{id}/accept", p.Deliveries.Accept)
			d.Get("/{id}/tracking", p.Deliveries.DeliveryTracking)
		})
		api.Get("/orders/{orderID}/tracking", p.Deliveries.Tracking)

		api.Route("/agents", func(a chi.Router) {
			a.Post("/", p.Agents.Register)
			a.Get("/", p.Agents.List)
			a.Get("/{id}", p.Agents.Get)
			a.Put("/{id}/availability", p.Agents.SetAvailability)
			a.Put("/{id}/location", p.Agents.PushLocation)
			a.Post("/{id}/review", p.Agents.Review)
		})
	})

	return r
}

// requestTimeout leaves headroom over the slowest operation, delivery creation.
func requestTimeout(cfg *config.Config) time.Duration {
	const headroom = 5 * time.Second
	d := 30 * time.Second
	if cfg != nil && cfg.CreateBudget() > 0 {
		d = cfg.CreateBudget()
	}
	return d + headroom
}
