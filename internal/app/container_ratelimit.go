package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"service-delivery/internal/config"
	"service-delivery/internal/http/middleware/ratelimit"
	"service-delivery/internal/logx"
)

type rateLimitIn struct {
	dig.In

	Config *config.Config
	Logger logx.Logger
	Denied prometheus.Counter `name:"rate_limit_exceeded_total"`
}

// newRateLimitMiddleware keys buckets by actor id, falling back to client IP.
// With limiting disabled every request is admitted.
func newRateLimitMiddleware(in rateLimitIn) *ratelimit.Middleware {
	rl := in.Config.RateLimit
	var limiter ratelimit.Limiter = ratelimit.Unlimited{}
	if rl.Enabled {
		limiter = ratelimit.NewTokenBucketLimiter(nil, ratelimit.Config{
			Rate:       rl.Rate,
			Burst:      rl.Burst,
			TTL:        rl.TTL,
			MaxBuckets: rl.MaxBuckets,
		})
		in.Logger.Info("rate limiting enabled",
			logx.Float64("rate", rl.Rate),
			logx.Int("burst", rl.Burst),
		)
	}
	return ratelimit.New(in.Logger, in.Denied, limiter)
}
