package ratelimit

import (
	"io"
	"math"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
)

const (
	headerRemaining  = "X-RateLimit-Remaining"
	headerRetryAfter = "Retry-After"
)

// Middleware answers 429 once a caller has spent its tokens.
type Middleware struct {
	logger  logx.Logger
	denied  prometheus.Counter
	limiter Limiter
}

// New builds the middleware. A nil limiter admits everything.
func New(logger logx.Logger, denied prometheus.Counter, limiter Limiter) *Middleware {
	if limiter == nil {
		limiter = Unlimited{}
	}
	return &Middleware{
		logger:  logx.OrNop(logger),
		denied:  denied,
		limiter: limiter,
	}
}

// Handler returns chi-style middleware. Mount it after the actor middleware
// so authenticated callers are keyed by actor id.
func (m *Middleware) Handler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := limitKey(r)
			d := m.limiter.Take(key)
			if d.Allowed {
				if d.Remaining >= 0 {
					w.Header().Set(headerRemaining, strconv.Itoa(d.Remaining))
				}
				next.ServeHTTP(w, r)
				return
			}

			if m.denied != nil {
				m.denied.Inc()
			}
			m.logger.Warn("rate limit exceeded",
				logx.String("key", key),
				logx.String("method", r.Method),
				logx.String("path", r.URL.Path),
				logx.Duration("retry_after", d.RetryAfter),
			)
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set(headerRemaining, "0")
			w.Header().Set(headerRetryAfter, retryAfterSeconds(d.RetryAfter))
			w.WriteHeader(http.StatusTooManyRequests)
			if _, err := io.WriteString(w, `{"success":false,"error":"too many requests","errorCode":"RATE_LIMITED"}`); err != nil {
				m.logger.Debug("rate limit response write failed", logx.String("key", key), logx.Err(err))
			}
		})
	}
}

// retryAfterSeconds rounds up to whole seconds, never below one.
func retryAfterSeconds(d time.Duration) string {
	s := int(math.Ceil(d.Seconds()))
	if s < 1 {
		s = 1
	}
	return strconv.Itoa(s)
}

func limitKey(r *http.Request) string {
	if a, ok := domain.ActorFrom(r.Context()); ok {
		return "actor:" + a.ID
	}
	return "ip:" + clientIP(r)
}

// clientIP expects chi's RealIP to have rewritten RemoteAddr already.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
