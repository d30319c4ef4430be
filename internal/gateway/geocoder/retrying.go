package geocoder

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
)

// Request outcomes reported to the outcome counter.
const (
	OutcomeResolved   = "resolved"
	OutcomeNoMatch    = "no_match"
	OutcomeGaveUp     = "gave_up"
	OutcomeAuthFailed = "auth_failed"
	OutcomeFailed     = "failed"
)

type provider interface {
	Search(context.Context, string) (domain.Coordinates, error)
	Reverse(context.Context, domain.Coordinates) (string, error)
}

type counter interface {
	Inc()
}

type outcomeCounter interface {
	WithLabelValues(lvs ...string) prometheus.Counter
}

// RetryConfig describes the retry behaviour of RetryingGeocoder.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingGeocoder retries transient provider failures and folds everything
// except credential problems into an Unresolved location.
type RetryingGeocoder struct {
	next     provider
	logger   logx.Logger
	retries  counter
	outcomes outcomeCounter
	cfg      RetryConfig
	wait     func(context.Context, time.Duration) bool
}

// NewRetryingGeocoder returns nil when next is nil.
func NewRetryingGeocoder(next provider, logger logx.Logger, retries counter, outcomes outcomeCounter, cfg RetryConfig) *RetryingGeocoder {
	if next == nil {
		return nil
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryingGeocoder{
		next:     next,
		logger:   logx.OrNop(logger),
		retries:  retries,
		outcomes: outcomes,
		cfg:      cfg,
		wait:     sleepWithContext,
	}
}

// Resolve geocodes address. The only errors returned are ErrInvalid for an
// empty address, ErrGeocoderAuth and context cancellation.
func (g *RetryingGeocoder) Resolve(ctx context.Context, address string) (domain.Location, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.Unresolved(), apperr.ErrInvalid
	}

	var c domain.Coordinates
	ok, err := g.do(ctx, "Search", func(ctx context.Context) error {
		var err error
		c, err = g.next.Search(ctx, address)
		return err
	})
	if err != nil || !ok {
		return domain.Unresolved(), err
	}
	return domain.Resolved(c), nil
}

// Reverse returns a display address, or "" when none could be determined.
func (g *RetryingGeocoder) Reverse(ctx context.Context, c domain.Coordinates) (string, error) {
	if !c.Valid() {
		return "", apperr.ErrInvalid
	}
	var addr string
	ok, err := g.do(ctx, "Reverse", func(ctx context.Context) error {
		var err error
		addr, err = g.next.Reverse(ctx, c)
		return err
	})
	if err != nil || !ok {
		return "", err
	}
	return addr, nil
}

// do runs call until success or a non-transient failure. ok is false when the
// output should be treated as unresolved.
func (g *RetryingGeocoder) do(ctx context.Context, method string, call func(context.Context) error) (ok bool, err error) {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		err := call(ctx)
		if err == nil {
			g.observe(OutcomeResolved)
			return true, nil
		}
		lastErr = err

		switch {
		case errors.Is(err, ErrNoMatch):
			g.observe(OutcomeNoMatch)
			return false, nil
		case errors.Is(err, apperr.ErrGeocoderAuth):
			g.observe(OutcomeAuthFailed)
			g.logger.Error("geocoder rejected credentials",
				logx.String("method", method),
				logx.Err(err),
			)
			return false, err
		case ctx.Err() != nil:
			return false, ctx.Err()
		case !errors.Is(err, apperr.ErrTransient):
			g.observe(OutcomeFailed)
			g.logger.Warn("geocoder request failed",
				logx.String("method", method),
				logx.Err(err),
			)
			return false, nil
		}

		if attempt == g.cfg.MaxAttempts {
			break
		}
		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("geocoder retry",
			logx.String("method", method),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !g.wait(ctx, delay) {
			return false, ctx.Err()
		}
	}

	g.observe(OutcomeGaveUp)
	g.logger.Warn("geocoder gave up",
		logx.String("method", method),
		logx.Int("attempts", g.cfg.MaxAttempts),
		logx.Err(lastErr),
	)
	return false, nil
}

func (g *RetryingGeocoder) observe(outcome string) {
	if g.outcomes != nil {
		g.outcomes.WithLabelValues(outcome).Inc()
	}
}

func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
