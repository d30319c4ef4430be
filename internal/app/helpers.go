package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"service-delivery/internal/logx"
	"service-delivery/internal/repository"
)

var newPool = repository.NewPool

const (
	dbAttemptTimeout = 3 * time.Second
	dbMaxBackoff     = 5 * time.Second
)

// connectDbWithRetry waits for Postgres to accept connections. The pause
// between attempts starts at delay and doubles up to dbMaxBackoff.
func connectDbWithRetry(ctx context.Context, logger logx.Logger, dsn string, attempts int, delay time.Duration) (*pgxpool.Pool, error) {
	logger = logx.OrNop(logger)
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		pool, err := dialPool(ctx, dsn)
		if err == nil {
			logger.Info("db connected", logx.Int("attempt", attempt))
			return pool, nil
		}
		lastErr = err
		logger.Warn("db connect failed",
			logx.Int("attempt", attempt),
			logx.Int("attempts", attempts),
			logx.Err(err),
		)
		if attempt == attempts {
			break
		}
		if err := pause(ctx, delay); err != nil {
			return nil, err
		}
		delay = min(delay*2, dbMaxBackoff)
	}
	return nil, fmt.Errorf("db connect failed after %d attempts: %w", attempts, lastErr)
}

func dialPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, dbAttemptTimeout)
	defer cancel()
	return newPool(attemptCtx, dsn)
}

func pause(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
