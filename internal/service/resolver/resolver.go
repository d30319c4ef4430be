package resolver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"service-delivery/internal/apperr"
	"service-delivery/internal/domain"
	"service-delivery/internal/logx"
)

var errNoRows = errors.New("order row not visible yet")

// Config controls how long the resolver waits for a freshly written order.
type Config struct {
	Attempts int
	Delay    time.Duration
}

// Resolver loads an order with its shop and customer, absorbing
// read-after-write lag with a fixed-delay retry.
type Resolver struct {
	store   orderStore
	logger  logx.Logger
	retries counter
	cfg     Config
	wait    func(context.Context, time.Duration) bool
}

// New creates a Resolver. Non-positive attempts default to 3.
func New(store orderStore, logger logx.Logger, retries counter, cfg Config) *Resolver {
	if cfg.Attempts <= 0 {
		cfg.Attempts = 3
	}
	return &Resolver{
		store:   store,
		logger:  logx.OrNop(logger),
		retries: retries,
		cfg:     cfg,
		wait:    sleepWithContext,
	}
}

// Resolve returns the order context. After the last attempt it fails with an
// *apperr.NotFoundError carrying the last underlying error.
func (r *Resolver) Resolve(ctx context.Context, orderID string) (*domain.OrderContext, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, apperr.ErrInvalid
	}

	var lastErr error
	for attempt := 1; attempt <= r.cfg.Attempts; attempt++ {
		oc, err := r.lookup(ctx, orderID)
		if err == nil && oc != nil {
			return oc, nil
		}
		if err == nil {
			err = errNoRows
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, fmt.Errorf("resolve order %q: %w", orderID, ctx.Err())
		}
		if attempt == r.cfg.Attempts {
			break
		}
		if r.retries != nil {
			r.retries.Inc()
		}
		r.logger.Warn("order lookup retry",
			logx.String("order_id", orderID),
			logx.Int("attempt", attempt),
			logx.Duration("delay", r.cfg.Delay),
			logx.Err(err),
		)
		if !r.wait(ctx, r.cfg.Delay) {
			return nil, fmt.Errorf("resolve order %q: %w", orderID, ctx.Err())
		}
	}

	return nil, &apperr.NotFoundError{Resource: "order", ID: orderID, Cause: lastErr}
}

// lookup tries the joined query first and degrades to three separate reads
// when the joined query fails, e.g. on schema drift.
func (r *Resolver) lookup(ctx context.Context, orderID string) (*domain.OrderContext, error) {
	oc, err := r.store.GetContext(ctx, orderID)
	if err == nil {
		return oc, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	r.logger.Warn("joined order lookup failed, using separate lookups",
		logx.String("order_id", orderID),
		logx.Err(err),
	)
	return r.lookupSeparately(ctx, orderID)
}

func (r *Resolver) lookupSeparately(ctx context.Context, orderID string) (*domain.OrderContext, error) {
	o, err := r.store.GetOrder(ctx, orderID)
	if err != nil || o == nil {
		return nil, err
	}
	oc := &domain.OrderContext{Order: *o}

	if o.ShopID != "" {
		shop, err := r.store.GetShop(ctx, o.ShopID)
		if err != nil {
			r.logger.Warn("shop lookup failed",
				logx.String("order_id", orderID),
				logx.String("shop_id", o.ShopID),
				logx.Err(err),
			)
		} else if shop != nil {
			oc.Shop = shop
			oc.Order.ShopLocation = shop.Location
		}
	}

	if o.CustomerID != "" {
		customer, err := r.store.GetCustomer(ctx, o.CustomerID)
		if err != nil {
			r.logger.Warn("customer lookup failed",
				logx.String("order_id", orderID),
				logx.String("customer_id", o.CustomerID),
				logx.Err(err),
			)
		} else if customer != nil {
			oc.Customer = customer
			oc.Order.CustomerLocation = customer.Location
		}
	}
	return oc, nil
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
