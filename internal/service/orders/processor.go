package orders

import (
	"context"
	"errors"
	"strings"

	"service-delivery/internal/apperr"
	"service-delivery/internal/logx"
)

// Processor turns order status events into delivery operations.
type Processor struct {
	delivery Deliveries
	logger   logx.Logger
	factory  *actionFactory
}

// NewProcessor creates a new orders.Processor
func NewProcessor(deliveries Deliveries, logger logx.Logger) *Processor {
	if logger == nil {
		logger = logx.Nop()
	}
	p := &Processor{
		delivery: deliveries,
		logger:   logger,
	}
	p.factory = newActionFactory(p.onPayable, p.onCancelled)
	return p
}

// Handle processes a single orders.Event. Events that can never succeed are
// logged and dropped; only retryable failures are returned.
func (p *Processor) Handle(ctx context.Context, e Event) error {
	if p.factory == nil {
		return nil
	}
	if strings.TrimSpace(e.OrderID) == "" {
		p.logger.Warn("order event without order id", logx.String("status", e.Status))
		return nil
	}
	fn, ok := p.factory.get(e.OrderStatus())
	if !ok {
		p.logger.Debug("order event ignored",
			logx.String("order_id", e.OrderID),
			logx.String("status", e.Status),
		)
		return nil
	}
	return fn(ctx, e)
}

func (p *Processor) onPayable(ctx context.Context, e Event) error {
	res, err := p.delivery.Create(ctx, e.OrderID)
	switch {
	case err == nil:
		p.logger.Info("delivery ensured for order",
			logx.String("order_id", e.OrderID),
			logx.String("delivery_id", res.Delivery.ID),
			logx.Bool("created", res.Created),
			logx.Bool("assigned", res.Delivery.HasAgent()),
		)
		return nil
	case skippable(err):
		p.logger.Warn("order event skipped",
			logx.String("order_id", e.OrderID),
			logx.String("status", e.Status),
			logx.String("code", apperr.Code(err)),
			logx.Err(err),
		)
		return nil
	default:
		return err
	}
}

func (p *Processor) onCancelled(ctx context.Context, e Event) error {
	released, err := p.delivery.ReleaseForCancelledOrder(ctx, e.OrderID)
	if err != nil {
		if skippable(err) {
			return nil
		}
		return err
	}
	if !released {
		p.logger.Debug("cancelled order had no agent to release", logx.String("order_id", e.OrderID))
	}
	return nil
}

func skippable(err error) bool {
	return errors.Is(err, apperr.ErrPreconditionFailed) ||
		errors.Is(err, apperr.ErrNotFound) ||
		errors.Is(err, apperr.ErrInvalid)
}
