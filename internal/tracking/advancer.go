// Package tracking drives the automatic progression of the latest order
// through its status chain, standing in for merchant-side confirmations in
// the demo environment.
package tracking

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/zakolabs/zako-backend/internal/domain/order"
	"github.com/zakolabs/zako-backend/internal/state"
)

// StatusUpdater is the slice of the state manager the advancer needs. Every
// transition goes through UpdateOrderStatus so persistence and notifications
// stay consistent; the advancer never mutates order data directly.
type StatusUpdater interface {
	LatestOrder() (order.Order, bool)
	UpdateOrderStatus(orderID string, st order.Status) error
}

// Advancer rearms a one-shot timer and, each time it fires, moves the latest
// order one step forward while it is non-terminal.
type Advancer struct {
	updater StatusUpdater
	delay   time.Duration
	lg      *zap.Logger
}

// New creates an Advancer firing every delay.
func New(updater StatusUpdater, delay time.Duration, lg *zap.Logger) *Advancer {
	return &Advancer{updater: updater, delay: delay, lg: lg}
}

// Run advances orders until ctx is cancelled. Cancellation is the only way to
// stop it; it always returns nil on shutdown.
func (a *Advancer) Run(ctx context.Context) error {
	timer := time.NewTimer(a.delay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
			a.advance()
			timer.Reset(a.delay)
		}
	}
}

// advance moves the latest order one step along the status chain, if any
// order exists and it is not terminal.
func (a *Advancer) advance() {
	o, ok := a.updater.LatestOrder()
	if !ok {
		return
	}
	next, ok := o.Status.Next()
	if !ok {
		return
	}

	err := a.updater.UpdateOrderStatus(o.ID, next)
	switch {
	case err == nil:
		a.lg.Info("order status advanced",
			zap.String("order_id", o.ID),
			zap.String("from", string(o.Status)),
			zap.String("to", string(next)))
	case errors.Is(err, state.ErrNoUser), errors.Is(err, state.ErrOrderNotFound):
		// The session changed under us between the read and the update.
	default:
		a.lg.Warn("advance order status",
			zap.String("order_id", o.ID),
			zap.Error(err))
	}
}
