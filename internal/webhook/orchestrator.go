// Package webhook manages the processor webhook subscription and handles
// incoming events.
package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/metric"
	"paypal-payments-gateway/internal/transient"
)

const (
	OperationLockKey = "ppcp_webhook_operation_lock"
	LockTTL          = 60 * time.Second

	orderLockPrefix = "order:"
)

// ErrLockHeld is returned when an operation was skipped because another
// process holds its lock.
var ErrLockHeld = errors.New("operation lock held")

// Orchestrator runs operations under short-lived advisory locks. It never
// waits for a lock; a held lock means the operation is skipped.
type Orchestrator struct {
	store transient.Store
	ttl   time.Duration
	log   *slog.Logger
}

func NewOrchestrator(store transient.Store, log *slog.Logger) *Orchestrator {
	return &Orchestrator{
		store: store,
		ttl:   LockTTL,
		log:   log,
	}
}

// WithLock runs op under the webhook registration lock.
func (o *Orchestrator) WithLock(ctx context.Context, action string, op func(ctx context.Context) error) error {
	return o.withKey(ctx, OperationLockKey, action, op)
}

// WithOrderLock runs op under the lock of one processor order. Webhook
// handlers and synchronous captures of the same order share it.
func (o *Orchestrator) WithOrderLock(ctx context.Context, orderID, action string, op func(ctx context.Context) error) error {
	if orderID == "" {
		return fmt.Errorf("%s: empty order id", action)
	}
	return o.withKey(ctx, orderLockPrefix+orderID, action, op)
}

func (o *Orchestrator) withKey(ctx context.Context, key, action string, op func(ctx context.Context) error) error {
	release, ok, err := transient.TryLock(ctx, o.store, key, o.ttl)
	if err != nil {
		return fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		metric.LockSkipsTotal.WithLabelValues(action).Inc()
		o.log.InfoContext(ctx, "operation skipped, lock held",
			slog.String("action", action), slog.String("lock", key), logger.Traced(ctx))
		return ErrLockHeld
	}
	defer func() {
		release()
		o.log.DebugContext(ctx, "lock released", slog.String("action", action), slog.String("lock", key))
	}()

	o.log.DebugContext(ctx, "lock acquired", slog.String("action", action), slog.String("lock", key))
	return op(ctx)
}
