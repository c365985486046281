package webhook

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"paypal-payments-gateway/internal/client"
	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/repository"
)

// Record is the persisted webhook registration.
type Record struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	EventTypes   []string  `json:"event_types"`
	RegisteredAt time.Time `json:"registered_at"`
}

// Registrar keeps exactly one processor subscription pointing at the gateway.
type Registrar struct {
	pp           client.PaypalClient
	options      repository.OptionRepository
	orchestrator *Orchestrator
	events       *EventStorage
	simulation   *Simulation
	url          string
	eventTypes   []string
	log          *slog.Logger
}

func NewRegistrar(
	pp client.PaypalClient,
	options repository.OptionRepository,
	orchestrator *Orchestrator,
	events *EventStorage,
	simulation *Simulation,
	url string,
	eventTypes []string,
	log *slog.Logger,
) *Registrar {
	return &Registrar{
		pp:           pp,
		options:      options,
		orchestrator: orchestrator,
		events:       events,
		simulation:   simulation,
		url:          url,
		eventTypes:   eventTypes,
		log:          log,
	}
}

// Register replaces every existing subscription with a new one for the
// gateway URL and starts a simulation. It returns false when the processor
// failed or the lock was held.
func (r *Registrar) Register(ctx context.Context) bool {
	err := r.orchestrator.WithLock(ctx, "register", func(ctx context.Context) error {
		r.unregisterAll(ctx)

		created, err := r.pp.CreateWebhook(ctx, r.url, r.eventTypes)
		if err != nil {
			return err
		}
		if created == nil || created.ID == "" {
			return fmt.Errorf("%w: created webhook without id", entity.ErrMalformedResponse)
		}
		err = setJSON(ctx, r.options, optionWebhook, Record{
			ID:           created.ID,
			URL:          created.URL,
			EventTypes:   created.EventTypes,
			RegisteredAt: time.Now().UTC(),
		})
		if err != nil {
			return err
		}
		if err := r.events.Clear(ctx); err != nil {
			return fmt.Errorf("clear last event: %w", err)
		}

		if _, err := r.simulation.Start(ctx, created.ID); err != nil {
			r.log.WarnContext(ctx, "webhook self-test not started", logger.Err(err))
		}
		r.log.InfoContext(ctx, "webhook registered",
			slog.String("webhook_id", created.ID), slog.String("url", created.URL), logger.Traced(ctx))
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrLockHeld) {
			r.log.ErrorContext(ctx, "webhook registration failed", logger.Err(err), logger.Traced(ctx))
		}
		return false
	}
	return true
}

// Unregister deletes every subscription, best effort, and always forgets
// the local record and the last event. It returns false only when the lock
// was held.
func (r *Registrar) Unregister(ctx context.Context) bool {
	err := r.orchestrator.WithLock(ctx, "unregister", func(ctx context.Context) error {
		r.unregisterAll(ctx)
		if err := r.events.Clear(ctx); err != nil {
			r.log.WarnContext(ctx, "forget last webhook event", logger.Err(err))
		}
		return nil
	})
	return !errors.Is(err, ErrLockHeld)
}

func (r *Registrar) unregisterAll(ctx context.Context) {
	webhooks, err := r.pp.ListWebhooks(ctx)
	if err != nil {
		r.log.WarnContext(ctx, "list webhooks", logger.Err(err), logger.Traced(ctx))
	}
	for _, w := range webhooks {
		if err := r.pp.DeleteWebhook(ctx, w.ID); err != nil {
			r.log.WarnContext(ctx, "delete webhook",
				slog.String("webhook_id", w.ID), logger.Err(err), logger.Traced(ctx))
			continue
		}
		r.log.InfoContext(ctx, "webhook deleted", slog.String("webhook_id", w.ID))
	}

	if err := r.options.Delete(ctx, optionWebhook); err != nil {
		r.log.WarnContext(ctx, "forget webhook record", logger.Err(err))
	}
}

// Registered returns the persisted registration or nil.
func (r *Registrar) Registered(ctx context.Context) (*Record, error) {
	var rec Record
	found, err := getJSON(ctx, r.options, optionWebhook, &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

// List returns the subscriptions the processor knows about.
func (r *Registrar) List(ctx context.Context) ([]entity.Webhook, error) {
	return r.pp.ListWebhooks(ctx)
}
