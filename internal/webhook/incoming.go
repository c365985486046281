package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"paypal-payments-gateway/internal/client"
	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/metric"
	"paypal-payments-gateway/internal/model"
	"paypal-payments-gateway/internal/repository"
)

var (
	ErrInvalidSignature = errors.New("webhook signature verification failed")
	ErrNoWebhookID      = errors.New("no webhook registered")
)

// Outcome is how an incoming event was treated.
type Outcome string

const (
	OutcomeHandled   Outcome = "handled"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeSimulated Outcome = "simulated"
	OutcomeLocked    Outcome = "locked"
	OutcomeError     Outcome = "error"
)

// IncomingEndpoint verifies and dispatches events delivered by the processor.
type IncomingEndpoint struct {
	pp           client.PaypalClient
	registrar    *Registrar
	webhookID    string
	orders       repository.OrderRepository
	processed    repository.WebhookEventRepository
	storage      *EventStorage
	simulation   *Simulation
	orchestrator *Orchestrator
	handlers     map[string]RequestHandler
	log          *slog.Logger
}

// NewIncomingEndpoint builds the endpoint. webhookID overrides the
// registered subscription when set.
func NewIncomingEndpoint(
	pp client.PaypalClient,
	registrar *Registrar,
	webhookID string,
	orders repository.OrderRepository,
	processed repository.WebhookEventRepository,
	storage *EventStorage,
	simulation *Simulation,
	orchestrator *Orchestrator,
	handlers []RequestHandler,
	log *slog.Logger,
) *IncomingEndpoint {
	byType := make(map[string]RequestHandler)
	for _, h := range handlers {
		for _, t := range h.EventTypes() {
			byType[t] = h
		}
	}
	return &IncomingEndpoint{
		pp:           pp,
		registrar:    registrar,
		webhookID:    webhookID,
		orders:       orders,
		processed:    processed,
		storage:      storage,
		simulation:   simulation,
		orchestrator: orchestrator,
		handlers:     byType,
		log:          log,
	}
}

// Handle processes one delivery. ErrLockHeld means the event should be
// delivered again later.
func (e *IncomingEndpoint) Handle(ctx context.Context, r *http.Request, body []byte) (Outcome, error) {
	ctx, span := otel.Tracer("webhook").Start(ctx, "webhook.incoming")
	defer span.End()

	var event entity.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return OutcomeError, fmt.Errorf("%w: decode webhook event: %v", entity.ErrInvalidArgument, err)
	}
	if event.ID == "" || event.EventType == "" {
		return OutcomeError, fmt.Errorf("%w: webhook event without id or type", entity.ErrInvalidArgument)
	}
	span.SetAttributes(attribute.String("event.id", event.ID), attribute.String("event.type", event.EventType))

	outcome, err := e.handle(ctx, r, body, &event)
	metric.WebhookEventsTotal.WithLabelValues(event.EventType, string(outcome)).Inc()
	if err != nil && !errors.Is(err, ErrLockHeld) {
		span.RecordError(err)
		e.log.ErrorContext(ctx, "webhook event failed", logEvent(&event), logger.Err(err), logger.Traced(ctx))
	}
	return outcome, err
}

func (e *IncomingEndpoint) handle(ctx context.Context, r *http.Request, body []byte, event *entity.WebhookEvent) (Outcome, error) {
	// Simulated events are not signed. An unverified delivery is only
	// accepted as the pending simulation event and is never stored.
	if verifyErr := e.verify(ctx, r, body); verifyErr != nil {
		simulated, err := e.simulation.Receive(ctx, event)
		if err != nil {
			return OutcomeError, err
		}
		if simulated {
			return OutcomeSimulated, nil
		}
		return OutcomeError, verifyErr
	}
	if err := e.storage.Save(ctx, event); err != nil {
		e.log.WarnContext(ctx, "store last webhook event", logger.Err(err))
	}
	simulated, err := e.simulation.Receive(ctx, event)
	if err != nil {
		return OutcomeError, err
	}
	if simulated {
		return OutcomeSimulated, nil
	}

	handler, ok := e.handlers[event.EventType]
	if !ok {
		e.log.InfoContext(ctx, "webhook event ignored", logEvent(event))
		return OutcomeIgnored, nil
	}

	seen, err := e.processed.Exists(ctx, event.ID)
	if err != nil {
		return OutcomeError, fmt.Errorf("check event %s: %w", event.ID, err)
	}
	if seen {
		return OutcomeDuplicate, nil
	}

	var resource model.PaypalResource
	if err := json.Unmarshal(event.Resource, &resource); err != nil {
		return OutcomeError, fmt.Errorf("%w: decode resource: %v", entity.ErrMalformedResponse, err)
	}
	order, err := findOrder(ctx, e.orders, event.EventType, &resource)
	if errors.Is(err, ErrOrderNotFound) {
		e.log.WarnContext(ctx, "webhook event without order", logEvent(event), logger.Traced(ctx))
		return OutcomeIgnored, nil
	}
	if err != nil {
		return OutcomeError, err
	}

	lockID := resource.PayPalOrderID(event.EventType)
	if lockID == "" {
		lockID = fmt.Sprintf("platform-%d", order.ID)
	}
	outcome := OutcomeHandled
	err = e.orchestrator.WithOrderLock(ctx, lockID, event.EventType, func(ctx context.Context) error {
		claimed, err := e.processed.MarkProcessed(ctx, event.ID, event.EventType)
		if err != nil {
			return fmt.Errorf("mark event %s: %w", event.ID, err)
		}
		if !claimed {
			outcome = OutcomeDuplicate
			return nil
		}

		if err := handler.Handle(ctx, event, order, &resource); err != nil {
			if forgetErr := e.processed.Forget(context.WithoutCancel(ctx), event.ID); forgetErr != nil {
				e.log.WarnContext(ctx, "forget failed event", logEvent(event), logger.Err(forgetErr))
			}
			return err
		}
		return nil
	})
	switch {
	case errors.Is(err, ErrLockHeld):
		return OutcomeLocked, err
	case err != nil:
		return OutcomeError, err
	}

	if outcome == OutcomeHandled {
		e.log.InfoContext(ctx, "webhook event handled",
			logEvent(event), slog.Uint64("order_id", uint64(order.ID)), logger.Traced(ctx))
	}
	return outcome, nil
}

func (e *IncomingEndpoint) verify(ctx context.Context, r *http.Request, body []byte) error {
	webhookID := e.webhookID
	if webhookID == "" {
		rec, err := e.registrar.Registered(ctx)
		if err != nil {
			return err
		}
		if rec == nil {
			return ErrNoWebhookID
		}
		webhookID = rec.ID
	}

	ok, err := e.pp.VerifyWebhookSignature(ctx, r, body, webhookID)
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	if !ok {
		return ErrInvalidSignature
	}
	return nil
}

func logEvent(event *entity.WebhookEvent) slog.Attr {
	return slog.Group("event", slog.String("id", event.ID), slog.String("type", event.EventType))
}
