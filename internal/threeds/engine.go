// Package threeds decides whether a card order may proceed after 3-D Secure.
package threeds

import (
	"context"
	"log/slog"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/metric"
)

type Decision int

const (
	NoDecision Decision = iota
	Proceed
	Reject
	Retry
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case Reject:
		return "reject"
	case Retry:
		return "retry"
	default:
		return "no_decision"
	}
}

// DecisionFilter may replace a computed decision.
type DecisionFilter func(decision Decision, order *entity.Order) Decision

// Observer is notified of every returned decision.
type Observer func(order *entity.Order, decision Decision)

type Option func(*Engine)

func WithFilter(f DecisionFilter) Option {
	return func(e *Engine) { e.filters = append(e.filters, f) }
}

func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observers = append(e.observers, o) }
}

// Engine evaluates each order independently and keeps no state between calls.
type Engine struct {
	log       *slog.Logger
	filters   []DecisionFilter
	observers []Observer
}

func NewEngine(log *slog.Logger, opts ...Option) *Engine {
	e := &Engine{log: log}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProceedWithOrder returns the decision for the order's card authentication result.
func (e *Engine) ProceedWithOrder(ctx context.Context, order *entity.Order) Decision {
	if order == nil || order.PaymentSource == nil {
		return e.decide(ctx, NoDecision, order)
	}

	card, err := order.PaymentSource.Card()
	if err != nil {
		e.log.WarnContext(ctx, "3DS: unreadable card properties",
			slog.String("order_id", order.ID), logger.Err(err), logger.Traced(ctx))
		return e.decide(ctx, NoDecision, order)
	}
	if card.Brand == "" || card.AuthenticationResult == nil {
		return e.decide(ctx, NoDecision, order)
	}

	result := *card.AuthenticationResult
	e.log.InfoContext(ctx, "3DS authentication result",
		slog.String("order_id", order.ID),
		slog.String("liability_shift", string(result.LiabilityShift)),
		slog.String("enrollment_status", result.EnrollmentStatus),
		slog.String("authentication_status", result.AuthenticationStatus),
		logger.Traced(ctx),
	)
	return e.decide(ctx, Decide(result), order)
}

func (e *Engine) decide(ctx context.Context, decision Decision, order *entity.Order) Decision {
	for _, f := range e.filters {
		decision = f(decision, order)
	}
	for _, o := range e.observers {
		o(order, decision)
	}
	metric.ThreeDSDecisionsTotal.WithLabelValues(decision.String()).Inc()
	e.log.DebugContext(ctx, "3DS decision", slog.String("decision", decision.String()))
	return decision
}

// Decide is the decision table for a present authentication result.
func Decide(result entity.CardAuthenticationResult) Decision {
	switch result.LiabilityShift {
	case entity.LiabilityShiftPossible:
		return Proceed
	case entity.LiabilityShiftUnknown:
		return Retry
	case entity.LiabilityShiftNo:
		return noLiabilityShift(result)
	default:
		return NoDecision
	}
}

func noLiabilityShift(result entity.CardAuthenticationResult) Decision {
	authentication := result.AuthenticationStatus
	if authentication == "" {
		switch result.EnrollmentStatus {
		case entity.EnrollmentStatusBypass, entity.EnrollmentStatusUnavailable, entity.EnrollmentStatusNo:
			return Proceed
		}
	}

	switch authentication {
	case entity.AuthenticationResultRejected, entity.AuthenticationResultNo:
		return Reject
	case entity.AuthenticationResultUnable, "":
		return Retry
	default:
		return NoDecision
	}
}
