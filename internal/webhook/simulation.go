package webhook

import (
	"context"
	"log/slog"
	"time"

	"paypal-payments-gateway/internal/client"
	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/repository"
)

type SimulationState string

const (
	SimulationWaiting  SimulationState = "waiting"
	SimulationReceived SimulationState = "received"
	SimulationFailed   SimulationState = "failed"

	SimulationEventType = "PAYMENT.CAPTURE.COMPLETED"
)

type SimulationStatus struct {
	EventID   string          `json:"event_id,omitempty"`
	State     SimulationState `json:"state"`
	Error     string          `json:"error,omitempty"`
	StartedAt time.Time       `json:"started_at"`
}

// Simulation asks the processor to send a test event and tracks whether it arrived.
type Simulation struct {
	pp      client.PaypalClient
	options repository.OptionRepository
	log     *slog.Logger
}

func NewSimulation(pp client.PaypalClient, options repository.OptionRepository, log *slog.Logger) *Simulation {
	return &Simulation{pp: pp, options: options, log: log}
}

func (s *Simulation) Start(ctx context.Context, webhookID string) (*SimulationStatus, error) {
	status := SimulationStatus{State: SimulationWaiting, StartedAt: time.Now().UTC()}

	event, err := s.pp.SimulateEvent(ctx, webhookID, SimulationEventType)
	if err != nil {
		s.log.WarnContext(ctx, "webhook simulation failed", logger.Err(err), logger.Traced(ctx))
		status.State = SimulationFailed
		status.Error = err.Error()
	} else {
		status.EventID = event.ID
	}

	if saveErr := setJSON(ctx, s.options, optionSimulation, status); saveErr != nil {
		return nil, saveErr
	}
	return &status, err
}

// Receive completes a waiting simulation when event is its test event and
// reports whether it was.
func (s *Simulation) Receive(ctx context.Context, event *entity.WebhookEvent) (bool, error) {
	status, err := s.Status(ctx)
	if err != nil || status == nil {
		return false, err
	}
	if status.State != SimulationWaiting || status.EventID == "" || status.EventID != event.ID {
		return false, nil
	}

	status.State = SimulationReceived
	if err := setJSON(ctx, s.options, optionSimulation, status); err != nil {
		return false, err
	}
	s.log.InfoContext(ctx, "webhook simulation received", slog.String("event_id", event.ID))
	return true, nil
}

// Status is nil when no simulation was started.
func (s *Simulation) Status(ctx context.Context) (*SimulationStatus, error) {
	var status SimulationStatus
	found, err := getJSON(ctx, s.options, optionSimulation, &status)
	if err != nil || !found {
		return nil, err
	}
	return &status, nil
}

func (s *Simulation) Clear(ctx context.Context) error {
	return s.options.Delete(ctx, optionSimulation)
}
