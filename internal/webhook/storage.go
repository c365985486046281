package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/repository"
)

const (
	optionWebhook    = "ppcp_webhook"
	optionLastEvent  = "ppcp_webhook_last_event"
	optionSimulation = "ppcp_webhook_simulation"
)

type LastEvent struct {
	ID         string    `json:"id"`
	EventType  string    `json:"event_type"`
	Summary    string    `json:"summary,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// EventStorage remembers the last event received, which tells the admin
// whether deliveries reach the gateway.
type EventStorage struct {
	options repository.OptionRepository
	now     func() time.Time
}

func NewEventStorage(options repository.OptionRepository) *EventStorage {
	return &EventStorage{options: options, now: time.Now}
}

func (s *EventStorage) Save(ctx context.Context, event *entity.WebhookEvent) error {
	return setJSON(ctx, s.options, optionLastEvent, LastEvent{
		ID:         event.ID,
		EventType:  event.EventType,
		Summary:    event.Summary,
		ReceivedAt: s.now().UTC(),
	})
}

// Get returns nil when no event arrived since the last registration.
func (s *EventStorage) Get(ctx context.Context) (*LastEvent, error) {
	var last LastEvent
	found, err := getJSON(ctx, s.options, optionLastEvent, &last)
	if err != nil || !found {
		return nil, err
	}
	return &last, nil
}

func (s *EventStorage) Clear(ctx context.Context) error {
	return s.options.Delete(ctx, optionLastEvent)
}

func setJSON(ctx context.Context, options repository.OptionRepository, name string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := options.Set(ctx, name, string(raw)); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

func getJSON(ctx context.Context, options repository.OptionRepository, name string, v any) (bool, error) {
	raw, found, err := options.Get(ctx, name)
	if err != nil {
		return false, fmt.Errorf("load %s: %w", name, err)
	}
	if !found || raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("decode %s: %w", name, err)
	}
	return true, nil
}
