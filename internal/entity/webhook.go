package entity

import "encoding/json"

// Webhook is a subscription registered with the processor.
type Webhook struct {
	ID         string   `json:"id"`
	URL        string   `json:"url"`
	EventTypes []string `json:"event_types"`
}

// WebhookEvent is a notification delivered by the processor.
type WebhookEvent struct {
	ID           string          `json:"id"`
	EventType    string          `json:"event_type"`
	ResourceType string          `json:"resource_type"`
	Summary      string          `json:"summary"`
	CreateTime   string          `json:"create_time"`
	Resource     json.RawMessage `json:"resource"`
}
