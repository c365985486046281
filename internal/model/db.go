package model

import "time"

// Option is a persisted gateway setting, such as the registered webhook.
type Option struct {
	Name      string `gorm:"primaryKey;size:191;not null"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

type WebhookEvent struct {
	EventID     string `gorm:"primaryKey;size:128;uniqueIndex;not null"`
	EventType   string `gorm:"size:64;index"`
	ProcessedAt time.Time
	CreatedAt   time.Time
}

// Capture is a processor capture recorded against an order.
type Capture struct {
	CaptureID string `gorm:"primaryKey;size:64;not null"`
	OrderID   uint   `gorm:"index;not null"`
	Status    string `gorm:"size:32;not null"` // COMPLETED, PENDING, DECLINED, REFUNDED, PARTIALLY_REFUNDED
	Amount    string `gorm:"size:32"`
	Currency  string `gorm:"size:8"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TransientEntry is a key/value pair that stops existing at ExpiresAt.
type TransientEntry struct {
	Key       string `gorm:"primaryKey;size:191;not null"`
	Value     []byte `gorm:"not null"`
	ExpiresAt int64  `gorm:"index;not null"` // unix nanoseconds
}

// All lists the models to migrate.
func All() []any {
	return []any{
		&Order{},
		&OrderItem{},
		&OrderMeta{},
		&Option{},
		&WebhookEvent{},
		&Capture{},
		&TransientEntry{},
	}
}
