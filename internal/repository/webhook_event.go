package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paypal-payments-gateway/internal/model"
)

type WebhookEventRepository interface {
	Exists(ctx context.Context, payPalEventID string) (bool, error)
	// MarkProcessed records the event and reports false when it was already recorded.
	MarkProcessed(ctx context.Context, eventID, eventType string) (bool, error)
	Forget(ctx context.Context, eventID string) error
}

type webhookEventRepositoryIml struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) WebhookEventRepository {
	return &webhookEventRepositoryIml{db: db}
}

func (r *webhookEventRepositoryIml) Exists(ctx context.Context, payPalEventID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.WebhookEvent{}).
		Where("event_id = ?", payPalEventID).
		Count(&count).Error

	return count > 0, err
}

func (r *webhookEventRepositoryIml) MarkProcessed(ctx context.Context, eventID string, eventType string) (bool, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.WebhookEvent{
			EventID:     eventID,
			EventType:   eventType,
			ProcessedAt: time.Now(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// Forget removes the record so a redelivery of the event is processed again.
func (r *webhookEventRepositoryIml) Forget(ctx context.Context, eventID string) error {
	return r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Delete(&model.WebhookEvent{}).Error
}
