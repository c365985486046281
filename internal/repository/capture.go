package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paypal-payments-gateway/internal/model"
)

type CaptureRepository interface {
	Save(ctx context.Context, tx *gorm.DB, capture *model.Capture) error
	Exists(ctx context.Context, captureID string) (bool, error)
	FindByOrderID(ctx context.Context, orderID uint) ([]model.Capture, error)
	UpdateStatus(ctx context.Context, captureID, status string) error
}

type captureRepositoryImpl struct {
	db *gorm.DB
}

func NewCaptureRepository(db *gorm.DB) CaptureRepository {
	return &captureRepositoryImpl{
		db: db,
	}
}

// Save inserts the capture or refreshes its status.
func (r *captureRepositoryImpl) Save(ctx context.Context, tx *gorm.DB, capture *model.Capture) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "capture_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "updated_at"}),
		}).
		Create(capture).Error
}

func (r *captureRepositoryImpl) Exists(ctx context.Context, captureID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Capture{}).
		Where("capture_id = ?", captureID).
		Count(&count).Error

	return count > 0, err
}

func (r *captureRepositoryImpl) FindByOrderID(ctx context.Context, orderID uint) ([]model.Capture, error) {
	var captures []model.Capture
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at").
		Find(&captures).Error

	if err != nil {
		return nil, err
	}

	return captures, nil
}

func (r *captureRepositoryImpl) UpdateStatus(ctx context.Context, captureID, status string) error {
	return r.db.WithContext(ctx).Model(&model.Capture{}).
		Where("capture_id = ?", captureID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}
