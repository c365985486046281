package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paypal-payments-gateway/internal/model"
)

// OptionRepository stores gateway-wide settings by name.
type OptionRepository interface {
	Get(ctx context.Context, name string) (string, bool, error)
	Set(ctx context.Context, name, value string) error
	Delete(ctx context.Context, name string) error
}

type optionRepoImpl struct {
	db *gorm.DB
}

func NewOptionRepository(db *gorm.DB) OptionRepository {
	return &optionRepoImpl{db: db}
}

func (r *optionRepoImpl) Get(ctx context.Context, name string) (string, bool, error) {
	var rows []model.Option
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Limit(1).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return "", false, err
	}
	return rows[0].Value, true, nil
}

func (r *optionRepoImpl) Set(ctx context.Context, name, value string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&model.Option{Name: name, Value: value, UpdatedAt: time.Now()}).Error
}

func (r *optionRepoImpl) Delete(ctx context.Context, name string) error {
	return r.db.WithContext(ctx).
		Where("name = ?", name).
		Delete(&model.Option{}).Error
}
