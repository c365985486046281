package transient

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paypal-payments-gateway/internal/model"
)

type GormStore struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db, now: time.Now}
}

func (s *GormStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var rows []model.TransientEntry
	err := s.db.WithContext(ctx).
		Where("`key` = ? AND expires_at > ?", key, s.now().UnixNano()).
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, false, fmt.Errorf("get transient %s: %w", key, err)
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	return rows[0].Value, true, nil
}

func (s *GormStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if key == "" {
		return ErrEmptyKey
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "expires_at"}),
		}).
		Create(&model.TransientEntry{Key: key, Value: value, ExpiresAt: s.now().Add(ttl).UnixNano()}).Error
	if err != nil {
		return fmt.Errorf("set transient %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) SetIfAbsent(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	now := s.now()
	var stored bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("`key` = ? AND expires_at <= ?", key, now.UnixNano()).
			Delete(&model.TransientEntry{}).Error; err != nil {
			return err
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.TransientEntry{Key: key, Value: value, ExpiresAt: now.Add(ttl).UnixNano()})
		if result.Error != nil {
			return result.Error
		}
		stored = result.RowsAffected == 1
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("set transient %s if absent: %w", key, err)
	}
	return stored, nil
}

func (s *GormStore) Delete(ctx context.Context, key string) error {
	err := s.db.WithContext(ctx).
		Where("`key` = ?", key).
		Delete(&model.TransientEntry{}).Error
	if err != nil {
		return fmt.Errorf("delete transient %s: %w", key, err)
	}
	return nil
}

func (s *GormStore) DeleteIfValue(ctx context.Context, key string, value []byte) (bool, error) {
	result := s.db.WithContext(ctx).
		Where("`key` = ? AND value = ?", key, value).
		Delete(&model.TransientEntry{})
	if result.Error != nil {
		return false, fmt.Errorf("delete transient %s: %w", key, result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (s *GormStore) Take(ctx context.Context, key string) ([]byte, bool, error) {
	var value []byte
	var found bool
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []model.TransientEntry
		if err := tx.Where("`key` = ? AND expires_at > ?", key, s.now().UnixNano()).
			Limit(1).
			Find(&rows).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}

		// Only the caller whose delete removed the row owns the value.
		result := tx.Where("`key` = ?", key).Delete(&model.TransientEntry{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 1 {
			value, found = rows[0].Value, true
		}
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("take transient %s: %w", key, err)
	}
	return value, found, nil
}

// PurgeExpired removes expired entries and returns how many were deleted.
func (s *GormStore) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at <= ?", s.now().UnixNano()).
		Delete(&model.TransientEntry{})
	return result.RowsAffected, result.Error
}
