package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"paypal-payments-gateway/internal/model"
	"paypal-payments-gateway/internal/storefront"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, orderID uint) (*model.Order, error)
	FindByPayPalOrderID(ctx context.Context, paypalOrderID string) (*model.Order, error)
	UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uint, from []string, to string) (bool, error)
	UpdateBilling(ctx context.Context, tx *gorm.DB, orderID uint, email, phone string) error
	SetMeta(ctx context.Context, tx *gorm.DB, orderID uint, meta map[string]string) error
	GetMeta(ctx context.Context, orderID uint, key string) (string, error)
	MetaValues(ctx context.Context, tx *gorm.DB, orderID uint, keys ...string) (map[string]string, error)
	DeleteMeta(ctx context.Context, tx *gorm.DB, orderID uint, keys ...string) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return r.conn(tx).WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, orderID uint) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Meta").
		First(&order, orderID).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindByPayPalOrderID(ctx context.Context, paypalOrderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Joins("JOIN order_meta ON order_meta.order_id = orders.id").
		Where("order_meta.meta_key = ? AND order_meta.meta_value = ?", storefront.MetaPayPalOrderID, paypalOrderID).
		Preload("Items").
		Preload("Meta").
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

// UpdateStatus moves the order to `to` only while its status is one of
// `from` (any status when from is empty). It reports whether a row changed.
func (r *orderRepoImpl) UpdateStatus(ctx context.Context, tx *gorm.DB, orderID uint, from []string, to string) (bool, error) {
	q := r.conn(tx).WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID)
	if len(from) > 0 {
		q = q.Where("status IN ?", from)
	}

	result := q.Updates(map[string]interface{}{
		"status":     to,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *orderRepoImpl) UpdateBilling(ctx context.Context, tx *gorm.DB, orderID uint, email, phone string) error {
	updates := map[string]interface{}{"updated_at": time.Now()}
	if email != "" {
		updates["billing_email"] = email
	}
	if phone != "" {
		updates["billing_phone"] = phone
	}
	return r.conn(tx).WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Updates(updates).Error
}

func (r *orderRepoImpl) SetMeta(ctx context.Context, tx *gorm.DB, orderID uint, meta map[string]string) error {
	if len(meta) == 0 {
		return nil
	}
	rows := make([]model.OrderMeta, 0, len(meta))
	for k, v := range meta {
		rows = append(rows, model.OrderMeta{OrderID: orderID, MetaKey: k, MetaValue: v})
	}

	return r.conn(tx).WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "order_id"}, {Name: "meta_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"meta_value", "updated_at"}),
		}).
		Create(&rows).Error
}

// GetMeta returns "" when the key is not set.
func (r *orderRepoImpl) GetMeta(ctx context.Context, orderID uint, key string) (string, error) {
	var rows []model.OrderMeta
	err := r.db.WithContext(ctx).
		Where("order_id = ? AND meta_key = ?", orderID, key).
		Limit(1).
		Find(&rows).Error
	if err != nil || len(rows) == 0 {
		return "", err
	}
	return rows[0].MetaValue, nil
}

// MetaValues reads the given keys through tx. Missing keys are absent from
// the map.
func (r *orderRepoImpl) MetaValues(ctx context.Context, tx *gorm.DB, orderID uint, keys ...string) (map[string]string, error) {
	var rows []model.OrderMeta
	err := r.conn(tx).WithContext(ctx).
		Where("order_id = ? AND meta_key IN ?", orderID, keys).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(rows))
	for _, row := range rows {
		values[row.MetaKey] = row.MetaValue
	}
	return values, nil
}

func (r *orderRepoImpl) DeleteMeta(ctx context.Context, tx *gorm.DB, orderID uint, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return r.conn(tx).WithContext(ctx).
		Where("order_id = ? AND meta_key IN ?", orderID, keys).
		Delete(&model.OrderMeta{}).Error
}
