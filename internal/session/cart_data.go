// Package session keeps cart snapshots so a checkout can resume in another context.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"paypal-payments-gateway/internal/storefront"
	"paypal-payments-gateway/internal/transient"
)

const (
	CartDataTTL = 2 * time.Hour

	keyPrefix = "ppcp_cart_data_"
)

var ErrCartDataNotFound = errors.New("cart data not found")

// CartData is a snapshot of the cart at the time a processor order was created.
type CartData struct {
	Key           string                `json:"-"`
	Items         []storefront.LineItem `json:"items"`
	Coupons       []string              `json:"coupons"`
	NeedsShipping bool                  `json:"needs_shipping"`
	UserID        int                   `json:"user_id"`
	CartHash      string                `json:"cart_hash"`
	PayPalOrderID string                `json:"paypal_order_id,omitempty"`
}

func CartDataFromCart(cart *storefront.Cart) *CartData {
	data := &CartData{
		Items:         append([]storefront.LineItem(nil), cart.Items...),
		Coupons:       append([]string(nil), cart.Coupons...),
		NeedsShipping: cart.NeedsShipping,
		CartHash:      cart.Hash,
	}
	if cart.Customer != nil {
		data.UserID = cart.Customer.ID
	}
	return data
}

// CartDataStorage stores snapshots under random keys. Each snapshot can be read once.
type CartDataStorage struct {
	store transient.Store
	ttl   time.Duration
}

func NewCartDataStorage(store transient.Store) *CartDataStorage {
	return &CartDataStorage{store: store, ttl: CartDataTTL}
}

// Save stores the snapshot, assigning a key when it has none, and returns the key.
func (s *CartDataStorage) Save(ctx context.Context, data *CartData) (string, error) {
	if data.Key == "" {
		data.Key = uuid.NewString()
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("encode cart data: %w", err)
	}
	if err := s.store.Set(ctx, keyPrefix+data.Key, raw, s.ttl); err != nil {
		return "", fmt.Errorf("save cart data: %w", err)
	}
	return data.Key, nil
}

// Get returns the snapshot and deletes it.
func (s *CartDataStorage) Get(ctx context.Context, key string) (*CartData, error) {
	if key == "" {
		return nil, ErrCartDataNotFound
	}
	raw, ok, err := s.store.Take(ctx, keyPrefix+key)
	if err != nil {
		return nil, fmt.Errorf("load cart data: %w", err)
	}
	if !ok {
		return nil, ErrCartDataNotFound
	}

	var data CartData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode cart data: %w", err)
	}
	data.Key = key
	return &data, nil
}

func (s *CartDataStorage) Remove(ctx context.Context, data *CartData) error {
	if data == nil || data.Key == "" {
		return nil
	}
	return s.store.Delete(ctx, keyPrefix+data.Key)
}
