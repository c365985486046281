package service

import (
	"context"
	"errors"
	"fmt"

	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/session"
	"paypal-payments-gateway/internal/storefront"
)

// CartResumeService hands a cart over between browser contexts, for
// example when the buyer returns from the processor app.
//go:generate mockery --name=CartResumeService --output=./mocks --case=camel
type CartResumeService interface {
	Save(ctx context.Context, cart *storefront.Cart, ppOrderID string) (string, error)
	Load(ctx context.Context, key string) (*session.CartData, error)
}

type cartResumeImpl struct {
	storage *session.CartDataStorage
}

func NewCartResumeService(storage *session.CartDataStorage) CartResumeService {
	return &cartResumeImpl{storage: storage}
}

func (s *cartResumeImpl) Save(ctx context.Context, cart *storefront.Cart, ppOrderID string) (string, error) {
	if cart == nil || len(cart.Items) == 0 {
		return "", fmt.Errorf("%w: empty cart", entity.ErrInvalidArgument)
	}
	data := session.CartDataFromCart(cart)
	data.PayPalOrderID = ppOrderID
	return s.storage.Save(ctx, data)
}

// Load returns the snapshot once; later calls report not found.
func (s *cartResumeImpl) Load(ctx context.Context, key string) (*session.CartData, error) {
	data, err := s.storage.Get(ctx, key)
	if errors.Is(err, session.ErrCartDataNotFound) {
		return nil, fmt.Errorf("%w: cart data %q", entity.ErrNotFound, key)
	}
	return data, err
}
