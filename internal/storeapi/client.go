package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const cartTokenHeader = "Cart-Token"

type CartClient interface {
	// GetCart loads the cart of the session identified by the request cookies.
	GetCart(ctx context.Context, cookies []*http.Cookie) (*Cart, error)
	UpdateCustomer(ctx context.Context, cartToken string, shipping Address) (*Cart, error)
	SelectShippingRate(ctx context.Context, cartToken string, packageID int, rateID string) (*Cart, error)
}

type cartClientImpl struct {
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

func NewCartClient(baseURL string, logger *slog.Logger) CartClient {
	return &cartClientImpl{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

func (c *cartClientImpl) GetCart(ctx context.Context, cookies []*http.Cookie) (*Cart, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/wc/store/v1/cart", nil)
	if err != nil {
		return nil, fmt.Errorf("create cart request: %w", err)
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}
	return c.do(req)
}

func (c *cartClientImpl) UpdateCustomer(ctx context.Context, cartToken string, shipping Address) (*Cart, error) {
	return c.post(ctx, "/wc/store/v1/cart/update-customer", cartToken, map[string]any{
		"shipping_address": shipping,
	})
}

func (c *cartClientImpl) SelectShippingRate(ctx context.Context, cartToken string, packageID int, rateID string) (*Cart, error) {
	return c.post(ctx, "/wc/store/v1/cart/select-shipping-rate", cartToken, map[string]any{
		"package_id": packageID,
		"rate_id":    rateID,
	})
}

func (c *cartClientImpl) post(ctx context.Context, path, cartToken string, payload any) (*Cart, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal req payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(cartTokenHeader, cartToken)
	return c.do(req)
}

func (c *cartClientImpl) do(req *http.Request) (*Cart, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http client do: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Warn("store api request failed",
			slog.String("path", req.URL.Path),
			slog.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("store api error %d: %s", resp.StatusCode, string(b))
	}

	var cart Cart
	if err := json.NewDecoder(resp.Body).Decode(&cart); err != nil {
		return nil, fmt.Errorf("decode store api cart: %w", err)
	}
	cart.Token = resp.Header.Get(cartTokenHeader)
	if cart.Token == "" {
		cart.Token = req.Header.Get(cartTokenHeader)
	}

	return &cart, nil
}
