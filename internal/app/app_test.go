package app

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"paypal-payments-gateway/internal/config"
)

func testConfig(name string) *config.Config {
	return &config.Config{
		BaseURL: "https://shop.example.com",
		Database: config.Database{
			Driver: "sqlite",
			URL:    "file:" + name + "?mode=memory&cache=shared",
		},
		Paypal: config.Paypal{
			ClientID:     "client-id",
			ClientSecret: "client-secret",
			Sandbox:      true,
		},
		Gateway: config.Gateway{
			LandingPage:   "login",
			InvoicePrefix: "WC-",
			CheckoutURL:   "https://shop.example.com/checkout",
		},
		Admin:     config.Admin{Token: "admin-token"},
		Transient: config.Transient{Driver: "memory"},
	}
}

func newApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func TestNew_ServesRoutes(t *testing.T) {
	a := newApp(t, testConfig(t.Name()))

	tests := []struct {
		name   string
		method string
		target string
		body   string
		auth   string
		status int
	}{
		{"health", http.MethodGet, "/health", "", "", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", "", "", http.StatusOK},
		{"admin without token", http.MethodGet, "/admin/webhooks", "", "", http.StatusUnauthorized},
		{"admin with token", http.MethodGet, "/admin/webhooks/missing", "", "Bearer admin-token", http.StatusNotFound},
		{"invalid order body", http.MethodPost, "/api/paypal/orders", "{", "", http.StatusBadRequest},
		{"unknown cart data", http.MethodGet, "/api/paypal/cart-data/nope", "", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.target, strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			rec := httptest.NewRecorder()
			a.Server.Handler().ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestNew_ShippingCallbackNeedsSecret(t *testing.T) {
	cfg := testConfig(t.Name())
	cfg.Gateway.ShippingCallbackEnabled = true
	cfg.Gateway.StoreAPIURL = "https://shop.example.com/wp-json/wc/store/v1"

	_, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorContains(t, err, "CALLBACK_SECRET")
}

func TestNew_RejectsUnknownTransientDriver(t *testing.T) {
	cfg := testConfig(t.Name())
	cfg.Transient.Driver = "redis"

	_, err := New(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	assert.ErrorContains(t, err, "redis")
}

func TestRunCleanup_StopsWithContext(t *testing.T) {
	a := newApp(t, testConfig(t.Name()))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.RunCleanup(ctx)
		close(done)
	}()
	cancel()
	<-done
}
