package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	var cfg Config
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}))

	assert.Equal(t, "development", cfg.Environment.Name)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, "WC-", cfg.Gateway.InvoicePrefix)
	assert.Equal(t, "en_US", cfg.Gateway.Locale)
	assert.Equal(t, "CAPTURE", cfg.Gateway.Intent)
	assert.Equal(t, 3*time.Hour, cfg.Callback.TTL)
	assert.True(t, cfg.Paypal.Sandbox)
	assert.Equal(t, "sandbox", cfg.Paypal.PaymentMode())
	assert.Equal(t, "db", cfg.Transient.Driver)
	assert.Equal(t, time.Minute, cfg.Transient.CleanupInterval)
}

func TestParse_Prefixes(t *testing.T) {
	var cfg Config
	err := env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{
		"DB_DRIVER":                "sqlite",
		"PAYPAL_SANDBOX":           "false",
		"PAYPAL_WEBHOOK_ID":        "WH-1",
		"GATEWAY_BRAND_NAME":       "Acme",
		"GATEWAY_ALLOWED_ORIGINS":  "https://a.test,https://b.test",
		"KAFKA_BROKERS":            "k1:9092,k2:9092",
		"CALLBACK_TTL":             "30m",
		"GATEWAY_PAYEE_PREFERRED":  "true",
		"OTEL_ENABLED":             "true",
		"GATEWAY_STOREFRONT_TOKEN": "shop-backend",
	}})
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "live", cfg.Paypal.PaymentMode())
	assert.Equal(t, "WH-1", cfg.Paypal.WebhookID)
	assert.Equal(t, "Acme", cfg.Gateway.BrandName)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, cfg.Gateway.AllowedOrigins)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 30*time.Minute, cfg.Callback.TTL)
	assert.True(t, cfg.Gateway.PayeePreferred)
	assert.True(t, cfg.Tracing.Enabled)
	assert.Equal(t, "shop-backend", cfg.Gateway.StorefrontToken)
}
