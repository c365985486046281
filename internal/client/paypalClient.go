package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/plutov/paypal/v4"

	"paypal-payments-gateway/internal/config"
	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/factory"
	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/metric"
)

type PaypalClient interface {
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*entity.Order, error)
	GetOrder(ctx context.Context, orderID string) (*entity.Order, error)
	PatchOrder(ctx context.Context, orderID string, patches []Patch) error
	CaptureOrder(ctx context.Context, orderID string) (*entity.Order, error)
	AuthorizeOrder(ctx context.Context, orderID string) (*entity.Order, error)
	ConfirmPaymentSource(ctx context.Context, orderID string, source map[string]any) (*entity.Order, error)

	CaptureAuthorization(ctx context.Context, authorizationID string, amount *entity.Money, final bool) (*entity.Capture, error)
	ReauthorizeAuthorization(ctx context.Context, authorizationID string, amount entity.Money) (*entity.Authorization, error)
	VoidAuthorization(ctx context.Context, authorizationID string) error
	RefundCapture(ctx context.Context, captureID string, req RefundRequest) (*entity.Refund, error)

	ListWebhooks(ctx context.Context) ([]entity.Webhook, error)
	CreateWebhook(ctx context.Context, url string, eventTypes []string) (*entity.Webhook, error)
	DeleteWebhook(ctx context.Context, webhookID string) error
	VerifyWebhookSignature(ctx context.Context, r *http.Request, body []byte, webhookID string) (bool, error)
	SimulateEvent(ctx context.Context, webhookID, eventType string) (*entity.WebhookEvent, error)
}

type CreateOrderRequest struct {
	Intent            string
	PurchaseUnits     []entity.PurchaseUnit
	PaymentSource     string
	ExperienceContext entity.ExperienceContext
	Payer             *entity.Payer
	// RequestID makes the call idempotent; a random id is used when empty.
	RequestID string
}

func (r CreateOrderRequest) body() map[string]any {
	source := r.PaymentSource
	if source == "" {
		source = entity.PaymentSourcePayPal
	}
	sourceBody := map[string]any{"experience_context": r.ExperienceContext}
	if source == entity.PaymentSourceCard {
		sourceBody["attributes"] = map[string]any{
			"verification": map[string]string{"method": "SCA_WHEN_REQUIRED"},
		}
	}

	body := map[string]any{
		"intent":         r.Intent,
		"purchase_units": r.PurchaseUnits,
		"payment_source": map[string]any{source: sourceBody},
	}
	if r.Payer != nil {
		body["payer"] = r.Payer
	}
	return body
}

// Patch is one JSON Patch operation on an order.
type Patch struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value any    `json:"value,omitempty"`
}

type RefundRequest struct {
	Amount      *entity.Money
	NoteToPayer string
	InvoiceID   string
}

type paypalClientImpl struct {
	pp      *paypal.Client
	tokenMu sync.Mutex
	orders  *factory.OrderFactory
	log     *slog.Logger
}

func NewPaypalClient(paypalCfg *config.Paypal, orders *factory.OrderFactory, log *slog.Logger) (PaypalClient, error) {
	apiBase := paypalCfg.BaseApiURL
	if apiBase == "" {
		apiBase = paypal.APIBaseSandBox
		if !paypalCfg.Sandbox {
			apiBase = paypal.APIBaseLive
		}
	}

	pp, err := paypal.NewClient(paypalCfg.ClientID, paypalCfg.ClientSecret, apiBase)
	if err != nil {
		return nil, fmt.Errorf("create paypal client: %w", err)
	}
	pp.SetHTTPClient(&http.Client{
		Timeout: 30 * time.Second,
	})

	return &paypalClientImpl{
		pp:     pp,
		orders: orders,
		log:    log,
	}, nil
}

// authorize fetches the first access token. SendWithAuth renews it once it
// nears expiry but never requests the initial one.
func (c *paypalClientImpl) authorize(ctx context.Context) error {
	c.tokenMu.Lock()
	defer c.tokenMu.Unlock()

	c.pp.Lock()
	hasToken := c.pp.Token != nil
	c.pp.Unlock()
	if hasToken {
		return nil
	}

	started := time.Now()
	_, err := c.pp.GetAccessToken(ctx)
	metric.ObserveProcessorCall("get access token", started, err)
	if err != nil {
		err = fromPayPalError(err)
		c.log.ErrorContext(ctx, "paypal access token failed", logger.Err(err), logger.Traced(ctx))
		return fmt.Errorf("get access token: %w", err)
	}
	return nil
}

// send performs an authenticated call. out may be nil, an io.Writer for
// the raw body, or a value to decode into.
func (c *paypalClientImpl) send(ctx context.Context, operation, method, path string, payload any, headers map[string]string, out any) error {
	if err := c.authorize(ctx); err != nil {
		return err
	}

	started := time.Now()
	req, err := c.pp.NewRequest(ctx, method, c.pp.APIBase+path, payload)
	if err != nil {
		return fmt.Errorf("build %s request: %w", operation, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	err = c.pp.SendWithAuth(req, out)
	metric.ObserveProcessorCall(operation, started, err)
	if err != nil {
		err = fromPayPalError(err)
		c.log.ErrorContext(ctx, "paypal request failed",
			slog.String("operation", operation), logger.Err(err), logger.Traced(ctx))
		return fmt.Errorf("%s: %w", operation, err)
	}
	return nil
}

func (c *paypalClientImpl) sendForOrder(ctx context.Context, operation, method, path string, payload any, headers map[string]string) (*entity.Order, error) {
	var buf bytes.Buffer
	if err := c.send(ctx, operation, method, path, payload, headers, &buf); err != nil {
		return nil, err
	}
	order, err := c.orders.FromResponse(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", operation, err)
	}
	return order, nil
}

func representation(requestID string) map[string]string {
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return map[string]string{
		"Prefer":            "return=representation",
		"PayPal-Request-Id": requestID,
	}
}

func (c *paypalClientImpl) CreateOrder(ctx context.Context, req CreateOrderRequest) (*entity.Order, error) {
	return c.sendForOrder(ctx, "create order", http.MethodPost, "/v2/checkout/orders",
		req.body(), representation(req.RequestID))
}

func (c *paypalClientImpl) GetOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	return c.sendForOrder(ctx, "get order", http.MethodGet, "/v2/checkout/orders/"+orderID, nil, nil)
}

func (c *paypalClientImpl) PatchOrder(ctx context.Context, orderID string, patches []Patch) error {
	if len(patches) == 0 {
		return nil
	}
	return c.send(ctx, "patch order", http.MethodPatch, "/v2/checkout/orders/"+orderID, patches, nil, nil)
}

func (c *paypalClientImpl) CaptureOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	return c.sendForOrder(ctx, "capture order", http.MethodPost, "/v2/checkout/orders/"+orderID+"/capture",
		map[string]any{}, representation(""))
}

func (c *paypalClientImpl) AuthorizeOrder(ctx context.Context, orderID string) (*entity.Order, error) {
	return c.sendForOrder(ctx, "authorize order", http.MethodPost, "/v2/checkout/orders/"+orderID+"/authorize",
		map[string]any{}, representation(""))
}

func (c *paypalClientImpl) ConfirmPaymentSource(ctx context.Context, orderID string, source map[string]any) (*entity.Order, error) {
	return c.sendForOrder(ctx, "confirm payment source", http.MethodPost,
		"/v2/checkout/orders/"+orderID+"/confirm-payment-source",
		map[string]any{"payment_source": source}, representation(""))
}

func (c *paypalClientImpl) CaptureAuthorization(ctx context.Context, authorizationID string, amount *entity.Money, final bool) (*entity.Capture, error) {
	payload := map[string]any{"final_capture": final}
	if amount != nil {
		payload["amount"] = amount
	}
	var capture entity.Capture
	err := c.send(ctx, "capture authorization", http.MethodPost,
		"/v2/payments/authorizations/"+authorizationID+"/capture", payload, representation(""), &capture)
	if err != nil {
		return nil, err
	}
	return &capture, nil
}

func (c *paypalClientImpl) ReauthorizeAuthorization(ctx context.Context, authorizationID string, amount entity.Money) (*entity.Authorization, error) {
	var auth entity.Authorization
	err := c.send(ctx, "reauthorize authorization", http.MethodPost,
		"/v2/payments/authorizations/"+authorizationID+"/reauthorize",
		map[string]any{"amount": amount}, representation(""), &auth)
	if err != nil {
		return nil, err
	}
	return &auth, nil
}

func (c *paypalClientImpl) VoidAuthorization(ctx context.Context, authorizationID string) error {
	return c.send(ctx, "void authorization", http.MethodPost,
		"/v2/payments/authorizations/"+authorizationID+"/void", nil, nil, nil)
}

func (c *paypalClientImpl) RefundCapture(ctx context.Context, captureID string, req RefundRequest) (*entity.Refund, error) {
	payload := map[string]any{}
	if req.Amount != nil {
		payload["amount"] = req.Amount
	}
	if req.NoteToPayer != "" {
		payload["note_to_payer"] = req.NoteToPayer
	}
	if req.InvoiceID != "" {
		payload["invoice_id"] = req.InvoiceID
	}

	var refund entity.Refund
	err := c.send(ctx, "refund capture", http.MethodPost,
		"/v2/payments/captures/"+captureID+"/refund", payload, representation(""), &refund)
	if err != nil {
		return nil, err
	}
	return &refund, nil
}

func (c *paypalClientImpl) ListWebhooks(ctx context.Context) ([]entity.Webhook, error) {
	if err := c.authorize(ctx); err != nil {
		return nil, err
	}

	started := time.Now()
	resp, err := c.pp.ListWebhooks(ctx, "APPLICATION")
	metric.ObserveProcessorCall("list webhooks", started, err)
	if err != nil {
		return nil, fmt.Errorf("list webhooks: %w", fromPayPalError(err))
	}

	webhooks := make([]entity.Webhook, 0, len(resp.Webhooks))
	for _, w := range resp.Webhooks {
		webhooks = append(webhooks, toWebhook(w))
	}
	return webhooks, nil
}

func (c *paypalClientImpl) CreateWebhook(ctx context.Context, url string, eventTypes []string) (*entity.Webhook, error) {
	req := &paypal.CreateWebhookRequest{URL: url}
	for _, name := range eventTypes {
		req.EventTypes = append(req.EventTypes, paypal.WebhookEventType{Name: name})
	}

	if err := c.authorize(ctx); err != nil {
		return nil, err
	}

	started := time.Now()
	created, err := c.pp.CreateWebhook(ctx, req)
	metric.ObserveProcessorCall("create webhook", started, err)
	if err != nil {
		return nil, fmt.Errorf("create webhook: %w", fromPayPalError(err))
	}
	w := toWebhook(*created)
	return &w, nil
}

func (c *paypalClientImpl) DeleteWebhook(ctx context.Context, webhookID string) error {
	if err := c.authorize(ctx); err != nil {
		return err
	}

	started := time.Now()
	err := c.pp.DeleteWebhook(ctx, webhookID)
	metric.ObserveProcessorCall("delete webhook", started, err)
	if err != nil {
		return fmt.Errorf("delete webhook %s: %w", webhookID, fromPayPalError(err))
	}
	return nil
}

// VerifyWebhookSignature asks the processor to verify the delivery headers
// against body. r's body has already been consumed by the caller.
func (c *paypalClientImpl) VerifyWebhookSignature(ctx context.Context, r *http.Request, body []byte, webhookID string) (bool, error) {
	verifyReq := r.Clone(ctx)
	verifyReq.Body = io.NopCloser(bytes.NewReader(body))

	if err := c.authorize(ctx); err != nil {
		return false, err
	}

	started := time.Now()
	resp, err := c.pp.VerifyWebhookSignature(ctx, verifyReq, webhookID)
	metric.ObserveProcessorCall("verify webhook signature", started, err)
	if err != nil {
		return false, fmt.Errorf("verify webhook signature: %w", fromPayPalError(err))
	}
	return resp.VerificationStatus == "SUCCESS", nil
}

func (c *paypalClientImpl) SimulateEvent(ctx context.Context, webhookID, eventType string) (*entity.WebhookEvent, error) {
	var event entity.WebhookEvent
	err := c.send(ctx, "simulate webhook event", http.MethodPost, "/v1/notifications/simulate-event",
		map[string]string{"webhook_id": webhookID, "event_type": eventType}, nil, &event)
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func toWebhook(w paypal.Webhook) entity.Webhook {
	out := entity.Webhook{ID: w.ID, URL: w.URL}
	for _, t := range w.EventTypes {
		out.EventTypes = append(out.EventTypes, t.Name)
	}
	return out
}
