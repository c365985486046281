package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"paypal-payments-gateway/internal/dto"
	"paypal-payments-gateway/internal/handler"
	appmiddleware "paypal-payments-gateway/internal/middleware"
)

// Handlers groups the HTTP handlers the server routes to.
type Handlers struct {
	Checkout         *handler.CheckoutHandler
	ShippingCallback *handler.ShippingCallbackHandler
	CartData         *handler.CartDataHandler
	Webhook          *handler.WebhookHandler
	Admin            *handler.AdminHandler
}

type Options struct {
	AllowedOrigins []string
	AdminToken     string
	// StorefrontToken guards the routes that take cart contents.
	StorefrontToken string
	// CallbackRateLimit is requests per second per client on the routes
	// the processor calls.
	CallbackRateLimit float64
}

// webhookBodyLimit caps event payloads, which are a few kilobytes.
const webhookBodyLimit = "1M"

type Server struct {
	echo     *echo.Echo
	handlers Handlers
	opts     Options
}

func NewServer(handlers Handlers, opts Options, log *slog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = dto.NewValidator()
	e.HTTPErrorHandler = handler.HTTPErrorHandler(log)

	e.Use(middleware.RequestID())
	e.Use(appmiddleware.Metrics())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("err", v.Error.Error()))
			}
			log.LogAttrs(c.Request().Context(), slog.LevelInfo, "request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	cors := middleware.DefaultCORSConfig
	if len(opts.AllowedOrigins) > 0 {
		cors.AllowOrigins = opts.AllowedOrigins
	}
	e.Use(middleware.CORSWithConfig(cors))

	s := &Server{
		echo:     e,
		handlers: handlers,
		opts:     opts,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// -------- frontend api --------
	api := s.echo.Group("/api/paypal")
	storefront := appmiddleware.StorefrontAuth(s.opts.StorefrontToken)
	api.POST("/orders", s.handlers.Checkout.CreateOrder, storefront)
	api.GET("/orders/:id", s.handlers.Checkout.GetOrder)
	api.POST("/orders/:id/approve", s.handlers.Checkout.Approve)
	api.POST("/orders/:id/complete", s.handlers.Checkout.Complete)
	api.POST("/cart-data", s.handlers.CartData.Save, storefront)
	api.GET("/cart-data/:key", s.handlers.CartData.Load)

	// -------- processor callbacks / webhooks --------
	limit := s.opts.CallbackRateLimit
	if limit <= 0 {
		limit = 20
	}
	paypal := s.echo.Group("/paypal", middleware.RateLimiter(
		middleware.NewRateLimiterMemoryStore(rate.Limit(limit)),
	))
	paypal.GET("/return", s.handlers.Checkout.Return)
	paypal.POST("/webhook", s.handlers.Webhook.Receive, middleware.BodyLimit(webhookBodyLimit))
	paypal.POST("/v1/shipping-callback", s.handlers.ShippingCallback.Handle)

	// -------- admin --------
	admin := s.echo.Group("/admin", appmiddleware.AdminAuth(s.opts.AdminToken))
	admin.GET("/webhooks", s.handlers.Admin.WebhookStatus)
	admin.POST("/webhooks", s.handlers.Admin.RegisterWebhook)
	admin.DELETE("/webhooks", s.handlers.Admin.UnregisterWebhook)
	admin.POST("/webhooks/simulate", s.handlers.Admin.SimulateWebhook)
	admin.POST("/orders/:id/capture", s.handlers.Admin.Capture)
	admin.POST("/orders/:id/reauthorize", s.handlers.Admin.Reauthorize)
	admin.POST("/orders/:id/void", s.handlers.Admin.Void)
	admin.POST("/orders/:id/refunds", s.handlers.Admin.Refund)
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
