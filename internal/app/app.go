// Package app wires the gateway together for the API server and the admin CLI.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"gorm.io/gorm"

	"paypal-payments-gateway/internal/client"
	"paypal-payments-gateway/internal/config"
	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/event"
	"paypal-payments-gateway/internal/experience"
	"paypal-payments-gateway/internal/factory"
	"paypal-payments-gateway/internal/handler"
	"paypal-payments-gateway/internal/logger"
	"paypal-payments-gateway/internal/processor"
	"paypal-payments-gateway/internal/repository"
	"paypal-payments-gateway/internal/server"
	"paypal-payments-gateway/internal/service"
	"paypal-payments-gateway/internal/session"
	"paypal-payments-gateway/internal/storeapi"
	"paypal-payments-gateway/internal/threeds"
	"paypal-payments-gateway/internal/trace"
	"paypal-payments-gateway/internal/transient"
	"paypal-payments-gateway/internal/webhook"
)

const (
	webhookPath = "/paypal/webhook"

	transientDB     = "db"
	transientMemory = "memory"
)

type App struct {
	DB          *gorm.DB
	Server      *server.Server
	Registrar   *webhook.Registrar
	Diagnostics *webhook.Diagnostics

	cfg       *config.Config
	store     transient.Store
	publisher event.Publisher
	tracer    *sdktrace.TracerProvider
	log       *slog.Logger
}

func New(ctx context.Context, cfg *config.Config, log *slog.Logger) (*App, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}
	a := &App{cfg: cfg, log: log}

	if cfg.Tracing.Enabled {
		tp, err := trace.InitTracer(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Insecure)
		if err != nil {
			return nil, fmt.Errorf("init tracer: %w", err)
		}
		a.tracer = tp
	}

	db, err := client.InitDBClient(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		return nil, err
	}
	a.DB = db

	if cfg.Transient.CleanupInterval <= 0 {
		cfg.Transient.CleanupInterval = time.Minute
	}
	switch cfg.Transient.Driver {
	case transientMemory:
		a.store = transient.NewMemoryStore(cfg.Transient.CleanupInterval, log)
	default:
		a.store = transient.NewGormStore(db)
	}

	a.publisher = newPublisher(cfg.Kafka, log)

	// -------- repositories --------
	orderRepo := repository.NewOrderRepository(db)
	captureRepo := repository.NewCaptureRepository(db)
	optionRepo := repository.NewOptionRepository(db)
	webhookEventRepo := repository.NewWebhookEventRepository(db)

	// -------- factories --------
	items := factory.NewItemFactory()
	amounts := factory.NewAmountFactory(items)
	purchaseUnits := factory.NewPurchaseUnitFactory(amounts, items, factory.NewShippingFactory(),
		cfg.Gateway.InvoicePrefix, cfg.Gateway.SoftDescriptor)
	orderFactory := factory.NewOrderFactory(purchaseUnits)
	returnURLs := factory.NewReturnURLFactory(cfg.Gateway.CartURL, cfg.Gateway.CheckoutURL, func(orderID uint) string {
		if cfg.Gateway.OrderPayURL == "" {
			return ""
		}
		return fmt.Sprintf(cfg.Gateway.OrderPayURL, orderID)
	})

	paypalClient, err := client.NewPaypalClient(&cfg.Paypal, orderFactory, log)
	if err != nil {
		return nil, err
	}

	secret := cfg.Callback.Secret
	if !cfg.Gateway.ShippingCallbackEnabled {
		// no callback URL is ever issued, so no token may verify either
		secret = uuid.NewString()
	}
	carts := storeapi.NewCartClient(cfg.Gateway.StoreAPIURL, log)
	signer := storeapi.NewTokenSigner(secret, cfg.Callback.TTL)
	var callbackURLs *experience.CallbackURLFactory
	if cfg.Gateway.ShippingCallbackEnabled {
		callbackURLs = experience.NewCallbackURLFactory(carts, signer, cfg.BaseURL)
	}
	shippingCallback := service.NewShippingCallbackService(carts, signer, amounts, orderRepo, log)

	// -------- processor state --------
	orchestrator := webhook.NewOrchestrator(a.store, log)
	meta := processor.NewOrderMeta(orderRepo, captureRepo, a.publisher, cfg.Paypal.PaymentMode(), log)
	authorized := processor.NewAuthorizedPayments(db, paypalClient, orderRepo, meta, log)
	refunds := processor.NewRefunds(db, paypalClient, orderRepo, cfg.Gateway.InvoicePrefix, log)
	cartData := session.NewCartDataStorage(a.store)

	// -------- services --------
	checkoutService := service.NewCheckoutService(service.CheckoutDeps{
		DB:            db,
		Paypal:        paypalClient,
		Orders:        orderRepo,
		PurchaseUnits: purchaseUnits,
		ReturnURLs:    returnURLs,
		Experience: experience.NewBuilder(experience.Settings{
			BrandName:      cfg.Gateway.BrandName,
			LandingPage:    entity.LandingPage(strings.ToUpper(cfg.Gateway.LandingPage)),
			PayeePreferred: cfg.Gateway.PayeePreferred,
			Locale:         cfg.Gateway.Locale,
			BaseURL:        cfg.BaseURL,
			CheckoutURL:    cfg.Gateway.CheckoutURL,
		}),
		ShippingPrefs: experience.NewShippingPreferencePolicy(),
		ContactPrefs: experience.NewContactPreferencePolicy(cfg.Gateway.ContactModuleEnabled, experience.StaticEligibility{
			experience.FeatureContactModule: cfg.Gateway.MerchantContactEligible,
		}),
		CallbackURLs: callbackURLs,
		ThreeDS:      threeds.NewEngine(log),
		Meta:         meta,
		CartData:     cartData,
		Orchestrator: orchestrator,
	}, service.CheckoutSettings{
		Intent:           cfg.Gateway.Intent,
		InvoicePrefix:    cfg.Gateway.InvoicePrefix,
		ShippingCallback: cfg.Gateway.ShippingCallbackEnabled,
		OrderReceivedURL: cfg.Gateway.OrderReceivedURL,
		CheckoutURL:      cfg.Gateway.CheckoutURL,
	}, log)
	paymentService := service.NewPaymentService(orderRepo, authorized, refunds, orchestrator, log)
	cartResume := service.NewCartResumeService(cartData)

	// -------- webhooks --------
	handlers := webhook.DefaultHandlers(db, checkoutService, orderFactory, meta, log)
	events := webhook.NewEventStorage(optionRepo)
	simulation := webhook.NewSimulation(paypalClient, optionRepo, log)
	a.Registrar = webhook.NewRegistrar(paypalClient, optionRepo, orchestrator, events, simulation,
		strings.TrimRight(cfg.BaseURL, "/")+webhookPath, webhook.EventTypes(handlers), log)
	a.Diagnostics = webhook.NewDiagnostics(events, simulation)
	incoming := webhook.NewIncomingEndpoint(paypalClient, a.Registrar, cfg.Paypal.WebhookID,
		orderRepo, webhookEventRepo, events, simulation, orchestrator, handlers, log)

	a.Server = server.NewServer(server.Handlers{
		Checkout:         handler.NewCheckoutHandler(checkoutService, cfg.Gateway.CheckoutURL, log),
		ShippingCallback: handler.NewShippingCallbackHandler(shippingCallback, log),
		CartData:         handler.NewCartDataHandler(cartResume),
		Webhook:          handler.NewWebhookHandler(incoming, log),
		Admin:            handler.NewAdminHandler(paymentService, a.Registrar, a.Diagnostics),
	}, server.Options{
		AllowedOrigins:    cfg.Gateway.AllowedOrigins,
		AdminToken:        cfg.Admin.Token,
		StorefrontToken:   cfg.Gateway.StorefrontToken,
		CallbackRateLimit: cfg.Callback.RateLimit,
	}, log)

	return a, nil
}

// RunCleanup drops expired transient entries until ctx is done.
func (a *App) RunCleanup(ctx context.Context) {
	switch store := a.store.(type) {
	case *transient.MemoryStore:
		_ = store.GC(ctx)
	case *transient.GormStore:
		ticker := time.NewTicker(a.cfg.Transient.CleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				n, err := store.PurgeExpired(ctx)
				if err != nil {
					a.log.WarnContext(ctx, "purge transient entries", logger.Err(err))
					continue
				}
				if n > 0 {
					a.log.DebugContext(ctx, "transient entries purged", slog.Int64("deleted", n))
				}
			case <-ctx.Done():
				return
			}
		}
	}
}

func (a *App) Close(ctx context.Context) error {
	var errs []error
	if store, ok := a.store.(*transient.MemoryStore); ok {
		store.Stop()
	}
	if a.publisher != nil {
		errs = append(errs, a.publisher.Close())
	}
	if a.tracer != nil {
		errs = append(errs, a.tracer.Shutdown(ctx))
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}

func validate(cfg *config.Config) error {
	switch cfg.Transient.Driver {
	case transientDB, transientMemory, "":
	default:
		return fmt.Errorf("unsupported transient driver %q", cfg.Transient.Driver)
	}
	if cfg.Gateway.ShippingCallbackEnabled && (cfg.Callback.Secret == "" || cfg.Gateway.StoreAPIURL == "") {
		return errors.New("shipping callback needs CALLBACK_SECRET and GATEWAY_STORE_API_URL")
	}
	return nil
}

func newPublisher(cfg config.Kafka, log *slog.Logger) event.Publisher {
	if len(cfg.Brokers) == 0 {
		return event.NewLogPublisher(log)
	}
	if err := event.EnsureTopic(cfg.Brokers, cfg.Topic); err != nil {
		log.Warn("ensure kafka topic", slog.String("topic", cfg.Topic), logger.Err(err))
	}
	publisher, err := event.NewKafkaPublisher(cfg.Brokers, cfg.Topic, log)
	if err != nil {
		log.Warn("kafka unavailable, order events are logged only", logger.Err(err))
		return event.NewLogPublisher(log)
	}
	return publisher
}
