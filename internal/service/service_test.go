package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"paypal-payments-gateway/internal/client/mocks"
	"paypal-payments-gateway/internal/entity"
	"paypal-payments-gateway/internal/event"
	"paypal-payments-gateway/internal/experience"
	"paypal-payments-gateway/internal/factory"
	"paypal-payments-gateway/internal/model"
	"paypal-payments-gateway/internal/processor"
	"paypal-payments-gateway/internal/repository"
	"paypal-payments-gateway/internal/session"
	"paypal-payments-gateway/internal/storefront"
	"paypal-payments-gateway/internal/threeds"
	"paypal-payments-gateway/internal/transient"
	"paypal-payments-gateway/internal/webhook"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type fixture struct {
	db           *gorm.DB
	orders       repository.OrderRepository
	captures     repository.CaptureRepository
	pp           *mocks.PaypalClient
	store        *transient.MemoryStore
	orchestrator *webhook.Orchestrator
	cartData     *session.CartDataStorage
	meta         *processor.OrderMeta
	checkout     CheckoutService
}

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name)),
		&gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.All()...))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })
	return db
}

func setup(t *testing.T, settings CheckoutSettings) *fixture {
	t.Helper()
	db := setupDB(t)
	store := transient.NewMemoryStore(time.Minute, discard())
	t.Cleanup(store.Stop)

	f := &fixture{
		db:       db,
		orders:   repository.NewOrderRepository(db),
		captures: repository.NewCaptureRepository(db),
		pp:       mocks.NewPaypalClient(t),
		store:    store,
		cartData: session.NewCartDataStorage(store),
	}
	f.orchestrator = webhook.NewOrchestrator(store, discard())
	f.meta = processor.NewOrderMeta(f.orders, f.captures, event.NewLogPublisher(discard()), "sandbox", discard())

	items := factory.NewItemFactory()
	if settings.InvoicePrefix == "" {
		settings.InvoicePrefix = "WC-"
	}
	if settings.CheckoutURL == "" {
		settings.CheckoutURL = "https://shop.test/checkout"
	}
	f.checkout = NewCheckoutService(CheckoutDeps{
		DB:            db,
		Paypal:        f.pp,
		Orders:        f.orders,
		PurchaseUnits: factory.NewPurchaseUnitFactory(factory.NewAmountFactory(items), items, factory.NewShippingFactory(), settings.InvoicePrefix, "Shop"),
		ReturnURLs: factory.NewReturnURLFactory("https://shop.test/cart", settings.CheckoutURL, func(id uint) string {
			return fmt.Sprintf("https://shop.test/order-pay/%d", id)
		}),
		Experience: experience.NewBuilder(experience.Settings{
			BrandName:   "Shop",
			Locale:      "en_US",
			BaseURL:     "https://api.shop.test",
			CheckoutURL: settings.CheckoutURL,
		}),
		ShippingPrefs: experience.NewShippingPreferencePolicy(),
		ContactPrefs:  experience.NewContactPreferencePolicy(false, nil),
		ThreeDS:       threeds.NewEngine(discard()),
		Meta:          f.meta,
		CartData:      f.cartData,
		Orchestrator:  f.orchestrator,
	}, settings, discard())
	return f
}

func (f *fixture) seedOrder(t *testing.T, status string, meta map[string]string) *model.Order {
	t.Helper()
	order := &model.Order{
		Number:        "1001",
		Status:        status,
		Currency:      "USD",
		Total:         dec("49.99"),
		PaymentMethod: storefront.GatewayPayPal,
		BillingEmail:  "jane@shop.test",
		Items: []model.OrderItem{
			{Name: "Poster", Quantity: 1, UnitPrice: dec("49.99"), Digital: true},
		},
	}
	ctx := context.Background()
	require.NoError(t, f.orders.Create(ctx, nil, order))
	if len(meta) > 0 {
		require.NoError(t, f.orders.SetMeta(ctx, nil, order.ID, meta))
	}
	loaded, err := f.orders.FindByID(ctx, order.ID)
	require.NoError(t, err)
	return loaded
}

func (f *fixture) reload(t *testing.T, id uint) *storefront.Order {
	t.Helper()
	order, err := f.orders.FindByID(context.Background(), id)
	require.NoError(t, err)
	return order.ToStorefront()
}

// checkoutCart is a $49.99 cart: $50 of goods, $4.99 shipping, $5 coupon.
func checkoutCart() *storefront.Cart {
	return &storefront.Cart{
		SessionID: "sess-1",
		Hash:      "hash-1",
		Currency:  "USD",
		Items: []storefront.LineItem{
			{Name: "T-Shirt", SKU: "TS-1", Quantity: 2, UnitPrice: dec("20.00"), URL: "https://shop.test/p/ts"},
			{Name: "Cap", SKU: "CAP-1", Quantity: 1, UnitPrice: dec("10.00")},
		},
		ShippingTotal: dec("4.99"),
		DiscountTotal: dec("5.00"),
		Total:         dec("49.99"),
		NeedsShipping: true,
		Customer: &storefront.Customer{
			ID:           7,
			FirstName:    "Jane",
			LastName:     "Doe",
			BillingEmail: "jane@shop.test",
			ShippingAddress: &storefront.Address{
				Country:  "US",
				State:    "CA",
				City:     "San Jose",
				Postcode: "95131",
				Line1:    "2211 N First St",
			},
		},
	}
}

func usd(v string) *entity.Money {
	m := entity.NewMoney(dec(v), "USD")
	return &m
}

func customID(id uint) string {
	return fmt.Sprintf("%d", id)
}

// ppOrder is a processor order for the platform order with one payment.
func ppOrder(id string, status entity.OrderStatus, orderID uint, payments *entity.Payments) *entity.Order {
	return &entity.Order{
		ID:     id,
		Intent: entity.IntentCapture,
		Status: status,
		PurchaseUnits: []entity.PurchaseUnit{{
			ReferenceID: entity.DefaultReferenceID,
			Amount:      entity.Amount{Total: entity.NewMoney(dec("49.99"), "USD")},
			CustomID:    customID(orderID),
			Payments:    payments,
		}},
		PaymentSource: &entity.PaymentSource{Name: entity.PaymentSourcePayPal, Properties: json.RawMessage(`{"email_address":"buyer@paypal.test"}`)},
		Payer:         &entity.Payer{EmailAddress: "buyer@paypal.test"},
	}
}

func completedCapture(id string) *entity.Payments {
	return &entity.Payments{Captures: []entity.Capture{{ID: id, Status: entity.PaymentStatusCompleted, Amount: usd("49.99")}}}
}

func cardSource(liability entity.LiabilityShift, enrollment, authentication string) *entity.PaymentSource {
	raw := fmt.Sprintf(`{"brand":"VISA","last_digits":"1111","authentication_result":{"liability_shift":%q,"three_d_secure":{"enrollment_status":%q,"authentication_status":%q}}}`,
		liability, enrollment, authentication)
	return &entity.PaymentSource{Name: entity.PaymentSourceCard, Properties: json.RawMessage(raw)}
}
