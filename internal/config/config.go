package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	Database  Database  `envPrefix:"DB_"`
	Paypal    Paypal    `envPrefix:"PAYPAL_"`
	Gateway   Gateway   `envPrefix:"GATEWAY_"`
	Kafka     Kafka     `envPrefix:"KAFKA_"`
	Callback  Callback  `envPrefix:"CALLBACK_"`
	Admin     Admin     `envPrefix:"ADMIN_"`
	Tracing   Tracing   `envPrefix:"OTEL_"`
	Transient Transient `envPrefix:"TRANSIENT_"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"mysql"` // mysql or sqlite
	URL    string `env:"URL"`
}

type Paypal struct {
	BaseApiURL   string `env:"BASE_API_URL"`
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	WebhookID    string `env:"WEBHOOK_ID"`
	Sandbox      bool   `env:"SANDBOX" envDefault:"true"`
}

// Gateway holds the merchant's checkout settings.
type Gateway struct {
	BrandName               string   `env:"BRAND_NAME"`
	LandingPage             string   `env:"LANDING_PAGE" envDefault:"NO_PREFERENCE"`
	PayeePreferred          bool     `env:"PAYEE_PREFERRED"`
	SoftDescriptor          string   `env:"SOFT_DESCRIPTOR"`
	InvoicePrefix           string   `env:"INVOICE_PREFIX" envDefault:"WC-"`
	Locale                  string   `env:"LOCALE" envDefault:"en_US"`
	ContactModuleEnabled    bool     `env:"CONTACT_MODULE_ENABLED"`
	MerchantContactEligible bool     `env:"MERCHANT_CONTACT_ELIGIBLE"`
	ShippingCallbackEnabled bool     `env:"SHIPPING_CALLBACK_ENABLED"`
	Intent                  string   `env:"INTENT" envDefault:"CAPTURE"`
	CheckoutURL             string   `env:"CHECKOUT_URL"`
	CartURL                 string   `env:"CART_URL"`
	OrderPayURL             string   `env:"ORDER_PAY_URL"`      // fmt pattern with one %d for the order id
	OrderReceivedURL        string   `env:"ORDER_RECEIVED_URL"` // same
	StoreAPIURL             string   `env:"STORE_API_URL"`
	AllowedOrigins          []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	// StorefrontToken authenticates the shop back end on the routes that
	// carry cart prices.
	StorefrontToken string `env:"STOREFRONT_TOKEN"`
}

type Kafka struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"ppcp.order-events"`
}

type Callback struct {
	Secret    string        `env:"SECRET"`
	TTL       time.Duration `env:"TTL" envDefault:"3h"`
	RateLimit float64       `env:"RATE_LIMIT" envDefault:"20"`
}

type Admin struct {
	Token string `env:"TOKEN"`
}

type Tracing struct {
	Enabled     bool   `env:"ENABLED"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"paypal-payments-gateway"`
	Insecure    bool   `env:"INSECURE" envDefault:"true"`
}

// Transient selects where locks and cart snapshots live. "db" shares them
// between instances; "memory" is for a single instance.
type Transient struct {
	Driver          string        `env:"DRIVER" envDefault:"db"`
	CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" envDefault:"1m"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

// PaymentMode is the order meta value for the processor environment.
func (p Paypal) PaymentMode() string {
	if p.Sandbox {
		return "sandbox"
	}
	return "live"
}
