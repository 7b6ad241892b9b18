package config

import (
	"fmt"
	"time"
)

const (
	ProcessorStripe    = "stripe"
	ProcessorBraintree = "braintree"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	DatabaseURL string `env:"DATABASE_URL" envDefault:"sqlite://orders.db"`

	Auth      Auth      `envPrefix:"AUTH_"`
	Stripe    Stripe    `envPrefix:"STRIPE_"`
	BrainTree Braintree `envPrefix:"BRAINTREE_"`
	Checkout  Checkout  `envPrefix:"CHECKOUT_"`
	Redis     Redis     `envPrefix:"REDIS_"`
	Metrics   Metrics   `envPrefix:"METRICS_"`
}

type Metrics struct {
	// empty disables pushing storefront checkout metrics
	PushgatewayURL string        `env:"PUSHGATEWAY_URL"`
	Job            string        `env:"JOB" envDefault:"studymart_storefront"`
	PushTimeout    time.Duration `env:"PUSH_TIMEOUT" envDefault:"5s"`
}

type Auth struct {
	// empty disables bearer auth and binds the demo user
	JWTSecret string `env:"JWT_SECRET"`
}

type Stripe struct {
	SecretKey string `env:"SECRET_KEY"`
	// override for the stripe API base, used against local mocks
	APIURL   string `env:"API_URL"`
	Currency string `env:"CURRENCY" envDefault:"usd"`
	// payment method confirmed headlessly in place of the native payment sheet
	PaymentMethod string `env:"PAYMENT_METHOD" envDefault:"pm_card_visa"`
}

type Braintree struct {
	Environment string `env:"ENVIRONMENT" envDefault:"sandbox"`
	MerchantID  string `env:"MERCHANT_ID"`
	PublicKey   string `env:"PUBLIC_KEY"`
	PrivateKey  string `env:"PRIVATE_KEY"`
	Nonce       string `env:"NONCE" envDefault:"fake-valid-nonce"`
	// override for the gateway base URL, used against local mocks
	APIURL string `env:"API_URL"`
}

type Checkout struct {
	Processor       string        `env:"PROCESSOR" envDefault:"stripe"`
	MerchantName    string        `env:"MERCHANT_NAME" envDefault:"StudyMart"`
	OrderAPIURL     string        `env:"ORDER_API_URL" envDefault:"http://localhost:8080"`
	OrderAPIToken   string        `env:"ORDER_API_TOKEN"`
	OrderAPITimeout time.Duration `env:"ORDER_API_TIMEOUT" envDefault:"30s"`
	CartFile        string        `env:"CART_FILE" envDefault:"cart.json"`
	SessionID       string        `env:"SESSION_ID" envDefault:"demo-session"`
}

type Redis struct {
	Addr     string        `env:"ADDR"`
	Password string        `env:"PASSWORD"`
	DB       int           `env:"DB" envDefault:"0"`
	CartTTL  time.Duration `env:"CART_TTL" envDefault:"168h"`
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

// ValidateStorefront checks the settings the storefront needs to run a checkout.
func (c *Config) ValidateStorefront() error {
	switch c.Checkout.Processor {
	case ProcessorStripe:
		if c.Stripe.SecretKey == "" {
			return fmt.Errorf("STRIPE_SECRET_KEY is required for the stripe processor")
		}
	case ProcessorBraintree:
		if c.BrainTree.MerchantID == "" || c.BrainTree.PublicKey == "" || c.BrainTree.PrivateKey == "" {
			return fmt.Errorf("BRAINTREE_MERCHANT_ID, BRAINTREE_PUBLIC_KEY and BRAINTREE_PRIVATE_KEY are required for the braintree processor")
		}
	default:
		return fmt.Errorf("unknown checkout processor %q", c.Checkout.Processor)
	}

	if c.Checkout.MerchantName == "" {
		return fmt.Errorf("CHECKOUT_MERCHANT_NAME must not be empty")
	}
	if c.Checkout.OrderAPIURL == "" {
		return fmt.Errorf("CHECKOUT_ORDER_API_URL must not be empty")
	}
	return nil
}
