package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/healthbill/healthbill/internal/types"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Postgres   PostgresConfig   `validate:"required"`
	Cache      CacheConfig
	Billing    BillingConfig `validate:"required"`
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
	// RateLimit is the number of requests per second allowed per tenant, 0 disables limiting
	RateLimit float64 `mapstructure:"rate_limit" validate:"gte=0"`
	RateBurst int     `mapstructure:"rate_burst" validate:"gte=0"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type PostgresConfig struct {
	Host     string `validate:"required"`
	Port     int    `validate:"required"`
	User     string
	Password string
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`

	MaxOpenConns int `mapstructure:"max_open_conns"`
	MaxIdleConns int `mapstructure:"max_idle_conns"`
}

type CacheConfig struct {
	Enabled bool
}

// BillingConfig holds the numeric conventions used when invoicing health services
type BillingConfig struct {
	// PriceDigits is the number of decimals unit prices are rounded to
	PriceDigits int32 `mapstructure:"price_digits" validate:"gte=0,lte=8"`
	// AmountDigits is the number of decimals of invoice level amounts (insured amount)
	AmountDigits int32 `mapstructure:"amount_digits" validate:"gte=0,lte=8"`
	// PlaceholderUnitPrice replaces a zero price on fully covered lines
	PlaceholderUnitPrice string `mapstructure:"placeholder_unit_price" validate:"required"`
	// MinimumPaymentRatio is the smallest share of the amount to pay accepted as a first payment
	MinimumPaymentRatio string `mapstructure:"minimum_payment_ratio" validate:"required"`
}

func NewConfig() (*Configuration, error) {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/healthbill")

	v.SetEnvPrefix("HEALTHBILL")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("Error reading config file: %v\n", err)
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.rate_limit", 50)
	v.SetDefault("server.rate_burst", 100)
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("billing.price_digits", types.DefaultPriceDigits)
	v.SetDefault("billing.amount_digits", types.DefaultAmountDigits)
	v.SetDefault("billing.placeholder_unit_price", types.DefaultPlaceholderUnitPrice.String())
	v.SetDefault("billing.minimum_payment_ratio", "0.4")
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return err
	}
	return c.Billing.Validate()
}

// Validate checks the decimal settings that the struct tags cannot express
func (c BillingConfig) Validate() error {
	placeholder, err := decimal.NewFromString(c.PlaceholderUnitPrice)
	if err != nil {
		return fmt.Errorf("billing.placeholder_unit_price: %w", err)
	}
	if !placeholder.IsPositive() {
		return fmt.Errorf("billing.placeholder_unit_price must be positive")
	}
	ratio, err := decimal.NewFromString(c.MinimumPaymentRatio)
	if err != nil {
		return fmt.Errorf("billing.minimum_payment_ratio: %w", err)
	}
	if ratio.IsNegative() || ratio.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("billing.minimum_payment_ratio must be between 0 and 1")
	}
	return nil
}

// Placeholder returns the placeholder unit price, falling back to the default on bad input
func (c BillingConfig) Placeholder() decimal.Decimal {
	v, err := decimal.NewFromString(c.PlaceholderUnitPrice)
	if err != nil || !v.IsPositive() {
		return types.DefaultPlaceholderUnitPrice
	}
	return v
}

// PaymentRatio returns the minimum first payment ratio
func (c BillingConfig) PaymentRatio() decimal.Decimal {
	v, err := decimal.NewFromString(c.MinimumPaymentRatio)
	if err != nil {
		return decimal.RequireFromString("0.4")
	}
	return v
}

// GetDefaultConfig returns a default configuration for local development
// This is useful for running scripts or other non-web applications
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080", RateLimit: 50, RateBurst: 100},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Postgres:   PostgresConfig{Host: "localhost", Port: 5432, SSLMode: "disable", MaxOpenConns: 10, MaxIdleConns: 5},
		Cache:      CacheConfig{Enabled: true},
		Billing: BillingConfig{
			PriceDigits:          types.DefaultPriceDigits,
			AmountDigits:         types.DefaultAmountDigits,
			PlaceholderUnitPrice: types.DefaultPlaceholderUnitPrice.String(),
			MinimumPaymentRatio:  "0.4",
		},
	}
}

func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d sslmode=%s",
		c.User,
		c.Password,
		c.DBName,
		c.Host,
		c.Port,
		c.SSLMode,
	)
}
