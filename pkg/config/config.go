package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AssetParams holds per-asset trading thresholds.
type AssetParams struct {
	MaxPremium     decimal.Decimal
	MinProfit      decimal.Decimal
	PriceIncrement decimal.Decimal
}

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Market data
	MarketDataURL string
	PollInterval  time.Duration

	// Assets
	Assets      []string
	AssetParams map[string]AssetParams

	// Expiry rollover
	ExpiryCheckInterval time.Duration

	// Scanning
	TopOpportunities int

	// Execution
	PaperTrading     bool
	MaxLotsPerTrade  int
	MaxLotsPerCycle  int
	SellFillTimeout  time.Duration
	SellPollInterval time.Duration
	BuyTierWait      time.Duration

	// Worker loop
	CycleInterval time.Duration

	// Notifications
	TelegramBotToken string
	TelegramChatID   string

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Market data defaults
		MarketDataURL: getEnvOrDefault("MARKET_DATA_URL", "https://api.india.delta.exchange"),
		PollInterval:  getDurationOrDefault("POLL_INTERVAL", 1*time.Second),

		// Asset defaults
		Assets: splitAssets(getEnvOrDefault("ASSETS", "ETH,BTC")),
		AssetParams: map[string]AssetParams{
			"ETH": {
				MaxPremium:     getDecimalOrDefault("ETH_MAX_PREMIUM", "3.00"),
				MinProfit:      getDecimalOrDefault("ETH_MIN_PROFIT", "0.20"),
				PriceIncrement: getDecimalOrDefault("ETH_PRICE_INCREMENT", "0.10"),
			},
			"BTC": {
				MaxPremium:     getDecimalOrDefault("BTC_MAX_PREMIUM", "20.00"),
				MinProfit:      getDecimalOrDefault("BTC_MIN_PROFIT", "3.00"),
				PriceIncrement: getDecimalOrDefault("BTC_PRICE_INCREMENT", "1.00"),
			},
		},

		// Expiry defaults
		ExpiryCheckInterval: getDurationOrDefault("EXPIRY_CHECK_INTERVAL", 60*time.Second),

		// Scanning defaults
		TopOpportunities: getIntOrDefault("TOP_OPPORTUNITIES", 3),

		// Execution defaults
		PaperTrading:     getBoolOrDefault("PAPER_TRADING", true),
		MaxLotsPerTrade:  getIntOrDefault("MAX_LOTS_PER_TRADE", 10),
		MaxLotsPerCycle:  getIntOrDefault("MAX_LOTS_PER_CYCLE", 0),
		SellFillTimeout:  getDurationOrDefault("SELL_FILL_TIMEOUT", 5*time.Second),
		SellPollInterval: getDurationOrDefault("SELL_POLL_INTERVAL", 1*time.Second),
		BuyTierWait:      getDurationOrDefault("BUY_TIER_WAIT", 2*time.Second),

		// Worker defaults
		CycleInterval: getDurationOrDefault("CYCLE_INTERVAL", 1*time.Second),

		// Notification defaults
		TelegramBotToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:   os.Getenv("TELEGRAM_CHAT_ID"),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "arbbot"),
		PostgresPass: getEnvOrDefault("POSTGRES_PASSWORD", "arbbot123"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "arbbot"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),
	}

	// Per-cycle cap defaults to the per-trade cap.
	if cfg.MaxLotsPerCycle <= 0 {
		cfg.MaxLotsPerCycle = cfg.MaxLotsPerTrade
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.MarketDataURL == "" {
		return fmt.Errorf("MARKET_DATA_URL cannot be empty")
	}

	if len(c.Assets) == 0 {
		return fmt.Errorf("ASSETS cannot be empty")
	}

	for _, asset := range c.Assets {
		params, ok := c.AssetParams[asset]
		if !ok {
			return fmt.Errorf("no parameters configured for asset %q", asset)
		}
		if !params.MaxPremium.IsPositive() {
			return fmt.Errorf("%s_MAX_PREMIUM must be positive, got %s", asset, params.MaxPremium)
		}
		if !params.MinProfit.IsPositive() {
			return fmt.Errorf("%s_MIN_PROFIT must be positive, got %s", asset, params.MinProfit)
		}
		if !params.PriceIncrement.IsPositive() {
			return fmt.Errorf("%s_PRICE_INCREMENT must be positive, got %s", asset, params.PriceIncrement)
		}
	}

	// Only simulated fills are wired; a config claiming live execution
	// would mislabel every trade the bot reports.
	if !c.PaperTrading {
		return fmt.Errorf("PAPER_TRADING=false is not supported: live order routing is not implemented")
	}

	if c.MaxLotsPerTrade < 1 {
		return fmt.Errorf("MAX_LOTS_PER_TRADE must be at least 1, got %d", c.MaxLotsPerTrade)
	}

	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}

	if c.SellFillTimeout <= 0 || c.SellPollInterval <= 0 || c.BuyTierWait <= 0 {
		return fmt.Errorf("fill timing intervals must be positive")
	}

	if c.StorageMode != "console" && c.StorageMode != "postgres" {
		return fmt.Errorf("STORAGE_MODE must be 'console' or 'postgres', got %q", c.StorageMode)
	}

	return nil
}

// Mode returns the execution mode label used in status reporting.
func (c *Config) Mode() string {
	if c.PaperTrading {
		return "paper"
	}
	return "live"
}

func splitAssets(value string) []string {
	parts := strings.Split(value, ",")
	assets := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToUpper(strings.TrimSpace(p))
		if p != "" {
			assets = append(assets, p)
		}
	}
	return assets
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolVal
}

func getDecimalOrDefault(key string, defaultValue string) decimal.Decimal {
	fallback := decimal.RequireFromString(defaultValue)

	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	dec, err := decimal.NewFromString(value)
	if err != nil {
		return fallback
	}

	return dec
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}
