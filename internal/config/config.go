package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all process-level tuning. Everything is supplied through the
// environment; there are no user-facing CLI flags.
type Config struct {
	Version string

	// Scheduling
	TradeIntervalMins    int // short period, trade cycles
	RefreshIntervalHours int // long period, universe refresh

	// Universe & sizing
	StocksToMonitor int
	BudgetLimit     float64 // ceiling applied on top of broker buying power
	SellGainPct     float64 // sell when price >= entry * (1 + pct/100)
	SizingFraction  float64 // fraction of remaining budget per new position
	MinTradeShares  int64

	// Resilient fetch
	FetchMaxAttempts     int
	FetchBaseDelaySec    int
	RateLimitCooldownSec int

	// Delayed exit re-checks
	ExitRecheckMins  int
	ExitDeadlineMins int

	// Ambient
	MetricsAddr   string
	MaxLogSizeMB  int64
	MaxLogBackups int

	FMPAPIKey string
}

// Load initializes the configuration.
// It tries to read a .env file and checks for necessary environment variables.
func Load() *Config {
	// Load .env variables into the process environment
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, using system environment variables")
	}

	// Define which variables are critical and confidential.
	requiredSecretVars := map[string]bool{
		"APCA_API_KEY_ID":     true,
		"APCA_API_SECRET_KEY": true,
		"FMP_API_KEY":         true,
	}

	var missing []string
	for key := range requiredSecretVars {
		if os.Getenv(key) == "" {
			missing = append(missing, key)
		}
	}

	if len(missing) > 0 {
		log.Fatalf("CRITICAL: Missing required environment variables: %v", missing)
	}

	// Print variables defined in .env, masking secrets to the last 4 chars.
	envMap, err := godotenv.Read()
	if err == nil {
		log.Println("--- .env File Variables ---")
		for key, val := range envMap {
			if requiredSecretVars[key] {
				masked := "***"
				if len(val) > 4 {
					masked = "***" + val[len(val)-4:]
				}
				log.Printf("%s=%s", key, masked)
			} else {
				log.Printf("%s=%s", key, val)
			}
		}
		log.Println("---------------------------")
	}

	return &Config{
		TradeIntervalMins:    getEnvAsInt("TRADE_INTERVAL_MINS", 2),
		RefreshIntervalHours: getEnvAsInt("REFRESH_INTERVAL_HOURS", 72),
		StocksToMonitor:      getEnvAsInt("STOCKS_TO_MONITOR", 5),
		BudgetLimit:          getEnvAsFloat64("BUDGET_LIMIT", 5000),
		SellGainPct:          getEnvAsFloat64("SELL_GAIN_PCT", 3.0),
		SizingFraction:       getEnvAsFloat64("SIZING_FRACTION", 0.1),
		MinTradeShares:       int64(getEnvAsInt("MIN_TRADE_SHARES", 10)),
		FetchMaxAttempts:     getEnvAsInt("FETCH_MAX_ATTEMPTS", 3),
		FetchBaseDelaySec:    getEnvAsInt("FETCH_BASE_DELAY_SEC", 5),
		RateLimitCooldownSec: getEnvAsInt("RATE_LIMIT_COOLDOWN_SEC", 60),
		ExitRecheckMins:      getEnvAsInt("EXIT_RECHECK_MINS", 5),
		ExitDeadlineMins:     getEnvAsInt("EXIT_DEADLINE_MINS", 30),
		MetricsAddr:          getEnvAsString("METRICS_ADDR", ":9090"),
		MaxLogSizeMB:         int64(getEnvAsInt("MAX_LOG_SIZE_MB", 10)),
		MaxLogBackups:        getEnvAsInt("MAX_LOG_BACKUPS", 3),
		FMPAPIKey:            os.Getenv("FMP_API_KEY"),
	}
}

// TradeInterval returns the short trade-cycle period.
func (c *Config) TradeInterval() time.Duration {
	return time.Duration(c.TradeIntervalMins) * time.Minute
}

// RefreshInterval returns the long universe-refresh period.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalHours) * time.Hour
}

// FetchBaseDelay is the short retry delay for transient failures.
func (c *Config) FetchBaseDelay() time.Duration {
	return time.Duration(c.FetchBaseDelaySec) * time.Second
}

// RateLimitCooldown is the long wait applied after an HTTP 429.
func (c *Config) RateLimitCooldown() time.Duration {
	return time.Duration(c.RateLimitCooldownSec) * time.Second
}
