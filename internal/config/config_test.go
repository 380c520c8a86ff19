package config

import (
	"os"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	// 1. Setup Required Envs (to bypass validation)
	required := map[string]string{
		"APCA_API_KEY_ID":     "test_key",
		"APCA_API_SECRET_KEY": "test_secret",
		"FMP_API_KEY":         "test_fmp",
	}

	for k, v := range required {
		os.Setenv(k, v)
		defer os.Unsetenv(k) // Clean up
	}

	// 2. Ensure Optional Envs are Unset
	optionals := []string{
		"TRADE_INTERVAL_MINS",
		"REFRESH_INTERVAL_HOURS",
		"STOCKS_TO_MONITOR",
		"BUDGET_LIMIT",
		"SELL_GAIN_PCT",
		"SIZING_FRACTION",
		"MIN_TRADE_SHARES",
		"FETCH_MAX_ATTEMPTS",
		"METRICS_ADDR",
	}

	for _, k := range optionals {
		os.Unsetenv(k)
	}

	// 3. Load Config
	cfg := Load()

	// 4. Verify Defaults
	if cfg.TradeIntervalMins != 2 {
		t.Errorf("Expected TradeIntervalMins 2, got %d", cfg.TradeIntervalMins)
	}

	if cfg.RefreshIntervalHours != 72 {
		t.Errorf("Expected RefreshIntervalHours 72, got %d", cfg.RefreshIntervalHours)
	}

	if cfg.StocksToMonitor != 5 {
		t.Errorf("Expected StocksToMonitor 5, got %d", cfg.StocksToMonitor)
	}

	if cfg.BudgetLimit != 5000.0 {
		t.Errorf("Expected BudgetLimit 5000.0, got %f", cfg.BudgetLimit)
	}

	if cfg.SellGainPct != 3.0 {
		t.Errorf("Expected SellGainPct 3.0, got %f", cfg.SellGainPct)
	}

	if cfg.MinTradeShares != 10 {
		t.Errorf("Expected MinTradeShares 10, got %d", cfg.MinTradeShares)
	}

	if cfg.FetchMaxAttempts != 3 {
		t.Errorf("Expected FetchMaxAttempts 3, got %d", cfg.FetchMaxAttempts)
	}

	if cfg.FMPAPIKey != "test_fmp" {
		t.Errorf("Expected FMPAPIKey 'test_fmp', got '%s'", cfg.FMPAPIKey)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	envs := map[string]string{
		"APCA_API_KEY_ID":     "test_key",
		"APCA_API_SECRET_KEY": "test_secret",
		"FMP_API_KEY":         "test_fmp",
		"TRADE_INTERVAL_MINS": "15",
		"STOCKS_TO_MONITOR":   "10",
		"BUDGET_LIMIT":        "2500.50",
		"SIZING_FRACTION":     "0.2",
	}

	for k, v := range envs {
		os.Setenv(k, v)
		defer os.Unsetenv(k)
	}

	cfg := Load()

	if cfg.TradeIntervalMins != 15 {
		t.Errorf("Expected TradeIntervalMins 15, got %d", cfg.TradeIntervalMins)
	}

	if cfg.StocksToMonitor != 10 {
		t.Errorf("Expected StocksToMonitor 10, got %d", cfg.StocksToMonitor)
	}

	if cfg.BudgetLimit != 2500.50 {
		t.Errorf("Expected BudgetLimit 2500.50, got %f", cfg.BudgetLimit)
	}

	if cfg.SizingFraction != 0.2 {
		t.Errorf("Expected SizingFraction 0.2, got %f", cfg.SizingFraction)
	}
}
