package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.DefaultLocation != "München" {
		t.Errorf("DefaultLocation = %q, want München", cfg.DefaultLocation)
	}
	if cfg.DataFile != "data/properties.min.json" {
		t.Errorf("DataFile = %q", cfg.DataFile)
	}
	if cfg.CacheTTL != 15*time.Minute {
		t.Errorf("CacheTTL = %v, want 15m", cfg.CacheTTL)
	}
	if cfg.IncomeCapPct != 0.35 {
		t.Errorf("IncomeCapPct = %v, want 0.35", cfg.IncomeCapPct)
	}
	if cfg.DatabaseURL != "" || cfg.RedisURL != "" {
		t.Errorf("backing stores should default to unset")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_LOCATION", "Berlin")
	t.Setenv("CACHE_TTL", "5m")
	t.Setenv("WARM_INTERVAL_HOURS", "12")
	t.Setenv("INCOME_CAP_FRACTION", "0.40")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.DefaultLocation != "Berlin" {
		t.Errorf("DefaultLocation = %q, want Berlin", cfg.DefaultLocation)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v, want 5m", cfg.CacheTTL)
	}
	if cfg.WarmIntervalHrs != 12 {
		t.Errorf("WarmIntervalHrs = %d, want 12", cfg.WarmIntervalHrs)
	}
	if cfg.IncomeCapPct != 0.40 {
		t.Errorf("IncomeCapPct = %v, want 0.40", cfg.IncomeCapPct)
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("WARM_INTERVAL_HOURS", "soon")
	t.Setenv("CACHE_TTL", "whenever")
	t.Setenv("INCOME_CAP_FRACTION", "a third")

	cfg := Load()

	if cfg.WarmIntervalHrs != 6 {
		t.Errorf("WarmIntervalHrs = %d, want fallback 6", cfg.WarmIntervalHrs)
	}
	if cfg.CacheTTL != 15*time.Minute {
		t.Errorf("CacheTTL = %v, want fallback 15m", cfg.CacheTTL)
	}
	if cfg.IncomeCapPct != 0.35 {
		t.Errorf("IncomeCapPct = %v, want fallback 0.35", cfg.IncomeCapPct)
	}
}
