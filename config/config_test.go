package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != 8000 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.ScrapeInterval != 5*time.Minute {
		t.Errorf("ScrapeInterval = %v", cfg.ScrapeInterval)
	}
	if cfg.MaxAnnPages != 100 || cfg.MaxCRDPages != 50 || cfg.MaxCreditPages != 50 {
		t.Errorf("page caps = %d/%d/%d", cfg.MaxAnnPages, cfg.MaxCRDPages, cfg.MaxCreditPages)
	}
	if !cfg.Headless || !cfg.BlockResources {
		t.Errorf("browser defaults = %+v", cfg)
	}
	if len(cfg.APIKeys) != 0 {
		t.Errorf("APIKeys = %v, want auth disabled", cfg.APIKeys)
	}
	if len(cfg.Markets) != 1 || cfg.Markets[0] != "equity" {
		t.Errorf("Markets = %v", cfg.Markets)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("SCRAPE_INTERVAL", "90s")
	t.Setenv("HEADLESS", "false")
	t.Setenv("API_KEYS", "k1, k2,,k3")
	t.Setenv("MARKETS", "equity,sme,debt")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("MAX_CREDIT_RATING_PAGES", "7")

	cfg := Load()

	if cfg.Port != 9100 {
		t.Errorf("Port = %d", cfg.Port)
	}
	if cfg.ScrapeInterval != 90*time.Second {
		t.Errorf("ScrapeInterval = %v", cfg.ScrapeInterval)
	}
	if cfg.Headless {
		t.Error("HEADLESS=false ignored")
	}
	if len(cfg.APIKeys) != 3 || cfg.APIKeys[2] != "k3" {
		t.Errorf("APIKeys = %v", cfg.APIKeys)
	}
	if len(cfg.Markets) != 3 || cfg.Markets[1] != "sme" {
		t.Errorf("Markets = %v", cfg.Markets)
	}
	if cfg.RateLimitRPS != 2.5 {
		t.Errorf("RateLimitRPS = %v", cfg.RateLimitRPS)
	}
	if cfg.MaxCreditPages != 7 {
		t.Errorf("MaxCreditPages = %d", cfg.MaxCreditPages)
	}
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("SCRAPE_INTERVAL", "soon")
	t.Setenv("HEADLESS", "maybe")

	cfg := Load()
	if cfg.Port != 8000 || cfg.ScrapeInterval != 5*time.Minute || !cfg.Headless {
		t.Errorf("bad values did not fall back: %+v", cfg)
	}
}
