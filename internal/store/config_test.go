package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadConfigDefaults(t *testing.T) {
	p := writeConfig(t, "mode: DRY_RUN\nsource: REPLAY\n")
	cfg, err := LoadConfig(p)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Tradier.BaseURL != "https://sandbox.tradier.com" {
		t.Errorf("Expected sandbox default base URL, got %s", cfg.Tradier.BaseURL)
	}
	if cfg.Extractor.Provider != "PATTERN" {
		t.Errorf("Expected PATTERN extractor default, got %s", cfg.Extractor.Provider)
	}
	if cfg.RiskConfigPath != "trading_config.json" {
		t.Errorf("Expected default risk config path, got %s", cfg.RiskConfigPath)
	}
	if cfg.Web.ListenAddr != ":5000" {
		t.Errorf("Expected default listen addr :5000, got %s", cfg.Web.ListenAddr)
	}
}

func TestLoadConfigRejectsBadMode(t *testing.T) {
	p := writeConfig(t, "mode: PAPER\nsource: REPLAY\n")
	if _, err := LoadConfig(p); err == nil || !strings.Contains(err.Error(), "invalid mode") {
		t.Errorf("Expected invalid mode error, got %v", err)
	}
}

func TestLoadConfigRequiresDiscordIDs(t *testing.T) {
	p := writeConfig(t, "mode: DRY_RUN\nsource: DISCORD\n")
	if _, err := LoadConfig(p); err == nil || !strings.Contains(err.Error(), "guild_id") {
		t.Errorf("Expected missing discord id error, got %v", err)
	}
}

func TestLoadConfigLiveRequiresAccount(t *testing.T) {
	p := writeConfig(t, "mode: LIVE\nsource: REPLAY\n")
	if _, err := LoadConfig(p); err == nil || !strings.Contains(err.Error(), "account_id") {
		t.Errorf("Expected missing account error, got %v", err)
	}
}
