package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := &Config{}
	cfg.Telegram.Token = "123:abc"
	cfg.Balance.URL = "https://billing.example"
	return cfg
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := Normalize(cfg); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("run mode default = %q", cfg.Telegram.RunMode)
	}
	if cfg.BalanceTimeout() != 10*time.Second {
		t.Errorf("balance timeout default = %v", cfg.BalanceTimeout())
	}
	if cfg.DirectoryCacheTTL() != 30*time.Second {
		t.Errorf("cache ttl default = %v", cfg.DirectoryCacheTTL())
	}
	if cfg.SyncInterval() != 10*time.Minute {
		t.Errorf("sync interval default = %v", cfg.SyncInterval())
	}
	if cfg.Content.TextDir == "" || cfg.Content.ImageDir == "" {
		t.Error("content directories must get defaults")
	}
}

func TestNormalizeRequiresToken(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.Token = ""
	if err := Normalize(cfg); err == nil {
		t.Error("empty token must fail")
	}
}

func TestNormalizeRequiresBalanceURL(t *testing.T) {
	cfg := validConfig()
	cfg.Balance.URL = " "
	if err := Normalize(cfg); err == nil {
		t.Error("empty balance url must fail")
	}
}

func TestNormalizeRunModes(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "POLLING"
	if err := Normalize(cfg); err != nil {
		t.Fatalf("polling alias rejected: %v", err)
	}
	if cfg.Telegram.RunMode != RunModeLongpoll {
		t.Errorf("alias must normalize to longpoll, got %q", cfg.Telegram.RunMode)
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	if err := Normalize(cfg); err == nil {
		t.Error("unknown run mode must fail")
	}
}

func TestNormalizeWebhookRequirements(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	if err := Normalize(cfg); err == nil {
		t.Error("webhook mode without url/listen/port must fail")
	}

	cfg = validConfig()
	cfg.Telegram.RunMode = RunModeWebhook
	cfg.Webhook.URL = "https://bot.example/hook"
	cfg.Webhook.Listen = "0.0.0.0"
	cfg.Webhook.Port = 8443
	if err := Normalize(cfg); err != nil {
		t.Errorf("complete webhook config rejected: %v", err)
	}
}

func TestLoadReadsYAMLAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	body := `
telegram:
  token: from-file
balance:
  url: https://billing.example
  timeout_seconds: 3
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("BOT_TOKEN", "from-env")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Telegram.Token != "from-env" {
		t.Errorf("env must override file, got %q", cfg.Telegram.Token)
	}
	if cfg.Balance.TimeoutSeconds != 3 {
		t.Errorf("timeout from file = %d", cfg.Balance.TimeoutSeconds)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing config file must fail")
	}
}
