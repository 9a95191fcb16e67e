package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"API_URL", "REACT_APP_API_URL", "API_TIMEOUT_MS", "PORT", "LOG_LEVEL",
		"SESSION_SECRET", "SESSION_TTL_HOURS", "NODE_ENV",
	} {
		t.Setenv(k, "")
	}
	// t.Setenv cannot unset; drop HISTORY_DB and restore it afterwards.
	if old, ok := os.LookupEnv("HISTORY_DB"); ok {
		os.Unsetenv("HISTORY_DB")
		t.Cleanup(func() { os.Setenv("HISTORY_DB", old) })
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("APIURL %q, want %q", cfg.APIURL, DefaultAPIURL)
	}
	if cfg.APITimeout != 10*time.Second {
		t.Errorf("APITimeout %v", cfg.APITimeout)
	}
	if cfg.Port != DefaultPort || cfg.LogLevel != "info" {
		t.Errorf("Port %q LogLevel %q", cfg.Port, cfg.LogLevel)
	}
	if cfg.SessionTTL != 24*time.Hour {
		t.Errorf("SessionTTL %v", cfg.SessionTTL)
	}
	if cfg.HistoryDB != DefaultHistoryDB {
		t.Errorf("HistoryDB %q", cfg.HistoryDB)
	}
	if cfg.Production {
		t.Error("Production true without NODE_ENV")
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("REACT_APP_API_URL", "http://legacy:1")
	t.Setenv("API_TIMEOUT_MS", "250")
	t.Setenv("SESSION_TTL_HOURS", "2")
	t.Setenv("HISTORY_DB", "")
	cfg, err := FromEnv()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.APIURL != "http://legacy:1" {
		t.Errorf("APIURL %q, want the REACT_APP_API_URL fallback", cfg.APIURL)
	}
	if cfg.APITimeout != 250*time.Millisecond || cfg.SessionTTL != 2*time.Hour {
		t.Errorf("timeout %v ttl %v", cfg.APITimeout, cfg.SessionTTL)
	}
	if cfg.HistoryDB != "" {
		t.Errorf("HistoryDB %q, want disabled", cfg.HistoryDB)
	}

	t.Setenv("API_URL", "http://primary:2")
	cfg, _ = FromEnv()
	if cfg.APIURL != "http://primary:2" {
		t.Errorf("APIURL %q, want API_URL to win", cfg.APIURL)
	}
}

func TestFromEnv_BadNumbers(t *testing.T) {
	for _, k := range []string{"API_TIMEOUT_MS", "SESSION_TTL_HOURS"} {
		clearEnv(t)
		t.Setenv(k, "soon")
		if _, err := FromEnv(); err == nil {
			t.Errorf("%s=soon: want error", k)
		}
	}
}

func TestFromEnv_ProductionNeedsSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("NODE_ENV", "production")
	if _, err := FromEnv(); err == nil {
		t.Fatal("want error for default secret in production")
	}
	t.Setenv("SESSION_SECRET", "s3cret")
	cfg, err := FromEnv()
	if err != nil || !cfg.Production {
		t.Errorf("cfg %+v err %v", cfg, err)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PORT=6001\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("PORT") })
	// godotenv does not override existing values; PORT="" counts as set.
	os.Unsetenv("PORT")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Port != "6001" {
		t.Errorf("Port %q, want value from .env", cfg.Port)
	}
}
