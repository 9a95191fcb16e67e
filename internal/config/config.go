// internal/config/config.go
//
// Environment-driven settings shared by both binaries.
// Responsibilities:
//   - Loading a local .env (development only; missing file is fine).
//   - Reading each key with a default via getEnv.
//   - Parsing numeric keys; a malformed value is an error, not a silent default.
//
// Keys:
//   API_URL (or REACT_APP_API_URL)  backend base URL
//   API_TIMEOUT_MS                  per-request timeout
//   PORT                            web listen port
//   LOG_LEVEL                       zerolog level name
//   SESSION_SECRET                  web cookie signing secret
//   SESSION_TTL_HOURS               web session lifetime
//   HISTORY_DB                      sqlite path; empty disables history
//   NODE_ENV                        "production" marks cookies Secure

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL     = "http://localhost:5000"
	DefaultPort       = "5180"
	DefaultHistoryDB  = "./data/history.db"
	devSessionSecret  = "dev-secret-change-me"
	defaultTimeoutMS  = 10000
	defaultSessionTTL = 24
)

// Config is the resolved process configuration.
type Config struct {
	APIURL        string
	APITimeout    time.Duration
	Port          string
	LogLevel      string
	SessionSecret string
	SessionTTL    time.Duration
	HistoryDB     string
	Production    bool
}

// Load reads .env files (if any) and then the environment.
func Load(envFiles ...string) (Config, error) {
	_ = godotenv.Load(envFiles...)
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		APIURL:        getEnv("API_URL", getEnv("REACT_APP_API_URL", DefaultAPIURL)),
		Port:          getEnv("PORT", DefaultPort),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SessionSecret: getEnv("SESSION_SECRET", devSessionSecret),
		Production:    os.Getenv("NODE_ENV") == "production",
	}

	// HISTORY_DB set to "" explicitly disables the history log.
	if v, ok := os.LookupEnv("HISTORY_DB"); ok {
		cfg.HistoryDB = v
	} else {
		cfg.HistoryDB = DefaultHistoryDB
	}

	ms, err := getInt("API_TIMEOUT_MS", defaultTimeoutMS)
	if err != nil {
		return Config{}, err
	}
	cfg.APITimeout = time.Duration(ms) * time.Millisecond

	hours, err := getInt("SESSION_TTL_HOURS", defaultSessionTTL)
	if err != nil {
		return Config{}, err
	}
	cfg.SessionTTL = time.Duration(hours) * time.Hour

	if cfg.Production && cfg.SessionSecret == devSessionSecret {
		return Config{}, fmt.Errorf("SESSION_SECRET must be set when NODE_ENV=production")
	}
	return cfg, nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getInt(k string, def int) (int, error) {
	v := os.Getenv(k)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s: want a positive integer, got %q", k, v)
	}
	return n, nil
}
