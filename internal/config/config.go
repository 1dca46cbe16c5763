// Package config loads application configuration from environment variables.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable; required variables are enforced by must() and
// missing values abort startup with a fatal log message.
type Config struct {
	Env             string        // application environment (dev/test/prod)
	Port            string        // HTTP port to listen on
	DBUser          string        // database username
	DBPass          string        // database password (optional)
	DBHost          string        // database host
	DBPort          string        // database port
	DBName          string        // database name
	TokenSecret     string        // secret signing the session token envelope
	SessionTTL      time.Duration // session lifetime
	BcryptCost      int           // bcrypt cost for password hashing
	AllowedOrigins  []string      // CORS origin allow-list
	SuperadminEmail string        // bootstrap superadmin email (optional)
	SuperadminPass  string        // bootstrap superadmin password (optional)
	AMQPURL         string        // broker URL for the audit queue (optional)
}

// Load reads configuration from the environment.
func Load() Config {
	return Config{
		Env:             must("APP_ENV"),
		Port:            must("APP_PORT"),
		DBUser:          must("DB_USER"),
		DBPass:          os.Getenv("DB_PASS"),
		DBHost:          must("DB_HOST"),
		DBPort:          must("DB_PORT"),
		DBName:          must("DB_NAME"),
		TokenSecret:     must("TOKEN_SECRET"),
		SessionTTL:      envDur("SESSION_TTL", 30*24*time.Hour),
		BcryptCost:      mustInt("BCRYPT_COST"),
		AllowedOrigins:  splitList(getenv("CORS_ORIGINS", "*")),
		SuperadminEmail: os.Getenv("SUPERADMIN_EMAIL"),
		SuperadminPass:  os.Getenv("SUPERADMIN_PASSWORD"),
		AMQPURL:         os.Getenv("RABBITMQ_URL"),
	}
}

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt is like must() but converts the value to an integer.
func mustInt(key string) int {
	s := must(key)
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return def
}

func envBool(key string, def bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True", "yes", "on":
		return true
	case "0", "false", "FALSE", "False", "no", "off":
		return false
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
