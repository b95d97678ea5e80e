package config

import (
	"testing"
	"time"
)

func TestLoadReadsFlightSettings(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("DB_USER", "app")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "flight")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "15")
	t.Setenv("APP_PORT", "")
	t.Setenv("DB_PORT", "")
	t.Setenv("FLIGHT_CODE", "")
	t.Setenv("BOOKING_CONSUMER_ENABLED", "")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@broker:5672/")

	cfg := Load()
	if cfg.FlightCode != DefaultFlightCode {
		t.Fatalf("FlightCode = %q, want %q", cfg.FlightCode, DefaultFlightCode)
	}
	if cfg.Port != "8080" || cfg.DBPort != "3306" {
		t.Fatalf("defaults not applied: port=%q dbport=%q", cfg.Port, cfg.DBPort)
	}
	if cfg.AccessTTLMin != 15 {
		t.Fatalf("AccessTTLMin = %d", cfg.AccessTTLMin)
	}
	if cfg.RabbitURL != "amqp://u:p@broker:5672/" {
		t.Fatalf("RabbitURL = %q", cfg.RabbitURL)
	}
	if cfg.ConsumerEnabled {
		t.Fatal("consumer should be disabled by default")
	}
}

func TestLoadDBIgnoresServerSettings(t *testing.T) {
	// LoadDB must not require the HTTP/JWT variables; must() would exit.
	t.Setenv("APP_ENV", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "")
	t.Setenv("DB_USER", "seed")
	t.Setenv("DB_PASS", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_NAME", "flight")
	t.Setenv("BCRYPT_COST", "10")

	cfg := LoadDB()
	if cfg.User != "seed" || cfg.Host != "db" || cfg.Name != "flight" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.Port != "3306" || cfg.BcryptCost != 10 {
		t.Fatalf("port=%q cost=%d", cfg.Port, cfg.BcryptCost)
	}
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "off")
	t.Setenv("X_INT", "nope")
	t.Setenv("X_DUR", "250ms")
	if envBool("X_BOOL", true) {
		t.Error("envBool off = true")
	}
	if envBool("X_MISSING", true) != true {
		t.Error("envBool default ignored")
	}
	if envInt("X_INT", 7) != 7 {
		t.Error("envInt should fall back on parse failure")
	}
	if envDur("X_DUR", time.Second) != 250*time.Millisecond {
		t.Error("envDur parse failed")
	}
}

func TestRateLimitNormalize(t *testing.T) {
	c := RateLimitConfig{Capacity: 0, RefillTokens: 0, RefillInterval: 0, TTL: 0}.normalize()
	if c.Capacity != 1 || c.RefillTokens != 1 || c.RefillInterval != time.Second {
		t.Fatalf("unexpected normalized config: %+v", c)
	}
	if c.TTL != 5*time.Second {
		t.Fatalf("TTL = %s, want 5s", c.TTL)
	}
}

func TestParseMethods(t *testing.T) {
	m := parseMethods(" get, head ,,")
	if !m["GET"] || !m["HEAD"] || len(m) != 2 {
		t.Fatalf("parseMethods = %v", m)
	}
}

func TestRedisOptionsHostPort(t *testing.T) {
	t.Setenv("REDIS_ADDR", "ignored:1")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	t.Setenv("REDIS_DB", "2")
	opts := RedisOptions()
	if opts.Addr != "cache:6380" || opts.DB != 2 {
		t.Fatalf("opts = %+v", opts)
	}
}
