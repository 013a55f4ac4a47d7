package config

import (
	"os"
	"testing"
	"time"
)

var configEnvVars = []string{
	"HOST", "PORT", "READ_TIMEOUT", "WRITE_TIMEOUT", "IDLE_TIMEOUT", "ENVIRONMENT",
	"DB_DRIVER", "DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE",
	"DB_SQLITE_PATH", "DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME",
	"REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "REDIS_POOL_SIZE",
	"REDIS_MIN_IDLE_CONNS", "REDIS_MAX_RETRIES", "REDIS_DIAL_TIMEOUT", "REDIS_READ_TIMEOUT", "REDIS_WRITE_TIMEOUT",
	"METRICS_DAY_KEY_RETENTION", "METRICS_DEFAULT_TOP_TAGS",
	"RATE_LIMIT_ENABLED", "RATE_LIMIT_RPM", "RATE_LIMIT_BURST", "RATE_LIMIT_CLEANUP",
	"CORS_ALLOW_ORIGIN",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvVars {
		if v, ok := os.LookupEnv(k); ok {
			t.Setenv(k, v)
			os.Unsetenv(k)
		}
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearConfigEnv(t)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Server.Host != "localhost" || config.Server.Port != "8080" {
		t.Errorf("Unexpected server defaults: %s:%s", config.Server.Host, config.Server.Port)
	}
	if config.Database.Driver != "sqlite" {
		t.Errorf("Expected sqlite driver by default, got %s", config.Database.Driver)
	}
	if config.Metrics.DayKeyRetention != 60*24*time.Hour {
		t.Errorf("Expected 60 day retention, got %v", config.Metrics.DayKeyRetention)
	}
	if config.Metrics.DefaultTopTags != 10 {
		t.Errorf("Expected default top tags 10, got %d", config.Metrics.DefaultTopTags)
	}
	if !config.RateLimit.Enabled {
		t.Error("Expected rate limiting enabled by default")
	}
	if config.IsProduction() {
		t.Error("Expected development environment by default")
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("METRICS_DAY_KEY_RETENTION", "720h")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if config.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", config.Server.Port)
	}
	if config.Database.Driver != "postgres" {
		t.Errorf("Expected postgres driver, got %s", config.Database.Driver)
	}
	if config.Metrics.DayKeyRetention != 720*time.Hour {
		t.Errorf("Expected 720h retention, got %v", config.Metrics.DayKeyRetention)
	}
	if config.RateLimit.Enabled {
		t.Error("Expected rate limiting disabled")
	}
}

func TestLoadConfig_UnsupportedDriver(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("DB_DRIVER", "oracle")

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for unsupported driver")
	}
}

func TestLoadConfig_ProductionRequiresDBPassword(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DB_DRIVER", "postgres")

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for missing password in production")
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	config := &Config{
		Database: DatabaseConfig{
			Host:     "db.example.com",
			Port:     "5432",
			User:     "app",
			Password: "secret",
			Name:     "tasklist",
			SSLMode:  "require",
		},
	}

	expected := "host=db.example.com port=5432 user=app password=secret dbname=tasklist sslmode=require"
	if dsn := config.GetDatabaseDSN(); dsn != expected {
		t.Errorf("Unexpected DSN: %s", dsn)
	}
}

func TestGetRedisAddr(t *testing.T) {
	config := &Config{Redis: RedisConfig{Host: "cache.example.com", Port: "6380"}}

	if addr := config.GetRedisAddr(); addr != "cache.example.com:6380" {
		t.Errorf("Unexpected redis addr: %s", addr)
	}
}

func TestGetEnvAsDuration_Invalid(t *testing.T) {
	t.Setenv("READ_TIMEOUT", "not-a-duration")

	if d := getEnvAsDuration("READ_TIMEOUT", 30*time.Second); d != 30*time.Second {
		t.Errorf("Expected fallback to default, got %v", d)
	}
}
