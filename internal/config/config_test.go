package config

import (
	"testing"
	"time"
)

func TestNewFromEnv(t *testing.T) {
	// Helper function to set environment variables for a test
	setEnv := func(key, value string) {
		t.Helper()
		t.Setenv(key, value)
	}

	t.Run("Defaults", func(t *testing.T) {
		setEnv("STORE_DRIVER", "")
		setEnv("SEED_SAMPLE_DATA", "")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "")
		setEnv("LLM_CACHE_MAX_ENTRIES", "")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.StoreDriver != DriverSQLite {
			t.Errorf("Expected StoreDriver to be '%s', got '%s'", DriverSQLite, cfg.StoreDriver)
		}
		if !cfg.SeedSampleData {
			t.Error("Expected SeedSampleData to default to true")
		}
		if cfg.JWTTTL != 24*time.Hour {
			t.Errorf("Expected JWTTTL to be 24h, got %s", cfg.JWTTTL)
		}
		if cfg.HTTPPort != "8080" {
			t.Errorf("Expected HTTPPort to be '8080', got '%s'", cfg.HTTPPort)
		}
		if cfg.LLMCacheMaxEntries != 200 {
			t.Errorf("Expected LLMCacheMaxEntries to be 200, got %d", cfg.LLMCacheMaxEntries)
		}
	})

	t.Run("Overrides", func(t *testing.T) {
		setEnv("STORE_DRIVER", "FILE")
		setEnv("DATA_DIR", "/tmp/rp")
		setEnv("SEED_SAMPLE_DATA", "false")
		setEnv("JWT_TTL", "2h")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "12, 34")
		setEnv("CORS_ORIGINS", "http://localhost:3000, ,https://planner.example")
		setEnv("LLM_CACHE_MAX_ENTRIES", "50")

		cfg, err := NewFromEnv()
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if cfg.StoreDriver != DriverFile {
			t.Errorf("Expected StoreDriver to be '%s', got '%s'", DriverFile, cfg.StoreDriver)
		}
		if cfg.DataDir != "/tmp/rp" {
			t.Errorf("Expected DataDir to be '/tmp/rp', got '%s'", cfg.DataDir)
		}
		if cfg.SeedSampleData {
			t.Error("Expected SeedSampleData to be false")
		}
		if cfg.JWTTTL != 2*time.Hour {
			t.Errorf("Expected JWTTTL to be 2h, got %s", cfg.JWTTTL)
		}
		if len(cfg.TelegramAllowedUserIDs) != 2 || cfg.TelegramAllowedUserIDs[1] != 34 {
			t.Errorf("Expected allowed IDs [12 34], got %v", cfg.TelegramAllowedUserIDs)
		}
		if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://planner.example" {
			t.Errorf("Expected two CORS origins, got %v", cfg.CORSOrigins)
		}
		if cfg.LLMCacheMaxEntries != 50 {
			t.Errorf("Expected LLMCacheMaxEntries to be 50, got %d", cfg.LLMCacheMaxEntries)
		}
	})

	t.Run("RedisWithoutURL", func(t *testing.T) {
		setEnv("STORE_DRIVER", "redis")
		setEnv("REDIS_URL", "")

		_, err := NewFromEnv()
		if err == nil {
			t.Fatal("Expected an error for missing REDIS_URL, got nil")
		}
		expectedError := "REDIS_URL environment variable not set"
		if err.Error() != expectedError {
			t.Errorf("Expected error '%s', got '%s'", expectedError, err.Error())
		}
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		setEnv("STORE_DRIVER", "etcd")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for unsupported driver, got nil")
		}
	})

	t.Run("InvalidAllowedIDs", func(t *testing.T) {
		setEnv("STORE_DRIVER", "memory")
		setEnv("TELEGRAM_ALLOWED_USER_IDS", "12,abc")

		if _, err := NewFromEnv(); err == nil {
			t.Fatal("Expected an error for invalid user id list, got nil")
		}
	})
}

func TestValidate(t *testing.T) {
	cfg := &Config{}

	if err := cfg.ValidateForAPI(); err == nil || err.Error() != "JWT_SECRET environment variable not set" {
		t.Errorf("Expected JWT_SECRET error, got %v", err)
	}
	if err := cfg.ValidateForBot(); err == nil || err.Error() != "TELEGRAM_BOT_TOKEN environment variable not set" {
		t.Errorf("Expected TELEGRAM_BOT_TOKEN error, got %v", err)
	}

	cfg.TelegramBotToken = "token"
	if err := cfg.ValidateForBot(); err == nil || err.Error() != "TELEGRAM_WEBHOOK_URL environment variable not set" {
		t.Errorf("Expected TELEGRAM_WEBHOOK_URL error, got %v", err)
	}

	cfg.TelegramWebhookURL = "https://example.test/webhook"
	cfg.JWTSecret = "secret"
	if err := cfg.ValidateForBot(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := cfg.ValidateForAPI(); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}
