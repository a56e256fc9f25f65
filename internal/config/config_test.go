package config

import (
	"strings"
	"testing"
)

func TestS3ConfigIsConfigured(t *testing.T) {
	t.Run("empty config is not configured", func(t *testing.T) {
		cfg := S3Config{}
		if cfg.IsConfigured() {
			t.Fatal("expected IsConfigured=false for empty config")
		}
	})

	t.Run("required fields set is configured", func(t *testing.T) {
		cfg := S3Config{
			Region:          "eu-central-1",
			Bucket:          "fitplan",
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
		}
		if !cfg.IsConfigured() {
			t.Fatal("expected IsConfigured=true without endpoint (AWS default)")
		}
	})
}

func TestS3ConfigMissingRequired(t *testing.T) {
	cfg := S3Config{
		Endpoint: "http://localhost:9000",
		Bucket:   "fitplan",
	}
	missing := cfg.MissingRequired()

	want := []string{"S3_REGION", "S3_ACCESS_KEY_ID", "S3_SECRET_ACCESS_KEY"}
	if len(missing) != len(want) {
		t.Fatalf("expected %d missing fields, got %d (%v)", len(want), len(missing), missing)
	}
	for i := range want {
		if missing[i] != want[i] {
			t.Fatalf("expected missing[%d]=%s, got %s", i, want[i], missing[i])
		}
	}
}

func TestS3ConfigDiagnostics(t *testing.T) {
	t.Run("not configured", func(t *testing.T) {
		level, code, _ := (S3Config{}).Diagnostics()
		if level != "INFO" || code != "s3_not_configured" {
			t.Fatalf("expected INFO/s3_not_configured, got %s/%s", level, code)
		}
	})

	t.Run("partial config", func(t *testing.T) {
		level, code, _ := (S3Config{Endpoint: "http://localhost:9000"}).Diagnostics()
		if level != "WARN" || code != "s3_partial_config" {
			t.Fatalf("expected WARN/s3_partial_config, got %s/%s", level, code)
		}
	})

	t.Run("ready", func(t *testing.T) {
		level, code, _ := (S3Config{
			Region:          "eu-central-1",
			Bucket:          "fitplan",
			AccessKeyID:     "key",
			SecretAccessKey: "secret",
		}).Diagnostics()
		if level != "INFO" || code != "s3_ready" {
			t.Fatalf("expected INFO/s3_ready, got %s/%s", level, code)
		}
	})
}

func TestS3ConfigDiagnosticsSummaryHidesSecrets(t *testing.T) {
	summary := (S3Config{AccessKeyID: "AKIA123", SecretAccessKey: "topsecret"}).DiagnosticsSummary()
	for _, secret := range []string{"AKIA123", "topsecret"} {
		if strings.Contains(summary, secret) {
			t.Fatalf("summary leaks secret %q: %s", secret, summary)
		}
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "ENV", "LOG_LEVEL", "APP_LOCALE", "KV_MODE", "SQLITE_PATH", "KV_S3_PREFIX",
		"REDIS_URL", "REDIS_HOST", "REDIS_PORT", "REDIS_PASSWORD", "REDIS_DB", "KV_REDIS_PREFIX",
		"DATABASE_URL", "DATABASE_URL_POOLED", "DATABASE_URL_DIRECT", "BLOB_MODE",
		"AI_MODE", "AI_TIMEOUT_SECONDS", "AI_MAX_OUTPUT_TOKENS", "AI_TEMPERATURE",
		"AI_RATE_LIMIT_RPS", "AI_RATE_LIMIT_BURST", "OPENAI_API_KEY", "OPENAI_MODEL", "OPENAI_BASE_URL",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load()
	if cfg.Env != "local" {
		t.Fatalf("expected env=local, got %s", cfg.Env)
	}
	if cfg.KVMode != KVModeMemory {
		t.Fatalf("expected kv mode memory, got %s", cfg.KVMode)
	}
	if cfg.AIMode != AIModeMock {
		t.Fatalf("expected ai mode mock, got %s", cfg.AIMode)
	}
	if cfg.AITimeoutSeconds != 120 {
		t.Fatalf("expected 120s AI timeout, got %d", cfg.AITimeoutSeconds)
	}
	if cfg.Redis.Addr != "localhost:6379" || cfg.Redis.Prefix != "fitplan:" {
		t.Fatalf("unexpected redis defaults: %+v", cfg.Redis)
	}
	if cfg.Locale != "en" {
		t.Fatalf("expected locale en, got %s", cfg.Locale)
	}
	if cfg.OpenAIBaseURL != "https://api.openai.com/v1" {
		t.Fatalf("unexpected openai base url %s", cfg.OpenAIBaseURL)
	}
}

func TestLoadUnknownModesFallBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("KV_MODE", "etcd")
	t.Setenv("AI_MODE", "oracle")
	t.Setenv("AI_TIMEOUT_SECONDS", "-5")

	cfg := Load()
	if cfg.KVMode != KVModeMemory {
		t.Fatalf("expected fallback to memory, got %s", cfg.KVMode)
	}
	if cfg.AIMode != AIModeMock {
		t.Fatalf("expected fallback to mock, got %s", cfg.AIMode)
	}
	if cfg.AITimeoutSeconds != 120 {
		t.Fatalf("expected timeout reset to 120, got %d", cfg.AITimeoutSeconds)
	}
}

func TestLoadDatabasePriority(t *testing.T) {
	clearEnv(t)
	t.Setenv("KV_MODE", "postgres")
	t.Setenv("DATABASE_URL", "postgres://url")
	t.Setenv("DATABASE_URL_POOLED", "postgres://pooled")

	cfg := Load()
	if cfg.DatabaseURL != "postgres://pooled" {
		t.Fatalf("expected pooled runtime URL, got %s", cfg.DatabaseURL)
	}
	if cfg.DatabaseURLRaw != "postgres://url" {
		t.Fatalf("expected raw URL kept, got %s", cfg.DatabaseURLRaw)
	}
}

func TestLoadS3ModeForcesBlobS3(t *testing.T) {
	clearEnv(t)
	t.Setenv("KV_MODE", "s3")
	t.Setenv("BLOB_MODE", "local")

	cfg := Load()
	if cfg.Blob.Mode != BlobModeS3 {
		t.Fatalf("expected blob mode s3 for KV_MODE=s3, got %s", cfg.Blob.Mode)
	}
}
