package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	BlobModeLocal = "local"
	BlobModeS3    = "s3"
	BlobModeAuto  = "auto"
)

const (
	KVModeMemory   = "memory"
	KVModePostgres = "postgres"
	KVModeRedis    = "redis"
	KVModeSQLite   = "sqlite"
	KVModeS3       = "s3"
)

const (
	AIModeMock   = "mock"
	AIModeOpenAI = "openai"
)

type S3Config struct {
	Endpoint          string // empty = AWS
	Region            string
	Bucket            string
	AccessKeyID       string
	SecretAccessKey   string
	PresignTTLSeconds int
}

func (c S3Config) MissingRequired() []string {
	missing := make([]string, 0, 4)
	if strings.TrimSpace(c.Region) == "" {
		missing = append(missing, "S3_REGION")
	}
	if strings.TrimSpace(c.Bucket) == "" {
		missing = append(missing, "S3_BUCKET")
	}
	if strings.TrimSpace(c.AccessKeyID) == "" {
		missing = append(missing, "S3_ACCESS_KEY_ID")
	}
	if strings.TrimSpace(c.SecretAccessKey) == "" {
		missing = append(missing, "S3_SECRET_ACCESS_KEY")
	}
	return missing
}

func (c S3Config) IsConfigured() bool {
	return len(c.MissingRequired()) == 0
}

func (c S3Config) Diagnostics() (level string, code string, msg string) {
	allEmpty := strings.TrimSpace(c.Endpoint) == "" &&
		strings.TrimSpace(c.Region) == "" &&
		strings.TrimSpace(c.Bucket) == "" &&
		strings.TrimSpace(c.AccessKeyID) == "" &&
		strings.TrimSpace(c.SecretAccessKey) == ""

	if allEmpty {
		return "INFO", "s3_not_configured", "not configured (all empty)"
	}

	missing := c.MissingRequired()
	if len(missing) > 0 {
		return "WARN", "s3_partial_config", fmt.Sprintf("partial config, missing=%v", missing)
	}

	return "INFO", "s3_ready", "ready"
}

// DiagnosticsSummary returns a detailed summary for logging (no secrets)
func (c S3Config) DiagnosticsSummary() string {
	return fmt.Sprintf("endpoint=%s region=%s bucket=%s presign_ttl=%ds access_key_id=%s secret_access_key=%s",
		nonEmptyOrDash(c.Endpoint),
		nonEmptyOrDash(c.Region),
		nonEmptyOrDash(c.Bucket),
		c.PresignTTLSeconds,
		setOrNot(c.AccessKeyID),
		setOrNot(c.SecretAccessKey),
	)
}

func nonEmptyOrDash(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "-"
	}
	return v
}

func setOrNot(v string) string {
	if strings.TrimSpace(v) == "" {
		return "not set"
	}
	return "set"
}

type BlobConfig struct {
	Mode string // local|s3|auto
	S3   S3Config
}

type RedisConfig struct {
	URL      string
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// Config содержит конфигурацию приложения
type Config struct {
	Env      string // local | staging | prod
	LogLevel string
	Locale   string // en | ar

	// Key-value backend
	KVMode     string // memory | postgres | redis | sqlite | s3
	SQLitePath string
	KVS3Prefix string
	Redis      RedisConfig

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLRaw    string // DATABASE_URL as provided
	DatabaseURLPooled string // DATABASE_URL_POOLED as provided
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	// Blob / S3 (KV_MODE=s3 and report publishing)
	Blob BlobConfig

	// Reports
	ReportsMaxRangeDays int

	// AI
	AIMode            string // mock | openai
	AIMaxOutputTokens int
	AITemperature     float64
	AITimeoutSeconds  int
	AIRateLimitRPS    float64 // 0 = unlimited
	AIRateLimitBurst  int
	OpenAIAPIKey      string
	OpenAIModel       string
	OpenAIBaseURL     string

	// Migrations
	RunMigrationsOnStartup bool
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	// APP_ENV (fallback to ENV for backward compat, default: local)
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env == "" {
		env = "local"
	}

	// LOG_LEVEL (default: debug)
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}

	// APP_LOCALE (default: en)
	locale := strings.ToLower(strings.TrimSpace(os.Getenv("APP_LOCALE")))
	if locale == "" {
		locale = "en"
	}

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))

	runtimeDB := dbPooled
	if runtimeDB == "" {
		runtimeDB = dbURL
	}
	if runtimeDB == "" {
		runtimeDB = dbDirect
	}

	runMigrationsOnStartup := parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP")

	// ---------- Key-value backend ----------
	kvMode := strings.ToLower(strings.TrimSpace(os.Getenv("KV_MODE")))
	if kvMode == "" {
		kvMode = KVModeMemory
	}
	switch kvMode {
	case KVModeMemory, KVModePostgres, KVModeRedis, KVModeSQLite, KVModeS3:
	default:
		log.Printf("WARNING: unknown KV_MODE=%q, fallback to %s", kvMode, KVModeMemory)
		kvMode = KVModeMemory
	}

	if kvMode == KVModePostgres && runtimeDB == "" {
		log.Fatal("DATABASE_URL is required when KV_MODE=postgres")
	}

	sqlitePath := strings.TrimSpace(os.Getenv("SQLITE_PATH"))
	if sqlitePath == "" {
		sqlitePath = "fitplan.db"
	}

	kvS3Prefix := os.Getenv("KV_S3_PREFIX")
	if kvS3Prefix == "" {
		kvS3Prefix = "kv/"
	}

	redisCfg := RedisConfig{
		URL:      strings.TrimSpace(os.Getenv("REDIS_URL")),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       envInt("REDIS_DB", 0),
		Prefix:   os.Getenv("KV_REDIS_PREFIX"),
	}
	if redisCfg.Prefix == "" {
		redisCfg.Prefix = "fitplan:"
	}
	if redisCfg.URL == "" {
		host := strings.TrimSpace(os.Getenv("REDIS_HOST"))
		if host == "" {
			host = "localhost"
		}
		port := strings.TrimSpace(os.Getenv("REDIS_PORT"))
		if port == "" {
			port = "6379"
		}
		redisCfg.Addr = host + ":" + port
	}

	// ---------- Blob / S3 ----------
	blobMode := parseBlobMode("BLOB_MODE", BlobModeAuto)

	// S3_PRESIGN_TTL_SECONDS (default: 900, enforce > 0)
	s3PresignTTL := envInt("S3_PRESIGN_TTL_SECONDS", 900)
	if s3PresignTTL <= 0 {
		s3PresignTTL = 900
	}

	s3Cfg := S3Config{
		Endpoint:          strings.TrimSpace(os.Getenv("S3_ENDPOINT")),
		Region:            strings.TrimSpace(os.Getenv("S3_REGION")),
		Bucket:            strings.TrimSpace(os.Getenv("S3_BUCKET")),
		AccessKeyID:       strings.TrimSpace(os.Getenv("S3_ACCESS_KEY_ID")),
		SecretAccessKey:   strings.TrimSpace(os.Getenv("S3_SECRET_ACCESS_KEY")),
		PresignTTLSeconds: s3PresignTTL,
	}

	// KV_MODE=s3 needs the store regardless of BLOB_MODE
	if kvMode == KVModeS3 {
		blobMode = BlobModeS3
	}

	// REPORTS_MAX_RANGE_DAYS (default: 93)
	reportsMaxRangeDays := envInt("REPORTS_MAX_RANGE_DAYS", 93)
	if reportsMaxRangeDays <= 0 {
		reportsMaxRangeDays = 93
	}

	// ---------- AI ----------
	aiMode := strings.ToLower(strings.TrimSpace(os.Getenv("AI_MODE")))
	if aiMode == "" {
		aiMode = AIModeMock
	}
	if aiMode != AIModeMock && aiMode != AIModeOpenAI {
		log.Printf("WARNING: unknown AI_MODE=%q, fallback to mock", aiMode)
		aiMode = AIModeMock
	}

	// full-day plans and multi-week workout programs are long
	aiMaxOutputTokens := envInt("AI_MAX_OUTPUT_TOKENS", 4000)
	if aiMaxOutputTokens <= 0 {
		aiMaxOutputTokens = 4000
	}

	aiTemperature := envFloat("AI_TEMPERATURE", 0.4)
	if aiTemperature < 0 {
		aiTemperature = 0
	}
	if aiTemperature > 2 {
		aiTemperature = 2
	}

	aiTimeoutSeconds := envInt("AI_TIMEOUT_SECONDS", 120)
	if aiTimeoutSeconds <= 0 {
		aiTimeoutSeconds = 120
	}

	aiRateLimitRPS := envFloat("AI_RATE_LIMIT_RPS", 0)
	if aiRateLimitRPS < 0 {
		aiRateLimitRPS = 0
	}
	aiRateLimitBurst := envInt("AI_RATE_LIMIT_BURST", 1)
	if aiRateLimitBurst <= 0 {
		aiRateLimitBurst = 1
	}

	openAIAPIKey := strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	openAIModel := strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if openAIModel == "" {
		openAIModel = "gpt-4.1-mini"
	}
	openAIBaseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")), "/")
	if openAIBaseURL == "" {
		openAIBaseURL = "https://api.openai.com/v1"
	}

	if aiMode == AIModeOpenAI && openAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY is required when AI_MODE=openai")
	}

	return &Config{
		Env:      env,
		LogLevel: logLevel,
		Locale:   locale,

		KVMode:     kvMode,
		SQLitePath: sqlitePath,
		KVS3Prefix: kvS3Prefix,
		Redis:      redisCfg,

		DatabaseURL:       runtimeDB,
		DatabaseURLRaw:    dbURL,
		DatabaseURLPooled: dbPooled,
		DatabaseURLDirect: dbDirect,

		Blob: BlobConfig{
			Mode: blobMode,
			S3:   s3Cfg,
		},

		ReportsMaxRangeDays: reportsMaxRangeDays,

		AIMode:            aiMode,
		AIMaxOutputTokens: aiMaxOutputTokens,
		AITemperature:     aiTemperature,
		AITimeoutSeconds:  aiTimeoutSeconds,
		AIRateLimitRPS:    aiRateLimitRPS,
		AIRateLimitBurst:  aiRateLimitBurst,
		OpenAIAPIKey:      openAIAPIKey,
		OpenAIModel:       openAIModel,
		OpenAIBaseURL:     openAIBaseURL,

		RunMigrationsOnStartup: runMigrationsOnStartup,
	}
}

func parseBlobMode(key string, defaultVal string) string {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if mode == "" {
		return defaultVal
	}
	switch mode {
	case BlobModeLocal, BlobModeS3, BlobModeAuto:
		return mode
	default:
		log.Printf("WARNING: unknown %s=%q, fallback to %s", key, mode, defaultVal)
		return defaultVal
	}
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
