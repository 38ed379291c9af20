package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	StorageDriver string // postgres, memory

	// Staff JWT
	JWTSecret       string
	JWTAccessExpiry time.Duration

	// Applicant auth
	OTPTTL         time.Duration
	OTPMaxAttempts int
	SessionTTL     time.Duration
	SweepInterval  time.Duration
	StatsCacheTTL  time.Duration

	// Redis (OTP throttling and the mail queue)
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	OTPRateWindow   time.Duration
	OTPRateMax      int
	OTPRateCooldown time.Duration

	// Mail
	SMTPHost     string
	SMTPPort     string
	SMTPUser     string
	SMTPPassword string
	MailFrom     string
	MailDriver   string // smtp, queue, log

	// Object storage
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3Bucket    string
	S3UseSSL    bool

	// Payments
	PaymentProvider string
	PaymentSecret   string
	PaymentAmount   string
	PaymentCurrency string
	PublicBaseURL   string

	// Server
	Port        string
	CORSOrigins string
	SentryDSN   string
	AppEnv      string
}

// Load reads an optional .env file and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("failed to load .env file", "error", err)
	}

	return &Config{
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", ""),
		DBName:        getEnv("DB_NAME", "hackathon"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),
		StorageDriver: getEnv("STORAGE_DRIVER", "postgres"),

		JWTSecret:       getEnv("JWT_SECRET", ""),
		JWTAccessExpiry: positiveDuration("JWT_ACCESS_EXPIRY", 12*time.Hour),

		OTPTTL:         positiveDuration("OTP_TTL", 10*time.Minute),
		OTPMaxAttempts: positiveInt("OTP_MAX_ATTEMPTS", 3),
		SessionTTL:     positiveDuration("SESSION_TTL", 24*time.Hour),
		SweepInterval:  positiveDuration("SWEEP_INTERVAL", 15*time.Minute),
		StatsCacheTTL:  parseDuration(getEnv("STATS_CACHE_TTL", "5m"), 5*time.Minute),

		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		RedisDB:         parseInt(getEnv("REDIS_DB", "0"), 0),
		OTPRateWindow:   positiveDuration("OTP_RATE_WINDOW", time.Hour),
		OTPRateMax:      positiveInt("OTP_RATE_MAX", 5),
		OTPRateCooldown: parseDuration(getEnv("OTP_RATE_COOLDOWN", "30s"), 30*time.Second),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		MailFrom:     getEnv("MAIL_FROM", "no-reply@hackathon.local"),
		MailDriver:   getEnv("MAIL_DRIVER", "log"),

		S3Endpoint:  getEnv("S3_ENDPOINT", ""),
		S3AccessKey: getEnv("S3_ACCESS_KEY", ""),
		S3SecretKey: getEnv("S3_SECRET_KEY", ""),
		S3Bucket:    getEnv("S3_BUCKET", "hackathon-submissions"),
		S3UseSSL:    getEnv("S3_USE_SSL", "false") == "true",

		PaymentProvider: getEnv("PAYMENT_PROVIDER", "hmac"),
		PaymentSecret:   getEnv("PAYMENT_SECRET", ""),
		PaymentAmount:   getEnv("PAYMENT_AMOUNT", "499.00"),
		PaymentCurrency: getEnv("PAYMENT_CURRENCY", "INR"),
		PublicBaseURL:   getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		SentryDSN:   getEnv("SENTRY_DSN", ""),
		AppEnv:      getEnv("APP_ENV", "development"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

// UseMemoryStore reports whether the process runs without postgres.
func (c *Config) UseMemoryStore() bool {
	return c.StorageDriver == "memory"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

// positiveDuration reads key and falls back when the value is missing,
// malformed, or not above zero.
func positiveDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d := parseDuration(raw, fallback)
	if d <= 0 {
		slog.Warn("non-positive duration, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return d
}

func positiveInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n := parseInt(raw, fallback)
	if n <= 0 {
		slog.Warn("non-positive value, using default", "key", key, "value", raw, "default", fallback)
		return fallback
	}
	return n
}
