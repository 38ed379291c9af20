package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/hibiken/asynq"

	"github.com/kirankshetty/Hackathon-sub000/internal/config"
	"github.com/kirankshetty/Hackathon-sub000/internal/database"
	"github.com/kirankshetty/Hackathon-sub000/internal/logging"
	"github.com/kirankshetty/Hackathon-sub000/internal/notify"
	"github.com/kirankshetty/Hackathon-sub000/internal/payments"
	"github.com/kirankshetty/Hackathon-sub000/internal/queue"
	"github.com/kirankshetty/Hackathon-sub000/internal/ratelimit"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
	"github.com/kirankshetty/Hackathon-sub000/internal/server"
	"github.com/kirankshetty/Hackathon-sub000/internal/storage"
)

const logRetention = 30 * 24 * time.Hour

func main() {
	cfg := config.Load()

	// Structured logging (JSON to stdout)
	logging.Setup(cfg.AppEnv)

	if cfg.JWTSecret == "" {
		slog.Error("JWT_SECRET environment variable is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	deps := server.Deps{AccessLog: true}
	var pgLogHandler *logging.PGHandler
	cleanupDone := make(chan struct{})

	// Store
	if cfg.UseMemoryStore() {
		slog.Warn("using in-memory store, data is lost on restart")
		deps.Repo = repository.NewMemory()
	} else {
		if cfg.DBPassword == "" {
			slog.Error("DB_PASSWORD environment variable is required")
			os.Exit(1)
		}
		if err := database.Connect(cfg); err != nil {
			slog.Error("database connection failed", "error", err)
			os.Exit(1)
		}
		if err := database.Migrate(); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		deps.Repo = repository.NewGorm(database.DB)
		deps.Ping = database.Ping

		// PostgreSQL log handler (ERROR+ async batch)
		pgLogHandler = logging.NewPGHandler(database.DB)
		logging.Setup(cfg.AppEnv, pgLogHandler)

		// Log cleanup (30-day retention)
		logging.StartCleanup(database.DB, logRetention, 24*time.Hour, cleanupDone)
	}

	// OTP throttling
	if cfg.RedisAddr != "" {
		rdb, err := ratelimit.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			slog.Error("redis connection failed", "addr", cfg.RedisAddr, "error", err)
			os.Exit(1)
		}
		defer rdb.Close()
		deps.Limiter = ratelimit.NewOTPLimiter(rdb, cfg.OTPRateWindow, cfg.OTPRateMax, cfg.OTPRateCooldown)
	} else {
		slog.Warn("REDIS_ADDR not set, OTP rate limiting disabled")
	}

	// Mail
	switch cfg.MailDriver {
	case "smtp":
		deps.Mailer = notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	case "queue":
		client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		defer client.Close()
		deps.Mailer = queue.NewNotifier(client)
	default:
		deps.Mailer = notify.LogNotifier{}
	}
	slog.Info("mail driver selected", "driver", cfg.MailDriver)

	// Documents
	if cfg.S3Endpoint != "" {
		store, err := storage.New(cfg)
		if err != nil {
			slog.Error("object storage init failed", "error", err)
			os.Exit(1)
		}
		if err := store.EnsureBucket(ctx); err != nil {
			slog.Error("object storage bucket check failed", "bucket", cfg.S3Bucket, "error", err)
			os.Exit(1)
		}
		deps.Documents = store
	} else {
		slog.Warn("S3_ENDPOINT not set, document uploads disabled")
	}

	// Payments
	provider, err := payments.NewProvider(cfg.PaymentProvider, cfg.PaymentSecret, cfg.PublicBaseURL)
	if err != nil {
		slog.Error("payment provider init failed", "error", err)
		os.Exit(1)
	}
	deps.Payments = provider

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppEnv,
		}); err != nil {
			slog.Error("sentry init failed", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
			deps.Middleware = append(deps.Middleware, sentryfiber.New(sentryfiber.Options{
				Repanic:         true,
				WaitForDelivery: false,
			}))
		}
	}

	srv := server.New(cfg, deps)
	srv.Sessions.StartJanitor(ctx, cfg.SweepInterval)

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("server starting", "port", cfg.Port, "store", cfg.StorageDriver)
		if err := srv.App.Listen(":" + cfg.Port); err != nil {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	<-quit
	slog.Info("shutting down server...")

	cancel()
	close(cleanupDone)
	if pgLogHandler != nil {
		pgLogHandler.Stop()
	}
	sentry.Flush(2 * time.Second)

	if err := srv.Shutdown(10 * time.Second); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	// Close database connections
	if database.DB != nil {
		if sqlDB, err := database.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				slog.Error("database close error", "error", err)
			}
		}
	}

	slog.Info("server stopped")
}
