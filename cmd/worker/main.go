package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/kirankshetty/Hackathon-sub000/internal/config"
	"github.com/kirankshetty/Hackathon-sub000/internal/logging"
	"github.com/kirankshetty/Hackathon-sub000/internal/notify"
	"github.com/kirankshetty/Hackathon-sub000/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logging.Setup(cfg.AppEnv)

	if cfg.RedisAddr == "" {
		slog.Error("REDIS_ADDR environment variable is required")
		os.Exit(1)
	}

	var mailer notify.Notifier = notify.LogNotifier{}
	if cfg.SMTPHost != "" {
		mailer = notify.NewSMTPNotifier(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	}

	srv := asynq.NewServer(asynq.RedisClientOpt{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, asynq.Config{
		Concurrency: 10,
		Queues:      map[string]int{"mail": 1},
	})
	processor := worker.NewProcessor(mailer)

	go func() {
		<-ctx.Done()
		srv.Shutdown()
	}()

	slog.Info("mail worker starting", "redis", cfg.RedisAddr, "smtp", cfg.SMTPHost != "")
	if err := srv.Run(processor.Handler()); err != nil {
		slog.Error("worker stopped", "error", err)
		os.Exit(1)
	}
}
