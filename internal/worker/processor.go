package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/kirankshetty/Hackathon-sub000/internal/notify"
	"github.com/kirankshetty/Hackathon-sub000/internal/queue"
)

// Processor is plugged into the asynq worker loop.
type Processor struct {
	mailer notify.Notifier
}

func NewProcessor(mailer notify.Notifier) *Processor {
	return &Processor{mailer: mailer}
}

// Handler registers the task handlers.
func (p *Processor) Handler() *asynq.ServeMux {
	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.SendEmailTask, p.handleSendEmail)
	return mux
}

func (p *Processor) handleSendEmail(ctx context.Context, task *asynq.Task) error {
	var msg notify.Message
	if err := json.Unmarshal(task.Payload(), &msg); err != nil {
		return fmt.Errorf("decode payload: %w: %w", err, asynq.SkipRetry)
	}
	if err := p.mailer.Send(ctx, msg); err != nil {
		slog.Error("email delivery failed", "to", msg.To, "subject", msg.Subject, "error", err)
		return err
	}
	slog.Info("email delivered", "to", msg.To, "subject", msg.Subject)
	return nil
}
