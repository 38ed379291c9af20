package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/kirankshetty/Hackathon-sub000/internal/notify"
)

const (
	// SendEmailTask delivers one applicant e-mail.
	SendEmailTask = "email:send"
)

// EnqueueEmail schedules msg for delivery by the worker.
func EnqueueEmail(ctx context.Context, client *asynq.Client, msg notify.Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}
	task := asynq.NewTask(SendEmailTask, data)
	if _, err := client.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Queue("mail")); err != nil {
		return fmt.Errorf("enqueue email task: %w", err)
	}
	return nil
}

// Notifier hands messages to the queue instead of sending them inline.
type Notifier struct {
	client *asynq.Client
}

func NewNotifier(client *asynq.Client) *Notifier {
	return &Notifier{client: client}
}

func (n *Notifier) Send(ctx context.Context, msg notify.Message) error {
	if msg.To == "" {
		return notify.ErrNoRecipient
	}
	return EnqueueEmail(ctx, n.client, msg)
}
