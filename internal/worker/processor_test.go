package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/kirankshetty/Hackathon-sub000/internal/notify"
	"github.com/kirankshetty/Hackathon-sub000/internal/queue"
)

type recordingMailer struct {
	sent []notify.Message
	err  error
}

func (r *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func TestHandleSendEmail(t *testing.T) {
	mailer := &recordingMailer{}
	p := NewProcessor(mailer)

	data, _ := json.Marshal(notify.Message{To: "a@b.c", Subject: "Hi", Body: "x"})
	if err := p.handleSendEmail(context.Background(), asynq.NewTask(queue.SendEmailTask, data)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(mailer.sent) != 1 || mailer.sent[0].To != "a@b.c" {
		t.Fatalf("unexpected sends %+v", mailer.sent)
	}
}

func TestHandleSendEmailBadPayloadSkipsRetry(t *testing.T) {
	p := NewProcessor(&recordingMailer{})
	err := p.handleSendEmail(context.Background(), asynq.NewTask(queue.SendEmailTask, []byte("{")))
	if !errors.Is(err, asynq.SkipRetry) {
		t.Fatalf("expected SkipRetry, got %v", err)
	}
}
