package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/notify"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type outbox struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (o *outbox) Send(_ context.Context, msg notify.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.err != nil {
		return o.err
	}
	o.sent = append(o.sent, msg)
	return nil
}

func (o *outbox) last(t *testing.T) notify.Message {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.sent) == 0 {
		t.Fatalf("no message sent")
	}
	return o.sent[len(o.sent)-1]
}

// lastCode pulls the 6-digit code out of the most recent OTP e-mail.
func (o *outbox) lastCode(t *testing.T) string {
	t.Helper()
	body := o.last(t).Body
	const marker = "verification code is "
	for i := 0; i+len(marker)+6 <= len(body); i++ {
		if body[i:i+len(marker)] == marker {
			return body[i+len(marker) : i+len(marker)+6]
		}
	}
	t.Fatalf("no code in %q", body)
	return ""
}

type fixture struct {
	clock       *fakeClock
	repo        *repository.Memory
	mail        *outbox
	sessions    *SessionService
	otp         *OTPService
	applicants  *ApplicantService
	submissions *SubmissionService
	rounds      *RoundService
	stats       *StatsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := newFakeClock()
	repo := repository.NewMemoryWithClock(clock.Now)
	mail := &outbox{}
	stats := NewStatsService(repo, time.Minute, clock.Now)
	sessions := NewSessionService(repo, 24*time.Hour, clock.Now)
	return &fixture{
		clock:       clock,
		repo:        repo,
		mail:        mail,
		sessions:    sessions,
		otp:         NewOTPService(repo, sessions, mail, nil, 10*time.Minute, 3, clock.Now),
		applicants:  NewApplicantService(repo, mail, stats, clock.Now),
		submissions: NewSubmissionService(repo, clock.Now),
		rounds:      NewRoundService(repo, stats),
		stats:       stats,
	}
}

func (f *fixture) register(t *testing.T, email string) *models.Applicant {
	t.Helper()
	a, err := f.applicants.Register(context.Background(), RegisterInput{Email: email, Mobile: "+15550001", FullName: "Test Applicant"})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return a
}

func (f *fixture) setStatus(t *testing.T, a *models.Applicant, status models.ApplicantStatus) {
	t.Helper()
	if _, err := f.applicants.UpdateStatus(context.Background(), []uuid.UUID{a.ID}, status, ""); err != nil {
		t.Fatalf("set status: %v", err)
	}
}

func (f *fixture) openRound(t *testing.T, name string, startOffset time.Duration, end *time.Time) *models.CompetitionRound {
	t.Helper()
	start := f.clock.Now().Add(startOffset)
	r, err := f.rounds.Create(context.Background(), RoundInput{Name: name, Status: models.RoundActive, StartTime: &start, EndTime: end})
	if err != nil {
		t.Fatalf("create round: %v", err)
	}
	return r
}
