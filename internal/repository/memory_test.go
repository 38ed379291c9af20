package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
)

func newApplicant(t *testing.T, m *Memory, email string) *models.Applicant {
	t.Helper()
	a := &models.Applicant{Email: email, RegistrationCode: "HCK-" + email[:4], FullName: "Test"}
	if err := m.CreateApplicant(context.Background(), a, &models.ApplicationProgress{StageName: "Registration", Status: "registered"}); err != nil {
		t.Fatalf("create applicant: %v", err)
	}
	return a
}

func TestCreateApplicantDuplicateEmail(t *testing.T) {
	m := NewMemory()
	newApplicant(t, m, "ana@example.com")

	dup := &models.Applicant{Email: "ANA@example.com", RegistrationCode: "HCK-OTHER", FullName: "Ana"}
	if err := m.CreateApplicant(context.Background(), dup, nil); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestRecordSubmissionUpsertsPerStage(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := newApplicant(t, m, "bob@example.com")
	stage := uuid.New()

	for _, url := range []string{"https://github.com/a/one", "https://github.com/a/two"} {
		_, err := m.RecordSubmission(ctx, SubmissionWrite{
			Submission: models.StageSubmission{ApplicantID: a.ID, StageID: stage, GithubURL: url, Status: models.SubmissionSubmitted},
			Progress:   models.ApplicationProgress{ApplicantID: a.ID, StageName: "Round 1", Status: "submitted"},
		})
		if err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	subs, err := m.ListSubmissionsByApplicant(ctx, a.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(subs) != 1 || subs[0].GithubURL != "https://github.com/a/two" {
		t.Fatalf("expected one submission holding the second payload, got %+v", subs)
	}

	progress, _ := m.ListProgress(ctx, a.ID)
	if len(progress) != 3 {
		t.Fatalf("expected registration plus two submission entries, got %d", len(progress))
	}
}

func TestRecordSubmissionAdvancesOnlyMatchingStatus(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := newApplicant(t, m, "cy@example.com")

	_, err := m.RecordSubmission(ctx, SubmissionWrite{
		Submission:  models.StageSubmission{ApplicantID: a.ID, StageID: uuid.New()},
		AdvanceFrom: models.StatusConfirmed,
		AdvanceTo:   models.StatusSubmitted,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	got, _ := m.GetApplicant(ctx, a.ID)
	if got.Status != models.StatusRegistered {
		t.Fatalf("registered applicant must stay registered, got %s", got.Status)
	}
}

func TestMarkOTPVerifiedHasOneWinner(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	otp := &models.OTPVerification{Identifier: "x@example.com", Purpose: models.OTPPurposeLogin, Code: "123456", ExpiresAt: time.Now().Add(time.Minute)}
	if err := m.CreateOTP(ctx, otp); err != nil {
		t.Fatalf("create otp: %v", err)
	}

	var wins int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := m.MarkOTPVerified(ctx, otp.ID, time.Now(), 3); ok {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
	live, err := m.LiveOTPs(ctx, otp.Identifier, otp.Purpose, time.Now())
	if err != nil || len(live) != 0 {
		t.Fatalf("verified OTP must not be returned, got %d records (%v)", len(live), err)
	}
}

func TestIncrementOTPAttemptsIsCapped(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	otp := &models.OTPVerification{Identifier: "cap@example.com", Purpose: models.OTPPurposeLogin, Code: "123456", ExpiresAt: time.Now().Add(time.Minute)}
	if err := m.CreateOTP(ctx, otp); err != nil {
		t.Fatalf("create otp: %v", err)
	}

	var charged int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok, _ := m.IncrementOTPAttempts(ctx, otp.ID, 3); ok {
				atomic.AddInt32(&charged, 1)
			}
		}()
	}
	wg.Wait()

	if charged != 3 {
		t.Fatalf("expected exactly 3 charged attempts, got %d", charged)
	}
	if ok, _ := m.MarkOTPVerified(ctx, otp.ID, time.Now(), 3); ok {
		t.Fatalf("exhausted OTP must not be verifiable")
	}
}

func TestLiveOTPsNewestFirstAndUnexpired(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	now := time.Now()
	for _, o := range []*models.OTPVerification{
		{Identifier: "live@example.com", Purpose: models.OTPPurposeLogin, Code: "111111", ExpiresAt: now.Add(-time.Second)},
		{Identifier: "live@example.com", Purpose: models.OTPPurposeLogin, Code: "222222", ExpiresAt: now},
		{Identifier: "live@example.com", Purpose: models.OTPPurposeLogin, Code: "333333", ExpiresAt: now.Add(time.Minute)},
		{Identifier: "live@example.com", Purpose: models.OTPPurposeRegistration, Code: "444444", ExpiresAt: now.Add(time.Minute)},
	} {
		if err := m.CreateOTP(ctx, o); err != nil {
			t.Fatalf("create otp: %v", err)
		}
	}

	live, err := m.LiveOTPs(ctx, "live@example.com", models.OTPPurposeLogin, now)
	if err != nil {
		t.Fatalf("live: %v", err)
	}
	if len(live) != 2 || live[0].Code != "333333" || live[1].Code != "222222" {
		t.Fatalf("unexpected live records %+v", live)
	}
}

func TestDeleteApplicantCascades(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := newApplicant(t, m, "dee@example.com")
	if err := m.CreateSession(ctx, &models.ApplicantSession{ApplicantID: a.ID, TokenHash: "h", ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("session: %v", err)
	}

	if err := m.DeleteApplicant(ctx, a.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.FindSession(ctx, "h"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("session should be gone, got %v", err)
	}
	if progress, _ := m.ListProgress(ctx, a.ID); len(progress) != 0 {
		t.Fatalf("progress should be gone, got %d rows", len(progress))
	}
	if err := m.DeleteApplicant(ctx, a.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete should be ErrNotFound, got %v", err)
	}
}

func TestMarkPaymentIsIdempotent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	a := newApplicant(t, m, "eve@example.com")
	if err := m.CreatePayment(ctx, &models.Payment{ApplicantID: a.ID, Invoice: "INV1", Status: models.PaymentPending}); err != nil {
		t.Fatalf("payment: %v", err)
	}

	progress := models.ApplicationProgress{ApplicantID: a.ID, StageName: "Payment", Status: "paid"}
	first, _ := m.MarkPayment(ctx, "INV1", models.PaymentPaid, time.Now(), progress)
	second, _ := m.MarkPayment(ctx, "INV1", models.PaymentPaid, time.Now(), progress)
	if !first || second {
		t.Fatalf("expected first=true second=false, got %v %v", first, second)
	}
}
