package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
)

func TestRegisterAssignsCodeAndProgress(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.register(t, "New@Example.com")

	if a.Email != "new@example.com" {
		t.Fatalf("email should be lower-cased, got %s", a.Email)
	}
	if !strings.HasPrefix(a.RegistrationCode, "HCK-") || len(a.RegistrationCode) != 12 {
		t.Fatalf("unexpected registration code %q", a.RegistrationCode)
	}
	if a.Status != models.StatusRegistered {
		t.Fatalf("expected registered, got %s", a.Status)
	}
	progress, _ := f.repo.ListProgress(ctx, a.ID)
	if len(progress) != 1 || progress[0].StageName != "Registration" {
		t.Fatalf("expected one registration entry, got %+v", progress)
	}
	if f.mail.last(t).To != "new@example.com" {
		t.Fatalf("confirmation mail not sent")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.register(t, "dup@example.com")
	_, err := f.applicants.Register(context.Background(), RegisterInput{Email: "DUP@example.com", FullName: "Dup"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterSwallowsMailFailure(t *testing.T) {
	f := newFixture(t)
	f.mail.err = errors.New("smtp down")
	if _, err := f.applicants.Register(context.Background(), RegisterInput{Email: "quiet@example.com", FullName: "Q"}); err != nil {
		t.Fatalf("mail failure must not fail registration: %v", err)
	}
}

func TestConfirmRequiresSelected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.register(t, "notyet@example.com")
	if _, err := f.applicants.Confirm(ctx, a.ID); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestBulkStatusUpdate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.register(t, "one@example.com")
	b := f.register(t, "two@example.com")

	n, err := f.applicants.UpdateStatus(ctx, []uuid.UUID{a.ID, b.ID, uuid.New()}, models.StatusSelected, "")
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 updated, got %d", n)
	}
	list, total, _ := f.applicants.List(ctx, repository.ApplicantFilter{Statuses: []models.ApplicantStatus{models.StatusSelected}})
	if total != 2 || len(list) != 2 {
		t.Fatalf("expected 2 selected applicants, got %d", total)
	}

	if _, err := f.applicants.UpdateStatus(ctx, []uuid.UUID{a.ID}, "champion", ""); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
}

func TestStatsCacheInvalidatedByWrites(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.register(t, "s1@example.com")

	stats, err := f.stats.Get(ctx)
	if err != nil || stats.TotalApplicants != 1 {
		t.Fatalf("unexpected stats %+v %v", stats, err)
	}

	f.register(t, "s2@example.com")
	stats, _ = f.stats.Get(ctx)
	if stats.TotalApplicants != 2 {
		t.Fatalf("registration should invalidate stats, got %d", stats.TotalApplicants)
	}

	// Writes that bypass the service stay hidden until the TTL lapses.
	f.repo.CreateApplicant(ctx, &models.Applicant{Email: "raw@example.com", RegistrationCode: "HCK-RAW00000"}, nil)
	if stats, _ = f.stats.Get(ctx); stats.TotalApplicants != 2 {
		t.Fatalf("expected cached value, got %d", stats.TotalApplicants)
	}
	f.clock.Advance(time.Minute)
	if stats, _ = f.stats.Get(ctx); stats.TotalApplicants != 3 {
		t.Fatalf("expected refresh after TTL, got %d", stats.TotalApplicants)
	}
}

func TestUpdateApplicantEmailConflict(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	a := f.register(t, "a@example.com")
	f.register(t, "b@example.com")

	taken := "B@example.com"
	if _, err := f.applicants.Update(ctx, a.ID, ApplicantUpdate{Email: &taken}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	city := "Pune"
	got, err := f.applicants.Update(ctx, a.ID, ApplicantUpdate{City: &city})
	if err != nil || got.City != "Pune" {
		t.Fatalf("update: %+v %v", got, err)
	}
}
