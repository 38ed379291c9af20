package eligibility

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
)

var base = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func at(d time.Duration) *time.Time {
	t := base.Add(d)
	return &t
}

func round(name string, status models.RoundStatus, start, end *time.Time) models.CompetitionRound {
	return models.CompetitionRound{
		ID:        uuid.New(),
		Name:      name,
		Status:    status,
		StartTime: start,
		EndTime:   end,
		CreatedAt: base.Add(-48 * time.Hour),
	}
}

func names(rounds []models.CompetitionRound) []string {
	out := make([]string, len(rounds))
	for i, r := range rounds {
		out[i] = r.Name
	}
	return out
}

func TestTimeOpen(t *testing.T) {
	now := base
	tests := []struct {
		name  string
		round models.CompetitionRound
		want  bool
	}{
		{"active without window", round("a", models.RoundActive, nil, nil), true},
		{"upcoming", round("a", models.RoundUpcoming, nil, nil), false},
		{"completed", round("a", models.RoundCompleted, nil, nil), false},
		{"starts later", round("a", models.RoundActive, at(time.Minute), nil), false},
		{"starts now", round("a", models.RoundActive, at(0), nil), true},
		{"ends now", round("a", models.RoundActive, nil, at(0)), false},
		{"ends later", round("a", models.RoundActive, at(-time.Hour), at(time.Second)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TimeOpen(&tt.round, now); got != tt.want {
				t.Fatalf("TimeOpen = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEntryRoundOrdering(t *testing.T) {
	b := round("Beta", models.RoundActive, at(-time.Hour), nil)
	a := round("Alpha", models.RoundActive, at(-time.Hour), nil)
	early := round("Zeta", models.RoundActive, at(-2*time.Hour), nil)
	closed := round("Closed", models.RoundCompleted, at(-10*time.Hour), nil)

	entry, ok := EntryRound([]models.CompetitionRound{b, a, closed, early}, base)
	if !ok || entry.Name != "Zeta" {
		t.Fatalf("expected earliest open round Zeta, got %+v", entry)
	}

	entry, ok = EntryRound([]models.CompetitionRound{b, a}, base)
	if !ok || entry.Name != "Alpha" {
		t.Fatalf("expected name tie-break to pick Alpha, got %+v", entry)
	}

	if _, ok := EntryRound([]models.CompetitionRound{closed}, base); ok {
		t.Fatalf("expected no entry round when nothing is open")
	}
}

func TestVisibleRoundsRegisteredSeesOnlyEntry(t *testing.T) {
	rounds := []models.CompetitionRound{
		round("Round B", models.RoundActive, at(-time.Hour), nil),
		round("Round A", models.RoundActive, at(-2*time.Hour), nil),
		round("Round C", models.RoundUpcoming, nil, nil),
	}
	got := names(VisibleRounds(models.StatusRegistered, rounds, base))
	if len(got) != 1 || got[0] != "Round A" {
		t.Fatalf("registered applicant should see only the entry round, got %v", got)
	}
}

func TestVisibleRoundsSelectedSeesAll(t *testing.T) {
	rounds := []models.CompetitionRound{
		round("Round B", models.RoundActive, at(-time.Hour), nil),
		round("Round A", models.RoundActive, at(-2*time.Hour), nil),
	}
	for _, status := range []models.ApplicantStatus{models.StatusSelected, models.StatusConfirmed, models.StatusSubmitted} {
		got := names(VisibleRounds(status, rounds, base))
		if len(got) != 2 || got[0] != "Round A" || got[1] != "Round B" {
			t.Fatalf("%s: expected [Round A Round B], got %v", status, got)
		}
	}
}

func TestVisibleRoundsClosedStatuses(t *testing.T) {
	rounds := []models.CompetitionRound{
		round("Round A", models.RoundActive, at(-2*time.Hour), nil),
		round("Round B", models.RoundActive, at(-time.Hour), nil),
	}
	for _, status := range []models.ApplicantStatus{models.StatusWon, models.StatusNotSelected, models.StatusRound1Qualified} {
		if got := VisibleRounds(status, rounds, base); len(got) != 0 {
			t.Fatalf("%s: expected no visible rounds, got %v", status, names(got))
		}
	}
}

func TestCheckSubmission(t *testing.T) {
	entry := round("Entry", models.RoundActive, at(-2*time.Hour), nil)
	advanced := round("Advanced", models.RoundActive, at(-time.Hour), at(time.Hour))
	upcoming := round("Later", models.RoundUpcoming, nil, nil)
	notStarted := round("Scheduled", models.RoundActive, at(time.Hour), nil)
	rounds := []models.CompetitionRound{entry, advanced, upcoming, notStarted}

	tests := []struct {
		name    string
		status  models.ApplicantStatus
		stageID uuid.UUID
		now     time.Time
		wantErr error
	}{
		{"registered to entry", models.StatusRegistered, entry.ID, base, nil},
		{"registered to advanced", models.StatusRegistered, advanced.ID, base, ErrNotEligible},
		{"selected to advanced", models.StatusSelected, advanced.ID, base, nil},
		{"unknown stage", models.StatusSelected, uuid.New(), base, ErrStageNotFound},
		{"upcoming stage", models.StatusSelected, upcoming.ID, base, ErrStageInactive},
		{"not started", models.StatusSelected, notStarted.ID, base, ErrStageInactive},
		{"after deadline", models.StatusSelected, advanced.ID, base.Add(time.Hour + time.Second), ErrStageExpired},
		{"not selected to entry", models.StatusNotSelected, entry.ID, base, ErrNotEligible},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CheckSubmission(tt.status, tt.stageID, rounds, tt.now)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNotEligibleMessages(t *testing.T) {
	entry := round("Entry", models.RoundActive, at(-2*time.Hour), nil)
	advanced := round("Advanced", models.RoundActive, at(-time.Hour), nil)
	rounds := []models.CompetitionRound{entry, advanced}

	_, err := CheckSubmission(models.StatusRegistered, advanced.ID, rounds, base)
	var ne *NotEligibleError
	if !errors.As(err, &ne) || ne.EntryRound {
		t.Fatalf("expected advanced-round rejection, got %v", err)
	}
	if ne.Error() != "You must be selected for the hackathon first to submit to this stage" {
		t.Fatalf("unexpected message %q", ne.Error())
	}

	_, err = CheckSubmission(models.StatusWon, entry.ID, rounds, base)
	if !errors.As(err, &ne) || !ne.EntryRound {
		t.Fatalf("expected entry-round rejection, got %v", err)
	}
}

func TestNilStartOrdersByCreation(t *testing.T) {
	older := round("Older", models.RoundActive, nil, nil)
	older.CreatedAt = base.Add(-72 * time.Hour)
	newer := round("Newer", models.RoundActive, nil, nil)
	newer.CreatedAt = base.Add(-24 * time.Hour)

	entry, ok := EntryRound([]models.CompetitionRound{newer, older}, base)
	if !ok || entry.Name != "Older" {
		t.Fatalf("expected Older to be the entry round, got %+v", entry)
	}
}
