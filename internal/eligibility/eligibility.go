// Package eligibility decides which competition rounds an applicant may see
// and submit to. Every decision is derived from (status, now, rounds) and
// nothing is cached, so a round edit or a selection change takes effect on
// the very next request.
package eligibility

import (
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
)

var (
	ErrStageNotFound = errors.New("stage not found")
	ErrStageInactive = errors.New("stage is not open for submissions")
	ErrStageExpired  = errors.New("submission deadline for this stage has passed")
	ErrNotEligible   = errors.New("not eligible for this stage")
)

// NotEligibleError carries the user-facing reason for an eligibility rejection.
type NotEligibleError struct {
	EntryRound bool
	Status     models.ApplicantStatus
}

func (e *NotEligibleError) Error() string {
	if e.EntryRound {
		return "You must be registered for the hackathon to submit to this stage"
	}
	return "You must be selected for the hackathon first to submit to this stage"
}

func (e *NotEligibleError) Is(target error) bool {
	return target == ErrNotEligible
}

var entryStatuses = map[models.ApplicantStatus]bool{
	models.StatusRegistered: true,
	models.StatusSelected:   true,
	models.StatusConfirmed:  true,
	models.StatusSubmitted:  true,
}

var advancedStatuses = map[models.ApplicantStatus]bool{
	models.StatusSelected:  true,
	models.StatusConfirmed: true,
	models.StatusSubmitted: true,
}

// CanEnter reports whether the status qualifies for the entry round.
func CanEnter(status models.ApplicantStatus) bool {
	return entryStatuses[status]
}

// CanAdvance reports whether the status qualifies for advanced rounds.
func CanAdvance(status models.ApplicantStatus) bool {
	return advancedStatuses[status]
}

// TimeOpen reports whether the round accepts submissions at now.
func TimeOpen(r *models.CompetitionRound, now time.Time) bool {
	if r.Status != models.RoundActive {
		return false
	}
	if r.StartTime != nil && r.StartTime.After(now) {
		return false
	}
	if r.EndTime != nil && !r.EndTime.After(now) {
		return false
	}
	return true
}

// orderKey is the start time, falling back to creation time for rounds
// that were opened without a scheduled start.
func orderKey(r *models.CompetitionRound) time.Time {
	if r.StartTime != nil {
		return *r.StartTime
	}
	return r.CreatedAt
}

func less(a, b *models.CompetitionRound) bool {
	ka, kb := orderKey(a), orderKey(b)
	if !ka.Equal(kb) {
		return ka.Before(kb)
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID.String() < b.ID.String()
}

// Sort orders rounds by start time, then name.
func Sort(rounds []models.CompetitionRound) {
	sort.SliceStable(rounds, func(i, j int) bool {
		return less(&rounds[i], &rounds[j])
	})
}

// OpenRounds returns the time-open rounds in order. The first one, if any,
// is the entry round.
func OpenRounds(rounds []models.CompetitionRound, now time.Time) []models.CompetitionRound {
	open := make([]models.CompetitionRound, 0, len(rounds))
	for i := range rounds {
		if TimeOpen(&rounds[i], now) {
			open = append(open, rounds[i])
		}
	}
	Sort(open)
	return open
}

// EntryRound returns the earliest time-open round.
func EntryRound(rounds []models.CompetitionRound, now time.Time) (*models.CompetitionRound, bool) {
	open := OpenRounds(rounds, now)
	if len(open) == 0 {
		return nil, false
	}
	return &open[0], true
}

// VisibleRounds returns the rounds the applicant may submit to right now.
func VisibleRounds(status models.ApplicantStatus, rounds []models.CompetitionRound, now time.Time) []models.CompetitionRound {
	open := OpenRounds(rounds, now)
	visible := make([]models.CompetitionRound, 0, len(open))
	seen := make(map[uuid.UUID]bool, len(open))
	for i, r := range open {
		if seen[r.ID] {
			continue
		}
		entry := i == 0
		if (entry && CanEnter(status)) || (!entry && CanAdvance(status)) {
			seen[r.ID] = true
			visible = append(visible, r)
		}
	}
	return visible
}

// CheckSubmission is the write-time gate for one stage. It re-derives the
// open set from rounds and never trusts an earlier dashboard result.
func CheckSubmission(status models.ApplicantStatus, stageID uuid.UUID, rounds []models.CompetitionRound, now time.Time) (*models.CompetitionRound, error) {
	var stage *models.CompetitionRound
	for i := range rounds {
		if rounds[i].ID == stageID {
			stage = &rounds[i]
			break
		}
	}
	if stage == nil {
		return nil, ErrStageNotFound
	}

	if stage.Status != models.RoundActive {
		return stage, ErrStageInactive
	}
	if stage.StartTime != nil && stage.StartTime.After(now) {
		return stage, ErrStageInactive
	}
	if stage.EndTime != nil && !stage.EndTime.After(now) {
		return stage, ErrStageExpired
	}

	entry, _ := EntryRound(rounds, now)
	if entry != nil && entry.ID == stage.ID {
		if !CanEnter(status) {
			return stage, &NotEligibleError{EntryRound: true, Status: status}
		}
		return stage, nil
	}
	if !CanAdvance(status) {
		return stage, &NotEligibleError{EntryRound: false, Status: status}
	}
	return stage, nil
}
