package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/eligibility"
	"github.com/kirankshetty/Hackathon-sub000/internal/metrics"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
)

// SubmissionInput is the applicant-supplied part of a stage submission.
type SubmissionInput struct {
	StageID   uuid.UUID
	GithubURL string
	DemoURL   string
	Notes     string
	Documents []string
}

type SubmissionService struct {
	repo repository.Repository
	now  Clock
}

func NewSubmissionService(repo repository.Repository, now Clock) *SubmissionService {
	if now == nil {
		now = systemClock
	}
	return &SubmissionService{repo: repo, now: now}
}

// Submit re-runs the stage gate against current data and records the
// submission, its audit entry and any status advance together.
func (s *SubmissionService) Submit(ctx context.Context, applicantID uuid.UUID, in SubmissionInput) (*models.StageSubmission, error) {
	applicant, err := s.repo.GetApplicant(ctx, applicantID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrApplicantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load applicant: %w", err)
	}

	rounds, err := s.repo.ListRounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rounds: %w", err)
	}

	now := s.now()
	stage, err := eligibility.CheckSubmission(applicant.Status, in.StageID, rounds, now)
	if err != nil {
		metrics.EligibilityRejections.WithLabelValues(rejectionReason(err)).Inc()
		return nil, err
	}

	documents := in.Documents
	if documents == nil {
		documents = []string{}
	}
	write := repository.SubmissionWrite{
		Submission: models.StageSubmission{
			ID:          uuid.New(),
			ApplicantID: applicant.ID,
			StageID:     stage.ID,
			GithubURL:   in.GithubURL,
			DemoURL:     in.DemoURL,
			Notes:       in.Notes,
			Documents:   documents,
			Status:      models.SubmissionSubmitted,
			SubmittedAt: &now,
		},
		Progress: models.ApplicationProgress{
			ID:          uuid.New(),
			ApplicantID: applicant.ID,
			StageName:   stage.Name,
			Status:      string(models.SubmissionSubmitted),
			Description: fmt.Sprintf("Submitted work for %s", stage.Name),
		},
		AdvanceFrom: models.StatusConfirmed,
		AdvanceTo:   models.StatusSubmitted,
	}

	sub, err := s.repo.RecordSubmission(ctx, write)
	if err != nil {
		slog.Error("failed to record submission", "applicant_id", applicant.ID, "stage_id", stage.ID, "error", err)
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	metrics.SubmissionsRecorded.Inc()
	slog.Info("stage submission recorded", "applicant_id", applicant.ID, "stage_id", stage.ID)
	return sub, nil
}

func (s *SubmissionService) ListForApplicant(ctx context.Context, applicantID uuid.UUID) ([]models.StageSubmission, error) {
	subs, err := s.repo.ListSubmissionsByApplicant(ctx, applicantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}

// List is the jury view over every submission.
func (s *SubmissionService) List(ctx context.Context, f repository.SubmissionFilter) ([]models.StageSubmission, int64, error) {
	return s.repo.ListSubmissions(ctx, f)
}

// Review records a jury decision.
func (s *SubmissionService) Review(ctx context.Context, submissionID, reviewerID uuid.UUID, status models.SubmissionStatus, score *int, feedback string) (*models.StageSubmission, error) {
	if !status.ReviewOutcome() {
		return nil, fmt.Errorf("%w: status must be reviewed, selected or rejected", ErrInvalidReview)
	}
	if score != nil && (*score < 0 || *score > 100) {
		return nil, fmt.Errorf("%w: score must be between 0 and 100", ErrInvalidReview)
	}

	sub, err := s.repo.ReviewSubmission(ctx, submissionID, repository.Review{
		Status:     status,
		Score:      score,
		Feedback:   feedback,
		ReviewerID: reviewerID,
		ReviewedAt: s.now(),
	})
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrSubmissionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to review submission: %w", err)
	}
	slog.Info("submission reviewed", "submission_id", submissionID, "staff_id", reviewerID, "status", status)
	return sub, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, eligibility.ErrStageNotFound):
		return "not_found"
	case errors.Is(err, eligibility.ErrStageInactive):
		return "inactive"
	case errors.Is(err, eligibility.ErrStageExpired):
		return "expired"
	case errors.Is(err, eligibility.ErrNotEligible):
		return "not_eligible"
	}
	return "other"
}
