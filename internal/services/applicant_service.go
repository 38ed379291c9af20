package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/eligibility"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/notify"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
)

const (
	registrationPrefix   = "HCK-"
	registrationAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	registrationLength   = 8
	registrationRetries  = 5
)

type RegisterInput struct {
	Email           string
	Mobile          string
	FullName        string
	Organization    string
	City            string
	TeamName        string
	TeamSize        int
	GithubProfile   string
	LinkedinProfile string
}

// Dashboard is everything the applicant home screen shows.
type Dashboard struct {
	Applicant            *models.Applicant
	Progress             []models.ApplicationProgress
	ActiveRounds         []models.CompetitionRound
	Submissions          []models.StageSubmission
	RequiresConfirmation bool
}

type ApplicantService struct {
	repo   repository.Repository
	mailer notify.Notifier
	stats  *StatsService
	now    Clock
}

func NewApplicantService(repo repository.Repository, mailer notify.Notifier, stats *StatsService, now Clock) *ApplicantService {
	if now == nil {
		now = systemClock
	}
	return &ApplicantService{repo: repo, mailer: mailer, stats: stats, now: now}
}

func newRegistrationCode() (string, error) {
	max := big.NewInt(int64(len(registrationAlphabet)))
	b := make([]byte, registrationLength)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate registration code: %w", err)
		}
		b[i] = registrationAlphabet[n.Int64()]
	}
	return registrationPrefix + string(b), nil
}

func (s *ApplicantService) Register(ctx context.Context, in RegisterInput) (*models.Applicant, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if _, err := s.repo.FindApplicantByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	teamSize := in.TeamSize
	if teamSize < 1 {
		teamSize = 1
	}

	var applicant *models.Applicant
	for attempt := 0; attempt < registrationRetries; attempt++ {
		code, err := newRegistrationCode()
		if err != nil {
			return nil, err
		}
		candidate := &models.Applicant{
			ID:               uuid.New(),
			Email:            email,
			Mobile:           strings.TrimSpace(in.Mobile),
			RegistrationCode: code,
			FullName:         strings.TrimSpace(in.FullName),
			Organization:     in.Organization,
			City:             in.City,
			TeamName:         in.TeamName,
			TeamSize:         teamSize,
			GithubProfile:    in.GithubProfile,
			LinkedinProfile:  in.LinkedinProfile,
			Status:           models.StatusRegistered,
		}
		progress := &models.ApplicationProgress{
			ID:          uuid.New(),
			StageName:   "Registration",
			Status:      string(models.StatusRegistered),
			Description: "Application received",
		}

		err = s.repo.CreateApplicant(ctx, candidate, progress)
		if err == nil {
			applicant = candidate
			break
		}
		if !errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("failed to create applicant: %w", err)
		}
		// A concurrent registration may have taken the e-mail; otherwise the code collided.
		if _, lookupErr := s.repo.FindApplicantByEmail(ctx, email); lookupErr == nil {
			return nil, ErrEmailTaken
		}
	}
	if applicant == nil {
		return nil, fmt.Errorf("failed to allocate a unique registration code")
	}

	s.stats.Invalidate()

	msg := notify.RegistrationMessage(applicant.Email, applicant.FullName, applicant.RegistrationCode)
	if err := s.mailer.Send(ctx, msg); err != nil {
		slog.Error("registration email failed", "applicant_id", applicant.ID, "error", err)
	}

	slog.Info("applicant registered", "applicant_id", applicant.ID)
	return applicant, nil
}

// Dashboard computes the applicant's open rounds at request time.
func (s *ApplicantService) Dashboard(ctx context.Context, applicant *models.Applicant) (*Dashboard, error) {
	progress, err := s.repo.ListProgress(ctx, applicant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load progress: %w", err)
	}
	rounds, err := s.repo.ListRounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rounds: %w", err)
	}
	subs, err := s.repo.ListSubmissionsByApplicant(ctx, applicant.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load submissions: %w", err)
	}

	return &Dashboard{
		Applicant:            applicant,
		Progress:             progress,
		ActiveRounds:         eligibility.VisibleRounds(applicant.Status, rounds, s.now()),
		Submissions:          subs,
		RequiresConfirmation: applicant.Status == models.StatusSelected,
	}, nil
}

// Confirm moves a selected applicant to confirmed.
func (s *ApplicantService) Confirm(ctx context.Context, applicantID uuid.UUID) (*models.Applicant, error) {
	applicant, err := s.Get(ctx, applicantID)
	if err != nil {
		return nil, err
	}
	if applicant.Status != models.StatusSelected {
		return nil, fmt.Errorf("%w: only selected applicants can confirm participation", ErrInvalidTransition)
	}

	_, err = s.repo.UpdateApplicantStatus(ctx, []uuid.UUID{applicant.ID}, models.StatusConfirmed, models.ApplicationProgress{
		StageName:   "Confirmation",
		Status:      string(models.StatusConfirmed),
		Description: "Participation confirmed",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to confirm participation: %w", err)
	}
	s.stats.Invalidate()

	applicant.Status = models.StatusConfirmed
	slog.Info("participation confirmed", "applicant_id", applicant.ID)
	return applicant, nil
}

func (s *ApplicantService) Get(ctx context.Context, id uuid.UUID) (*models.Applicant, error) {
	a, err := s.repo.GetApplicant(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrApplicantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load applicant: %w", err)
	}
	return a, nil
}

func (s *ApplicantService) List(ctx context.Context, f repository.ApplicantFilter) ([]models.Applicant, int64, error) {
	for _, st := range f.Statuses {
		if !st.Valid() {
			return nil, 0, fmt.Errorf("%w: %s", ErrInvalidStatus, st)
		}
	}
	return s.repo.ListApplicants(ctx, f)
}

// ApplicantUpdate holds the admin-editable profile fields; nil means unchanged.
type ApplicantUpdate struct {
	Email           *string
	Mobile          *string
	FullName        *string
	Organization    *string
	City            *string
	TeamName        *string
	TeamSize        *int
	GithubProfile   *string
	LinkedinProfile *string
}

func (s *ApplicantService) Update(ctx context.Context, id uuid.UUID, in ApplicantUpdate) (*models.Applicant, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	set := func(dst *string, v *string) {
		if v != nil {
			*dst = strings.TrimSpace(*v)
		}
	}
	set(&a.Email, in.Email)
	a.Email = strings.ToLower(a.Email)
	set(&a.Mobile, in.Mobile)
	set(&a.FullName, in.FullName)
	set(&a.Organization, in.Organization)
	set(&a.City, in.City)
	set(&a.TeamName, in.TeamName)
	set(&a.GithubProfile, in.GithubProfile)
	set(&a.LinkedinProfile, in.LinkedinProfile)
	if in.TeamSize != nil {
		a.TeamSize = *in.TeamSize
	}

	if err := s.repo.UpdateApplicant(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrApplicantNotFound
		}
		return nil, fmt.Errorf("failed to update applicant: %w", err)
	}
	return a, nil
}

// UpdateStatus sets status on every applicant in ids with one audit entry each.
func (s *ApplicantService) UpdateStatus(ctx context.Context, ids []uuid.UUID, status models.ApplicantStatus, note string) (int64, error) {
	if !status.Valid() {
		return 0, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no applicants given", ErrInvalidInput)
	}
	description := note
	if description == "" {
		description = fmt.Sprintf("Status changed to %s", status)
	}
	n, err := s.repo.UpdateApplicantStatus(ctx, ids, status, models.ApplicationProgress{
		StageName:   "Review",
		Status:      string(status),
		Description: description,
	})
	if err != nil {
		return 0, fmt.Errorf("failed to update status: %w", err)
	}
	s.stats.Invalidate()
	slog.Info("applicant status updated", "count", n, "status", status)
	return n, nil
}

// Delete removes the applicant and everything recorded for them.
func (s *ApplicantService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteApplicant(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrApplicantNotFound
		}
		return fmt.Errorf("failed to delete applicant: %w", err)
	}
	s.stats.Invalidate()
	slog.Info("applicant deleted", "applicant_id", id)
	return nil
}
