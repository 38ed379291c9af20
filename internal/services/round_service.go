package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/eligibility"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
)

type RoundInput struct {
	Name         string
	Description  string
	Status       models.RoundStatus
	StartTime    *time.Time
	EndTime      *time.Time
	Requirements []string
}

// RoundService manages competition rounds. Reads always hit the store.
type RoundService struct {
	repo  repository.Repository
	stats *StatsService
}

func NewRoundService(repo repository.Repository, stats *StatsService) *RoundService {
	return &RoundService{repo: repo, stats: stats}
}

func validateRound(in RoundInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if !in.Status.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidStatus, in.Status)
	}
	if in.StartTime != nil && in.EndTime != nil && !in.EndTime.After(*in.StartTime) {
		return fmt.Errorf("%w: end time must be after start time", ErrInvalidInput)
	}
	return nil
}

func (s *RoundService) List(ctx context.Context) ([]models.CompetitionRound, error) {
	rounds, err := s.repo.ListRounds(ctx)
	if err != nil {
		return nil, err
	}
	eligibility.Sort(rounds)
	return rounds, nil
}

func (s *RoundService) Get(ctx context.Context, id uuid.UUID) (*models.CompetitionRound, error) {
	r, err := s.repo.GetRound(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRoundNotFound
	}
	return r, err
}

func (s *RoundService) Create(ctx context.Context, in RoundInput) (*models.CompetitionRound, error) {
	if in.Status == "" {
		in.Status = models.RoundUpcoming
	}
	if err := validateRound(in); err != nil {
		return nil, err
	}
	r := &models.CompetitionRound{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Status:       in.Status,
		StartTime:    in.StartTime,
		EndTime:      in.EndTime,
		Requirements: nonNil(in.Requirements),
	}
	if err := s.repo.CreateRound(ctx, r); err != nil {
		return nil, fmt.Errorf("failed to create round: %w", err)
	}
	s.stats.Invalidate()
	slog.Info("round created", "round_id", r.ID, "name", r.Name)
	return r, nil
}

func (s *RoundService) Update(ctx context.Context, id uuid.UUID, in RoundInput) (*models.CompetitionRound, error) {
	if err := validateRound(in); err != nil {
		return nil, err
	}
	r, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Name = strings.TrimSpace(in.Name)
	r.Description = in.Description
	r.Status = in.Status
	r.StartTime = in.StartTime
	r.EndTime = in.EndTime
	r.Requirements = nonNil(in.Requirements)

	if err := s.repo.UpdateRound(ctx, r); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to update round: %w", err)
	}
	s.stats.Invalidate()
	slog.Info("round updated", "round_id", r.ID, "status", r.Status)
	return r, nil
}

func (s *RoundService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteRound(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoundNotFound
		}
		return fmt.Errorf("failed to delete round: %w", err)
	}
	s.stats.Invalidate()
	slog.Info("round deleted", "round_id", id)
	return nil
}

func nonNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
