package services

import (
	"context"
	"fmt"
	"time"

	"github.com/kirankshetty/Hackathon-sub000/internal/cache"
	"github.com/kirankshetty/Hackathon-sub000/internal/eligibility"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
)

const statsKey = "dashboard"

type Stats struct {
	TotalApplicants  int64                            `json:"total_applicants"`
	ByStatus         map[models.ApplicantStatus]int64 `json:"by_status"`
	TotalSubmissions int64                            `json:"total_submissions"`
	OpenRounds       int                              `json:"open_rounds"`
	GeneratedAt      time.Time                        `json:"generated_at"`
}

// StatsService serves admin dashboard counters from a TTL cache.
type StatsService struct {
	repo  repository.Repository
	cache *cache.TTLCache[*Stats]
	now   Clock
}

func NewStatsService(repo repository.Repository, ttl time.Duration, now Clock) *StatsService {
	if now == nil {
		now = systemClock
	}
	return &StatsService{
		repo:  repo,
		cache: cache.New[*Stats]("admin_stats", ttl, now),
		now:   now,
	}
}

func (s *StatsService) Get(ctx context.Context) (*Stats, error) {
	return s.cache.GetOrLoad(statsKey, func() (*Stats, error) {
		return s.compute(ctx)
	})
}

// Invalidate drops the cached snapshot after a write.
func (s *StatsService) Invalidate() {
	if s == nil {
		return
	}
	s.cache.Invalidate(statsKey)
}

func (s *StatsService) compute(ctx context.Context) (*Stats, error) {
	byStatus, err := s.repo.CountApplicantsByStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count applicants: %w", err)
	}
	_, submissions, err := s.repo.ListSubmissions(ctx, repository.SubmissionFilter{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to count submissions: %w", err)
	}
	rounds, err := s.repo.ListRounds(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load rounds: %w", err)
	}

	now := s.now()
	var total int64
	for _, n := range byStatus {
		total += n
	}
	return &Stats{
		TotalApplicants:  total,
		ByStatus:         byStatus,
		TotalSubmissions: submissions,
		OpenRounds:       len(eligibility.OpenRounds(rounds, now)),
		GeneratedAt:      now,
	}, nil
}
