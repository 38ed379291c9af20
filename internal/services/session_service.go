package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
)

const sessionTokenBytes = 32

// SessionService issues and validates opaque applicant bearer tokens.
type SessionService struct {
	repo repository.Repository
	ttl  time.Duration
	now  Clock
}

func NewSessionService(repo repository.Repository, ttl time.Duration, now Clock) *SessionService {
	if now == nil {
		now = systemClock
	}
	return &SessionService{repo: repo, ttl: ttl, now: now}
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return hex.EncodeToString(h[:])
}

func newToken() (string, error) {
	b := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Create mints a session for applicantID. Only the token hash is stored.
func (s *SessionService) Create(ctx context.Context, applicantID uuid.UUID) (string, *models.ApplicantSession, error) {
	token, err := newToken()
	if err != nil {
		return "", nil, err
	}
	now := s.now()
	session := &models.ApplicantSession{
		ID:           uuid.New(),
		ApplicantID:  applicantID,
		TokenHash:    hashToken(token),
		ExpiresAt:    now.Add(s.ttl),
		LastActivity: now,
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return "", nil, fmt.Errorf("failed to create session: %w", err)
	}
	return token, session, nil
}

// Validate resolves token to its applicant. Expiry is absolute; activity does not extend it.
func (s *SessionService) Validate(ctx context.Context, token string) (*models.Applicant, error) {
	if token == "" {
		return nil, ErrSessionInvalid
	}
	session, err := s.repo.FindSession(ctx, hashToken(token))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	now := s.now()
	if now.After(session.ExpiresAt) {
		return nil, ErrSessionInvalid
	}

	applicant, err := s.repo.GetApplicant(ctx, session.ApplicantID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionInvalid
		}
		return nil, fmt.Errorf("failed to load applicant: %w", err)
	}

	if err := s.repo.TouchSession(ctx, session.ID, now); err != nil {
		slog.Warn("failed to update session activity", "applicant_id", applicant.ID, "error", err)
	}
	return applicant, nil
}

// Destroy deletes the session for token. Unknown tokens are not an error.
func (s *SessionService) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.repo.DeleteSession(ctx, hashToken(token))
}

// SweepExpired removes expired sessions and OTP records.
func (s *SessionService) SweepExpired(ctx context.Context) (sessions, otps int64, err error) {
	now := s.now()
	sessions, err = s.repo.DeleteExpiredSessions(ctx, now)
	if err != nil {
		return 0, 0, fmt.Errorf("sweep sessions: %w", err)
	}
	otps, err = s.repo.DeleteExpiredOTPs(ctx, now)
	if err != nil {
		return sessions, 0, fmt.Errorf("sweep otps: %w", err)
	}
	return sessions, otps, nil
}

// StartJanitor sweeps on every interval until ctx is done.
func (s *SessionService) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		slog.Warn("expiry sweep disabled", "interval", interval)
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				sessions, otps, err := s.SweepExpired(ctx)
				if err != nil {
					slog.Error("expiry sweep failed", "error", err)
				} else if sessions+otps > 0 {
					slog.Info("expiry sweep completed", "sessions", sessions, "otps", otps)
				}
			case <-ctx.Done():
				return
			}
		}
	}()
}
