package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/metrics"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/notify"
	"github.com/kirankshetty/Hackathon-sub000/internal/ratelimit"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
)

const otpDigits = 6

// VerifyResult is returned on a successful OTP login.
type VerifyResult struct {
	Applicant    *models.Applicant
	SessionToken string
	ExpiresAt    time.Time
}

type OTPService struct {
	repo        repository.Repository
	sessions    *SessionService
	mailer      notify.Notifier
	limiter     ratelimit.Limiter
	ttl         time.Duration
	maxAttempts int
	now         Clock
}

func NewOTPService(
	repo repository.Repository,
	sessions *SessionService,
	mailer notify.Notifier,
	limiter ratelimit.Limiter,
	ttl time.Duration,
	maxAttempts int,
	now Clock,
) *OTPService {
	if limiter == nil {
		limiter = ratelimit.Noop{}
	}
	if now == nil {
		now = systemClock
	}
	return &OTPService{
		repo:        repo,
		sessions:    sessions,
		mailer:      mailer,
		limiter:     limiter,
		ttl:         ttl,
		maxAttempts: maxAttempts,
		now:         now,
	}
}

// NormalizeIdentifier lower-cases e-mails and trims mobiles.
func NormalizeIdentifier(identifier string) string {
	id := strings.TrimSpace(identifier)
	if strings.Contains(id, "@") {
		return strings.ToLower(id)
	}
	return id
}

func (s *OTPService) resolve(ctx context.Context, identifier string) (*models.Applicant, error) {
	var (
		a   *models.Applicant
		err error
	)
	if strings.Contains(identifier, "@") {
		a, err = s.repo.FindApplicantByEmail(ctx, identifier)
	} else {
		a, err = s.repo.FindApplicantByMobile(ctx, identifier)
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrApplicantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve applicant: %w", err)
	}
	return a, nil
}

func generateCode() (string, error) {
	var b strings.Builder
	ten := big.NewInt(10)
	for i := 0; i < otpDigits; i++ {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate otp: %w", err)
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

// SendOTP issues a fresh code for identifier and e-mails it to the applicant.
// Older outstanding codes stay valid until they expire or are used. The
// limiter runs before the lookup so unknown identifiers are throttled too.
func (s *OTPService) SendOTP(ctx context.Context, identifier string, purpose models.OTPPurpose) (string, error) {
	identifier = NormalizeIdentifier(identifier)
	if err := s.limiter.Allow(ctx, identifier, string(purpose)); err != nil {
		if errors.Is(err, ratelimit.ErrLimited) {
			return "", fmt.Errorf("%w: %w", ErrOTPRateLimited, err)
		}
		slog.Warn("otp limiter unavailable, allowing request", "error", err)
	}

	applicant, err := s.resolve(ctx, identifier)
	if err != nil {
		return "", err
	}

	now := s.now()
	if n, err := s.repo.DeleteExpiredOTPs(ctx, now); err != nil {
		slog.Warn("failed to sweep expired otps", "error", err)
	} else if n > 0 {
		slog.Debug("swept expired otps", "count", n)
	}

	code, err := generateCode()
	if err != nil {
		return "", err
	}
	otp := &models.OTPVerification{
		ID:         uuid.New(),
		Identifier: identifier,
		Purpose:    purpose,
		Code:       code,
		ExpiresAt:  now.Add(s.ttl),
	}
	if err := s.repo.CreateOTP(ctx, otp); err != nil {
		return "", fmt.Errorf("failed to store otp: %w", err)
	}

	msg := notify.OTPMessage(applicant.Email, applicant.FullName, code, string(purpose), s.ttl)
	if err := s.mailer.Send(ctx, msg); err != nil {
		metrics.OTPEvents.WithLabelValues("delivery_failed").Inc()
		slog.Error("otp delivery failed", "applicant_id", applicant.ID, "error", err)
		return "", fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	if err := s.limiter.Sent(ctx, identifier, string(purpose)); err != nil {
		slog.Warn("failed to start otp cooldown", "error", err)
	}

	metrics.OTPEvents.WithLabelValues("issued").Inc()
	slog.Info("otp issued", "applicant_id", applicant.ID, "purpose", purpose)
	return "OTP sent to your registered email", nil
}

// VerifyOTP accepts the newest live code that matches and, on success,
// consumes it and starts a session. A miss is charged to the newest live
// code; a code with maxAttempts failures is rejected even when correct.
func (s *OTPService) VerifyOTP(ctx context.Context, identifier, code string, purpose models.OTPPurpose) (*VerifyResult, error) {
	identifier = NormalizeIdentifier(identifier)
	now := s.now()
	live, err := s.repo.LiveOTPs(ctx, identifier, purpose, now)
	if err != nil {
		return nil, fmt.Errorf("failed to load otp: %w", err)
	}
	if len(live) == 0 {
		metrics.OTPEvents.WithLabelValues("invalid").Inc()
		return nil, ErrOTPInvalid
	}

	given := []byte(strings.TrimSpace(code))
	var match *models.OTPVerification
	for i := range live {
		if subtle.ConstantTimeCompare([]byte(live[i].Code), given) == 1 {
			match = &live[i]
			break
		}
	}

	if match == nil {
		charged, err := s.repo.IncrementOTPAttempts(ctx, live[0].ID, s.maxAttempts)
		if err != nil {
			return nil, fmt.Errorf("failed to record otp attempt: %w", err)
		}
		if !charged {
			metrics.OTPEvents.WithLabelValues("exhausted").Inc()
			return nil, ErrOTPTooManyAttempts
		}
		metrics.OTPEvents.WithLabelValues("mismatch").Inc()
		return nil, ErrOTPInvalid
	}
	if match.Attempts >= s.maxAttempts {
		metrics.OTPEvents.WithLabelValues("exhausted").Inc()
		return nil, ErrOTPTooManyAttempts
	}

	won, err := s.repo.MarkOTPVerified(ctx, match.ID, now, s.maxAttempts)
	if err != nil {
		return nil, fmt.Errorf("failed to mark otp verified: %w", err)
	}
	if !won {
		return nil, ErrOTPInvalid
	}

	applicant, err := s.resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	token, session, err := s.sessions.Create(ctx, applicant.ID)
	if err != nil {
		return nil, err
	}

	metrics.OTPEvents.WithLabelValues("verified").Inc()
	slog.Info("applicant signed in", "applicant_id", applicant.ID)
	return &VerifyResult{Applicant: applicant, SessionToken: token, ExpiresAt: session.ExpiresAt}, nil
}
