// Package repository is the identity and submission store. Gorm backs it in
// production; Memory backs tests and the STORAGE_DRIVER=memory mode.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type ApplicantFilter struct {
	Statuses []models.ApplicantStatus
	Search   string
	Limit    int
	Offset   int
}

type SubmissionFilter struct {
	StageID *uuid.UUID
	Status  models.SubmissionStatus
	Limit   int
	Offset  int
}

// SubmissionWrite is everything recorded atomically for one stage submission.
type SubmissionWrite struct {
	Submission models.StageSubmission
	Progress   models.ApplicationProgress
	// AdvanceFrom/AdvanceTo move the applicant status when it currently equals AdvanceFrom.
	AdvanceFrom models.ApplicantStatus
	AdvanceTo   models.ApplicantStatus
}

// Review is a jury decision on one submission.
type Review struct {
	Status     models.SubmissionStatus
	Score      *int
	Feedback   string
	ReviewerID uuid.UUID
	ReviewedAt time.Time
}

type Repository interface {
	// Applicants
	CreateApplicant(ctx context.Context, a *models.Applicant, progress *models.ApplicationProgress) error
	GetApplicant(ctx context.Context, id uuid.UUID) (*models.Applicant, error)
	FindApplicantByEmail(ctx context.Context, email string) (*models.Applicant, error)
	FindApplicantByMobile(ctx context.Context, mobile string) (*models.Applicant, error)
	ListApplicants(ctx context.Context, f ApplicantFilter) ([]models.Applicant, int64, error)
	UpdateApplicant(ctx context.Context, a *models.Applicant) error
	// UpdateApplicantStatus sets status on every id and appends one progress row per applicant.
	UpdateApplicantStatus(ctx context.Context, ids []uuid.UUID, status models.ApplicantStatus, progress models.ApplicationProgress) (int64, error)
	DeleteApplicant(ctx context.Context, id uuid.UUID) error
	CountApplicantsByStatus(ctx context.Context) (map[models.ApplicantStatus]int64, error)

	// OTP
	CreateOTP(ctx context.Context, otp *models.OTPVerification) error
	// LiveOTPs returns unverified codes with expiresAt >= now, newest first.
	LiveOTPs(ctx context.Context, identifier string, purpose models.OTPPurpose, now time.Time) ([]models.OTPVerification, error)
	// IncrementOTPAttempts bumps attempts only while it is below max and
	// reports whether the row was charged.
	IncrementOTPAttempts(ctx context.Context, id uuid.UUID, max int) (bool, error)
	// MarkOTPVerified flips verified from false to true while attempts < max
	// and reports whether this call won.
	MarkOTPVerified(ctx context.Context, id uuid.UUID, at time.Time, max int) (bool, error)
	DeleteExpiredOTPs(ctx context.Context, now time.Time) (int64, error)

	// Sessions
	CreateSession(ctx context.Context, s *models.ApplicantSession) error
	FindSession(ctx context.Context, tokenHash string) (*models.ApplicantSession, error)
	TouchSession(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteSession(ctx context.Context, tokenHash string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)

	// Rounds
	CreateRound(ctx context.Context, r *models.CompetitionRound) error
	GetRound(ctx context.Context, id uuid.UUID) (*models.CompetitionRound, error)
	ListRounds(ctx context.Context) ([]models.CompetitionRound, error)
	UpdateRound(ctx context.Context, r *models.CompetitionRound) error
	DeleteRound(ctx context.Context, id uuid.UUID) error

	// Submissions and progress
	RecordSubmission(ctx context.Context, w SubmissionWrite) (*models.StageSubmission, error)
	GetSubmission(ctx context.Context, id uuid.UUID) (*models.StageSubmission, error)
	ListSubmissionsByApplicant(ctx context.Context, applicantID uuid.UUID) ([]models.StageSubmission, error)
	ListSubmissions(ctx context.Context, f SubmissionFilter) ([]models.StageSubmission, int64, error)
	ReviewSubmission(ctx context.Context, id uuid.UUID, r Review) (*models.StageSubmission, error)
	AppendProgress(ctx context.Context, p *models.ApplicationProgress) error
	ListProgress(ctx context.Context, applicantID uuid.UUID) ([]models.ApplicationProgress, error)

	// Settings
	GetSettings(ctx context.Context, group string) (map[string]string, error)
	PutSettings(ctx context.Context, group string, values map[string]string) error

	// Payments
	CreatePayment(ctx context.Context, p *models.Payment) error
	GetPaymentByInvoice(ctx context.Context, invoice string) (*models.Payment, error)
	// MarkPayment moves a pending payment to status and appends progress; it reports false for a non-pending payment.
	MarkPayment(ctx context.Context, invoice string, status models.PaymentStatus, at time.Time, progress models.ApplicationProgress) (bool, error)

	// Staff
	CreateStaff(ctx context.Context, s *models.StaffUser) error
	FindStaffByEmail(ctx context.Context, email string) (*models.StaffUser, error)
	CountStaff(ctx context.Context) (int64, error)
}
