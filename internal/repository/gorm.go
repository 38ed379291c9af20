package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	}
	return err
}

// --- Applicants ---

func (g *Gorm) CreateApplicant(ctx context.Context, a *models.Applicant, progress *models.ApplicationProgress) error {
	return translate(g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		if progress == nil {
			return nil
		}
		progress.ApplicantID = a.ID
		return tx.Create(progress).Error
	}))
}

func (g *Gorm) GetApplicant(ctx context.Context, id uuid.UUID) (*models.Applicant, error) {
	var a models.Applicant
	if err := g.db.WithContext(ctx).First(&a, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (g *Gorm) FindApplicantByEmail(ctx context.Context, email string) (*models.Applicant, error) {
	var a models.Applicant
	if err := g.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (g *Gorm) FindApplicantByMobile(ctx context.Context, mobile string) (*models.Applicant, error) {
	var a models.Applicant
	if err := g.db.WithContext(ctx).Where("mobile = ?", mobile).Order("created_at ASC").First(&a).Error; err != nil {
		return nil, translate(err)
	}
	return &a, nil
}

func (g *Gorm) ListApplicants(ctx context.Context, f ApplicantFilter) ([]models.Applicant, int64, error) {
	q := g.db.WithContext(ctx).Model(&models.Applicant{})
	if len(f.Statuses) > 0 {
		q = q.Where("status IN ?", f.Statuses)
	}
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(team_name) LIKE ? OR registration_code = ?",
			like, like, like, strings.ToUpper(f.Search))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count applicants: %w", err)
	}

	var list []models.Applicant
	q = q.Order("created_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("list applicants: %w", err)
	}
	return list, total, nil
}

func (g *Gorm) UpdateApplicant(ctx context.Context, a *models.Applicant) error {
	res := g.db.WithContext(ctx).Model(a).Select(
		"email", "mobile", "full_name", "organization", "city", "team_name",
		"team_size", "github_profile", "linkedin_profile", "status",
	).Updates(a)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) UpdateApplicantStatus(ctx context.Context, ids []uuid.UUID, status models.ApplicantStatus, progress models.ApplicationProgress) (int64, error) {
	var affected int64
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Applicant{}).Where("id IN ?", ids).Update("status", status)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected

		var existing []uuid.UUID
		if err := tx.Model(&models.Applicant{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
			return err
		}
		if len(existing) == 0 {
			return nil
		}
		rows := make([]models.ApplicationProgress, 0, len(existing))
		for _, id := range existing {
			p := progress
			p.ApplicantID = id
			rows = append(rows, p)
		}
		return tx.Create(&rows).Error
	})
	return affected, err
}

func (g *Gorm) DeleteApplicant(ctx context.Context, id uuid.UUID) error {
	return translate(g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []interface{}{
			&models.ApplicantSession{},
			&models.StageSubmission{},
			&models.ApplicationProgress{},
			&models.Payment{},
		} {
			if err := tx.Where("applicant_id = ?", id).Delete(child).Error; err != nil {
				return fmt.Errorf("delete %T: %w", child, err)
			}
		}
		res := tx.Delete(&models.Applicant{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}

func (g *Gorm) CountApplicantsByStatus(ctx context.Context) (map[models.ApplicantStatus]int64, error) {
	var rows []struct {
		Status models.ApplicantStatus
		Count  int64
	}
	if err := g.db.WithContext(ctx).Model(&models.Applicant{}).
		Select("status, COUNT(*) AS count").Group("status").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	counts := make(map[models.ApplicantStatus]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// --- OTP ---

func (g *Gorm) CreateOTP(ctx context.Context, otp *models.OTPVerification) error {
	return translate(g.db.WithContext(ctx).Create(otp).Error)
}

func (g *Gorm) LiveOTPs(ctx context.Context, identifier string, purpose models.OTPPurpose, now time.Time) ([]models.OTPVerification, error) {
	var otps []models.OTPVerification
	err := g.db.WithContext(ctx).
		Where("identifier = ? AND purpose = ? AND verified = false AND expires_at >= ?", identifier, purpose, now).
		Order("created_at DESC").
		Find(&otps).Error
	return otps, err
}

func (g *Gorm) IncrementOTPAttempts(ctx context.Context, id uuid.UUID, max int) (bool, error) {
	res := g.db.WithContext(ctx).Model(&models.OTPVerification{}).
		Where("id = ? AND attempts < ?", id, max).
		Update("attempts", gorm.Expr("attempts + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (g *Gorm) MarkOTPVerified(ctx context.Context, id uuid.UUID, at time.Time, max int) (bool, error) {
	res := g.db.WithContext(ctx).Model(&models.OTPVerification{}).
		Where("id = ? AND verified = false AND attempts < ?", id, max).
		Updates(map[string]interface{}{"verified": true, "verified_at": at})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (g *Gorm) DeleteExpiredOTPs(ctx context.Context, now time.Time) (int64, error) {
	res := g.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.OTPVerification{})
	return res.RowsAffected, res.Error
}

// --- Sessions ---

func (g *Gorm) CreateSession(ctx context.Context, s *models.ApplicantSession) error {
	return translate(g.db.WithContext(ctx).Omit("Applicant").Create(s).Error)
}

func (g *Gorm) FindSession(ctx context.Context, tokenHash string) (*models.ApplicantSession, error) {
	var s models.ApplicantSession
	if err := g.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (g *Gorm) TouchSession(ctx context.Context, id uuid.UUID, at time.Time) error {
	return g.db.WithContext(ctx).Model(&models.ApplicantSession{}).
		Where("id = ?", id).Update("last_activity", at).Error
}

func (g *Gorm) DeleteSession(ctx context.Context, tokenHash string) error {
	return g.db.WithContext(ctx).Where("token_hash = ?", tokenHash).Delete(&models.ApplicantSession{}).Error
}

func (g *Gorm) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res := g.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.ApplicantSession{})
	return res.RowsAffected, res.Error
}

// --- Rounds ---

func (g *Gorm) CreateRound(ctx context.Context, r *models.CompetitionRound) error {
	return translate(g.db.WithContext(ctx).Create(r).Error)
}

func (g *Gorm) GetRound(ctx context.Context, id uuid.UUID) (*models.CompetitionRound, error) {
	var r models.CompetitionRound
	if err := g.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &r, nil
}

func (g *Gorm) ListRounds(ctx context.Context) ([]models.CompetitionRound, error) {
	var rounds []models.CompetitionRound
	if err := g.db.WithContext(ctx).Order("start_time ASC NULLS LAST, name ASC").Find(&rounds).Error; err != nil {
		return nil, fmt.Errorf("list rounds: %w", err)
	}
	return rounds, nil
}

func (g *Gorm) UpdateRound(ctx context.Context, r *models.CompetitionRound) error {
	res := g.db.WithContext(ctx).Model(r).
		Select("name", "description", "status", "start_time", "end_time", "requirements").
		Updates(r)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (g *Gorm) DeleteRound(ctx context.Context, id uuid.UUID) error {
	return translate(g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("stage_id = ?", id).Delete(&models.StageSubmission{}).Error; err != nil {
			return fmt.Errorf("delete round submissions: %w", err)
		}
		res := tx.Delete(&models.CompetitionRound{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	}))
}

// --- Submissions ---

func (g *Gorm) RecordSubmission(ctx context.Context, w SubmissionWrite) (*models.StageSubmission, error) {
	sub := w.Submission
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit("Applicant", "Stage").Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "applicant_id"}, {Name: "stage_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"github_url", "demo_url", "notes", "documents", "status", "submitted_at", "updated_at",
			}),
		}).Create(&sub).Error
		if err != nil {
			return err
		}

		if err := tx.Create(&w.Progress).Error; err != nil {
			return err
		}

		if w.AdvanceFrom != "" && w.AdvanceTo != "" {
			if err := tx.Model(&models.Applicant{}).
				Where("id = ? AND status = ?", sub.ApplicantID, w.AdvanceFrom).
				Update("status", w.AdvanceTo).Error; err != nil {
				return err
			}
		}

		return tx.Where("applicant_id = ? AND stage_id = ?", sub.ApplicantID, sub.StageID).First(&sub).Error
	})
	if err != nil {
		return nil, translate(err)
	}
	return &sub, nil
}

func (g *Gorm) GetSubmission(ctx context.Context, id uuid.UUID) (*models.StageSubmission, error) {
	var s models.StageSubmission
	if err := g.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (g *Gorm) ListSubmissionsByApplicant(ctx context.Context, applicantID uuid.UUID) ([]models.StageSubmission, error) {
	var subs []models.StageSubmission
	if err := g.db.WithContext(ctx).Where("applicant_id = ?", applicantID).
		Order("submitted_at DESC").Find(&subs).Error; err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

func (g *Gorm) ListSubmissions(ctx context.Context, f SubmissionFilter) ([]models.StageSubmission, int64, error) {
	q := g.db.WithContext(ctx).Model(&models.StageSubmission{})
	if f.StageID != nil {
		q = q.Where("stage_id = ?", *f.StageID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count submissions: %w", err)
	}

	var subs []models.StageSubmission
	q = q.Order("submitted_at DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	if err := q.Find(&subs).Error; err != nil {
		return nil, 0, fmt.Errorf("list submissions: %w", err)
	}
	return subs, total, nil
}

func (g *Gorm) ReviewSubmission(ctx context.Context, id uuid.UUID, r Review) (*models.StageSubmission, error) {
	res := g.db.WithContext(ctx).Model(&models.StageSubmission{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      r.Status,
			"score":       r.Score,
			"feedback":    r.Feedback,
			"reviewer_id": r.ReviewerID,
			"reviewed_at": r.ReviewedAt,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return g.GetSubmission(ctx, id)
}

func (g *Gorm) AppendProgress(ctx context.Context, p *models.ApplicationProgress) error {
	return g.db.WithContext(ctx).Create(p).Error
}

func (g *Gorm) ListProgress(ctx context.Context, applicantID uuid.UUID) ([]models.ApplicationProgress, error) {
	var list []models.ApplicationProgress
	if err := g.db.WithContext(ctx).Where("applicant_id = ?", applicantID).
		Order("created_at ASC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list progress: %w", err)
	}
	return list, nil
}

// --- Settings ---

func (g *Gorm) GetSettings(ctx context.Context, group string) (map[string]string, error) {
	var rows []models.Setting
	if err := g.db.WithContext(ctx).Where("setting_group = ?", group).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("get settings: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

func (g *Gorm) PutSettings(ctx context.Context, group string, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	rows := make([]models.Setting, 0, len(values))
	for k, v := range values {
		rows = append(rows, models.Setting{Group: group, Key: k, Value: v})
	}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "setting_group"}, {Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&rows).Error
}

// --- Payments ---

func (g *Gorm) CreatePayment(ctx context.Context, p *models.Payment) error {
	return translate(g.db.WithContext(ctx).Omit("Applicant").Create(p).Error)
}

func (g *Gorm) GetPaymentByInvoice(ctx context.Context, invoice string) (*models.Payment, error) {
	var p models.Payment
	if err := g.db.WithContext(ctx).Where("invoice = ?", invoice).First(&p).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (g *Gorm) MarkPayment(ctx context.Context, invoice string, status models.PaymentStatus, at time.Time, progress models.ApplicationProgress) (bool, error) {
	changed := false
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{"status": status}
		if status == models.PaymentPaid {
			updates["paid_at"] = at
		}
		res := tx.Model(&models.Payment{}).
			Where("invoice = ? AND status = ?", invoice, models.PaymentPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return tx.Create(&progress).Error
	})
	return changed, err
}

// --- Staff ---

func (g *Gorm) CreateStaff(ctx context.Context, s *models.StaffUser) error {
	return translate(g.db.WithContext(ctx).Create(s).Error)
}

func (g *Gorm) FindStaffByEmail(ctx context.Context, email string) (*models.StaffUser, error) {
	var s models.StaffUser
	if err := g.db.WithContext(ctx).Where("LOWER(email) = ?", strings.ToLower(email)).First(&s).Error; err != nil {
		return nil, translate(err)
	}
	return &s, nil
}

func (g *Gorm) CountStaff(ctx context.Context) (int64, error) {
	var n int64
	err := g.db.WithContext(ctx).Model(&models.StaffUser{}).Count(&n).Error
	return n, err
}
