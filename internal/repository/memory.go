package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
)

// Memory is a mutex-guarded Repository. Every method returns copies so callers
// never share state with the store.
type Memory struct {
	mu  sync.RWMutex
	now func() time.Time

	applicants  map[uuid.UUID]*models.Applicant
	otps        []*models.OTPVerification
	sessions    map[string]*models.ApplicantSession
	rounds      map[uuid.UUID]*models.CompetitionRound
	submissions map[uuid.UUID]*models.StageSubmission
	progress    []*models.ApplicationProgress
	settings    map[string]map[string]string
	payments    map[string]*models.Payment
	staff       map[uuid.UUID]*models.StaffUser
}

func NewMemory() *Memory {
	return NewMemoryWithClock(func() time.Time { return time.Now().UTC() })
}

// NewMemoryWithClock stamps CreatedAt/UpdatedAt from now.
func NewMemoryWithClock(now func() time.Time) *Memory {
	return &Memory{
		now:         now,
		applicants:  make(map[uuid.UUID]*models.Applicant),
		sessions:    make(map[string]*models.ApplicantSession),
		rounds:      make(map[uuid.UUID]*models.CompetitionRound),
		submissions: make(map[uuid.UUID]*models.StageSubmission),
		settings:    make(map[string]map[string]string),
		payments:    make(map[string]*models.Payment),
		staff:       make(map[uuid.UUID]*models.StaffUser),
	}
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// --- Applicants ---

func (m *Memory) CreateApplicant(_ context.Context, a *models.Applicant, progress *models.ApplicationProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.applicants {
		if strings.EqualFold(existing.Email, a.Email) || existing.RegistrationCode == a.RegistrationCode {
			return ErrDuplicate
		}
	}
	ensureID(&a.ID)
	now := m.now()
	a.CreatedAt, a.UpdatedAt = now, now
	if a.Status == "" {
		a.Status = models.StatusRegistered
	}
	stored := *a
	m.applicants[a.ID] = &stored

	if progress != nil {
		progress.ApplicantID = a.ID
		m.appendProgressLocked(progress)
	}
	return nil
}

func (m *Memory) GetApplicant(_ context.Context, id uuid.UUID) (*models.Applicant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	a, ok := m.applicants[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *Memory) FindApplicantByEmail(_ context.Context, email string) (*models.Applicant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, a := range m.applicants {
		if strings.EqualFold(a.Email, email) {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) FindApplicantByMobile(_ context.Context, mobile string) (*models.Applicant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var found *models.Applicant
	for _, a := range m.applicants {
		if a.Mobile == mobile && (found == nil || a.CreatedAt.Before(found.CreatedAt)) {
			found = a
		}
	}
	if found == nil {
		return nil, ErrNotFound
	}
	cp := *found
	return &cp, nil
}

func (m *Memory) ListApplicants(_ context.Context, f ApplicantFilter) ([]models.Applicant, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	wanted := make(map[models.ApplicantStatus]bool, len(f.Statuses))
	for _, s := range f.Statuses {
		wanted[s] = true
	}
	search := strings.ToLower(f.Search)

	list := make([]models.Applicant, 0, len(m.applicants))
	for _, a := range m.applicants {
		if len(wanted) > 0 && !wanted[a.Status] {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(a.FullName), search) &&
			!strings.Contains(strings.ToLower(a.Email), search) &&
			!strings.Contains(strings.ToLower(a.TeamName), search) &&
			!strings.EqualFold(a.RegistrationCode, f.Search) {
			continue
		}
		list = append(list, *a)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })

	total := int64(len(list))
	return paginate(list, f.Limit, f.Offset), total, nil
}

func paginate[T any](list []T, limit, offset int) []T {
	if limit <= 0 {
		return list
	}
	if offset >= len(list) {
		return []T{}
	}
	end := offset + limit
	if end > len(list) {
		end = len(list)
	}
	return list[offset:end]
}

func (m *Memory) UpdateApplicant(_ context.Context, a *models.Applicant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.applicants[a.ID]
	if !ok {
		return ErrNotFound
	}
	for id, other := range m.applicants {
		if id != a.ID && strings.EqualFold(other.Email, a.Email) {
			return ErrDuplicate
		}
	}
	updated := *a
	updated.RegistrationCode = existing.RegistrationCode
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = m.now()
	m.applicants[a.ID] = &updated
	return nil
}

func (m *Memory) UpdateApplicantStatus(_ context.Context, ids []uuid.UUID, status models.ApplicantStatus, progress models.ApplicationProgress) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var affected int64
	for _, id := range ids {
		a, ok := m.applicants[id]
		if !ok {
			continue
		}
		a.Status = status
		a.UpdatedAt = m.now()
		affected++
		p := progress
		p.ID = uuid.Nil
		p.ApplicantID = id
		m.appendProgressLocked(&p)
	}
	return affected, nil
}

func (m *Memory) DeleteApplicant(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.applicants[id]; !ok {
		return ErrNotFound
	}
	delete(m.applicants, id)
	for hash, s := range m.sessions {
		if s.ApplicantID == id {
			delete(m.sessions, hash)
		}
	}
	for sid, s := range m.submissions {
		if s.ApplicantID == id {
			delete(m.submissions, sid)
		}
	}
	for inv, p := range m.payments {
		if p.ApplicantID == id {
			delete(m.payments, inv)
		}
	}
	kept := m.progress[:0]
	for _, p := range m.progress {
		if p.ApplicantID != id {
			kept = append(kept, p)
		}
	}
	m.progress = kept
	return nil
}

func (m *Memory) CountApplicantsByStatus(_ context.Context) (map[models.ApplicantStatus]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[models.ApplicantStatus]int64)
	for _, a := range m.applicants {
		counts[a.Status]++
	}
	return counts, nil
}

// --- OTP ---

func (m *Memory) CreateOTP(_ context.Context, otp *models.OTPVerification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ensureID(&otp.ID)
	otp.CreatedAt = m.now()
	stored := *otp
	m.otps = append(m.otps, &stored)
	return nil
}

func (m *Memory) LiveOTPs(_ context.Context, identifier string, purpose models.OTPPurpose, now time.Time) ([]models.OTPVerification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []models.OTPVerification
	for i := len(m.otps) - 1; i >= 0; i-- {
		o := m.otps[i]
		if o.Identifier == identifier && o.Purpose == purpose && !o.Verified && !now.After(o.ExpiresAt) {
			out = append(out, *o)
		}
	}
	return out, nil
}

func (m *Memory) findOTPLocked(id uuid.UUID) *models.OTPVerification {
	for _, o := range m.otps {
		if o.ID == id {
			return o
		}
	}
	return nil
}

func (m *Memory) IncrementOTPAttempts(_ context.Context, id uuid.UUID, max int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.findOTPLocked(id)
	if o == nil || o.Attempts >= max {
		return false, nil
	}
	o.Attempts++
	return true, nil
}

func (m *Memory) MarkOTPVerified(_ context.Context, id uuid.UUID, at time.Time, max int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o := m.findOTPLocked(id)
	if o == nil || o.Verified || o.Attempts >= max {
		return false, nil
	}
	o.Verified = true
	o.VerifiedAt = &at
	return true, nil
}

func (m *Memory) DeleteExpiredOTPs(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.otps[:0]
	var n int64
	for _, o := range m.otps {
		if o.ExpiresAt.Before(now) {
			n++
			continue
		}
		kept = append(kept, o)
	}
	m.otps = kept
	return n, nil
}

// --- Sessions ---

func (m *Memory) CreateSession(_ context.Context, s *models.ApplicantSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.TokenHash]; ok {
		return ErrDuplicate
	}
	ensureID(&s.ID)
	s.CreatedAt = m.now()
	stored := *s
	m.sessions[s.TokenHash] = &stored
	return nil
}

func (m *Memory) FindSession(_ context.Context, tokenHash string) (*models.ApplicantSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[tokenHash]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *Memory) TouchSession(_ context.Context, id uuid.UUID, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.sessions {
		if s.ID == id {
			s.LastActivity = at
			return nil
		}
	}
	return nil
}

func (m *Memory) DeleteSession(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, tokenHash)
	return nil
}

func (m *Memory) DeleteExpiredSessions(_ context.Context, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for hash, s := range m.sessions {
		if s.ExpiresAt.Before(now) {
			delete(m.sessions, hash)
			n++
		}
	}
	return n, nil
}

// --- Rounds ---

func (m *Memory) CreateRound(_ context.Context, r *models.CompetitionRound) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ensureID(&r.ID)
	now := m.now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now
	stored := *r
	m.rounds[r.ID] = &stored
	return nil
}

func (m *Memory) GetRound(_ context.Context, id uuid.UUID) (*models.CompetitionRound, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.rounds[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *Memory) ListRounds(_ context.Context) ([]models.CompetitionRound, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]models.CompetitionRound, 0, len(m.rounds))
	for _, r := range m.rounds {
		list = append(list, *r)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

func (m *Memory) UpdateRound(_ context.Context, r *models.CompetitionRound) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	existing, ok := m.rounds[r.ID]
	if !ok {
		return ErrNotFound
	}
	updated := *r
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = m.now()
	m.rounds[r.ID] = &updated
	return nil
}

func (m *Memory) DeleteRound(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rounds[id]; !ok {
		return ErrNotFound
	}
	delete(m.rounds, id)
	for sid, s := range m.submissions {
		if s.StageID == id {
			delete(m.submissions, sid)
		}
	}
	return nil
}

// --- Submissions ---

func (m *Memory) RecordSubmission(_ context.Context, w SubmissionWrite) (*models.StageSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	a, ok := m.applicants[w.Submission.ApplicantID]
	if !ok {
		return nil, ErrNotFound
	}
	now := m.now()

	var stored *models.StageSubmission
	for _, s := range m.submissions {
		if s.ApplicantID == w.Submission.ApplicantID && s.StageID == w.Submission.StageID {
			stored = s
			break
		}
	}
	if stored == nil {
		sub := w.Submission
		ensureID(&sub.ID)
		sub.CreatedAt = now
		sub.UpdatedAt = now
		stored = &sub
		m.submissions[sub.ID] = stored
	} else {
		stored.GithubURL = w.Submission.GithubURL
		stored.DemoURL = w.Submission.DemoURL
		stored.Notes = w.Submission.Notes
		stored.Documents = w.Submission.Documents
		stored.Status = w.Submission.Status
		stored.SubmittedAt = w.Submission.SubmittedAt
		stored.UpdatedAt = now
	}

	p := w.Progress
	m.appendProgressLocked(&p)

	if w.AdvanceFrom != "" && a.Status == w.AdvanceFrom {
		a.Status = w.AdvanceTo
		a.UpdatedAt = now
	}

	cp := *stored
	return &cp, nil
}

func (m *Memory) GetSubmission(_ context.Context, id uuid.UUID) (*models.StageSubmission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.submissions[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func sortSubmissions(list []models.StageSubmission) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i].SubmittedAt, list[j].SubmittedAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
}

func (m *Memory) ListSubmissionsByApplicant(_ context.Context, applicantID uuid.UUID) ([]models.StageSubmission, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]models.StageSubmission, 0)
	for _, s := range m.submissions {
		if s.ApplicantID == applicantID {
			list = append(list, *s)
		}
	}
	sortSubmissions(list)
	return list, nil
}

func (m *Memory) ListSubmissions(_ context.Context, f SubmissionFilter) ([]models.StageSubmission, int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]models.StageSubmission, 0, len(m.submissions))
	for _, s := range m.submissions {
		if f.StageID != nil && s.StageID != *f.StageID {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		list = append(list, *s)
	}
	sortSubmissions(list)
	total := int64(len(list))
	return paginate(list, f.Limit, f.Offset), total, nil
}

func (m *Memory) ReviewSubmission(_ context.Context, id uuid.UUID, r Review) (*models.StageSubmission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.submissions[id]
	if !ok {
		return nil, ErrNotFound
	}
	reviewer := r.ReviewerID
	reviewedAt := r.ReviewedAt
	s.Status = r.Status
	s.Score = r.Score
	s.Feedback = r.Feedback
	s.ReviewerID = &reviewer
	s.ReviewedAt = &reviewedAt
	s.UpdatedAt = m.now()
	cp := *s
	return &cp, nil
}

func (m *Memory) appendProgressLocked(p *models.ApplicationProgress) {
	ensureID(&p.ID)
	p.CreatedAt = m.now()
	stored := *p
	m.progress = append(m.progress, &stored)
}

func (m *Memory) AppendProgress(_ context.Context, p *models.ApplicationProgress) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.appendProgressLocked(p)
	return nil
}

func (m *Memory) ListProgress(_ context.Context, applicantID uuid.UUID) ([]models.ApplicationProgress, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]models.ApplicationProgress, 0)
	for _, p := range m.progress {
		if p.ApplicantID == applicantID {
			list = append(list, *p)
		}
	}
	return list, nil
}

// --- Settings ---

func (m *Memory) GetSettings(_ context.Context, group string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.settings[group]))
	for k, v := range m.settings[group] {
		out[k] = v
	}
	return out, nil
}

func (m *Memory) PutSettings(_ context.Context, group string, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.settings[group] == nil {
		m.settings[group] = make(map[string]string, len(values))
	}
	for k, v := range values {
		m.settings[group][k] = v
	}
	return nil
}

// --- Payments ---

func (m *Memory) CreatePayment(_ context.Context, p *models.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.payments[p.Invoice]; ok {
		return ErrDuplicate
	}
	ensureID(&p.ID)
	now := m.now()
	p.CreatedAt, p.UpdatedAt = now, now
	stored := *p
	m.payments[p.Invoice] = &stored
	return nil
}

func (m *Memory) GetPaymentByInvoice(_ context.Context, invoice string) (*models.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.payments[invoice]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *Memory) MarkPayment(_ context.Context, invoice string, status models.PaymentStatus, at time.Time, progress models.ApplicationProgress) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[invoice]
	if !ok || p.Status != models.PaymentPending {
		return false, nil
	}
	p.Status = status
	p.UpdatedAt = m.now()
	if status == models.PaymentPaid {
		paidAt := at
		p.PaidAt = &paidAt
	}
	m.appendProgressLocked(&progress)
	return true, nil
}

// --- Staff ---

func (m *Memory) CreateStaff(_ context.Context, s *models.StaffUser) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.staff {
		if strings.EqualFold(existing.Email, s.Email) {
			return ErrDuplicate
		}
	}
	ensureID(&s.ID)
	now := m.now()
	s.CreatedAt, s.UpdatedAt = now, now
	stored := *s
	m.staff[s.ID] = &stored
	return nil
}

func (m *Memory) FindStaffByEmail(_ context.Context, email string) (*models.StaffUser, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.staff {
		if strings.EqualFold(s.Email, email) {
			cp := *s
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) CountStaff(_ context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.staff)), nil
}

var (
	_ Repository = (*Memory)(nil)
	_ Repository = (*Gorm)(nil)
)
