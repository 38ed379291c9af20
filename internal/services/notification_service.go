package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/notify"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
)

var ErrNotificationsDisabled = fmt.Errorf("%w: notifications are disabled in e-mail settings", ErrInvalidInput)

type DispatchResult struct {
	Matched int `json:"matched"`
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
}

// NotificationService sends admin-authored messages to applicants by status.
type NotificationService struct {
	repo     repository.Repository
	mailer   notify.Notifier
	settings *SettingsService
}

func NewNotificationService(repo repository.Repository, mailer notify.Notifier, settings *SettingsService) *NotificationService {
	return &NotificationService{repo: repo, mailer: mailer, settings: settings}
}

func (s *NotificationService) Dispatch(ctx context.Context, statuses []models.ApplicantStatus, subject, body string) (*DispatchResult, error) {
	if strings.TrimSpace(subject) == "" || strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: subject and body are required", ErrInvalidInput)
	}
	for _, st := range statuses {
		if !st.Valid() {
			return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, st)
		}
	}
	if values, err := s.settings.EmailSettings(ctx); err == nil && values["notifications_enabled"] == "false" {
		return nil, ErrNotificationsDisabled
	}

	applicants, _, err := s.repo.ListApplicants(ctx, repository.ApplicantFilter{Statuses: statuses})
	if err != nil {
		return nil, fmt.Errorf("failed to load recipients: %w", err)
	}

	res := &DispatchResult{Matched: len(applicants)}
	for _, a := range applicants {
		if err := s.mailer.Send(ctx, notify.StatusMessage(a.Email, a.FullName, subject, body)); err != nil {
			res.Failed++
			slog.Error("notification failed", "applicant_id", a.ID, "error", err)
			continue
		}
		res.Sent++
	}
	slog.Info("notifications dispatched", "matched", res.Matched, "sent", res.Sent, "failed", res.Failed)
	return res, nil
}
