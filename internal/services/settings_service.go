package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/kirankshetty/Hackathon-sub000/internal/cache"
	"github.com/kirankshetty/Hackathon-sub000/internal/notify"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
)

const EmailSettingsGroup = "email"

// Editable e-mail settings.
var emailSettingKeys = map[string]bool{
	"from_name":             true,
	"reply_to":              true,
	"signature":             true,
	"notifications_enabled": true,
}

type SettingsService struct {
	repo  repository.Repository
	cache *cache.TTLCache[map[string]string]
}

func NewSettingsService(repo repository.Repository, ttl time.Duration, now Clock) *SettingsService {
	if now == nil {
		now = systemClock
	}
	return &SettingsService{
		repo:  repo,
		cache: cache.New[map[string]string]("settings", ttl, now),
	}
}

func (s *SettingsService) EmailSettings(ctx context.Context) (map[string]string, error) {
	return s.cache.GetOrLoad(EmailSettingsGroup, func() (map[string]string, error) {
		return s.repo.GetSettings(ctx, EmailSettingsGroup)
	})
}

func (s *SettingsService) UpdateEmailSettings(ctx context.Context, values map[string]string) (map[string]string, error) {
	var unknown []string
	for k := range values {
		if !emailSettingKeys[k] {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, fmt.Errorf("%w: unknown settings %s", ErrInvalidInput, strings.Join(unknown, ", "))
	}
	if v, ok := values["notifications_enabled"]; ok && v != "true" && v != "false" {
		return nil, fmt.Errorf("%w: notifications_enabled must be true or false", ErrInvalidInput)
	}

	if err := s.repo.PutSettings(ctx, EmailSettingsGroup, values); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}
	s.cache.Invalidate(EmailSettingsGroup)
	return s.EmailSettings(ctx)
}

// BrandedNotifier applies the admin e-mail settings to every outgoing message.
type BrandedNotifier struct {
	next     notify.Notifier
	settings *SettingsService
}

func NewBrandedNotifier(next notify.Notifier, settings *SettingsService) *BrandedNotifier {
	return &BrandedNotifier{next: next, settings: settings}
}

func (b *BrandedNotifier) Send(ctx context.Context, msg notify.Message) error {
	values, err := b.settings.EmailSettings(ctx)
	if err == nil {
		if msg.FromName == "" {
			msg.FromName = values["from_name"]
		}
		if msg.ReplyTo == "" {
			msg.ReplyTo = values["reply_to"]
		}
		if sig := values["signature"]; sig != "" {
			msg.Body = strings.TrimRight(msg.Body, "\n") + "\n\n" + sig + "\n"
		}
	}
	return b.next.Send(ctx, msg)
}
