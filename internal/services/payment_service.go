package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/payments"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
)

type Checkout struct {
	Invoice  string `json:"invoice"`
	PayURL   string `json:"pay_url"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

type PaymentService struct {
	repo     repository.Repository
	provider payments.Provider
	amount   string
	currency string
	now      Clock
}

func NewPaymentService(repo repository.Repository, provider payments.Provider, amount, currency string, now Clock) *PaymentService {
	if now == nil {
		now = systemClock
	}
	return &PaymentService{repo: repo, provider: provider, amount: amount, currency: currency, now: now}
}

// Checkout opens a pending payment for the registration fee.
func (s *PaymentService) Checkout(ctx context.Context, applicantID uuid.UUID) (*Checkout, error) {
	invoice := payments.NewInvoice(s.now())
	payURL, err := s.provider.CreatePayment(ctx, invoice, s.amount, s.currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}

	p := &models.Payment{
		ID:          uuid.New(),
		ApplicantID: applicantID,
		Invoice:     invoice,
		Provider:    s.provider.Name(),
		Amount:      s.amount,
		Currency:    s.currency,
		Status:      models.PaymentPending,
	}
	if err := s.repo.CreatePayment(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	slog.Info("checkout created", "applicant_id", applicantID, "invoice", invoice)
	return &Checkout{Invoice: invoice, PayURL: payURL, Amount: s.amount, Currency: s.currency}, nil
}

// HandleWebhook applies a signed provider callback. Replays of an already
// settled invoice are acknowledged without changes.
func (s *PaymentService) HandleWebhook(ctx context.Context, body []byte, signature string) (*models.Payment, bool, error) {
	ev, err := s.provider.ParseWebhook(ctx, body, signature)
	if err != nil {
		return nil, false, err
	}

	p, err := s.repo.GetPaymentByInvoice(ctx, ev.Invoice)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, false, ErrPaymentNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to load payment: %w", err)
	}

	status := models.PaymentPaid
	if ev.Status == "cancelled" {
		status = models.PaymentCancelled
	}
	changed, err := s.repo.MarkPayment(ctx, ev.Invoice, status, s.now(), models.ApplicationProgress{
		ID:          uuid.New(),
		ApplicantID: p.ApplicantID,
		StageName:   "Payment",
		Status:      string(status),
		Description: fmt.Sprintf("Registration fee %s (invoice %s)", status, ev.Invoice),
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to update payment: %w", err)
	}
	if changed {
		p.Status = status
		slog.Info("payment settled", "applicant_id", p.ApplicantID, "invoice", ev.Invoice, "status", status)
	}
	return p, changed, nil
}
