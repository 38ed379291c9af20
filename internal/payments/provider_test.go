package payments

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
)

func TestParseWebhook(t *testing.T) {
	p := NewHMACProvider("s3cret", "https://hack.dev/")
	body := []byte(`{"invoice":"01HX","status":"paid"}`)

	ev, err := p.ParseWebhook(context.Background(), body, Sign("s3cret", body))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ev.Invoice != "01HX" || ev.Status != "paid" {
		t.Fatalf("unexpected event %+v", ev)
	}

	if _, err := p.ParseWebhook(context.Background(), body, Sign("other", body)); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}

	bad := []byte(`{"invoice":"01HX","status":"refunded"}`)
	if _, err := p.ParseWebhook(context.Background(), bad, Sign("s3cret", bad)); !errors.Is(err, ErrBadPayload) {
		t.Fatalf("expected ErrBadPayload, got %v", err)
	}
}

func TestCreatePaymentURL(t *testing.T) {
	p := NewHMACProvider("s", "https://hack.dev/")
	u, err := p.CreatePayment(context.Background(), "INV", "499.00", "INR")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !strings.HasPrefix(u, "https://hack.dev/pay?") || !strings.Contains(u, "invoice=INV") {
		t.Fatalf("unexpected url %q", u)
	}
}

func TestNewInvoiceIsMonotonic(t *testing.T) {
	now := time.Now()
	a, b := NewInvoice(now), NewInvoice(now)
	if _, err := ulid.Parse(a); err != nil {
		t.Fatalf("invalid ulid %q: %v", a, err)
	}
	if a >= b {
		t.Fatalf("expected %q < %q", a, b)
	}
}

func TestNewProviderUnknown(t *testing.T) {
	if _, err := NewProvider("paypal", "", ""); !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("expected ErrUnknownProvider, got %v", err)
	}
}
