// Package payments abstracts the checkout gateway behind Provider.
package payments

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrBadPayload       = errors.New("malformed webhook payload")
	ErrUnknownProvider  = errors.New("unknown payment provider")
)

// WebhookEvent is the provider-independent outcome of a webhook call.
type WebhookEvent struct {
	Invoice string
	Status  string // paid, cancelled
}

type Provider interface {
	Name() string
	// CreatePayment returns the URL the applicant pays at for invoice.
	CreatePayment(ctx context.Context, invoice, amount, currency string) (payURL string, err error)
	// ParseWebhook validates the signature and decodes the event.
	ParseWebhook(ctx context.Context, body []byte, signature string) (*WebhookEvent, error)
}

func NewProvider(name, secret, baseURL string) (Provider, error) {
	switch name {
	case "hmac", "stub":
		return NewHMACProvider(secret, baseURL), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
	}
}

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewInvoice returns a monotonic ULID invoice id.
func NewInvoice(t time.Time) string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// HMACProvider is a self-hosted gateway: the pay page posts back a JSON body
// signed with HMAC-SHA256 in the X-Signature header.
type HMACProvider struct {
	secret  string
	baseURL string
}

func NewHMACProvider(secret, baseURL string) *HMACProvider {
	return &HMACProvider{secret: secret, baseURL: strings.TrimRight(baseURL, "/")}
}

func (p *HMACProvider) Name() string { return "hmac" }

func (p *HMACProvider) CreatePayment(_ context.Context, invoice, amount, currency string) (string, error) {
	q := url.Values{}
	q.Set("invoice", invoice)
	q.Set("amount", amount)
	q.Set("currency", currency)
	return p.baseURL + "/pay?" + q.Encode(), nil
}

type webhookPayload struct {
	Invoice string `json:"invoice"`
	Status  string `json:"status"`
}

func (p *HMACProvider) ParseWebhook(_ context.Context, body []byte, signature string) (*WebhookEvent, error) {
	if p.secret == "" || signature == "" {
		return nil, ErrInvalidSignature
	}
	expected := Sign(p.secret, body)
	if !hmac.Equal([]byte(strings.ToLower(signature)), []byte(expected)) {
		return nil, ErrInvalidSignature
	}

	var pl webhookPayload
	if err := json.Unmarshal(body, &pl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadPayload, err)
	}
	if pl.Invoice == "" {
		return nil, ErrBadPayload
	}
	status := strings.ToLower(strings.TrimSpace(pl.Status))
	if status == "" {
		status = "paid"
	}
	if status != "paid" && status != "cancelled" {
		return nil, fmt.Errorf("%w: status %q", ErrBadPayload, pl.Status)
	}
	return &WebhookEvent{Invoice: pl.Invoice, Status: status}, nil
}

// Sign returns the hex HMAC-SHA256 of body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
