package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/config"
	"github.com/kirankshetty/Hackathon-sub000/internal/dto"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/notify"
	"github.com/kirankshetty/Hackathon-sub000/internal/payments"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
	"github.com/kirankshetty/Hackathon-sub000/internal/services"
)

const (
	testJWTSecret     = "test-jwt-secret"
	testPaymentSecret = "test-payment-secret"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type outbox struct {
	mu   sync.Mutex
	sent []notify.Message
}

func (o *outbox) Send(_ context.Context, msg notify.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

func (o *outbox) lastCode(t *testing.T) string {
	t.Helper()
	o.mu.Lock()
	defer o.mu.Unlock()
	const marker = "verification code is "
	for i := len(o.sent) - 1; i >= 0; i-- {
		body := o.sent[i].Body
		if idx := strings.Index(body, marker); idx >= 0 && len(body) >= idx+len(marker)+6 {
			return body[idx+len(marker) : idx+len(marker)+6]
		}
	}
	t.Fatalf("no OTP e-mail sent")
	return ""
}

type harness struct {
	t     *testing.T
	clock *fakeClock
	repo  *repository.Memory
	mail  *outbox
	cfg   *config.Config
	srv   *Server
}

// newHarness starts from the wall clock so staff JWT expiry checks,
// which use real time, still pass.
func newHarness(t *testing.T) *harness {
	t.Helper()
	clock := &fakeClock{t: time.Now().UTC().Truncate(time.Second)}
	repo := repository.NewMemoryWithClock(clock.Now)
	mail := &outbox{}
	cfg := &config.Config{
		StorageDriver:   "memory",
		JWTSecret:       testJWTSecret,
		JWTAccessExpiry: time.Hour,
		OTPTTL:          10 * time.Minute,
		OTPMaxAttempts:  3,
		SessionTTL:      24 * time.Hour,
		StatsCacheTTL:   time.Minute,
		PaymentAmount:   "499.00",
		PaymentCurrency: "INR",
		CORSOrigins:     "*",
	}
	srv := New(cfg, Deps{
		Repo:     repo,
		Mailer:   mail,
		Payments: payments.NewHMACProvider(testPaymentSecret, "http://pay.local"),
		Clock:    clock.Now,
	})
	return &harness{t: t, clock: clock, repo: repo, mail: mail, cfg: cfg, srv: srv}
}

// do sends a request and decodes a JSON response into out when out is non-nil.
func (h *harness) do(method, path string, body interface{}, token string, out interface{}) int {
	h.t.Helper()
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case []byte:
			reader = bytes.NewReader(b)
		default:
			raw, err := json.Marshal(body)
			if err != nil {
				h.t.Fatalf("marshal body: %v", err)
			}
			reader = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return h.send(req, out)
}

func (h *harness) send(req *http.Request, out interface{}) int {
	h.t.Helper()
	resp, err := h.srv.App.Test(req, -1)
	if err != nil {
		h.t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	if out != nil {
		raw, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(raw, out); err != nil {
			h.t.Fatalf("%s %s: decode %q: %v", req.Method, req.URL.Path, raw, err)
		}
	}
	return resp.StatusCode
}

func (h *harness) register(email string) *models.Applicant {
	h.t.Helper()
	var a models.Applicant
	status := h.do(http.MethodPost, "/api/applicant/register", dto.RegisterApplicantRequest{
		Email:    email,
		FullName: "Test Applicant",
		TeamName: "Team " + email[:3],
	}, "", &a)
	if status != http.StatusCreated {
		h.t.Fatalf("register %s: status %d", email, status)
	}
	return &a
}

// login runs send-otp and verify-otp and returns the session token.
func (h *harness) login(email string) string {
	h.t.Helper()
	var sent dto.OTPResponse
	if status := h.do(http.MethodPost, "/api/applicant/send-otp", dto.SendOTPRequest{Identifier: email}, "", &sent); status != http.StatusOK || !sent.Success {
		h.t.Fatalf("send-otp: status %d %+v", status, sent)
	}
	var verified dto.VerifyOTPResponse
	status := h.do(http.MethodPost, "/api/applicant/verify-otp", dto.VerifyOTPRequest{
		Identifier: email,
		OTP:        h.mail.lastCode(h.t),
	}, "", &verified)
	if status != http.StatusOK || !verified.Success || verified.SessionToken == "" {
		h.t.Fatalf("verify-otp: status %d %+v", status, verified)
	}
	return verified.SessionToken
}

// staffToken creates a staff account directly and logs in over HTTP.
func (h *harness) staffToken(email string, role models.StaffRole) string {
	h.t.Helper()
	auth := services.NewStaffAuthService(h.repo, testJWTSecret, time.Hour, nil)
	if _, err := auth.CreateStaff(context.Background(), email, "correct-horse", "Staff", role); err != nil {
		h.t.Fatalf("create staff: %v", err)
	}
	var resp services.StaffLogin
	status := h.do(http.MethodPost, "/api/staff/login", dto.StaffLoginRequest{Email: email, Password: "correct-horse"}, "", &resp)
	if status != http.StatusOK || resp.AccessToken == "" {
		h.t.Fatalf("staff login: status %d", status)
	}
	return resp.AccessToken
}

func (h *harness) createRound(adminToken, name string, start, end *time.Time) *models.CompetitionRound {
	h.t.Helper()
	var r models.CompetitionRound
	status := h.do(http.MethodPost, "/api/admin/rounds", dto.RoundRequest{
		Name:      name,
		Status:    models.RoundActive,
		StartTime: start,
		EndTime:   end,
	}, adminToken, &r)
	if status != http.StatusCreated {
		h.t.Fatalf("create round %s: status %d", name, status)
	}
	return &r
}

func (h *harness) setStatus(adminToken string, id uuid.UUID, status models.ApplicantStatus) {
	h.t.Helper()
	var resp dto.BulkStatusResponse
	code := h.do(http.MethodPut, "/api/admin/applicants/status", dto.BulkStatusRequest{
		ApplicantIDs: []string{id.String()},
		Status:       status,
	}, adminToken, &resp)
	if code != http.StatusOK || resp.Updated != 1 {
		h.t.Fatalf("set status: code %d updated %d", code, resp.Updated)
	}
}

func ptr[T any](v T) *T { return &v }

func httptestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func httptestRequestBody(method, path string, body []byte) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
