package server

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/kirankshetty/Hackathon-sub000/internal/dto"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/payments"
	"github.com/kirankshetty/Hackathon-sub000/internal/services"
)

func TestRegisteredApplicantSubmitsToEntryRound(t *testing.T) {
	h := newHarness(t)
	admin := h.staffToken("admin@example.com", models.RoleAdmin)

	applicant := h.register("ria@example.com")
	if applicant.Status != models.StatusRegistered {
		t.Fatalf("expected registered, got %s", applicant.Status)
	}
	roundA := h.createRound(admin, "Round A", nil, nil)
	token := h.login("ria@example.com")

	var dash dto.DashboardResponse
	if status := h.do(http.MethodGet, "/api/applicant/dashboard", nil, token, &dash); status != http.StatusOK {
		t.Fatalf("dashboard: status %d", status)
	}
	if len(dash.ActiveRounds) != 1 || dash.ActiveRounds[0].ID != roundA.ID {
		t.Fatalf("expected Round A only, got %+v", dash.ActiveRounds)
	}
	progressBefore := len(dash.Progress)

	var sub dto.SubmitStageResponse
	status := h.do(http.MethodPost, "/api/applicant/submit-stage", dto.SubmitStageRequest{
		StageID:   roundA.ID.String(),
		GithubURL: "https://github.com/ria/project",
	}, token, &sub)
	if status != http.StatusOK {
		t.Fatalf("submit: status %d", status)
	}
	if sub.Submission.Status != models.SubmissionSubmitted {
		t.Fatalf("submission status = %s", sub.Submission.Status)
	}

	if status := h.do(http.MethodGet, "/api/applicant/dashboard", nil, token, &dash); status != http.StatusOK {
		t.Fatalf("dashboard: status %d", status)
	}
	if dash.CurrentStatus != models.StatusRegistered {
		t.Fatalf("submission alone must not change status, got %s", dash.CurrentStatus)
	}
	if len(dash.Progress) != progressBefore+1 {
		t.Fatalf("expected one new progress entry, got %d -> %d", progressBefore, len(dash.Progress))
	}
}

func TestSelectedApplicantSubmitsToAdvancedRoundUntilDeadline(t *testing.T) {
	h := newHarness(t)
	admin := h.staffToken("admin@example.com", models.RoleAdmin)
	now := h.clock.Now()

	applicant := h.register("sam@example.com")
	roundA := h.createRound(admin, "Round A", ptr(now.Add(-2*time.Hour)), nil)
	roundB := h.createRound(admin, "Round B", ptr(now.Add(-time.Hour)), ptr(now.Add(time.Hour)))
	token := h.login("sam@example.com")

	submitB := func() (int, dto.ErrorResponse) {
		var body dto.ErrorResponse
		code := h.do(http.MethodPost, "/api/applicant/submit-stage", dto.SubmitStageRequest{
			StageID:   roundB.ID.String(),
			GithubURL: "https://github.com/sam/final",
		}, token, &body)
		return code, body
	}

	code, body := submitB()
	if code != http.StatusForbidden || body.Message != "You must be selected for the hackathon first to submit to this stage" {
		t.Fatalf("registered applicant on advanced round: %d %+v", code, body)
	}

	h.setStatus(admin, applicant.ID, models.StatusSelected)

	var dash dto.DashboardResponse
	h.do(http.MethodGet, "/api/applicant/dashboard", nil, token, &dash)
	if len(dash.ActiveRounds) != 2 || dash.ActiveRounds[0].ID != roundA.ID || dash.ActiveRounds[1].ID != roundB.ID {
		t.Fatalf("expected rounds A and B, got %+v", dash.ActiveRounds)
	}
	if !dash.RequiresConfirmation {
		t.Fatalf("selected applicant should be asked to confirm")
	}

	if code, body := submitB(); code != http.StatusOK {
		t.Fatalf("selected applicant on advanced round: %d %+v", code, body)
	}

	h.clock.Advance(time.Hour)
	code, body = submitB()
	if code != http.StatusBadRequest || body.Message != "submission deadline for this stage has passed" {
		t.Fatalf("after end time: %d %+v", code, body)
	}
}

func TestConfirmedApplicantAdvancesToSubmitted(t *testing.T) {
	h := newHarness(t)
	admin := h.staffToken("admin@example.com", models.RoleAdmin)
	applicant := h.register("cam@example.com")
	round := h.createRound(admin, "Round A", nil, nil)
	token := h.login("cam@example.com")

	h.setStatus(admin, applicant.ID, models.StatusSelected)
	var confirmed models.Applicant
	if code := h.do(http.MethodPost, "/api/applicant/confirm", nil, token, &confirmed); code != http.StatusOK || confirmed.Status != models.StatusConfirmed {
		t.Fatalf("confirm: %d %s", code, confirmed.Status)
	}

	for _, url := range []string{"https://github.com/cam/v1", "https://github.com/cam/v2"} {
		if code := h.do(http.MethodPost, "/api/applicant/submit-stage", dto.SubmitStageRequest{StageID: round.ID.String(), GithubURL: url}, token, nil); code != http.StatusOK {
			t.Fatalf("submit %s: %d", url, code)
		}
	}

	var mine dto.SubmissionsResponse
	h.do(http.MethodGet, "/api/applicant/my-submissions", nil, token, &mine)
	if len(mine.Submissions) != 1 || mine.Submissions[0].GithubURL != "https://github.com/cam/v2" {
		t.Fatalf("expected one submission with the second link, got %+v", mine.Submissions)
	}

	var dash dto.DashboardResponse
	h.do(http.MethodGet, "/api/applicant/dashboard", nil, token, &dash)
	if dash.CurrentStatus != models.StatusSubmitted {
		t.Fatalf("confirmed applicant should move to submitted, got %s", dash.CurrentStatus)
	}
}

func TestApplicantRoutesRequireBearer(t *testing.T) {
	h := newHarness(t)
	for _, token := range []string{"", "not-a-session"} {
		var body dto.ErrorResponse
		code := h.do(http.MethodGet, "/api/applicant/dashboard", nil, token, &body)
		if code != http.StatusUnauthorized || !body.Error || body.Message != "Unauthorized" {
			t.Fatalf("token %q: %d %+v", token, code, body)
		}
	}

	req := httptestRequest(http.MethodGet, "/api/applicant/my-submissions")
	req.Header.Set("Authorization", "Token abc")
	if code := h.send(req, nil); code != http.StatusUnauthorized {
		t.Fatalf("malformed scheme: %d", code)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	h := newHarness(t)
	h.register("lou@example.com")
	token := h.login("lou@example.com")

	var msg dto.MessageResponse
	if code := h.do(http.MethodPost, "/api/applicant/logout", nil, token, &msg); code != http.StatusOK {
		t.Fatalf("logout: %d", code)
	}
	if code := h.do(http.MethodGet, "/api/applicant/dashboard", nil, token, nil); code != http.StatusUnauthorized {
		t.Fatalf("dashboard after logout: %d", code)
	}
}

func TestSessionExpiresAfterTTL(t *testing.T) {
	h := newHarness(t)
	h.register("tess@example.com")
	token := h.login("tess@example.com")

	h.clock.Advance(24*time.Hour - time.Second)
	if code := h.do(http.MethodGet, "/api/applicant/dashboard", nil, token, nil); code != http.StatusOK {
		t.Fatalf("just before expiry: %d", code)
	}
	h.clock.Advance(2 * time.Second)
	if code := h.do(http.MethodGet, "/api/applicant/dashboard", nil, token, nil); code != http.StatusUnauthorized {
		t.Fatalf("after expiry: %d", code)
	}
}

func TestOTPEndpoints(t *testing.T) {
	h := newHarness(t)
	h.register("otto@example.com")

	var resp dto.OTPResponse
	if code := h.do(http.MethodPost, "/api/applicant/send-otp", dto.SendOTPRequest{Identifier: "nobody@example.com"}, "", &resp); code != http.StatusNotFound || resp.Success {
		t.Fatalf("unknown identifier: %d %+v", code, resp)
	}

	if code := h.do(http.MethodPost, "/api/applicant/send-otp", dto.SendOTPRequest{Identifier: "OTTO@example.com"}, "", &resp); code != http.StatusOK || !resp.Success {
		t.Fatalf("send-otp: %d %+v", code, resp)
	}
	good := h.mail.lastCode(t)
	wrong := "000000"
	if good == wrong {
		wrong = "111111"
	}

	code := h.do(http.MethodPost, "/api/applicant/verify-otp", dto.VerifyOTPRequest{Identifier: "otto@example.com", OTP: wrong}, "", &resp)
	if code != http.StatusBadRequest || resp.Success {
		t.Fatalf("wrong code: %d %+v", code, resp)
	}

	var ok dto.VerifyOTPResponse
	if code := h.do(http.MethodPost, "/api/applicant/verify-otp", dto.VerifyOTPRequest{Identifier: "otto@example.com", OTP: good}, "", &ok); code != http.StatusOK || !ok.Success {
		t.Fatalf("right code: %d %+v", code, ok)
	}
	if !ok.ExpiresAt.Equal(h.clock.Now().Add(24 * time.Hour)) {
		t.Fatalf("expiresAt = %s", ok.ExpiresAt)
	}

	code = h.do(http.MethodPost, "/api/applicant/verify-otp", dto.VerifyOTPRequest{Identifier: "otto@example.com", OTP: good}, "", &resp)
	if code != http.StatusBadRequest {
		t.Fatalf("reused code: %d", code)
	}

	code = h.do(http.MethodPost, "/api/applicant/verify-otp", dto.VerifyOTPRequest{Identifier: "otto@example.com", OTP: "12"}, "", &resp)
	if code != http.StatusBadRequest || resp.Success {
		t.Fatalf("malformed code: %d %+v", code, resp)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	h := newHarness(t)
	h.register("dup@example.com")

	var body dto.ErrorResponse
	code := h.do(http.MethodPost, "/api/applicant/register", dto.RegisterApplicantRequest{Email: "DUP@example.com", FullName: "Again"}, "", &body)
	if code != http.StatusConflict || body.Message != services.ErrEmailTaken.Error() {
		t.Fatalf("duplicate: %d %+v", code, body)
	}

	code = h.do(http.MethodPost, "/api/applicant/register", dto.RegisterApplicantRequest{Email: "bad", FullName: "X"}, "", &body)
	if code != http.StatusBadRequest {
		t.Fatalf("invalid body: %d", code)
	}
}

func TestStaffRoles(t *testing.T) {
	h := newHarness(t)
	admin := h.staffToken("admin@example.com", models.RoleAdmin)
	jury := h.staffToken("jury@example.com", models.RoleJury)

	if code := h.do(http.MethodGet, "/api/admin/stats", nil, "", nil); code != http.StatusUnauthorized {
		t.Fatalf("no token: %d", code)
	}
	if code := h.do(http.MethodGet, "/api/admin/stats", nil, jury, nil); code != http.StatusForbidden {
		t.Fatalf("jury on admin route: %d", code)
	}
	var stats services.Stats
	if code := h.do(http.MethodGet, "/api/admin/stats", nil, admin, &stats); code != http.StatusOK {
		t.Fatalf("admin stats: %d", code)
	}
	if code := h.do(http.MethodGet, "/api/jury/submissions", nil, jury, nil); code != http.StatusOK {
		t.Fatalf("jury submissions: %d", code)
	}

	var body dto.ErrorResponse
	code := h.do(http.MethodPost, "/api/staff/login", dto.StaffLoginRequest{Email: "admin@example.com", Password: "wrong-password"}, "", &body)
	if code != http.StatusUnauthorized {
		t.Fatalf("bad password: %d", code)
	}
}

func TestJuryReview(t *testing.T) {
	h := newHarness(t)
	admin := h.staffToken("admin@example.com", models.RoleAdmin)
	jury := h.staffToken("jury@example.com", models.RoleJury)
	h.register("rev@example.com")
	round := h.createRound(admin, "Round A", nil, nil)
	token := h.login("rev@example.com")

	var sub dto.SubmitStageResponse
	h.do(http.MethodPost, "/api/applicant/submit-stage", dto.SubmitStageRequest{StageID: round.ID.String(), GithubURL: "https://github.com/rev/x"}, token, &sub)

	var list dto.ListResponse[models.StageSubmission]
	if code := h.do(http.MethodGet, "/api/jury/submissions?stage="+round.ID.String(), nil, jury, &list); code != http.StatusOK || list.Total != 1 {
		t.Fatalf("list: %d total %d", code, list.Total)
	}

	var reviewed models.StageSubmission
	code := h.do(http.MethodPut, "/api/jury/submissions/"+sub.Submission.ID.String()+"/review", dto.ReviewRequest{
		Status: models.SubmissionSelected, Score: ptr(87), Feedback: "Strong demo",
	}, jury, &reviewed)
	if code != http.StatusOK || reviewed.Status != models.SubmissionSelected || reviewed.Score == nil || *reviewed.Score != 87 {
		t.Fatalf("review: %d %+v", code, reviewed)
	}

	code = h.do(http.MethodPut, "/api/jury/submissions/"+sub.Submission.ID.String()+"/review", dto.ReviewRequest{
		Status: models.SubmissionSelected, Score: ptr(140),
	}, jury, nil)
	if code != http.StatusBadRequest {
		t.Fatalf("out of range score: %d", code)
	}
}

func TestPaymentWebhook(t *testing.T) {
	h := newHarness(t)
	h.register("pay@example.com")
	token := h.login("pay@example.com")

	var checkout services.Checkout
	if code := h.do(http.MethodPost, "/api/applicant/checkout", nil, token, &checkout); code != http.StatusCreated || checkout.Invoice == "" {
		t.Fatalf("checkout: %d %+v", code, checkout)
	}

	body := []byte(`{"invoice":"` + checkout.Invoice + `","status":"paid"}`)
	webhook := func(sig string) (int, map[string]interface{}) {
		req := httptestRequestBody(http.MethodPost, "/api/webhooks/payments", body)
		req.Header.Set("X-Signature", sig)
		var out map[string]interface{}
		code := h.send(req, &out)
		return code, out
	}

	if code, _ := webhook("deadbeef"); code != http.StatusUnauthorized {
		t.Fatalf("bad signature: %d", code)
	}
	sig := payments.Sign(testPaymentSecret, body)
	code, out := webhook(sig)
	if code != http.StatusOK || out["changed"] != true {
		t.Fatalf("first delivery: %d %+v", code, out)
	}
	code, out = webhook(sig)
	if code != http.StatusOK || out["changed"] != false {
		t.Fatalf("replay: %d %+v", code, out)
	}

	p, err := h.repo.GetPaymentByInvoice(context.Background(), checkout.Invoice)
	if err != nil || p.Status != models.PaymentPaid {
		t.Fatalf("payment = %+v, %v", p, err)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)
	var health dto.HealthResponse
	if code := h.do(http.MethodGet, "/api/health", nil, "", &health); code != http.StatusOK || health.Storage != "memory" {
		t.Fatalf("health: %d %+v", code, health)
	}
	if code := h.do(http.MethodGet, "/api/metrics", nil, "", nil); code != http.StatusOK {
		t.Fatalf("metrics: %d", code)
	}
}
