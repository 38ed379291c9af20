package routes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/kirankshetty/Hackathon-sub000/internal/config"
	"github.com/kirankshetty/Hackathon-sub000/internal/handlers"
	"github.com/kirankshetty/Hackathon-sub000/internal/middleware"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups everything Setup mounts. Documents is nil when object
// storage is not configured.
type Handlers struct {
	Health    *handlers.HealthHandler
	Applicant *handlers.ApplicantHandler
	Documents *handlers.DocumentHandler
	Payments  *handlers.PaymentHandler
	Staff     *handlers.StaffHandler
	Admin     *handlers.AdminHandler
	Rounds    *handlers.RoundHandler
	Jury      *handlers.JuryHandler
	Settings  *handlers.SettingsHandler
}

func Setup(app *fiber.App, cfg *config.Config, sessions *services.SessionService, h Handlers) {
	api := app.Group("/api")

	// General API rate limiter: 60 req/min per IP
	api.Use(limiter.New(limiter.Config{
		Max:               60,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	}))

	api.Get("/health", h.Health.Check)
	api.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Applicant auth: stricter per-IP limit on top of the per-identifier OTP limiter
	authLimit := limiter.New(limiter.Config{
		Max:               10,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
	})
	session := middleware.ApplicantSession(sessions)

	applicant := api.Group("/applicant")
	applicant.Post("/register", authLimit, h.Applicant.Register)
	applicant.Post("/send-otp", authLimit, h.Applicant.SendOTP)
	applicant.Post("/verify-otp", authLimit, h.Applicant.VerifyOTP)
	applicant.Post("/logout", session, h.Applicant.Logout)
	applicant.Get("/dashboard", session, h.Applicant.Dashboard)
	applicant.Post("/submit-stage", session, h.Applicant.SubmitStage)
	applicant.Get("/my-submissions", session, h.Applicant.MySubmissions)
	applicant.Post("/confirm", session, h.Applicant.Confirm)
	applicant.Post("/checkout", session, h.Payments.Checkout)
	if h.Documents != nil {
		applicant.Post("/documents", session, h.Documents.Upload)
	}

	// Webhooks are authenticated by the provider signature, not a JWT
	api.Post("/webhooks/payments", h.Payments.Webhook)

	api.Post("/staff/login", h.Staff.Login)
	api.Get("/staff/me", middleware.JWTProtected(cfg), h.Staff.Me)

	admin := api.Group("/admin", middleware.JWTProtected(cfg), middleware.RequireRoles(models.RoleAdmin))
	admin.Get("/stats", h.Admin.Stats)
	admin.Get("/applicants", h.Admin.ListApplicants)
	admin.Put("/applicants/status", h.Admin.UpdateStatus)
	admin.Get("/applicants/:id", h.Admin.GetApplicant)
	admin.Put("/applicants/:id", h.Admin.UpdateApplicant)
	admin.Delete("/applicants/:id", h.Admin.DeleteApplicant)
	admin.Get("/rounds", h.Rounds.List)
	admin.Post("/rounds", h.Rounds.Create)
	admin.Get("/rounds/:id", h.Rounds.Get)
	admin.Put("/rounds/:id", h.Rounds.Update)
	admin.Delete("/rounds/:id", h.Rounds.Delete)
	admin.Get("/settings/email", h.Settings.GetEmail)
	admin.Put("/settings/email", h.Settings.PutEmail)
	admin.Post("/notifications", h.Admin.Notify)

	jury := api.Group("/jury", middleware.JWTProtected(cfg), middleware.RequireRoles(models.RoleAdmin, models.RoleJury))
	jury.Get("/submissions", h.Jury.ListSubmissions)
	jury.Put("/submissions/:id/review", h.Jury.Review)
}
