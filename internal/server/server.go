// Package server assembles the fiber application from a store and its
// collaborators. cmd/server wires real infrastructure; tests use the
// in-memory repository.
package server

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/kirankshetty/Hackathon-sub000/internal/config"
	"github.com/kirankshetty/Hackathon-sub000/internal/handlers"
	"github.com/kirankshetty/Hackathon-sub000/internal/middleware"
	"github.com/kirankshetty/Hackathon-sub000/internal/notify"
	"github.com/kirankshetty/Hackathon-sub000/internal/payments"
	"github.com/kirankshetty/Hackathon-sub000/internal/ratelimit"
	"github.com/kirankshetty/Hackathon-sub000/internal/repository"
	"github.com/kirankshetty/Hackathon-sub000/internal/routes"
	"github.com/kirankshetty/Hackathon-sub000/internal/services"
	"github.com/kirankshetty/Hackathon-sub000/internal/storage"
)

type Deps struct {
	Repo      repository.Repository
	Mailer    notify.Notifier
	Limiter   ratelimit.Limiter
	Documents storage.Documents
	Payments  payments.Provider
	// Ping checks the database; nil in memory mode.
	Ping  func() error
	Clock services.Clock
	// Extra middleware mounted before the routes, e.g. sentry.
	Middleware []fiber.Handler
	// AccessLog enables the fiber request logger.
	AccessLog bool
}

type Server struct {
	App      *fiber.App
	Sessions *services.SessionService
}

func New(cfg *config.Config, d Deps) *Server {
	settings := services.NewSettingsService(d.Repo, cfg.StatsCacheTTL, d.Clock)
	mailer := services.NewBrandedNotifier(d.Mailer, settings)
	stats := services.NewStatsService(d.Repo, cfg.StatsCacheTTL, d.Clock)
	sessions := services.NewSessionService(d.Repo, cfg.SessionTTL, d.Clock)
	otp := services.NewOTPService(d.Repo, sessions, mailer, d.Limiter, cfg.OTPTTL, cfg.OTPMaxAttempts, d.Clock)
	applicants := services.NewApplicantService(d.Repo, mailer, stats, d.Clock)
	submissions := services.NewSubmissionService(d.Repo, d.Clock)
	rounds := services.NewRoundService(d.Repo, stats)
	notifications := services.NewNotificationService(d.Repo, mailer, settings)
	paymentSvc := services.NewPaymentService(d.Repo, d.Payments, cfg.PaymentAmount, cfg.PaymentCurrency, d.Clock)
	staffAuth := services.NewStaffAuthService(d.Repo, cfg.JWTSecret, cfg.JWTAccessExpiry, d.Clock)

	h := routes.Handlers{
		Health:    handlers.NewHealthHandler(cfg.StorageDriver, d.Ping),
		Applicant: handlers.NewApplicantHandler(applicants, otp, sessions, submissions),
		Payments:  handlers.NewPaymentHandler(paymentSvc),
		Staff:     handlers.NewStaffHandler(staffAuth),
		Admin:     handlers.NewAdminHandler(applicants, stats, notifications),
		Rounds:    handlers.NewRoundHandler(rounds),
		Jury:      handlers.NewJuryHandler(submissions),
		Settings:  handlers.NewSettingsHandler(settings),
	}
	if d.Documents != nil {
		h.Documents = handlers.NewDocumentHandler(d.Documents)
	}

	app := fiber.New(fiber.Config{
		// Documents are up to 10MB plus multipart framing.
		BodyLimit:    storage.MaxDocumentSize + 1<<20,
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	for _, m := range d.Middleware {
		app.Use(m)
	}
	if d.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path} | ${locals:requestid}\n",
		}))
	}
	app.Use(middleware.Metrics())
	app.Use(middleware.CORS(cfg))
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		return c.Next()
	})

	routes.Setup(app, cfg, sessions, h)

	return &Server{App: app, Sessions: sessions}
}

// ErrorHandler hides 5xx detail from clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	// Only expose error details for client errors (4xx), not server errors (5xx)
	if code >= 500 {
		slog.Error("unhandled server error", "method", c.Method(), "path", c.Path(), "error", err.Error())
		message = "Internal server error"
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}

// Shutdown stops the app, giving in-flight requests up to timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.App.ShutdownWithTimeout(timeout)
}
