package middleware

import (
	"errors"
	"log/slog"
	"strings"

	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kirankshetty/Hackathon-sub000/internal/config"
	"github.com/kirankshetty/Hackathon-sub000/internal/dto"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"github.com/kirankshetty/Hackathon-sub000/internal/services"
)

const (
	applicantKey = "applicant"
	sessionKey   = "session_token"
	staffKey     = "user"
)

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(c *fiber.Ctx) (string, bool) {
	header := c.Get(fiber.HeaderAuthorization)
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// ApplicantSession resolves the bearer session token to an applicant.
func ApplicantSession(sessions *services.SessionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := BearerToken(c)
		if !ok {
			return unauthorized(c)
		}
		applicant, err := sessions.Validate(c.UserContext(), token)
		if err != nil {
			if !errors.Is(err, services.ErrSessionInvalid) {
				slog.Error("session lookup failed", "error", err)
			}
			return unauthorized(c)
		}
		c.Locals(applicantKey, applicant)
		c.Locals(sessionKey, token)
		return c.Next()
	}
}

func CurrentApplicant(c *fiber.Ctx) *models.Applicant {
	a, _ := c.Locals(applicantKey).(*models.Applicant)
	return a
}

func CurrentSessionToken(c *fiber.Ctx) string {
	t, _ := c.Locals(sessionKey).(string)
	return t
}

// JWTProtected verifies the staff access token and stores it under "user".
func JWTProtected(cfg *config.Config) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(cfg.JWTSecret)},
		ContextKey: staffKey,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error:   true,
				Message: "Unauthorized: invalid or expired token",
			})
		},
	})
}

// StaffIdentity is what the role middleware reads out of a verified token.
type StaffIdentity struct {
	ID    uuid.UUID
	Email string
	Role  models.StaffRole
}

func staffFromToken(c *fiber.Ctx) (*StaffIdentity, bool) {
	token, ok := c.Locals(staffKey).(*jwt.Token)
	if !ok || token == nil {
		return nil, false
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, false
	}
	sub, _ := claims["sub"].(string)
	id, err := uuid.Parse(sub)
	if err != nil {
		return nil, false
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)
	return &StaffIdentity{ID: id, Email: email, Role: models.StaffRole(role)}, true
}

func CurrentStaff(c *fiber.Ctx) *StaffIdentity {
	s, _ := staffFromToken(c)
	return s
}
