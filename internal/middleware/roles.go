package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kirankshetty/Hackathon-sub000/internal/dto"
	"github.com/kirankshetty/Hackathon-sub000/internal/models"
)

// RequireRoles lets the request through when the staff token carries one of roles.
// Mount it after JWTProtected.
func RequireRoles(roles ...models.StaffRole) fiber.Handler {
	allowed := make(map[models.StaffRole]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		staff, ok := staffFromToken(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}
		if !allowed[staff.Role] {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Insufficient role",
			})
		}
		return c.Next()
	}
}
