package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/kirankshetty/Hackathon-sub000/internal/dto"
	"github.com/kirankshetty/Hackathon-sub000/internal/middleware"
	"github.com/kirankshetty/Hackathon-sub000/internal/payments"
	"github.com/kirankshetty/Hackathon-sub000/internal/services"
)

const signatureHeader = "X-Signature"

type PaymentHandler struct {
	payments *services.PaymentService
}

func NewPaymentHandler(svc *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{payments: svc}
}

func (h *PaymentHandler) Checkout(c *fiber.Ctx) error {
	checkout, err := h.payments.Checkout(c.UserContext(), middleware.CurrentApplicant(c).ID)
	if err != nil {
		return respondError(c, err, "checkout failed")
	}
	return c.Status(fiber.StatusCreated).JSON(checkout)
}

// Webhook applies a signed provider callback. Replays answer 200 with changed=false.
func (h *PaymentHandler) Webhook(c *fiber.Ctx) error {
	p, changed, err := h.payments.HandleWebhook(c.UserContext(), c.Body(), c.Get(signatureHeader))
	if err != nil {
		switch {
		case errors.Is(err, payments.ErrInvalidSignature):
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		case errors.Is(err, payments.ErrBadPayload):
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: "Invalid webhook payload",
			})
		case errors.Is(err, services.ErrPaymentNotFound):
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		slog.Error("payment webhook failed", "request_id", requestID(c), "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to process webhook event",
		})
	}
	return c.JSON(fiber.Map{"received": true, "changed": changed, "status": p.Status})
}
