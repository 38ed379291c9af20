package handlers

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kirankshetty/Hackathon-sub000/internal/dto"
	"github.com/kirankshetty/Hackathon-sub000/internal/middleware"
	"github.com/kirankshetty/Hackathon-sub000/internal/storage"
)

type DocumentHandler struct {
	docs storage.Documents
}

func NewDocumentHandler(docs storage.Documents) *DocumentHandler {
	return &DocumentHandler{docs: docs}
}

// Upload stores one multipart "file" and returns its object key.
func (h *DocumentHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if _, ok := storage.AllowedExtensions[ext]; !ok {
		return badRequest(c, "Unsupported file type, allowed: pdf, zip, png, jpg, jpeg, pptx")
	}
	if fh.Size > storage.MaxDocumentSize {
		return badRequest(c, fmt.Sprintf("File exceeds the %dMB limit", storage.MaxDocumentSize>>20))
	}

	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "Could not read uploaded file")
	}
	defer f.Close()

	applicant := middleware.CurrentApplicant(c)
	key, err := h.docs.Upload(c.UserContext(), applicant.ID, fh.Filename, f, fh.Size)
	if err != nil {
		slog.Error("document upload failed", "applicant_id", applicant.ID, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to store document",
		})
	}
	return c.Status(fiber.StatusCreated).JSON(dto.DocumentUploadResponse{Key: key, Size: fh.Size})
}
