package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"coursearchitect/internal/database"
)

// ContextHandler manages the accumulated global reference context
type ContextHandler struct {
	db *database.DB
}

// NewContextHandler creates a new context handler
func NewContextHandler(db *database.DB) *ContextHandler {
	return &ContextHandler{db: db}
}

// Get returns the current global reference context
func (h *ContextHandler) Get(c *fiber.Ctx) error {
	text, err := h.db.GetGlobalContext()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load global context",
		})
	}
	return c.JSON(fiber.Map{"context": text, "chars": len(text)})
}

type setContextRequest struct {
	Context string `json:"context"`
}

// Set replaces the global reference context with the supplied text
func (h *ContextHandler) Set(c *fiber.Ctx) error {
	var req setContextRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if err := h.db.SetGlobalContext(req.Context); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save global context",
		})
	}
	return c.JSON(fiber.Map{"saved": true, "chars": len(req.Context)})
}

// Clear wipes the global reference context. Destructive, so the caller must
// pass confirm=true.
func (h *ContextHandler) Clear(c *fiber.Ctx) error {
	if c.Query("confirm") != "true" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "clearing the reference context requires confirm=true",
		})
	}
	if err := h.db.ClearGlobalContext(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to clear global context",
		})
	}
	log.Println("🗑️  Global reference context cleared")
	return c.JSON(fiber.Map{"cleared": true})
}
