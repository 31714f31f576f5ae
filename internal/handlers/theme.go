package handlers

import (
	"github.com/gofiber/fiber/v2"

	"coursearchitect/internal/database"
)

// ThemeHandler persists the UI theme preference
type ThemeHandler struct {
	db *database.DB
}

// NewThemeHandler creates a new theme handler
func NewThemeHandler(db *database.DB) *ThemeHandler {
	return &ThemeHandler{db: db}
}

// Get returns the stored theme, defaulting to light
func (h *ThemeHandler) Get(c *fiber.Ctx) error {
	theme, err := h.db.GetTheme()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load theme",
		})
	}
	if theme == "" {
		theme = "light"
	}
	return c.JSON(fiber.Map{"theme": theme})
}

type setThemeRequest struct {
	Theme string `json:"theme"`
}

// Set stores the theme preference
func (h *ThemeHandler) Set(c *fiber.Ctx) error {
	var req setThemeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.Theme != "light" && req.Theme != "dark" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "theme must be light or dark",
		})
	}
	if err := h.db.SetTheme(req.Theme); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save theme",
		})
	}
	return c.JSON(fiber.Map{"theme": req.Theme})
}
