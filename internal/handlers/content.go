package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"

	"coursearchitect/internal/database"
	"coursearchitect/internal/markdown"
)

// ContentHandler manages persisted generated content per course item
type ContentHandler struct {
	db *database.DB
}

// NewContentHandler creates a new content handler
func NewContentHandler(db *database.DB) *ContentHandler {
	return &ContentHandler{db: db}
}

// Get returns the persisted content for one item
func (h *ContentHandler) Get(c *fiber.Ctx) error {
	itemID := c.Params("itemID")
	content, ok, err := h.db.GetContent(itemID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load content",
		})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no content generated for this item",
		})
	}
	return c.JSON(fiber.Map{"id": itemID, "content": content})
}

type saveContentRequest struct {
	Content string `json:"content"`
}

// Save persists manually edited content for one item
func (h *ContentHandler) Save(c *fiber.Ctx) error {
	itemID := c.Params("itemID")

	var req saveContentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if err := h.db.SetContent(itemID, req.Content); err != nil {
		log.Printf("❌ Failed to save content for %s: %v", itemID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to save content",
		})
	}
	return c.JSON(fiber.Map{"id": itemID, "saved": true})
}

// Delete removes the persisted content for one item. Destructive, so the
// caller must pass confirm=true.
func (h *ContentHandler) Delete(c *fiber.Ctx) error {
	if c.Query("confirm") != "true" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "deletion requires confirm=true",
		})
	}

	itemID := c.Params("itemID")
	if err := h.db.DeleteContent(itemID); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to delete content",
		})
	}
	log.Printf("🗑️  Deleted generated content for item %s", itemID)
	return c.JSON(fiber.Map{"id": itemID, "deleted": true})
}

// Preview renders the persisted markdown content to HTML for the library
// preview pane
func (h *ContentHandler) Preview(c *fiber.Ctx) error {
	itemID := c.Params("itemID")
	content, ok, err := h.db.GetContent(itemID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load content",
		})
	}
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "no content generated for this item",
		})
	}

	html, err := markdown.RenderHTML(content)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to render preview",
		})
	}
	return c.JSON(fiber.Map{"id": itemID, "html": html})
}
