package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"coursearchitect/internal/course"
	"coursearchitect/internal/export"
)

// ExportHandler serves PDF exports of the course book and single units
type ExportHandler struct {
	renderer *export.Renderer
}

// NewExportHandler creates a new export handler
func NewExportHandler(renderer *export.Renderer) *ExportHandler {
	return &ExportHandler{renderer: renderer}
}

// Course renders the full course book as a downloadable PDF
func (h *ExportHandler) Course(c *fiber.Ctx) error {
	doc, err := h.renderer.RenderCourse(course.Data)
	if err != nil {
		log.Printf("❌ Course PDF export failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to render course PDF",
		})
	}
	return sendPDF(c, doc)
}

// Unit renders one unit's working document as a downloadable PDF
func (h *ExportHandler) Unit(c *fiber.Ctx) error {
	unit, ok := course.FindUnit(c.Params("unitID"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unit not found",
		})
	}

	doc, err := h.renderer.RenderUnit(unit)
	if err != nil {
		log.Printf("❌ Unit PDF export failed for %s: %v", unit.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to render unit PDF",
		})
	}
	return sendPDF(c, doc)
}

func sendPDF(c *fiber.Ctx, doc *export.Document) error {
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.Filename+`"`)
	c.Set("X-Page-Count", strconv.Itoa(doc.Pages))
	return c.Send(doc.Data)
}
