package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"coursearchitect/internal/library"
)

// LibraryHandler serves the content library and its backup import/export
type LibraryHandler struct {
	svc *library.Service
}

// NewLibraryHandler creates a new library handler
func NewLibraryHandler(svc *library.Service) *LibraryHandler {
	return &LibraryHandler{svc: svc}
}

// List returns every course item with its content plus orphaned entries,
// optionally filtered by text and type
func (h *LibraryHandler) List(c *fiber.Ctx) error {
	items, err := h.svc.List()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load library",
		})
	}

	text := strings.ToLower(c.Query("q"))
	typeFilter := c.Query("type")
	if text != "" || (typeFilter != "" && typeFilter != library.ExportTypeAll) {
		filtered := items[:0]
		for _, it := range items {
			if typeFilter != "" && typeFilter != library.ExportTypeAll && string(it.Type) != typeFilter {
				continue
			}
			if text != "" &&
				!strings.Contains(strings.ToLower(it.Title), text) &&
				!strings.Contains(strings.ToLower(it.Content), text) {
				continue
			}
			filtered = append(filtered, it)
		}
		items = filtered
	}

	return c.JSON(fiber.Map{"items": items, "count": len(items)})
}

// Export streams a JSON backup bundle as a download. The optional type
// query restricts the bundle to one item type.
func (h *LibraryHandler) Export(c *fiber.Ctx) error {
	bundle, err := h.svc.Export(c.Query("type", library.ExportTypeAll))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to encode export",
		})
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+library.ExportFilename(bundle)+`"`)
	return c.Send(data)
}

// Import applies an uploaded backup bundle. Accepts either a raw JSON body
// or a multipart form with a "file" field.
func (h *LibraryHandler) Import(c *fiber.Ctx) error {
	data := c.Body()

	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "could not read uploaded file",
			})
		}
		defer f.Close()
		data, err = io.ReadAll(f)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "could not read uploaded file",
			})
		}
	}

	result, err := h.svc.Import(data)
	if err != nil {
		var ferr *library.ImportFormatError
		if errors.As(err, &ferr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": ferr.Msg,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to apply import",
		})
	}

	return c.JSON(result)
}
