package handlers

import (
	"github.com/gofiber/fiber/v2"

	"coursearchitect/internal/course"
)

// CourseHandler serves the static curriculum structure
type CourseHandler struct{}

// NewCourseHandler creates a new course handler
func NewCourseHandler() *CourseHandler {
	return &CourseHandler{}
}

// GetStructure returns the full course tree: general section plus all units
func (h *CourseHandler) GetStructure(c *fiber.Ctx) error {
	return c.JSON(course.Data)
}

// GetItem returns one course item by ID
func (h *CourseHandler) GetItem(c *fiber.Ctx) error {
	item, ok := course.FindItem(c.Params("itemID"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "course item not found",
		})
	}
	return c.JSON(item)
}

// GetUnit returns one unit (the general section is addressable too)
func (h *CourseHandler) GetUnit(c *fiber.Ctx) error {
	unit, ok := course.FindUnit(c.Params("unitID"))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unit not found",
		})
	}
	return c.JSON(unit)
}
