package handlers

import (
	"context"
	"log"
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"coursearchitect/internal/course"
	"coursearchitect/internal/database"
	"coursearchitect/internal/generate"
)

// GenerateHandler drives AI content generation for course items
type GenerateHandler struct {
	svc *generate.Service
	db  *database.DB
}

// NewGenerateHandler creates a new generate handler
func NewGenerateHandler(svc *generate.Service, db *database.DB) *GenerateHandler {
	return &GenerateHandler{svc: svc, db: db}
}

type generateRequest struct {
	ItemID             string `json:"itemId"`
	CustomInstructions string `json:"customInstructions"`
}

// buildRequest resolves the item's static description plus the persisted
// global reference context into a generation request.
func (h *GenerateHandler) buildRequest(req generateRequest) (generate.Request, error) {
	item, ok := course.FindItem(req.ItemID)
	if !ok {
		return generate.Request{}, fiber.NewError(fiber.StatusNotFound, "course item not found")
	}
	globalCtx, err := h.db.GetGlobalContext()
	if err != nil {
		return generate.Request{}, fiber.NewError(fiber.StatusInternalServerError, "failed to load global context")
	}
	return generate.Request{
		ItemID:             item.ID,
		ItemTitle:          item.Title,
		ItemType:           item.Type,
		BaseContext:        item.PromptContext,
		CustomInstructions: req.CustomInstructions,
		GlobalContext:      globalCtx,
	}, nil
}

// Generate runs a blocking generation and returns the final text. Content
// is persisted only when the run succeeded.
func (h *GenerateHandler) Generate(c *fiber.Ctx) error {
	var req generateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	genReq, err := h.buildRequest(req)
	if err != nil {
		fe := err.(*fiber.Error)
		return c.Status(fe.Code).JSON(fiber.Map{"error": fe.Message})
	}

	text, genErr := h.svc.Generate(c.Context(), genReq, nil)
	if genErr != nil {
		// The text is a displayable message; the run still failed and
		// nothing is persisted.
		return c.JSON(fiber.Map{"id": genReq.ItemID, "content": text, "generated": false})
	}

	if strings.TrimSpace(text) != "" {
		if err := h.db.SetContent(genReq.ItemID, text); err != nil {
			log.Printf("❌ Failed to persist generated content for %s: %v", genReq.ItemID, err)
		}
	}
	return c.JSON(fiber.Map{"id": genReq.ItemID, "content": text, "generated": true})
}

// Stream handles one generation over a WebSocket. The client sends a single
// request frame; the server answers with cumulative chunk frames followed by
// a complete or error frame.
func (h *GenerateHandler) Stream(conn *websocket.Conn) {
	defer conn.Close()

	var req generateRequest
	if err := conn.ReadJSON(&req); err != nil {
		conn.WriteJSON(fiber.Map{"type": "error", "message": "invalid request frame"})
		return
	}

	genReq, err := h.buildRequest(req)
	if err != nil {
		fe := err.(*fiber.Error)
		conn.WriteJSON(fiber.Map{"type": "error", "message": fe.Message})
		return
	}

	text, genErr := h.svc.Generate(context.Background(), genReq, func(textSoFar string) {
		// Each frame carries the full text so far; a dropped frame
		// costs nothing.
		conn.WriteJSON(fiber.Map{"type": "chunk", "content": textSoFar})
	})
	if genErr != nil {
		conn.WriteJSON(fiber.Map{"type": "error", "message": text})
		return
	}

	if strings.TrimSpace(text) != "" {
		if err := h.db.SetContent(genReq.ItemID, text); err != nil {
			log.Printf("❌ Failed to persist generated content for %s: %v", genReq.ItemID, err)
			conn.WriteJSON(fiber.Map{"type": "error", "message": "content generated but could not be saved"})
			return
		}
	}

	conn.WriteJSON(fiber.Map{"type": "complete", "content": text})
}
