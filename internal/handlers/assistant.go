package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"coursearchitect/internal/generate"
)

// AssistantHandler exposes the tutor chat and the grounded web search
type AssistantHandler struct {
	assistant *generate.Assistant
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistant *generate.Assistant) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

type chatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

// Chat forwards one user turn to a tutor session, creating the session on
// first use
func (h *AssistantHandler) Chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "message is required",
		})
	}

	sessionID := req.SessionID
	if sessionID == "" {
		id, err := h.assistant.CreateChat(c.Context())
		if err != nil {
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
				"error": "could not start a chat session",
			})
		}
		sessionID = id
	}

	reply, err := h.assistant.SendMessage(c.Context(), sessionID, req.Message)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":     "Ho sento, hi ha hagut un error de connexió.",
			"sessionId": sessionID,
		})
	}

	return c.JSON(fiber.Map{"sessionId": sessionID, "reply": reply})
}

type searchRequest struct {
	Query string `json:"query"`
}

// Search answers a query with live web grounding and returns cited sources
func (h *AssistantHandler) Search(c *fiber.Ctx) error {
	var req searchRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if strings.TrimSpace(req.Query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query is required",
		})
	}

	result, err := h.assistant.Search(c.Context(), req.Query)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Error realitzant la cerca. Revisa la connexió o la clau d'API.",
		})
	}
	return c.JSON(result)
}
