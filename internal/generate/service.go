package generate

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"coursearchitect/internal/config"
	"coursearchitect/internal/logging"
)

// StreamFunc receives the cumulative generated text after every chunk, not
// the chunk itself.
type StreamFunc func(textSoFar string)

// Service talks to the Gemini API for content generation, grounded web
// search and the tutor chat.
type Service struct {
	client      *genai.Client
	model       string
	searchModel string
}

// NewService builds the Gemini client from config. It fails fast on a
// missing credential so the server does not come up half-working.
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: cfg.GeminiAPIKey})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &Service{
		client:      client,
		model:       cfg.GeminiModel,
		searchModel: cfg.SearchModel,
	}, nil
}

// Generate produces the Moodle content for one course item, invoking sink
// with the accumulated text after each received chunk. On an API failure it
// returns a displayable Catalan message as the text together with the error,
// so callers can show the message while knowing the run failed.
func (s *Service) Generate(ctx context.Context, req Request, sink StreamFunc) (string, error) {
	log := logging.WithGeneration(req.ItemID, s.model)
	log.Info("starting content generation", "item_title", req.ItemTitle)

	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemInstruction, genai.RoleUser),
		Temperature:       genai.Ptr[float32](0.7),
	}
	contents := []*genai.Content{
		genai.NewContentFromText(BuildPrompt(req), genai.RoleUser),
	}

	var full strings.Builder
	for resp, err := range s.client.Models.GenerateContentStream(ctx, s.model, contents, cfg) {
		if err != nil {
			log.Error("generation stream failed", "error", err)
			msg := fmt.Sprintf("Error generant el contingut: %v. Revisa la clau d'API i torna-ho a provar.", err)
			return msg, err
		}
		chunk := resp.Text()
		if chunk == "" {
			continue
		}
		full.WriteString(chunk)
		if sink != nil {
			sink(full.String())
		}
	}

	log.Info("content generation complete", "chars", full.Len())
	return full.String(), nil
}
