package generate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"google.golang.org/genai"
)

const tutorInstruction = `Ets un tutor virtual de Cultura Audiovisual per a estudiants de secundària i batxillerat.
Respon sempre en català, amb un to proper i pedagògic. Pots parlar sobre cinema, tècniques fotogràfiques,
anàlisi d'imatge, llenguatge audiovisual i mitjans de comunicació. Utilitza format Markdown quan ajudi a la claredat.`

const (
	sessionTTL     = 30 * time.Minute
	sessionCleanup = 10 * time.Minute
)

// Source is one citable web reference attached to a grounded answer.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// SearchResult is the answer of a grounded web search.
type SearchResult struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// Assistant exposes the tutor chat and the grounded web search. Chat
// sessions live server-side in a TTL cache keyed by an opaque session ID.
type Assistant struct {
	svc      *Service
	sessions *gocache.Cache
}

// NewAssistant wraps a generation service with session bookkeeping.
func NewAssistant(svc *Service) *Assistant {
	return &Assistant{
		svc:      svc,
		sessions: gocache.New(sessionTTL, sessionCleanup),
	}
}

// Search answers a query with live web grounding and returns the cited
// sources extracted from the response metadata.
func (a *Assistant) Search(ctx context.Context, query string) (*SearchResult, error) {
	cfg := &genai.GenerateContentConfig{
		Tools: []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		},
	}
	contents := []*genai.Content{
		genai.NewContentFromText(query, genai.RoleUser),
	}

	resp, err := a.svc.client.Models.GenerateContent(ctx, a.svc.searchModel, contents, cfg)
	if err != nil {
		return nil, fmt.Errorf("grounded search: %w", err)
	}

	result := &SearchResult{Text: resp.Text(), Sources: []Source{}}
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			result.Sources = append(result.Sources, Source{
				URI:   chunk.Web.URI,
				Title: chunk.Web.Title,
			})
		}
	}

	slog.Info("grounded search complete", "query_chars", len(query), "sources", len(result.Sources))
	return result, nil
}

// CreateChat opens a new tutor conversation and returns its session ID.
// Sessions idle longer than the TTL are evicted and must be recreated.
func (a *Assistant) CreateChat(ctx context.Context) (string, error) {
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(tutorInstruction, genai.RoleUser),
	}
	chat, err := a.svc.client.Chats.Create(ctx, a.svc.model, cfg, nil)
	if err != nil {
		return "", fmt.Errorf("creating chat session: %w", err)
	}

	id := uuid.NewString()
	a.sessions.Set(id, chat, gocache.DefaultExpiration)
	return id, nil
}

// SendMessage forwards one user turn to an existing session and returns the
// model's reply.
func (a *Assistant) SendMessage(ctx context.Context, sessionID, message string) (string, error) {
	v, ok := a.sessions.Get(sessionID)
	if !ok {
		return "", fmt.Errorf("chat session %s not found or expired", sessionID)
	}
	chat := v.(*genai.Chat)

	resp, err := chat.SendMessage(ctx, genai.Part{Text: message})
	if err != nil {
		return "", fmt.Errorf("chat turn: %w", err)
	}

	// Refresh the TTL on activity.
	a.sessions.Set(sessionID, chat, gocache.DefaultExpiration)

	text := resp.Text()
	if text == "" {
		text = "No he pogut generar una resposta."
	}
	return text, nil
}
