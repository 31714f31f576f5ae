package handlers

import (
	"context"
	"io"
	"log"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"coursearchitect/internal/database"
	"coursearchitect/internal/extract"
	"coursearchitect/internal/models"
)

const (
	maxUploadFileSize = 10 * 1024 * 1024 // 10MB per document
	uploadStateTTL    = 10 * time.Minute
)

// uploadState tracks one in-flight extraction batch so a WebSocket client
// can follow its progress.
type uploadState struct {
	progress chan models.ExtractionProgress
	done     chan struct{}
	batch    models.ExtractionBatch
}

// SourcesHandler accepts reference document uploads, extracts their text
// and appends it to the global reference context
type SourcesHandler struct {
	extractor *extract.Extractor
	db        *database.DB
	uploads   *gocache.Cache
}

// NewSourcesHandler creates a new sources handler
func NewSourcesHandler(extractor *extract.Extractor, db *database.DB) *SourcesHandler {
	return &SourcesHandler{
		extractor: extractor,
		db:        db,
		uploads:   gocache.New(uploadStateTTL, 5*time.Minute),
	}
}

// Upload receives multipart documents, kicks off extraction in the
// background and returns an upload ID for progress tracking
func (h *SourcesHandler) Upload(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "expected multipart form data",
		})
	}

	headers := form.File["files"]
	if len(headers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "no files provided",
		})
	}

	files := make([]extract.UploadedFile, 0, len(headers))
	for _, fh := range headers {
		if fh.Size > maxUploadFileSize {
			return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
				"error": "file too large: " + fh.Filename,
			})
		}
		f, err := fh.Open()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "could not read file: " + fh.Filename,
			})
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "could not read file: " + fh.Filename,
			})
		}
		files = append(files, extract.UploadedFile{Name: fh.Filename, Data: data})
	}

	existing, err := h.db.GetGlobalContext()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to load global context",
		})
	}

	uploadID := uuid.NewString()
	state := &uploadState{
		progress: make(chan models.ExtractionProgress, 256),
		done:     make(chan struct{}),
	}
	h.uploads.Set(uploadID, state, gocache.DefaultExpiration)

	go h.runExtraction(uploadID, state, files, existing)

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"upload_id": uploadID,
		"files":     len(files),
	})
}

// runExtraction executes the batch and persists the accumulated context.
func (h *SourcesHandler) runExtraction(uploadID string, state *uploadState, files []extract.UploadedFile, existing string) {
	defer close(state.done)

	batch := h.extractor.ExtractAll(context.Background(), files, existing, func(p models.ExtractionProgress) {
		select {
		case state.progress <- p:
		default:
			// A slow or absent progress consumer never stalls extraction.
		}
	})
	close(state.progress)

	if batch.Processed > 0 {
		if err := h.db.SetGlobalContext(batch.Text); err != nil {
			log.Printf("❌ Failed to persist extracted context for upload %s: %v", uploadID, err)
			batch.Failed += batch.Processed
			batch.Processed = 0
			batch.Text = existing
		}
	}
	state.batch = batch
}

// Progress streams extraction progress frames for one upload over a
// WebSocket, ending with a completion frame carrying the batch stats
func (h *SourcesHandler) Progress(conn *websocket.Conn) {
	defer conn.Close()

	uploadID := conn.Params("id")
	v, ok := h.uploads.Get(uploadID)
	if !ok {
		conn.WriteJSON(fiber.Map{"type": "error", "message": "unknown upload id"})
		return
	}
	state := v.(*uploadState)

	for p := range state.progress {
		if err := conn.WriteJSON(fiber.Map{
			"type":    "progress",
			"file":    p.File,
			"page":    p.Page,
			"total":   p.Total,
			"percent": p.Percent,
			"phase":   p.Phase,
		}); err != nil {
			return
		}
	}

	<-state.done
	h.uploads.Delete(uploadID)
	conn.WriteJSON(fiber.Map{
		"type":      "complete",
		"processed": state.batch.Processed,
		"failed":    state.batch.Failed,
		"chars":     len(state.batch.Text),
	})
}
