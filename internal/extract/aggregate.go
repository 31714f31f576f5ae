package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"coursearchitect/internal/models"
)

// fileSeparator sits between file sections in the accumulated context.
const fileSeparator = "\n\n-------------------\n\n"

// UploadedFile is one file of a multi-file upload.
type UploadedFile struct {
	Name string
	Data []byte
}

// ExtractAll processes files strictly in order, accumulating successful
// extractions into one growing context string with file-name-labeled section
// markers. One file's failure never aborts the rest; successes and failures
// are counted separately.
//
// existing is the reference context already accumulated (may be empty); the
// first appended section is only preceded by a separator when there is
// something to separate it from.
func (e *Extractor) ExtractAll(ctx context.Context, files []UploadedFile, existing string, progress ProgressFunc) models.ExtractionBatch {
	batch := models.ExtractionBatch{
		Files: make([]models.FileExtraction, 0, len(files)),
	}

	var appended strings.Builder
	for _, f := range files {
		text, err := e.ExtractFile(ctx, f.Name, f.Data, progress)
		if err != nil {
			slog.Error("file extraction failed", "file", f.Name, "error", err)
			batch.Failed++
			batch.Files = append(batch.Files, models.FileExtraction{
				Filename: f.Name,
				OK:       false,
				Error:    err.Error(),
			})
			continue
		}

		if existing != "" || appended.Len() > 0 {
			appended.WriteString(fileSeparator)
		}
		fmt.Fprintf(&appended, "--- FITXER: %s ---\n%s", f.Name, text)

		batch.Processed++
		batch.Files = append(batch.Files, models.FileExtraction{
			Filename: f.Name,
			OK:       true,
			Chars:    len(text),
		})
	}

	batch.Text = existing + appended.String()
	return batch
}
