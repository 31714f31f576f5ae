package library

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"coursearchitect/internal/course"
	"coursearchitect/internal/database"
	"coursearchitect/internal/models"
)

// ExportTypeAll exports every item type in one bundle.
const ExportTypeAll = "all"

// ImportFormatError marks a backup file the importer refuses to apply.
type ImportFormatError struct {
	Msg string
}

func (e *ImportFormatError) Error() string { return e.Msg }

// Service assembles the content library: the full course structure joined
// with persisted content, plus any orphaned content rows left behind by
// older structures or imported backups.
type Service struct {
	db  *database.DB
	now func() time.Time
}

// NewService creates the library service on top of the KV store.
func NewService(db *database.DB) *Service {
	return &Service{db: db, now: time.Now}
}

// List returns every course item with its persisted content, followed by
// orphaned content entries. Orphans are labeled unknown and never dropped.
func (s *Service) List() ([]models.LibraryItem, error) {
	items := make([]models.LibraryItem, 0, 64)
	seen := make(map[string]bool)

	for _, ci := range course.AllItems() {
		content, _, err := s.db.GetContent(ci.ID)
		if err != nil {
			return nil, fmt.Errorf("loading content for %s: %w", ci.ID, err)
		}
		items = append(items, models.LibraryItem{
			ID:      ci.ID,
			Title:   ci.Title,
			Type:    ci.Type,
			Content: content,
		})
		seen[ci.ID] = true
	}

	ids, err := s.db.ListContentIDs()
	if err != nil {
		return nil, fmt.Errorf("listing persisted content: %w", err)
	}
	for _, id := range ids {
		if seen[id] {
			continue
		}
		content, _, err := s.db.GetContent(id)
		if err != nil {
			return nil, fmt.Errorf("loading orphan %s: %w", id, err)
		}
		items = append(items, models.LibraryItem{
			ID:      id,
			Title:   "Element Desconegut (ID antic)",
			Type:    models.ItemTypeUnknown,
			Content: content,
			Orphan:  true,
		})
	}

	return items, nil
}

// Export bundles all non-empty content, optionally restricted to one item
// type, together with the global reference context. An empty bundle is an
// error so callers never write a useless backup file.
func (s *Service) Export(typeFilter string) (*models.LibraryExport, error) {
	if typeFilter == "" {
		typeFilter = ExportTypeAll
	}
	if typeFilter != ExportTypeAll && !models.ItemType(typeFilter).IsValid() {
		return nil, fmt.Errorf("unknown item type filter %q", typeFilter)
	}

	items, err := s.List()
	if err != nil {
		return nil, err
	}

	bundle := &models.LibraryExport{
		Version: 1,
		Date:    s.now().UTC().Format(time.RFC3339),
		Type:    typeFilter,
		Items:   []models.LibraryExportItem{},
	}
	for _, it := range items {
		if strings.TrimSpace(it.Content) == "" {
			continue
		}
		if typeFilter != ExportTypeAll && string(it.Type) != typeFilter {
			continue
		}
		bundle.Items = append(bundle.Items, models.LibraryExportItem{ID: it.ID, Content: it.Content})
	}
	if len(bundle.Items) == 0 {
		return nil, fmt.Errorf("no generated content matches filter %q", typeFilter)
	}

	ctx, err := s.db.GetGlobalContext()
	if err != nil {
		return nil, fmt.Errorf("loading global context: %w", err)
	}
	bundle.GlobalContext = ctx

	return bundle, nil
}

// ExportFilename derives the download name of a bundle from its filter and
// date, e.g. moodle_library_full_2026-08-29.json.
func ExportFilename(bundle *models.LibraryExport) string {
	suffix := bundle.Type
	if suffix == ExportTypeAll {
		suffix = "full"
	}
	day := bundle.Date
	if len(day) >= 10 {
		day = day[:10]
	}
	return fmt.Sprintf("moodle_library_%s_%s.json", suffix, day)
}

// Import applies a backup bundle: every (id, content) pair is persisted,
// and the global context is restored when the bundle carries one. Malformed
// bundles fail with ImportFormatError before anything is written.
func (s *Service) Import(data []byte) (*models.ImportResult, error) {
	var bundle models.LibraryExport
	if err := json.Unmarshal(data, &bundle); err != nil {
		return nil, &ImportFormatError{Msg: "el fitxer no és JSON vàlid"}
	}
	if bundle.Items == nil {
		return nil, &ImportFormatError{Msg: "format de fitxer invàlid: falta la llista d'elements"}
	}

	result := &models.ImportResult{}
	for _, item := range bundle.Items {
		if item.ID == "" || item.Content == "" {
			continue
		}
		if err := s.db.SetContent(item.ID, item.Content); err != nil {
			return nil, fmt.Errorf("persisting imported content %s: %w", item.ID, err)
		}
		result.ImportedItems++
	}

	if bundle.GlobalContext != "" {
		if err := s.db.SetGlobalContext(bundle.GlobalContext); err != nil {
			return nil, fmt.Errorf("restoring global context: %w", err)
		}
		result.ContextRestored = true
	}

	slog.Info("library import applied", "items", result.ImportedItems, "context_restored", result.ContextRestored)
	return result, nil
}
