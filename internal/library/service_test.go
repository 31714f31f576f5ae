package library

import (
	"encoding/json"
	"errors"
	"testing"

	"coursearchitect/internal/course"
	"coursearchitect/internal/database"
	"coursearchitect/internal/models"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Initialize(); err != nil {
		t.Fatalf("initializing test database: %v", err)
	}
	return NewService(db)
}

// TestListCoversAllCourseItems verifies every structure item appears even
// when nothing has been generated
func TestListCoversAllCourseItems(t *testing.T) {
	s := newTestService(t)

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if want := len(course.AllItems()); len(items) != want {
		t.Errorf("expected %d items, got %d", want, len(items))
	}
	for _, it := range items {
		if it.Orphan {
			t.Errorf("fresh store should have no orphans, got %s", it.ID)
		}
	}
}

// TestListLabelsOrphans verifies content with no matching structure item is
// kept and labeled unknown
func TestListLabelsOrphans(t *testing.T) {
	s := newTestService(t)
	if err := s.db.SetContent("old-removed-item", "contingut antic"); err != nil {
		t.Fatal(err)
	}

	items, err := s.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	var orphan *models.LibraryItem
	for i := range items {
		if items[i].ID == "old-removed-item" {
			orphan = &items[i]
		}
	}
	if orphan == nil {
		t.Fatal("orphan content must never be dropped from the library")
	}
	if !orphan.Orphan || orphan.Type != models.ItemTypeUnknown {
		t.Errorf("orphan should be labeled unknown, got %+v", orphan)
	}
	if orphan.Content != "contingut antic" {
		t.Errorf("orphan content altered: %q", orphan.Content)
	}
}

// TestExportSkipsEmptyContent verifies only non-empty items enter the bundle
func TestExportSkipsEmptyContent(t *testing.T) {
	s := newTestService(t)
	all := course.AllItems()
	if err := s.db.SetContent(all[0].ID, "ple"); err != nil {
		t.Fatal(err)
	}
	if err := s.db.SetContent(all[1].ID, "   "); err != nil {
		t.Fatal(err)
	}

	bundle, err := s.Export(ExportTypeAll)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(bundle.Items) != 1 || bundle.Items[0].ID != all[0].ID {
		t.Errorf("expected exactly the non-empty item, got %+v", bundle.Items)
	}
	if bundle.Version != 1 {
		t.Errorf("expected version 1, got %d", bundle.Version)
	}
}

// TestExportEmptyBundleFails verifies exporting nothing is rejected
func TestExportEmptyBundleFails(t *testing.T) {
	s := newTestService(t)
	if _, err := s.Export(ExportTypeAll); err == nil {
		t.Error("empty export should fail")
	}
}

// TestExportTypeFilter verifies per-type export keeps only matching items
func TestExportTypeFilter(t *testing.T) {
	s := newTestService(t)

	var quizID, forumID string
	for _, it := range course.AllItems() {
		if quizID == "" && it.Type == models.ItemTypeQuiz {
			quizID = it.ID
		}
		if forumID == "" && it.Type == models.ItemTypeForum {
			forumID = it.ID
		}
	}
	if err := s.db.SetContent(quizID, "preguntes"); err != nil {
		t.Fatal(err)
	}
	if err := s.db.SetContent(forumID, "debat"); err != nil {
		t.Fatal(err)
	}

	bundle, err := s.Export("quiz")
	if err != nil {
		t.Fatalf("Export(quiz): %v", err)
	}
	if len(bundle.Items) != 1 || bundle.Items[0].ID != quizID {
		t.Errorf("expected only the quiz item, got %+v", bundle.Items)
	}
	if bundle.Type != "quiz" {
		t.Errorf("bundle type should record the filter, got %q", bundle.Type)
	}

	if _, err := s.Export("nonsense"); err == nil {
		t.Error("invalid type filter should be rejected")
	}
}

// TestExportImportRoundTrip verifies importing an export into a fresh store
// reproduces the same id-to-content mapping
func TestExportImportRoundTrip(t *testing.T) {
	src := newTestService(t)
	all := course.AllItems()
	want := map[string]string{
		all[0].ID: "contingut u",
		all[5].ID: "contingut dos",
	}
	for id, c := range want {
		if err := src.db.SetContent(id, c); err != nil {
			t.Fatal(err)
		}
	}
	if err := src.db.SetGlobalContext("bibliografia"); err != nil {
		t.Fatal(err)
	}

	bundle, err := src.Export(ExportTypeAll)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	raw, err := json.Marshal(bundle)
	if err != nil {
		t.Fatal(err)
	}

	dst := newTestService(t)
	result, err := dst.Import(raw)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if result.ImportedItems != len(want) {
		t.Errorf("expected %d imported items, got %d", len(want), result.ImportedItems)
	}
	if !result.ContextRestored {
		t.Error("global context should be restored")
	}

	for id, c := range want {
		got, ok, err := dst.db.GetContent(id)
		if err != nil || !ok {
			t.Fatalf("content %s missing after import (ok=%v err=%v)", id, ok, err)
		}
		if got != c {
			t.Errorf("content %s mismatch: want %q got %q", id, c, got)
		}
	}
	ctx, err := dst.db.GetGlobalContext()
	if err != nil || ctx != "bibliografia" {
		t.Errorf("global context mismatch: %q (%v)", ctx, err)
	}
}

// TestImportRejectsMalformedFile verifies malformed bundles fail with
// ImportFormatError and write nothing
func TestImportRejectsMalformedFile(t *testing.T) {
	s := newTestService(t)

	for _, raw := range []string{"not json", `{"version":1}`, `{"items":"nope"}`} {
		_, err := s.Import([]byte(raw))
		var ferr *ImportFormatError
		if !errors.As(err, &ferr) {
			t.Errorf("input %q: expected ImportFormatError, got %v", raw, err)
		}
	}

	ids, err := s.db.ListContentIDs()
	if err != nil {
		t.Fatal(err)
	}
	if len(ids) != 0 {
		t.Errorf("failed imports must not persist content, found %v", ids)
	}
}

// TestExportFilename verifies the bundle download name
func TestExportFilename(t *testing.T) {
	b := &models.LibraryExport{Type: ExportTypeAll, Date: "2026-08-29T10:00:00Z"}
	if got := ExportFilename(b); got != "moodle_library_full_2026-08-29.json" {
		t.Errorf("unexpected filename %q", got)
	}
	b.Type = "quiz"
	if got := ExportFilename(b); got != "moodle_library_quiz_2026-08-29.json" {
		t.Errorf("unexpected filename %q", got)
	}
}
