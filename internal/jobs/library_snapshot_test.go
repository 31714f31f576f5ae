package jobs

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"coursearchitect/internal/course"
	"coursearchitect/internal/database"
	"coursearchitect/internal/library"
	"coursearchitect/internal/models"
)

func newSnapshotJob(t *testing.T) (*LibrarySnapshotJob, *database.DB, string) {
	t.Helper()
	db, err := database.New(":memory:")
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Initialize(); err != nil {
		t.Fatalf("initializing test database: %v", err)
	}
	dir := t.TempDir()
	return NewLibrarySnapshotJob(library.NewService(db), dir), db, dir
}

// TestSnapshotWritesBackupFile verifies a run produces a dated bundle with
// the persisted content
func TestSnapshotWritesBackupFile(t *testing.T) {
	job, db, dir := newSnapshotJob(t)

	itemID := course.AllItems()[0].ID
	if err := db.SetContent(itemID, "contingut de prova"); err != nil {
		t.Fatal(err)
	}

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected one snapshot file, got %d", len(entries))
	}

	raw, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	var bundle models.LibraryExport
	if err := json.Unmarshal(raw, &bundle); err != nil {
		t.Fatalf("snapshot is not a valid bundle: %v", err)
	}
	if len(bundle.Items) != 1 || bundle.Items[0].ID != itemID {
		t.Errorf("snapshot content mismatch: %+v", bundle.Items)
	}
}

// TestSnapshotEmptyLibraryIsNotAnError verifies a fresh store yields no
// file and no failure
func TestSnapshotEmptyLibraryIsNotAnError(t *testing.T) {
	job, _, dir := newSnapshotJob(t)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("empty library should not fail the job: %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 0 {
		t.Errorf("no snapshot expected for an empty library, found %d files", len(entries))
	}
}

// TestSnapshotPrunesOldFiles verifies backups past retention are removed
func TestSnapshotPrunesOldFiles(t *testing.T) {
	job, db, dir := newSnapshotJob(t)

	old := filepath.Join(dir, "moodle_library_full_2020-01-01.json")
	if err := os.WriteFile(old, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().Add(-snapshotRetention - time.Hour)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	if err := db.SetContent(course.AllItems()[0].ID, "nou"); err != nil {
		t.Fatal(err)
	}
	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("expired snapshot should have been pruned")
	}
}

// TestSchedulerRunNow verifies a registered job can be triggered on demand
// without waiting for its nightly slot
func TestSchedulerRunNow(t *testing.T) {
	job, db, dir := newSnapshotJob(t)

	if err := db.SetContent(course.AllItems()[0].ID, "còpia manual"); err != nil {
		t.Fatal(err)
	}

	scheduler := NewJobScheduler()
	scheduler.Register("library_snapshot", job)
	t.Cleanup(scheduler.Stop)

	if err := scheduler.RunNow("library_snapshot"); err != nil {
		t.Fatalf("RunNow: %v", err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) != 1 {
		t.Fatalf("expected one snapshot file after RunNow, got %d", len(entries))
	}

	if err := scheduler.RunNow("no_such_job"); err != nil {
		t.Errorf("unknown job name should be a no-op, got %v", err)
	}
}

// TestNextRunTimeIsThreeAMUTC verifies scheduling lands on the nightly slot
func TestNextRunTimeIsThreeAMUTC(t *testing.T) {
	job, _, _ := newSnapshotJob(t)

	next := job.GetNextRunTime()
	if next.Hour() != 3 || next.Minute() != 0 {
		t.Errorf("expected 03:00 UTC, got %s", next.Format(time.Kitchen))
	}
	if !next.After(time.Now().UTC()) {
		t.Error("next run must be in the future")
	}
}
