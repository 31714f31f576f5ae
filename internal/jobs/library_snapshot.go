package jobs

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"coursearchitect/internal/library"
)

// snapshotRetention is how long nightly backup files are kept on disk.
const snapshotRetention = 30 * 24 * time.Hour

// LibrarySnapshotJob writes a nightly JSON backup of all generated content
// to the backup directory and prunes old snapshots.
type LibrarySnapshotJob struct {
	svc *library.Service
	dir string
}

// NewLibrarySnapshotJob creates the snapshot job targeting dir.
func NewLibrarySnapshotJob(svc *library.Service, dir string) *LibrarySnapshotJob {
	return &LibrarySnapshotJob{svc: svc, dir: dir}
}

// Run exports the full library to a dated file. An empty library is not an
// error; there is just nothing to back up yet.
func (j *LibrarySnapshotJob) Run(ctx context.Context) error {
	bundle, err := j.svc.Export(library.ExportTypeAll)
	if err != nil {
		log.Printf("[SNAPSHOT] Nothing to back up: %v", err)
		return nil
	}

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(j.dir, library.ExportFilename(bundle))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	log.Printf("[SNAPSHOT] Wrote library backup: %s (%d items)", path, len(bundle.Items))

	j.prune()
	return nil
}

// prune removes snapshot files older than the retention window.
func (j *LibrarySnapshotJob) prune() {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		return
	}

	cutoff := time.Now().Add(-snapshotRetention)
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), "moodle_library_") {
			continue
		}
		info, err := e.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(j.dir, e.Name())
		if err := os.Remove(path); err != nil {
			log.Printf("[SNAPSHOT] Failed to prune %s: %v", path, err)
			continue
		}
		log.Printf("[SNAPSHOT] Pruned old backup: %s", path)
	}
}

// GetNextRunTime returns when the job should run next (daily at 3 AM UTC)
func (j *LibrarySnapshotJob) GetNextRunTime() time.Time {
	now := time.Now().UTC()

	nextRun := time.Date(now.Year(), now.Month(), now.Day(), 3, 0, 0, 0, time.UTC)
	if now.After(nextRun) {
		nextRun = nextRun.Add(24 * time.Hour)
	}

	return nextRun
}
