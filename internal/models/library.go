package models

// LibraryItem is one row of the content library: a course item joined with
// whatever content has been generated and persisted for it.
type LibraryItem struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Type    ItemType `json:"type"`
	Content string   `json:"content"`
	// Orphan marks content whose id is not present in the course structure.
	Orphan bool `json:"orphan,omitempty"`
}

// LibraryExport is the backup envelope written on export and consumed on
// import. Version is fixed at 1.
type LibraryExport struct {
	Version int    `json:"version"`
	Date    string `json:"date"` // ISO-8601
	// Type is "all" or a single item type tag when the export was filtered.
	Type          string              `json:"type"`
	GlobalContext string              `json:"globalContext,omitempty"`
	Items         []LibraryExportItem `json:"items"`
}

// LibraryExportItem is one (itemId, content) pair within an export bundle.
type LibraryExportItem struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// ImportResult reports what an import actually applied.
type ImportResult struct {
	ImportedItems   int  `json:"importedItems"`
	ContextRestored bool `json:"contextRestored"`
}
