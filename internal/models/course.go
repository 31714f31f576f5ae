package models

// ItemType classifies a course item by the Moodle resource it maps to.
type ItemType string

const (
	ItemTypeForum      ItemType = "forum"
	ItemTypePage       ItemType = "page"
	ItemTypeGlossary   ItemType = "glossary"
	ItemTypeFolder     ItemType = "folder"
	ItemTypeQuiz       ItemType = "quiz"
	ItemTypeAssignment ItemType = "assignment"
	ItemTypeURL        ItemType = "url"
	ItemTypeFile       ItemType = "file"

	// ItemTypeUnknown labels persisted content whose id no longer exists in
	// the course structure (removed items, imported backups). Orphans are
	// kept and surfaced, never dropped.
	ItemTypeUnknown ItemType = "unknown"
)

// IsValid reports whether t is one of the live item types. "unknown" is a
// display label, not a valid authoring type.
func (t ItemType) IsValid() bool {
	switch t {
	case ItemTypeForum, ItemTypePage, ItemTypeGlossary, ItemTypeFolder,
		ItemTypeQuiz, ItemTypeAssignment, ItemTypeURL, ItemTypeFile:
		return true
	}
	return false
}

// CourseItem is a single generatable resource inside a unit. Items are
// defined entirely in static configuration and never change at runtime.
type CourseItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        ItemType `json:"type"`
	// PromptContext seeds AI generation for this item. Optional.
	PromptContext string `json:"promptContext,omitempty"`
}

// CourseUnit is an ordered block of course items.
type CourseUnit struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Items       []CourseItem `json:"items"`
}

// CourseStructure is the single root of the curriculum: one general section
// plus the ordered teaching units. Constant for the process lifetime.
type CourseStructure struct {
	General CourseUnit   `json:"general"`
	Units   []CourseUnit `json:"units"`
}
