package models

// ExtractionPhase tells the UI what the extractor is currently doing.
type ExtractionPhase string

const (
	PhaseExtracting ExtractionPhase = "extracting"
	PhaseOCR        ExtractionPhase = "ocr"
)

// ExtractionProgress is emitted on every processed page so the UI can drive
// a progress indicator. This is a required observable side effect of the
// extraction pipeline, not optional telemetry.
type ExtractionProgress struct {
	File    string          `json:"file"`
	Page    int             `json:"page"`
	Total   int             `json:"total"`
	Percent int             `json:"percent"`
	Phase   ExtractionPhase `json:"phase"`
}

// FileExtraction is the per-file outcome inside a multi-file upload.
type FileExtraction struct {
	Filename string `json:"filename"`
	OK       bool   `json:"ok"`
	Error    string `json:"error,omitempty"`
	Chars    int    `json:"chars"`
}

// ExtractionBatch aggregates a sequential multi-file extraction run. A single
// file's failure never aborts the batch; both counts are reported.
type ExtractionBatch struct {
	Text      string           `json:"text"`
	Files     []FileExtraction `json:"files"`
	Processed int              `json:"processed"`
	Failed    int              `json:"failed"`
}
