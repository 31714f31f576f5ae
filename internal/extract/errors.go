package extract

import "fmt"

// ErrorKind classifies extraction failures.
type ErrorKind string

const (
	// IoFailure: the file bytes could not be read or decoded as text.
	IoFailure ErrorKind = "io_failure"
	// CorruptOrProtected: the PDF container could not be parsed at all.
	CorruptOrProtected ErrorKind = "corrupt_or_protected"
	// PageProcessingFailure: one page failed; recovered inline with a
	// placeholder, never surfaced as a document-level error.
	PageProcessingFailure ErrorKind = "page_processing_failure"
)

// ExtractionError is the document-level failure type. Page-level failures
// are recovered in place and never reach callers as errors.
type ExtractionError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *ExtractionError) Unwrap() error { return e.Err }
