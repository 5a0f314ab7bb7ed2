package redpen

import (
	"fmt"
	"strings"
)

// Warning codes reported by pipeline terminal operations.
const (
	// WarnOCRFallback indicates the text layer was too sparse and the
	// document was re-extracted with OCR.
	WarnOCRFallback = "ocr-fallback"

	// WarnOCRUnavailable indicates an OCR fallback was wanted but the
	// binary was built without OCR support.
	WarnOCRUnavailable = "ocr-unavailable"

	// WarnParagraphsFailed indicates one or more paragraphs could not be
	// checked and contributed no errors.
	WarnParagraphsFailed = "paragraphs-failed"

	// WarnMalformedErrors indicates checker results were dropped for
	// missing required fields.
	WarnMalformedErrors = "malformed-errors"

	// WarnOutOfRange indicates checker results were dropped for
	// positions beyond the cleaned text.
	WarnOutOfRange = "out-of-range-errors"

	// WarnSnapshotFailed indicates the diagnostic snapshot could not be
	// written. The analysis itself is unaffected.
	WarnSnapshotFailed = "snapshot-failed"
)

// Warning describes a non-fatal issue encountered while processing a
// document. Warnings let a caller distinguish a complete analysis from a
// partial one without treating either as failure.
type Warning struct {
	// Code identifies the warning kind.
	Code string

	// Message is a human-readable description.
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// FormatWarnings renders warnings as a single semicolon-separated string
// for logging.
func FormatWarnings(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	parts := make([]string, len(warnings))
	for i, w := range warnings {
		parts[i] = w.String()
	}
	return strings.Join(parts, "; ")
}

func warnf(code, format string, args ...any) Warning {
	return Warning{Code: code, Message: fmt.Sprintf(format, args...)}
}
