package extract

import (
	"errors"
	"strings"
	"unicode"

	"github.com/obmakesomething/redpen/model"
)

// ErrNoText is returned when extraction produced no text at all.
var ErrNoText = errors.New("extract: no text could be extracted")

// ErrInsufficientText is returned when extraction produced fewer
// non-whitespace characters than the configured minimum. It is distinct
// from ErrNoText so callers can offer an OCR retry for scanned documents
// that have a sparse or broken text layer.
var ErrInsufficientText = errors.New("extract: not enough text extracted")

// Result is the outcome of a document extraction: the positioned character
// stream and its equivalent raw text.
type Result struct {
	// Stream holds one record per character in reading order, including
	// synthesized spaces and newlines at word and line breaks.
	Stream []model.CharRecord

	// RawText is the stream's characters as a single string.
	RawText string

	// Source names the backend that produced the result.
	Source string

	// Pages is the number of pages in the document.
	Pages int
}

// Extractor produces a character stream from a PDF file.
type Extractor interface {
	// Extract reads the document at path. Implementations return
	// ErrNoText or ErrInsufficientText when the document yields no
	// usable text.
	Extract(path string) (*Result, error)
}

// ContentChars counts the non-whitespace characters in the stream.
func ContentChars(stream []model.CharRecord) int {
	n := 0
	for _, rec := range stream {
		if !unicode.IsSpace(rec.Char) {
			n++
		}
	}
	return n
}

// rawText renders the stream back to a plain string.
func rawText(stream []model.CharRecord) string {
	var b strings.Builder
	b.Grow(len(stream))
	for _, rec := range stream {
		b.WriteRune(rec.Char)
	}
	return b.String()
}

// finalize verifies the stream against the minimum content requirement and
// wraps it into a Result.
func finalize(stream []model.CharRecord, source string, pages, minChars int) (*Result, error) {
	if len(stream) == 0 {
		return nil, ErrNoText
	}
	if ContentChars(stream) < minChars {
		return nil, ErrInsufficientText
	}
	return &Result{
		Stream:  stream,
		RawText: rawText(stream),
		Source:  source,
		Pages:   pages,
	}, nil
}
