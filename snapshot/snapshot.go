// Package snapshot persists per-run diagnostic records. A record captures
// what a document-processing run saw and produced: extraction source,
// character counts, text previews, and the full annotation list. Records
// are write-only JSON files for offline debugging; nothing reads them back.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/obmakesomething/redpen/model"
)

// previewRunes caps the raw and cleaned text previews.
const previewRunes = 200

// Record is one diagnostic run snapshot.
type Record struct {
	ID        string    `json:"id"`
	Input     string    `json:"input"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`

	RawChars     int `json:"raw_chars"`
	CleanedChars int `json:"cleaned_chars"`
	ContentChars int `json:"content_chars"`

	RawPreview     string `json:"raw_preview"`
	CleanedPreview string `json:"cleaned_preview"`

	Paragraphs      int `json:"paragraphs"`
	CheckerFailures int `json:"checker_failures"`
	MalformedErrors int `json:"malformed_errors"`
	OutOfRange      int `json:"out_of_range_errors"`

	AnnotationCount int                `json:"annotation_count"`
	Annotations     []model.Annotation `json:"annotations"`
}

// Store writes records into a directory, one JSON file per run.
type Store struct {
	dir string
}

// NewStore creates a snapshot store rooted at dir, creating the directory
// if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("snapshot: creating %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

// Save fills in the record's ID and timestamp if unset and writes it. The
// returned path names the written file.
func (s *Store) Save(rec *Record) (string, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	rec.AnnotationCount = len(rec.Annotations)

	name := fmt.Sprintf("%s_%s.json", rec.Timestamp.Format("20060102_150405"), rec.ID)
	path := filepath.Join(s.dir, name)

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("snapshot: encoding record: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("snapshot: writing %s: %w", path, err)
	}
	return path, nil
}

// Preview truncates text to the preview length.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) <= previewRunes {
		return text
	}
	return string(runes[:previewRunes]) + "..."
}
