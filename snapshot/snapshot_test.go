package snapshot

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/obmakesomething/redpen/model"
)

func TestSaveWritesJSON(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}

	rec := &Record{
		Input:  "report.pdf",
		Source: "text-layer",
		Annotations: []model.Annotation{
			{Wrong: "되요", Correct: "돼요", Category: model.CategorySpell, Page: 1},
		},
	}
	path, err := store.Save(rec)
	if err != nil {
		t.Fatalf("saving record: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading snapshot: %v", err)
	}
	var loaded Record
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("decoding snapshot: %v", err)
	}
	if loaded.Input != "report.pdf" {
		t.Errorf("unexpected input %q", loaded.Input)
	}
	if loaded.AnnotationCount != 1 {
		t.Errorf("expected annotation count 1, got %d", loaded.AnnotationCount)
	}
	if loaded.ID == "" || loaded.Timestamp.IsZero() {
		t.Error("expected ID and timestamp to be filled in")
	}
	if loaded.Annotations[0].Category != model.CategorySpell {
		t.Errorf("category did not round-trip, got %v", loaded.Annotations[0].Category)
	}
}

func TestPreviewTruncates(t *testing.T) {
	long := strings.Repeat("가", 300)
	got := Preview(long)
	if len([]rune(got)) != previewRunes+3 {
		t.Errorf("unexpected preview length %d", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("expected ellipsis suffix, got %q", got[len(got)-10:])
	}
}

func TestPreviewShortTextUnchanged(t *testing.T) {
	if got := Preview("짧은 글"); got != "짧은 글" {
		t.Errorf("expected unchanged text, got %q", got)
	}
}
