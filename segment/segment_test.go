package segment

import (
	"strings"
	"testing"

	"github.com/obmakesomething/redpen/model"
)

func stream(s string, page int) []model.CharRecord {
	runes := []rune(s)
	recs := make([]model.CharRecord, len(runes))
	for i, r := range runes {
		recs[i] = model.CharRecord{Char: r, Page: page}
	}
	return recs
}

func TestSegmentEmpty(t *testing.T) {
	if got := New().Segment(nil); len(got) != 0 {
		t.Errorf("expected no paragraphs, got %d", len(got))
	}
}

func TestSegmentWhitespaceOnlyDiscarded(t *testing.T) {
	if got := New().Segment(stream("  \n\n   \n", 1)); len(got) != 0 {
		t.Errorf("whitespace-only chunks must be discarded, got %d", len(got))
	}
}

func TestSegmentSingleParagraph(t *testing.T) {
	in := "짧은 문단입니다."
	got := New().Segment(stream(in, 1))
	if len(got) != 1 {
		t.Fatalf("expected 1 paragraph, got %d", len(got))
	}
	p := got[0]
	if p.Text != in {
		t.Errorf("expected %q, got %q", in, p.Text)
	}
	if p.Start != 0 || p.End != len([]rune(in)) {
		t.Errorf("unexpected offsets start=%d end=%d", p.Start, p.End)
	}
	if p.Page != 1 {
		t.Errorf("expected page 1, got %d", p.Page)
	}
}

func TestSegmentBlankLineSplit(t *testing.T) {
	in := "첫 문단입니다.\n\n둘째 문단입니다."
	got := New().Segment(stream(in, 1))
	if len(got) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(got))
	}
	if got[0].Text != "첫 문단입니다." {
		t.Errorf("unexpected first paragraph %q", got[0].Text)
	}
	if got[1].Text != "둘째 문단입니다." {
		t.Errorf("unexpected second paragraph %q", got[1].Text)
	}
	if got[1].Start <= got[0].End {
		t.Errorf("second paragraph must start after the blank line, start=%d prevEnd=%d",
			got[1].Start, got[0].End)
	}
}

func TestSegmentSingleNewlineKept(t *testing.T) {
	in := "한 줄입니다.\n다음 줄입니다."
	got := New().Segment(stream(in, 1))
	if len(got) != 1 {
		t.Fatalf("single newline must not split, got %d paragraphs", len(got))
	}
}

func TestSegmentSoftSplitAtSentenceEnd(t *testing.T) {
	// 305 characters with a sentence terminal at index 300 and a newline
	// right after it. The soft size rule must close the paragraph at that
	// newline even without a blank line.
	in := strings.Repeat("가", 300) + ".\n끝남다"
	runes := []rune(in)
	if len(runes) != 305 {
		t.Fatalf("fixture length %d", len(runes))
	}
	got := New().Segment(stream(in, 2))
	if len(got) != 2 {
		t.Fatalf("expected soft split into 2 paragraphs, got %d", len(got))
	}
	if got[0].End != 301 {
		t.Errorf("expected first paragraph to end at the newline (301), got %d", got[0].End)
	}
	if got[1].Start != 302 {
		t.Errorf("expected second paragraph to start after the newline, got %d", got[1].Start)
	}
	if got[1].Text != "끝남다" {
		t.Errorf("unexpected trailing paragraph %q", got[1].Text)
	}
}

func TestSegmentNoSoftSplitWithoutTerminal(t *testing.T) {
	in := strings.Repeat("가", 320) + "\n" + "계속"
	got := New().Segment(stream(in, 1))
	if len(got) != 1 {
		t.Fatalf("newline without a preceding terminal must not soft-split, got %d", len(got))
	}
}

func TestSegmentNoSoftSplitBelowLimit(t *testing.T) {
	in := "짧은 문장.\n" + strings.Repeat("나", 50)
	got := New().Segment(stream(in, 1))
	if len(got) != 1 {
		t.Fatalf("short accumulation must not soft-split, got %d", len(got))
	}
}

func TestSegmentPageFromFirstChar(t *testing.T) {
	first := stream("첫 페이지 문단.\n\n", 1)
	second := stream("둘째 페이지 문단.", 2)
	got := New().Segment(append(first, second...))
	if len(got) != 2 {
		t.Fatalf("expected 2 paragraphs, got %d", len(got))
	}
	if got[0].Page != 1 || got[1].Page != 2 {
		t.Errorf("expected pages 1 and 2, got %d and %d", got[0].Page, got[1].Page)
	}
}

func TestSegmentCustomLimit(t *testing.T) {
	seg := NewWithConfig(Config{MaxChars: 10})
	in := "열 자를 넘는 문장이다.\n더 온다"
	got := seg.Segment(stream(in, 1))
	if len(got) != 2 {
		t.Fatalf("expected custom limit to soft-split, got %d paragraphs", len(got))
	}
}
