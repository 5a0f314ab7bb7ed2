package normalize

import (
	"testing"

	"github.com/obmakesomething/redpen/model"
)

// stream builds a character stream from a string with identity positions.
func stream(s string) []model.CharRecord {
	runes := []rune(s)
	recs := make([]model.CharRecord, len(runes))
	for i, r := range runes {
		recs[i] = model.CharRecord{Char: r, Page: 1}
	}
	return recs
}

func TestNormalizeEmpty(t *testing.T) {
	text, anchors := New().Normalize(nil)
	if text != "" {
		t.Errorf("expected empty text, got %q", text)
	}
	if anchors.Len() != 0 {
		t.Errorf("expected empty anchor map, got length %d", anchors.Len())
	}
}

func TestNormalizePlainTextUnchanged(t *testing.T) {
	in := "안녕하세요. 반갑습니다."
	text, anchors := New().Normalize(stream(in))
	if text != in {
		t.Errorf("expected %q, got %q", in, text)
	}
	for i := 0; i < anchors.Len(); i++ {
		got := anchors.At(i)
		if len(got) != 1 || got[0] != i {
			t.Errorf("offset %d: expected identity anchor, got %v", i, got)
		}
	}
}

func TestStripControlCharacters(t *testing.T) {
	recs := stream("가\x00나\x01다")
	text, _ := New().Normalize(recs)
	if text != "가나다" {
		t.Errorf("expected %q, got %q", "가나다", text)
	}
}

func TestPrivateUseReplacedWithSpace(t *testing.T) {
	recs := stream("가나")
	text, anchors := New().Normalize(recs)
	if text != "가 나" {
		t.Errorf("expected %q, got %q", "가 나", text)
	}
	got := anchors.At(1)
	if len(got) != 1 || got[0] != 1 {
		t.Errorf("replacement space should keep the glyph's anchor, got %v", got)
	}
}

func TestHyphenBreakMerged(t *testing.T) {
	text, anchors := New().Normalize(stream("안녕하세-\n요"))
	if text != "안녕하세요" {
		t.Errorf("expected %q, got %q", "안녕하세요", text)
	}
	// 요 sat at original index 6, after the dropped hyphen and newline.
	got := anchors.At(4)
	if len(got) != 1 || got[0] != 6 {
		t.Errorf("expected anchor [6] for 요, got %v", got)
	}
}

func TestWordBreakMerged(t *testing.T) {
	text, _ := New().Normalize(stream("반갑\n습니다"))
	if text != "반갑습니다" {
		t.Errorf("expected %q, got %q", "반갑습니다", text)
	}
}

func TestSentenceBreakNotMerged(t *testing.T) {
	text, _ := New().Normalize(stream("문장입니다.\n새 문장"))
	if text != "문장입니다. 새 문장" {
		t.Errorf("expected sentence break converted to space, got %q", text)
	}
}

func TestWordBreakNearTerminalNotMerged(t *testing.T) {
	// The terminal sits inside the lookback window even though a Korean
	// syllable directly precedes the break.
	text, _ := New().Normalize(stream("끝.이\n다음"))
	if text == "끝.이다음" {
		t.Errorf("break after nearby terminal must not be merged, got %q", text)
	}
}

func TestParticleReattached(t *testing.T) {
	text, _ := New().Normalize(stream("사과 를 먹었다"))
	if text != "사과를 먹었다" {
		t.Errorf("expected %q, got %q", "사과를 먹었다", text)
	}
}

func TestParticleAnchorsPreserved(t *testing.T) {
	text, anchors := New().Normalize(stream("사과 를"))
	if text != "사과를" {
		t.Errorf("expected %q, got %q", "사과를", text)
	}
	got := anchors.At(2)
	if len(got) != 1 || got[0] != 3 {
		t.Errorf("particle should keep its original anchor 3, got %v", got)
	}
}

func TestParticleNotReattachedAfterNonKorean(t *testing.T) {
	in := "apple 을 보다"
	text, _ := New().Normalize(stream(in))
	if text != in {
		t.Errorf("expected %q unchanged, got %q", in, text)
	}
}

func TestKoreanNewlineBecomesSpaceWhenNotMergeable(t *testing.T) {
	// The break follows a Korean syllable but the next character is not
	// Korean, so the word-break merge does not fire and the break is
	// normalized to a space instead.
	text, _ := New().Normalize(stream("한글\n123"))
	if text != "한글 123" {
		t.Errorf("expected %q, got %q", "한글 123", text)
	}
}

func TestResidualNewlineDropped(t *testing.T) {
	text, _ := New().Normalize(stream("123\n456"))
	if text != "123456" {
		t.Errorf("expected residual break dropped, got %q", text)
	}
}

func TestSpaceRunCollapsed(t *testing.T) {
	text, anchors := New().Normalize(stream("가   나"))
	if text != "가 나" {
		t.Errorf("expected %q, got %q", "가 나", text)
	}
	got := anchors.At(1)
	if len(got) != 3 {
		t.Errorf("collapsed space should fold all three anchors, got %v", got)
	}
}

func TestAnchorCompleteness(t *testing.T) {
	in := "사과 를  먹었다.\n그리고 반갑\n습니다."
	_, anchors := New().Normalize(stream(in))
	for i := 0; i < anchors.Len(); i++ {
		got := anchors.At(i)
		if len(got) == 0 {
			t.Errorf("offset %d has no anchors", i)
			continue
		}
		for _, idx := range got {
			if idx < 0 || idx >= len([]rune(in)) {
				t.Errorf("offset %d anchors out of range: %v", i, got)
			}
		}
	}
}

func TestOriginalIndicesOrdered(t *testing.T) {
	in := "반갑\n습니다"
	_, anchors := New().Normalize(stream(in))
	indices := anchors.OriginalIndices(0, anchors.Len())
	for i := 1; i < len(indices); i++ {
		if indices[i] < indices[i-1] {
			t.Fatalf("indices not non-decreasing: %v", indices)
		}
	}
}

func TestOriginalIndicesClamped(t *testing.T) {
	_, anchors := New().Normalize(stream("가나다"))
	if got := anchors.OriginalIndices(-5, 100); len(got) != 3 {
		t.Errorf("expected clamped range to yield 3 indices, got %v", got)
	}
	if got := anchors.OriginalIndices(2, 1); len(got) != 0 {
		t.Errorf("expected empty slice for inverted range, got %v", got)
	}
}

func TestRebaseShiftsIndices(t *testing.T) {
	_, anchors := New().Normalize(stream("가나"))
	shifted := anchors.Rebase(100)
	if got := shifted.At(1); len(got) != 1 || got[0] != 101 {
		t.Errorf("expected shifted anchor [101], got %v", got)
	}
	if got := anchors.At(1); len(got) != 1 || got[0] != 1 {
		t.Errorf("rebase must not mutate the source map, got %v", got)
	}
}

func TestJoinConcatenatesMaps(t *testing.T) {
	_, a := New().Normalize(stream("가나"))
	_, b := New().Normalize(stream("다"))
	joined := Join(a, b.Rebase(2))
	if joined.Len() != 3 {
		t.Fatalf("expected joined length 3, got %d", joined.Len())
	}
	if got := joined.At(2); len(got) != 1 || got[0] != 2 {
		t.Errorf("expected joined anchor [2], got %v", got)
	}
}

func TestFirstParticleInListWins(t *testing.T) {
	// "에" precedes "에서" in the default list, so only "에" re-attaches
	// and the rest of the token keeps its spacing.
	text, _ := New().Normalize(stream("집 에서 왔다"))
	if text != "집에서 왔다" {
		t.Errorf("expected %q, got %q", "집에서 왔다", text)
	}
}
