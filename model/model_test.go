package model

import (
	"math"
	"testing"
)

func TestBBoxUnion(t *testing.T) {
	a := NewBBox(10, 10, 20, 20)
	b := NewBBox(15, 5, 30, 18)

	u := a.Union(b)
	if u.X0 != 10 || u.Y0 != 5 || u.X1 != 30 || u.Y1 != 20 {
		t.Errorf("unexpected union: %+v", u)
	}
}

func TestBBoxNormalizesSwappedCorners(t *testing.T) {
	b := NewBBox(20, 20, 10, 10)
	if b.X0 != 10 || b.Y0 != 10 || b.X1 != 20 || b.Y1 != 20 {
		t.Errorf("corners not normalized: %+v", b)
	}
}

func TestBBoxVCenter(t *testing.T) {
	b := NewBBox(0, 100, 50, 110)
	if b.VCenter() != 105 {
		t.Errorf("expected vcenter 105, got %f", b.VCenter())
	}
}

func TestBBoxClip(t *testing.T) {
	page := NewBBox(0, 0, 612, 792)
	b := NewBBox(-5, 780, 100, 800)

	clipped := b.Clip(page)
	if clipped.X0 != 0 || clipped.Y1 != 792 {
		t.Errorf("box not clipped to page: %+v", clipped)
	}
	if !clipped.IsValid() {
		t.Error("clipped box should still be valid")
	}

	// A box entirely outside the page clips to an invalid box.
	outside := NewBBox(700, 800, 750, 850).Clip(page)
	if outside.IsValid() {
		t.Errorf("expected invalid box after clipping outside region, got %+v", outside)
	}
}

func TestBBoxIsValid(t *testing.T) {
	if (BBox{X0: 0, Y0: 0, X1: 0, Y1: 10}).IsValid() {
		t.Error("zero-width box should be invalid")
	}
	if (BBox{X0: 0, Y0: 0, X1: math.NaN(), Y1: 10}).IsValid() {
		t.Error("NaN box should be invalid")
	}
	if !NewBBox(0, 0, 1, 1).IsValid() {
		t.Error("unit box should be valid")
	}
}

func TestBBoxRounded(t *testing.T) {
	b := BBox{X0: 1.23456, Y0: 2.34567, X1: 3.45678, Y1: 4.56789}
	r := b.Rounded()
	if r.X0 != 1.23 || r.Y0 != 2.35 || r.X1 != 3.46 || r.Y1 != 4.57 {
		t.Errorf("unexpected rounding: %+v", r)
	}
}

func TestPointBox(t *testing.T) {
	b := PointBox(Point{X: 100, Y: 200}, 5)
	if !b.IsValid() {
		t.Fatal("point box should be valid")
	}
	if !b.Contains(Point{X: 100, Y: 200}) {
		t.Error("point box should contain its center")
	}
}

func TestCategoryRoundTrip(t *testing.T) {
	for _, c := range []Category{CategorySpacing, CategorySpell, CategoryGrammar, CategoryTypo} {
		if got := ParseCategory(c.String()); got != c {
			t.Errorf("ParseCategory(%q) = %v, want %v", c.String(), got, c)
		}
	}
}

func TestParseCategoryVariants(t *testing.T) {
	// Bareun historically reports GRAMMER.
	if ParseCategory("GRAMMER") != CategoryGrammar {
		t.Error("GRAMMER should map to grammar")
	}
	if ParseCategory("something-else") != CategoryOther {
		t.Error("unknown categories should map to other")
	}
}

func TestCategoryColors(t *testing.T) {
	r, g, b := CategorySpacing.RGB()
	if r != 0 || g != 0.5 || b != 1 {
		t.Errorf("unexpected spacing color: %f %f %f", r, g, b)
	}
	// Typo shares the spell color.
	r1, g1, b1 := CategorySpell.RGB()
	r2, g2, b2 := CategoryTypo.RGB()
	if r1 != r2 || g1 != g2 || b1 != b2 {
		t.Error("spell and typo should share a color")
	}
}

func TestCharRecordHasGeometry(t *testing.T) {
	if (CharRecord{Char: 'a', Page: 1}).HasGeometry() {
		t.Error("record without pos/box should have no geometry")
	}
	p := Point{X: 1, Y: 2}
	if !(CharRecord{Char: 'a', Page: 1, Pos: &p}).HasGeometry() {
		t.Error("record with pos should have geometry")
	}
}
