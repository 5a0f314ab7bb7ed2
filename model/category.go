package model

import "encoding/json"

// Category classifies a spell-check finding. The set is closed: categories
// reported by external checkers are mapped onto it with ParseCategory, and
// anything unrecognized becomes CategoryOther.
type Category int

const (
	CategoryOther Category = iota
	CategorySpacing
	CategorySpell
	CategoryGrammar
	CategoryTypo
)

// String returns the wire name of the category as external checkers report it.
func (c Category) String() string {
	switch c {
	case CategorySpacing:
		return "SPACING"
	case CategorySpell:
		return "SPELL"
	case CategoryGrammar:
		return "GRAMMAR"
	case CategoryTypo:
		return "TYPO"
	default:
		return "OTHER"
	}
}

// Label returns the Korean display label used in annotation titles.
func (c Category) Label() string {
	switch c {
	case CategorySpacing:
		return "띄어쓰기"
	case CategorySpell:
		return "맞춤법"
	case CategoryGrammar:
		return "문법"
	case CategoryTypo:
		return "오타"
	default:
		return "기타"
	}
}

// RGB returns the highlight color for the category, each component in the
// 0..1 range.
func (c Category) RGB() (r, g, b float64) {
	switch c {
	case CategorySpacing:
		return 0, 0.5, 1 // blue
	case CategorySpell, CategoryTypo:
		return 1, 0, 0 // red
	case CategoryGrammar:
		return 1, 0.8, 0 // yellow
	default:
		return 1, 0.4, 0 // orange
	}
}

// MarshalJSON writes the category's wire name.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON reads a wire name, folding unknown values to CategoryOther.
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*c = ParseCategory(s)
	return nil
}

// ParseCategory maps a checker-reported category string onto the closed set.
// Checkers disagree on spelling ("GRAMMAR" vs "GRAMMER"), so the known
// variants are folded together; unknown values map to CategoryOther.
func ParseCategory(s string) Category {
	switch s {
	case "SPACING":
		return CategorySpacing
	case "SPELL", "SPELLING":
		return CategorySpell
	case "GRAMMAR", "GRAMMER":
		return CategoryGrammar
	case "TYPO":
		return CategoryTypo
	default:
		return CategoryOther
	}
}
