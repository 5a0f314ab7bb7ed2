package normalize

import (
	"github.com/obmakesomething/redpen/model"
)

// DefaultParticles is the closed set of Korean particles (조사) that justified
// PDF text sometimes detaches from their noun with a spurious space. Order
// matters: matching tries the list front to back and the first hit wins, so
// "에" shadows "에서" at the same position. That mirrors the behavior the
// pipeline was tuned against; switch to longest-match only with evidence from
// real documents.
var DefaultParticles = []string{
	"이", "가", "을", "를", "은", "는", "와", "과", "의", "에", "도", "만",
	"에서", "부터", "까지", "로", "으로",
}

// Config controls normalization behavior.
type Config struct {
	// Particles is the particle set for re-attachment, tried in order.
	Particles []string

	// TerminalLookback is how many characters before a line break are
	// scanned for sentence-terminal punctuation when deciding whether a
	// broken Korean word may be merged.
	TerminalLookback int
}

// DefaultConfig returns the configuration the pipeline was tuned with.
func DefaultConfig() Config {
	return Config{
		Particles:        DefaultParticles,
		TerminalLookback: 3,
	}
}

// Normalizer cleans extracted character streams for grammar checking while
// maintaining an anchor map back to the original stream.
type Normalizer struct {
	config Config
}

// New creates a Normalizer with the default configuration.
func New() *Normalizer {
	return &Normalizer{config: DefaultConfig()}
}

// NewWithConfig creates a Normalizer with a custom configuration.
func NewWithConfig(config Config) *Normalizer {
	if len(config.Particles) == 0 {
		config.Particles = DefaultParticles
	}
	if config.TerminalLookback <= 0 {
		config.TerminalLookback = 3
	}
	return &Normalizer{config: config}
}

// Normalize runs all cleanup stages over the character stream and returns
// the cleaned text together with its anchor map. The stages run in a fixed
// order; in particular hyphenation merge must precede the Korean word-break
// merge so a trailing hyphen is never treated as part of a broken word.
func (n *Normalizer) Normalize(stream []model.CharRecord) (string, *AnchorMap) {
	text, anchors := stripNoise(stream)
	text, anchors = mergeHyphenBreaks(text, anchors)
	text, anchors = n.mergeWordBreaks(text, anchors)
	text, anchors = n.mergeParticles(text, anchors)
	text, anchors = normalizeSentenceBreaks(text, anchors)
	text, anchors = collapseSpaces(text, anchors)
	return string(text), &AnchorMap{anchors: anchors}
}

// stripNoise removes control characters and NUL bytes outright and replaces
// PDF private-use marker glyphs (U+F000..U+F0FF, used by generators for
// bullets and icons) with a single anchored space. Control characters never
// correspond to visible glyphs, so they are the one category dropped without
// an anchor.
func stripNoise(stream []model.CharRecord) ([]rune, [][]int) {
	text := make([]rune, 0, len(stream))
	anchors := make([][]int, 0, len(stream))

	for i, rec := range stream {
		c := rec.Char
		if c == 0 {
			continue
		}
		if c < 0x20 && c != '\n' && c != '\t' && c != '\r' {
			continue
		}
		if c >= 0xF000 && c <= 0xF0FF {
			text = append(text, ' ')
			anchors = append(anchors, []int{i})
			continue
		}
		text = append(text, c)
		anchors = append(anchors, []int{i})
	}
	return text, anchors
}

// mergeHyphenBreaks removes hyphen+newline line-wrap artifacts, joining the
// two word fragments directly. Neither character keeps an anchor: the hyphen
// and the break are layout, not content.
func mergeHyphenBreaks(text []rune, anchors [][]int) ([]rune, [][]int) {
	out := make([]rune, 0, len(text))
	outAnchors := make([][]int, 0, len(anchors))

	for i := 0; i < len(text); {
		if i+1 < len(text) && text[i] == '-' && text[i+1] == '\n' {
			i += 2
			continue
		}
		out = append(out, text[i])
		outAnchors = append(outAnchors, anchors[i])
		i++
	}
	return out, outAnchors
}

// mergeWordBreaks joins Korean words split by a single line break. The break
// is only removed when a Korean syllable sits on both sides and no
// sentence-terminal punctuation appears in the lookback window before the
// break; otherwise stage five handles the newline as a sentence or paragraph
// break.
func (n *Normalizer) mergeWordBreaks(text []rune, anchors [][]int) ([]rune, [][]int) {
	out := make([]rune, 0, len(text))
	outAnchors := make([][]int, 0, len(anchors))

	for i := 0; i < len(text); {
		if i+2 < len(text) &&
			isKorean(text[i]) && text[i+1] == '\n' && isKorean(text[i+2]) &&
			!n.nearSentenceEnd(text, i+1) {
			out = append(out, text[i])
			outAnchors = append(outAnchors, anchors[i])
			i += 2 // the break itself is dropped without an anchor
			continue
		}
		out = append(out, text[i])
		outAnchors = append(outAnchors, anchors[i])
		i++
	}
	return out, outAnchors
}

// mergeParticles re-attaches a particle to its noun by removing the single
// spurious space between a Korean syllable and a known particle token. The
// dropped space keeps no anchor. Matching never looks across newlines.
func (n *Normalizer) mergeParticles(text []rune, anchors [][]int) ([]rune, [][]int) {
	out := make([]rune, 0, len(text))
	outAnchors := make([][]int, 0, len(anchors))

	for i := 0; i < len(text); {
		if i+2 < len(text) && isKorean(text[i]) && text[i+1] == ' ' {
			if particle := n.matchParticle(text, i+2); particle != nil {
				out = append(out, text[i])
				outAnchors = append(outAnchors, anchors[i])
				for j := range particle {
					out = append(out, particle[j])
					outAnchors = append(outAnchors, anchors[i+2+j])
				}
				i += 2 + len(particle)
				continue
			}
		}
		out = append(out, text[i])
		outAnchors = append(outAnchors, anchors[i])
		i++
	}
	return out, outAnchors
}

// matchParticle returns the first configured particle that matches text at
// pos, or nil. First match in list order wins.
func (n *Normalizer) matchParticle(text []rune, pos int) []rune {
	for _, p := range n.config.Particles {
		particle := []rune(p)
		if pos+len(particle) > len(text) {
			continue
		}
		match := true
		for j := range particle {
			if text[pos+j] != particle[j] {
				match = false
				break
			}
		}
		if match {
			return particle
		}
	}
	return nil
}

// normalizeSentenceBreaks converts a newline that follows sentence-terminal
// punctuation, or a Korean syllable, into a single space. The space keeps
// the newline's anchor since checker-visible content still references that
// position. Any other newline (after digits, Latin text, or at the start of
// the stream) is residual layout and is dropped without an anchor.
func normalizeSentenceBreaks(text []rune, anchors [][]int) ([]rune, [][]int) {
	out := make([]rune, 0, len(text))
	outAnchors := make([][]int, 0, len(anchors))

	for i, c := range text {
		if c != '\n' {
			out = append(out, c)
			outAnchors = append(outAnchors, anchors[i])
			continue
		}
		if i > 0 && (isTerminal(text[i-1]) || isKorean(text[i-1])) {
			out = append(out, ' ')
			outAnchors = append(outAnchors, anchors[i])
		}
	}
	return out, outAnchors
}

// collapseSpaces reduces runs of two or more spaces to one. The dropped
// spaces' anchors are folded into the retained space so no original index
// goes missing from the map.
func collapseSpaces(text []rune, anchors [][]int) ([]rune, [][]int) {
	out := make([]rune, 0, len(text))
	outAnchors := make([][]int, 0, len(anchors))

	for i := 0; i < len(text); {
		if text[i] != ' ' {
			out = append(out, text[i])
			outAnchors = append(outAnchors, anchors[i])
			i++
			continue
		}
		merged := append([]int(nil), anchors[i]...)
		i++
		for i < len(text) && text[i] == ' ' {
			merged = append(merged, anchors[i]...)
			i++
		}
		out = append(out, ' ')
		outAnchors = append(outAnchors, merged)
	}
	return out, outAnchors
}

// nearSentenceEnd reports whether sentence-terminal punctuation appears
// within the lookback window before pos.
func (n *Normalizer) nearSentenceEnd(text []rune, pos int) bool {
	start := pos - n.config.TerminalLookback
	if start < 0 {
		start = 0
	}
	for i := start; i < pos; i++ {
		if isTerminal(text[i]) {
			return true
		}
	}
	return false
}

func isTerminal(c rune) bool {
	return c == '.' || c == '!' || c == '?'
}

// isKorean reports whether the rune is a Hangul syllable or jamo.
func isKorean(c rune) bool {
	return (c >= '가' && c <= '힣') ||
		(c >= 'ㄱ' && c <= 'ㅎ') ||
		(c >= 'ㅏ' && c <= 'ㅣ')
}
