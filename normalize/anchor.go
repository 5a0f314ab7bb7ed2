package normalize

// AnchorMap maps cleaned-text rune offsets to the original character-stream
// indices that produced them. It is stored as a dense slice indexed by
// cleaned offset, so sequential reverse lookups during reconciliation stay
// cache-friendly.
//
// Every offset in the cleaned text has at least one entry. An offset maps to
// multiple indices when normalization folded characters together.
type AnchorMap struct {
	anchors [][]int
}

// Len returns the cleaned-text length covered by the map, in runes.
func (m *AnchorMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.anchors)
}

// At returns the original indices for a single cleaned offset. The returned
// slice is owned by the map and must not be modified. Out-of-range offsets
// return nil.
func (m *AnchorMap) At(offset int) []int {
	if m == nil || offset < 0 || offset >= len(m.anchors) {
		return nil
	}
	return m.anchors[offset]
}

// Rebase returns a copy of the map with every original index shifted by
// delta. A map built over a slice of the document stream is rebased by the
// slice's start offset before it joins a document-level map.
func (m *AnchorMap) Rebase(delta int) *AnchorMap {
	if m == nil {
		return nil
	}
	anchors := make([][]int, len(m.anchors))
	for i, idxs := range m.anchors {
		shifted := make([]int, len(idxs))
		for j, idx := range idxs {
			shifted[j] = idx + delta
		}
		anchors[i] = shifted
	}
	return &AnchorMap{anchors: anchors}
}

// Join concatenates maps in order into a single map whose offsets cover the
// concatenation of the underlying cleaned texts.
func Join(maps ...*AnchorMap) *AnchorMap {
	joined := &AnchorMap{}
	for _, m := range maps {
		if m == nil {
			continue
		}
		joined.anchors = append(joined.anchors, m.anchors...)
	}
	return joined
}

// OriginalIndices flattens the original indices for the cleaned-text span
// [start, end), in offset order and then in anchor order within an offset.
// The span is clamped to the map's bounds; a span that clamps to nothing
// returns nil.
func (m *AnchorMap) OriginalIndices(start, end int) []int {
	if m == nil {
		return nil
	}
	if start < 0 {
		start = 0
	}
	if end > len(m.anchors) {
		end = len(m.anchors)
	}
	if start >= end {
		return nil
	}
	var out []int
	for i := start; i < end; i++ {
		out = append(out, m.anchors[i]...)
	}
	return out
}
