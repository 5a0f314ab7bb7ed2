// Package reconcile turns checker error records, whose positions reference
// cleaned text, back into page-accurate annotations on the original
// character stream. Each error's cleaned-text span is reverse-resolved
// through the anchor map, the resolved characters are clustered into visual
// lines, and one annotation per line is emitted so errors wrapping across
// lines get one highlight box per line segment.
package reconcile

import (
	"fmt"
	"sort"

	"github.com/obmakesomething/redpen/model"
	"github.com/obmakesomething/redpen/normalize"
)

// Config controls annotation reconciliation.
type Config struct {
	// LineThreshold is the maximum vertical-center distance, in page
	// units, between characters considered part of the same visual line.
	LineThreshold float64

	// PointPad is the half-size of the box synthesized around a
	// character that carries a position but no bounding box.
	PointPad float64
}

// DefaultConfig returns the reconciliation defaults.
func DefaultConfig() Config {
	return Config{
		LineThreshold: 10,
		PointPad:      2,
	}
}

// Stats counts error records dropped during reconciliation. Callers use the
// counts to report partial analysis instead of failing the whole document.
type Stats struct {
	// Malformed counts errors without a wrong-token string.
	Malformed int

	// OutOfRange counts errors whose position lies beyond the cleaned
	// text.
	OutOfRange int
}

// Reconciler maps checker errors to page geometry. It is stateless aside
// from configuration and safe for concurrent use across documents.
type Reconciler struct {
	config Config
}

// New creates a Reconciler with the default configuration.
func New() *Reconciler {
	return &Reconciler{config: DefaultConfig()}
}

// NewWithConfig creates a Reconciler with a custom configuration.
func NewWithConfig(config Config) *Reconciler {
	if config.LineThreshold <= 0 {
		config.LineThreshold = DefaultConfig().LineThreshold
	}
	if config.PointPad <= 0 {
		config.PointPad = DefaultConfig().PointPad
	}
	return &Reconciler{config: config}
}

// Reconcile resolves each error's span through the anchor map and emits
// de-duplicated annotations with line-level bounding boxes. An error whose
// span resolves to no original characters still yields a placeholder
// annotation on page 1 with no box, never a silent drop. Malformed and
// out-of-range errors are skipped and counted in Stats.
func (r *Reconciler) Reconcile(errs []model.SpellError, anchors *normalize.AnchorMap, stream []model.CharRecord) ([]model.Annotation, Stats) {
	var stats Stats
	annotations := make([]model.Annotation, 0, len(errs))
	seen := make(map[string]bool)

	for _, e := range errs {
		if e.Wrong == "" {
			stats.Malformed++
			continue
		}
		if e.Position < 0 || e.Position >= anchors.Len() {
			stats.OutOfRange++
			continue
		}
		end := e.Position + e.Length
		if end > anchors.Len() {
			end = anchors.Len()
		}

		for _, a := range r.resolve(e, anchors.OriginalIndices(e.Position, end), stream) {
			key := dedupKey(a)
			if seen[key] {
				continue
			}
			seen[key] = true
			annotations = append(annotations, a)
		}
	}
	return annotations, stats
}

// resolve builds the annotations for one error from its resolved original
// indices.
func (r *Reconciler) resolve(e model.SpellError, indices []int, stream []model.CharRecord) []model.Annotation {
	var records []model.CharRecord
	for _, idx := range indices {
		if idx >= 0 && idx < len(stream) {
			records = append(records, stream[idx])
		}
	}
	if len(records) == 0 {
		return []model.Annotation{annotate(e, 1, nil)}
	}

	var boxed []model.CharRecord
	for _, rec := range records {
		if rec.Box != nil {
			boxed = append(boxed, rec)
		}
	}
	if len(boxed) == 0 {
		first := records[0]
		if first.Pos != nil {
			box := model.PointBox(*first.Pos, r.config.PointPad)
			return []model.Annotation{annotate(e, first.Page, &box)}
		}
		return []model.Annotation{annotate(e, first.Page, nil)}
	}

	var out []model.Annotation
	for _, group := range r.groupLines(boxed) {
		box := *group[0].Box
		for _, rec := range group[1:] {
			box = box.Union(*rec.Box)
		}
		out = append(out, annotate(e, group[0].Page, &box))
	}
	return out
}

// groupLines sorts records by vertical center and groups consecutive
// records whose centers lie within the line threshold.
func (r *Reconciler) groupLines(records []model.CharRecord) [][]model.CharRecord {
	sorted := make([]model.CharRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Box.VCenter() < sorted[j].Box.VCenter()
	})

	var groups [][]model.CharRecord
	current := []model.CharRecord{sorted[0]}
	for _, rec := range sorted[1:] {
		prev := current[len(current)-1]
		if rec.Box.VCenter()-prev.Box.VCenter() <= r.config.LineThreshold {
			current = append(current, rec)
			continue
		}
		groups = append(groups, current)
		current = []model.CharRecord{rec}
	}
	return append(groups, current)
}

func annotate(e model.SpellError, page int, box *model.BBox) model.Annotation {
	return model.Annotation{
		Wrong:    e.Wrong,
		Correct:  e.Correct,
		Help:     e.Help,
		Category: e.Category,
		Page:     page,
		Box:      box,
	}
}

// dedupKey identifies an annotation by its wrong token, page, and box
// rounded to 2 decimal places, so a checker re-flagging the same token at
// the same spot cannot produce duplicate highlights.
func dedupKey(a model.Annotation) string {
	if a.Box == nil {
		return fmt.Sprintf("%s|%d|nil", a.Wrong, a.Page)
	}
	b := a.Box.Rounded()
	return fmt.Sprintf("%s|%d|%.2f,%.2f,%.2f,%.2f", a.Wrong, a.Page, b.X0, b.Y0, b.X1, b.Y1)
}
