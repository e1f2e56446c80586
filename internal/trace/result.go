package trace

import (
	"github.com/normanking/chrest/internal/chrest"
	"github.com/normanking/chrest/internal/pattern"
)

// FromResult builds the episode for presenting p at time at.
func FromResult(runID string, p *pattern.List, at int, r chrest.Result) *Episode {
	e := &Episode{
		RunID:         runID,
		Modality:      p.Modality().String(),
		Pattern:       p.String(),
		PresentedAt:   at,
		Status:        r.Status.String(),
		CognitionTime: r.Time,
	}
	if r.Recognised != nil {
		ref := r.Recognised.Reference()
		e.RecognisedRef = &ref
	}
	if r.Learned != nil {
		ref := r.Learned.Reference()
		e.LearnedRef = &ref
	}
	return e
}
