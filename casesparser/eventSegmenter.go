package casesparser

import (
	"sort"

	"github.com/medkg/tcmcases-api/casesparser/entities"
)

// eventSpan is a half-open [Start, End) character range of one event.
type eventSpan struct {
	Start int
	End   int
}

// segmentEvents partitions [0, textLen) into event spans using the start
// offsets of trigger-word entities. With no triggers the whole text is one
// event. Triggers are sorted by start offset with a stable sort, so input
// order decides ties; two triggers sharing a start offset produce one
// zero-length event, which is accepted. textLen is a rune count.
func segmentEvents(ents []*entities.Entity, textLen int) []eventSpan {
	var triggers []*entities.Entity
	for _, e := range ents {
		if e.Label == entities.LabelEventTrigger {
			triggers = append(triggers, e)
		}
	}
	sort.SliceStable(triggers, func(i, j int) bool {
		return triggers[i].StartOffset < triggers[j].StartOffset
	})

	if len(triggers) == 0 {
		return []eventSpan{{Start: 0, End: textLen}}
	}

	bounds := make([]eventSpan, 0, len(triggers)+1)
	bounds = append(bounds, eventSpan{Start: 0, End: triggers[0].StartOffset})
	for i := 0; i < len(triggers)-1; i++ {
		bounds = append(bounds, eventSpan{Start: triggers[i].StartOffset, End: triggers[i+1].StartOffset})
	}
	bounds = append(bounds, eventSpan{Start: triggers[len(triggers)-1].StartOffset, End: textLen})
	return bounds
}
