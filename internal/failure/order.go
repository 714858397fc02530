package failure

import (
	"sort"

	"github.com/vietddude/syncrunner/internal/core/domain"
)

// OrderedFailures returns the failures sorted with trace-derived
// records first, then by ascending timestamp. Records missing metadata
// rank as non-trace. The sort is stable, so records with equal trace
// rank and timestamp keep their input order; callers that need a fully
// reproducible summary should append failures in a deterministic order.
func OrderedFailures(failures []domain.FailureReason) []domain.FailureReason {
	ordered := make([]domain.FailureReason, len(failures))
	copy(ordered, failures)

	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := traceRank(ordered[i]), traceRank(ordered[j])
		if ri != rj {
			return ri < rj
		}
		return ordered[i].Timestamp < ordered[j].Timestamp
	})

	return ordered
}

func traceRank(f domain.FailureReason) int {
	if f.FromTrace() {
		return 0
	}
	return 1
}
