package failure

import (
	"testing"

	"github.com/vietddude/syncrunner/internal/core/domain"
)

func reason(name string, fromTrace bool, ts int64) domain.FailureReason {
	metadata := map[string]any{
		domain.MetadataJobID:         int64(1),
		domain.MetadataAttemptNumber: 1,
	}
	if fromTrace {
		metadata[domain.MetadataFromTrace] = true
	}
	return domain.FailureReason{
		InternalMessage: name,
		Timestamp:       ts,
		Metadata:        metadata,
	}
}

func assertOrder(t *testing.T, got []domain.FailureReason, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("expected %d failures, got %d", len(want), len(got))
	}
	for i, name := range want {
		if got[i].InternalMessage != name {
			t.Errorf("position %d: expected %q, got %q", i, name, got[i].InternalMessage)
		}
	}
}

func TestOrderedFailures_TraceFirst(t *testing.T) {
	// Trace-derived records come first even with a later timestamp
	got := OrderedFailures([]domain.FailureReason{
		reason("B", false, 10),
		reason("A", true, 50),
	})
	assertOrder(t, got, "A", "B")
}

func TestOrderedFailures_TimestampWithinRank(t *testing.T) {
	got := OrderedFailures([]domain.FailureReason{
		reason("A", true, 50),
		reason("C", true, 10),
	})
	assertOrder(t, got, "C", "A")
}

func TestOrderedFailures_MixedRanksAndTimestamps(t *testing.T) {
	got := OrderedFailures([]domain.FailureReason{
		reason("late-error", false, 400),
		reason("early-error", false, 5),
		reason("late-trace", true, 300),
		reason("early-trace", true, 20),
	})
	assertOrder(t, got, "early-trace", "late-trace", "early-error", "late-error")
}

func TestOrderedFailures_NilMetadataRanksAsNonTrace(t *testing.T) {
	noMetadata := domain.FailureReason{InternalMessage: "bare", Timestamp: 1}

	got := OrderedFailures([]domain.FailureReason{
		noMetadata,
		reason("traced", true, 100),
	})
	assertOrder(t, got, "traced", "bare")
}

func TestOrderedFailures_StableForEqualKeys(t *testing.T) {
	// Equal trace rank and timestamp keep insertion order
	got := OrderedFailures([]domain.FailureReason{
		reason("first", false, 10),
		reason("second", false, 10),
		reason("third", false, 10),
	})
	assertOrder(t, got, "first", "second", "third")
}

func TestOrderedFailures_DoesNotMutateInput(t *testing.T) {
	input := []domain.FailureReason{
		reason("B", false, 10),
		reason("A", true, 50),
	}

	_ = OrderedFailures(input)

	if input[0].InternalMessage != "B" || input[1].InternalMessage != "A" {
		t.Errorf("input slice was reordered: %q, %q", input[0].InternalMessage, input[1].InternalMessage)
	}
}
