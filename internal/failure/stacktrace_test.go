package failure

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestStacktrace_Nil(t *testing.T) {
	if got := Stacktrace(nil); got != "" {
		t.Errorf("expected empty trace for nil error, got %q", got)
	}
}

func TestStacktrace_Plain(t *testing.T) {
	if got := Stacktrace(errors.New("boom")); got != "boom" {
		t.Errorf("expected plain message, got %q", got)
	}
}

func TestStacktrace_WrappedCauses(t *testing.T) {
	root := errors.New("connection refused")
	mid := fmt.Errorf("failed to reach destination: %w", root)
	top := fmt.Errorf("replication aborted: %w", mid)

	got := Stacktrace(top)

	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), got)
	}
	if lines[0] != "replication aborted: failed to reach destination: connection refused" {
		t.Errorf("unexpected first line %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Caused by: failed to reach destination") {
		t.Errorf("unexpected second line %q", lines[1])
	}
	if lines[2] != "Caused by: connection refused" {
		t.Errorf("unexpected third line %q", lines[2])
	}
}
