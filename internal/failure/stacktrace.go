package failure

import (
	"errors"
	"strings"
)

// Stacktrace renders an error and its wrapped causes into trace text.
// The outermost error comes first; each wrapped cause follows on its
// own line, mirroring how the runner wraps errors with %w.
func Stacktrace(err error) string {
	if err == nil {
		return ""
	}

	var b strings.Builder
	b.WriteString(err.Error())

	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		b.WriteString("\nCaused by: ")
		b.WriteString(cause.Error())
	}

	return b.String()
}
