package schedule

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoRecords is returned when no valid record remains after normalization.
var ErrNoRecords = errors.New("no valid schedule records")

// ValidationError describes one rejected row.
type ValidationError struct {
	Row    int
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("row %d: %s: %s", e.Row, e.Field, e.Reason)
	}
	return fmt.Sprintf("row %d: %s %q: %s", e.Row, e.Field, e.Value, e.Reason)
}

// RejectedRowsError aborts a build under PolicyAbort. It unwraps to every
// row-level ValidationError.
type RejectedRowsError struct {
	Rejections []*ValidationError
}

func (e *RejectedRowsError) Count() int {
	return len(e.Rejections)
}

func (e *RejectedRowsError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "schedule validation failed (%d rejected rows):", len(e.Rejections))
	for _, r := range e.Rejections {
		b.WriteString("\n  - ")
		b.WriteString(r.Error())
	}
	return b.String()
}

func (e *RejectedRowsError) Unwrap() []error {
	errs := make([]error, len(e.Rejections))
	for i, r := range e.Rejections {
		errs[i] = r
	}
	return errs
}
