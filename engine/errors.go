/*
errors.go - Error types for the calculation engine

PURPOSE:

	All engine error values in one place. Row-level failures never abort
	a batch: they are attached to the row's Result and the row simply
	contributes zero to the totals.

ERROR CATEGORIES:
 1. Row errors - required fields missing (date/start/end)
 2. Configuration errors - malformed rule boundaries

Note what is deliberately NOT an error: malformed meal/wait values
degrade silently to zero, and a start==end session yields a
zero-duration row. Both are leniency policies inherited from how the
field crews actually fill these sheets in.

SEE ALSO:
  - evaluate.go: attaches MissingFieldsError to rows
  - types.go: Rules.Validate returns ErrInvalidRules
*/
package engine

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrMissingFields is wrapped by MissingFieldsError when a row lacks
	// date, start, or end.
	ErrMissingFields = errors.New("missing required fields")

	// ErrInvalidRules is returned by Rules.Validate when the window
	// boundaries do not strictly increase.
	ErrInvalidRules = errors.New("invalid window rules")
)

// =============================================================================
// ROW ERRORS
// =============================================================================

// MissingFieldsError reports which required row fields failed to
// normalize. The row is still reported, with zero numeric content.
type MissingFieldsError struct {
	Fields []string // subset of "date", "start", "end"
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("missing %s", strings.Join(e.Fields, "/"))
}

func (e *MissingFieldsError) Is(target error) bool {
	return target == ErrMissingFields
}
