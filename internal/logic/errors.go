package logic

import (
	"errors"
	"fmt"
)

// Not-found conditions carry the offending identifier back to the caller.
// Degenerate inputs (empty rosters, empty candidate pools) are never errors;
// they resolve to documented neutral values so analysis stays total.
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrSessionCompleted = errors.New("session already completed")
	ErrMatchNotFound    = errors.New("historical match not found")
	ErrEmptyCorpus      = errors.New("corpus contains no matches")
)

// InvalidMoveError reports a move for an entity outside the current
// candidate pool. Session state is left untouched when it is returned.
type InvalidMoveError struct {
	Entity string
	Reason string
}

func (e *InvalidMoveError) Error() string {
	return fmt.Sprintf("invalid move %q: %s", e.Entity, e.Reason)
}
