package household

import (
	"errors"
	"strings"
)

var (
	ErrRecordNotFound = errors.New("record not found")
	ErrIDRequired     = errors.New("record ID is required")
	ErrModuleDisabled = errors.New("module disabled")
	ErrUnknownModule  = errors.New("unknown module")
	ErrMembers        = errors.New("members must be two distinct non-empty names")
)

// ValidationError reports a create request that was rejected before any
// write. Missing lists required fields that were blank; Problems lists
// other rule violations.
type ValidationError struct {
	Collection string
	Missing    []string
	Problems   []string
}

func (e *ValidationError) Error() string {
	var parts []string

	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}

	parts = append(parts, e.Problems...)

	if len(parts) == 0 {
		return e.Collection + ": invalid record"
	}

	return strings.Join(parts, "; ")
}
