package response

import (
	"fmt"

	"lifeplan_agent/pkg"
)

// ParseError means the candidate is not syntactically valid JSON
type ParseError struct {
	Repaired bool
	Err      error
}

func (e *ParseError) Error() string {
	if e.Repaired {
		return fmt.Sprintf("candidate is not valid JSON after repair: %v", e.Err)
	}
	return fmt.Sprintf("candidate is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError means the payload parsed but misses something that cannot be defaulted
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid plan: %s %s", e.Field, e.Reason)
}

// OversizeError means the candidate is longer than the ceiling for its plan kind
type OversizeError struct {
	Kind  pkg.PlanKind
	Size  int
	Limit int
}

func (e *OversizeError) Error() string {
	return fmt.Sprintf("%s candidate has %d characters, limit is %d", e.Kind, e.Size, e.Limit)
}
