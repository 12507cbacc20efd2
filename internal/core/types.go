package core

import (
	"errors"
	"fmt"

	"lifeplan_agent/internal/config"
)

// ErrUnavailable is returned without any network call when no credential is configured
var ErrUnavailable = fmt.Errorf("plan synthesis unavailable: %w", config.ErrMissingCredential)

// Input errors. These are the only other failures a caller sees.
var (
	ErrEmptyGoal       = errors.New("goal must not be empty")
	ErrEmptyRequest    = errors.New("modification request must not be empty")
	ErrInvalidDuration = fmt.Errorf("duration must be between %d and %d days", MinDays, MaxDays)
)

// Bounds for custom plan length
const (
	MinDays = 1
	MaxDays = 365
)

// Stage is one state of a plan request
type Stage string

const (
	StageRequesting       Stage = "requesting"
	StageAwaitingResponse Stage = "awaiting_response"
	StageSanitizing       Stage = "sanitizing"
	StageParsing          Stage = "parsing"
	StageRepairing        Stage = "repairing"
	StageValidating       Stage = "validating"
	StageFallback         Stage = "fallback"
	StageDone             Stage = "done"
)

// Fallback reasons, as reported in Result.Reason and the fallback metric
const (
	ReasonPrompt     = "prompt_error"
	ReasonExhausted  = "retries_exhausted"
	ReasonCancelled  = "cancelled"
	ReasonOversize   = "oversize"
	ReasonParse      = "parse_error"
	ReasonValidation = "validation_error"
)
