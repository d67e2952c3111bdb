package audit

import (
	"fmt"
	"strings"
)

// InsufficientInputError means the evaluation had neither a transcript nor
// audio to judge. Nothing is sent to the oracle.
type InsufficientInputError struct{}

func (*InsufficientInputError) Error() string {
	return "audit: no transcript or audio provided"
}

// MissingMetadataError lists the required metadata fields absent from the
// request. All missing fields are reported at once.
type MissingMetadataError struct {
	Missing []string
}

func (e *MissingMetadataError) Error() string {
	return "audit: missing required metadata: " + strings.Join(e.Missing, ", ")
}

// MalformedResponseError means the oracle payload could not be parsed into
// the expected shape or lacked a required field.
type MalformedResponseError struct {
	Reason string
	Err    error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("audit: malformed oracle response: %s", e.Reason)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

// IncompleteCoverageError means the oracle skipped one or more rubric
// criteria. A result missing verdicts is never persisted.
type IncompleteCoverageError struct {
	MissingIDs []string
}

func (e *IncompleteCoverageError) Error() string {
	return "audit: oracle response missing criteria: " + strings.Join(e.MissingIDs, ", ")
}
