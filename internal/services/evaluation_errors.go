package services

import (
	"errors"
	"fmt"
)

var ErrMissingAnalysis = errors.New("location analysis is required")

// ValidationError reports a collaborator response that parsed as JSON but
// broke the numeric or shape contract of an evaluation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid evaluation response: %s: %s", e.Field, e.Reason)
}

// ParseError reports a collaborator response that was not valid JSON after
// code-fence stripping. Preview holds a truncated excerpt for diagnostics.
type ParseError struct {
	Preview string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse collaborator response as JSON: %v (text: %q)", e.Err, e.Preview)
}

func (e *ParseError) Unwrap() error { return e.Err }
