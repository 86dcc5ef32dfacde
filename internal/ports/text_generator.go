package ports

import (
	"context"
	"errors"
)

var (
	// The text-generation collaborator could not produce a response
	// (network error, non-success status, missing credential).
	ErrCollaboratorUnavailable = errors.New("text generation collaborator unavailable")

	// The collaborator rejected the call for quota or rate reasons.
	// Errors carrying it also carry ErrCollaboratorUnavailable.
	ErrQuotaExceeded = errors.New("text generation quota exceeded")
)

// Contract for a hosted text-generation model: submit a prompt, receive text.
type TextGenerator interface {
	// Generate returns the model's text for prompt.
	// Failures wrap ErrCollaboratorUnavailable.
	Generate(ctx context.Context, prompt string) (string, error)
}
