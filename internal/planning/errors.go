package planning

import (
	"errors"
	"fmt"
)

// Every backend failure crossing into this package is classified as exactly
// one of these. Callers branch with errors.Is.
var (
	// ErrNotFound means the referenced employee, project or assignment no
	// longer exists remotely.
	ErrNotFound = errors.New("planning: not found")

	// ErrTransient is a retryable backend or network failure. Optimistic
	// local changes are rolled back before it is returned.
	ErrTransient = errors.New("planning: transient backend failure")

	// ErrValidation is malformed input, rejected before any optimistic
	// update or backend call.
	ErrValidation = errors.New("planning: invalid input")
)

// classify wraps backend errors into the package taxonomy. Errors already
// carrying a taxonomy sentinel pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrTransient) || errors.Is(err, ErrValidation) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrTransient, err)
}
