package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnsupportedFormat marks an unknown format identifier. The condition
	// is recoverable: the caller picked a format no adapter is registered for.
	ErrUnsupportedFormat = errors.New("unsupported format")
	// ErrMalformedInput marks content an adapter could not structurally decode.
	ErrMalformedInput = errors.New("malformed input")
	// ErrInvalidRange marks audio edit parameters outside the buffer bounds.
	ErrInvalidRange = errors.New("invalid range")
	// ErrNoScript marks a recording attempt against a line with no translated text.
	ErrNoScript = errors.New("no script")
	// ErrValidation marks caller input that fails a business rule.
	ErrValidation = errors.New("validation error")
	// ErrNotFound marks a missing asset or line.
	ErrNotFound = errors.New("not found")
	// ErrTransient marks failures worth retrying, such as storage contention.
	ErrTransient = errors.New("transient failure")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsUserError reports whether the failure stems from caller input rather than
// the pipeline itself, which the CLI surfaces without a stack of context.
func IsUserError(err error) bool {
	return errors.Is(err, ErrUnsupportedFormat) ||
		errors.Is(err, ErrMalformedInput) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrNoScript) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrNotFound)
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
