package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCandidate means the provider returned a well-formed response
	// with no candidates to extract text from.
	ErrNoCandidate = errors.New("llm: response carried no candidates")

	// ErrEmptyContent means the first candidate carried no text content.
	ErrEmptyContent = errors.New("llm: candidate carried no text content")

	// ErrGroundingUnsupported is returned by providers that cannot attach
	// a web-search tool to a generation request.
	ErrGroundingUnsupported = errors.New("llm: provider does not support grounding")
)

// HTTPStatusError is a non-2xx provider response, with the provider's own
// message when the error body could be decoded.
type HTTPStatusError struct {
	Status  int
	Message string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("llm: provider returned %d: %s", e.Status, e.Message)
}

// RetriesExhaustedError is terminal: every attempt failed. It wraps the
// last underlying cause.
type RetriesExhaustedError struct {
	Attempts int
	Last     error
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("llm: all %d attempts failed: %v", e.Attempts, e.Last)
}

func (e *RetriesExhaustedError) Unwrap() error { return e.Last }
