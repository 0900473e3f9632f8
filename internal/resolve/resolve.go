// Package resolve interprets a generation result according to the output mode
// it was requested in and tracks the current-response state the summarize
// action feeds on.
package resolve

import (
	"encoding/json"
	"fmt"
	"sync"

	"gemini-gateway/internal/llm"
)

// StructuredAnswer is the fixed JSON shape requested in structured mode.
// Parsing is loose: no schema validation beyond requiring final_summary.
type StructuredAnswer struct {
	ReasoningSteps  []string `json:"reasoning_steps"`
	FinalSummary    string   `json:"final_summary"`
	ConfidenceScore float64  `json:"confidence_score"`
}

// Output is the presentation-ready value produced from a result.
// Structured is non-nil only on the structured path.
type Output struct {
	Text       string
	Sources    []llm.Source
	Structured *StructuredAnswer
}

// StructuredParseError means the structured-mode payload was not the expected
// JSON document. Raw carries the unparsed text so callers can fall back to
// displaying it alongside the error indicator.
type StructuredParseError struct {
	Raw string
	Err error
}

func (e *StructuredParseError) Error() string {
	return fmt.Sprintf("resolve: structured response did not parse: %v", e.Err)
}

func (e *StructuredParseError) Unwrap() error { return e.Err }

// State is the current-response/current-system-prompt pair shared between the
// primary action and the summarize action. Ownership is explicit and guarded
// so the two actions cannot interleave writes.
type State struct {
	mu           sync.Mutex
	response     string
	systemPrompt string
}

func NewState() *State { return &State{} }

// Response returns the text the summarize action would operate on.
func (s *State) Response() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.response
}

// SystemPrompt returns the system prompt recorded for the current response.
func (s *State) SystemPrompt() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.systemPrompt
}

// SetSystemPrompt records the system prompt of the request in flight.
func (s *State) SetSystemPrompt(p string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.systemPrompt = p
}

func (s *State) setResponse(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.response = text
}

// Clear drops the current response and system prompt.
func (s *State) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.response = ""
	s.systemPrompt = ""
}

// Resolver turns results into outputs and updates the bound state on success.
type Resolver struct {
	state *State
}

func NewResolver(state *State) *Resolver {
	return &Resolver{state: state}
}

// Resolve interprets result for the given mode. On the plain path the text
// passes through verbatim and becomes the current response. On the structured
// path the text is parsed as a StructuredAnswer and only final_summary is
// displayed and recorded, so a later summarize call condenses the
// human-readable conclusion rather than the JSON wrapper. Parse failures
// leave the state untouched: a malformed structured answer must never become
// summarize input. Sources pass through unchanged in both modes. Resolving
// the same (result, structured) pair twice yields the same output and state.
func (r *Resolver) Resolve(result llm.Result, structured bool) (Output, error) {
	if !structured {
		r.state.setResponse(result.Text)
		return Output{Text: result.Text, Sources: result.Sources}, nil
	}

	var answer StructuredAnswer
	if err := json.Unmarshal([]byte(result.Text), &answer); err != nil {
		return Output{}, &StructuredParseError{Raw: result.Text, Err: err}
	}
	if answer.FinalSummary == "" {
		return Output{}, &StructuredParseError{
			Raw: result.Text,
			Err: fmt.Errorf("missing final_summary field"),
		}
	}
	r.state.setResponse(answer.FinalSummary)
	return Output{
		Text:       answer.FinalSummary,
		Sources:    result.Sources,
		Structured: &answer,
	}, nil
}
