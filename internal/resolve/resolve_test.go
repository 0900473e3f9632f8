package resolve

import (
	"errors"
	"testing"

	"gemini-gateway/internal/llm"
)

func TestResolvePlainText(t *testing.T) {
	state := NewState()
	r := NewResolver(state)

	out, err := r.Resolve(llm.Result{Text: "4."}, false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.Text != "4." {
		t.Errorf("text = %q, want %q", out.Text, "4.")
	}
	if len(out.Sources) != 0 {
		t.Errorf("sources = %v, want empty", out.Sources)
	}
	if out.Structured != nil {
		t.Error("structured must be nil on the plain path")
	}
	if state.Response() != "4." {
		t.Errorf("state response = %q, want full text", state.Response())
	}
}

func TestResolveStructured(t *testing.T) {
	state := NewState()
	r := NewResolver(state)

	raw := `{"reasoning_steps":["a","b"],"final_summary":"Answer: 4","confidence_score":95}`
	out, err := r.Resolve(llm.Result{Text: raw}, true)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if out.Text != "Answer: 4" {
		t.Errorf("text = %q, want final_summary", out.Text)
	}
	if out.Structured == nil {
		t.Fatal("expected structured answer")
	}
	if len(out.Structured.ReasoningSteps) != 2 || out.Structured.ConfidenceScore != 95 {
		t.Errorf("structured = %+v", out.Structured)
	}
	// The summarize action must condense the conclusion, not the JSON wrapper.
	if state.Response() != "Answer: 4" {
		t.Errorf("state response = %q, want final_summary only", state.Response())
	}
}

func TestResolveStructuredParseFailure(t *testing.T) {
	state := NewState()
	r := NewResolver(state)

	_, err := r.Resolve(llm.Result{Text: "oops"}, true)

	var parseErr *StructuredParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *StructuredParseError", err)
	}
	if parseErr.Raw != "oops" {
		t.Errorf("raw = %q, want the unparsed text for fallback display", parseErr.Raw)
	}
	if state.Response() != "" {
		t.Errorf("state response = %q, must stay untouched on parse failure", state.Response())
	}
}

func TestResolveStructuredMissingFinalSummary(t *testing.T) {
	r := NewResolver(NewState())

	_, err := r.Resolve(llm.Result{Text: `{"reasoning_steps":["a"]}`}, true)

	var parseErr *StructuredParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("error = %v, want *StructuredParseError for shape mismatch", err)
	}
}

func TestResolveSourcesPassThrough(t *testing.T) {
	r := NewResolver(NewState())

	sources := []llm.Source{
		{URI: "https://a.example", Title: "A"},
		{URI: "https://b.example", Title: "B"},
	}
	out, err := r.Resolve(llm.Result{Text: "grounded", Sources: sources}, false)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(out.Sources) != 2 || out.Sources[0] != sources[0] || out.Sources[1] != sources[1] {
		t.Errorf("sources = %+v, want unchanged pass-through", out.Sources)
	}
}

func TestResolveIdempotent(t *testing.T) {
	state := NewState()
	r := NewResolver(state)
	result := llm.Result{Text: `{"reasoning_steps":[],"final_summary":"S","confidence_score":50}`}

	first, err := r.Resolve(result, true)
	if err != nil {
		t.Fatalf("first Resolve: %v", err)
	}
	second, err := r.Resolve(result, true)
	if err != nil {
		t.Fatalf("second Resolve: %v", err)
	}
	if first.Text != second.Text {
		t.Errorf("outputs differ: %q vs %q", first.Text, second.Text)
	}
	if state.Response() != "S" {
		t.Errorf("state response = %q after repeated resolve", state.Response())
	}
}

func TestStateClear(t *testing.T) {
	state := NewState()
	r := NewResolver(state)
	state.SetSystemPrompt("p")
	if _, err := r.Resolve(llm.Result{Text: "x"}, false); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	state.Clear()

	if state.Response() != "" || state.SystemPrompt() != "" {
		t.Error("Clear must drop both response and system prompt")
	}
}
