package llm

import "context"

// Request describes one generation call. It is built fresh per user action
// and never mutated after construction.
type Request struct {
	// Query is the user-authored prompt. Callers must reject queries that
	// are empty after trimming before handing the request to a client.
	Query string

	// SystemPrompt may be empty.
	SystemPrompt string

	// Grounding asks the provider to ground the answer in live web search.
	Grounding bool

	// Structured forces the response into the fixed summary JSON shape.
	// Grounding and Structured are mutually exclusive; when both are set,
	// Structured wins at payload-construction time.
	Structured bool
}

// Source is one citation attached to a grounded result.
type Source struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

// Result is the normalized outcome of a successful generation call.
// Sources is empty unless grounding was requested and the provider
// returned attribution metadata; entries missing either field are dropped.
type Result struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// Client is a minimal generation interface to allow pluggable providers.
type Client interface {
	Generate(ctx context.Context, req Request) (Result, error)
}
