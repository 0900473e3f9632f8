package llm

// Request/response DTOs for the Gemini generateContent REST API.

type generateContentRequest struct {
	Contents          []geminiContent   `json:"contents"`
	SystemInstruction *geminiContent    `json:"systemInstruction,omitempty"`
	Tools             []geminiTool      `json:"tools,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiTool struct {
	GoogleSearch *googleSearchTool `json:"googleSearch,omitempty"`
}

type googleSearchTool struct{}

type generationConfig struct {
	ResponseMIMEType string        `json:"responseMimeType,omitempty"`
	ResponseSchema   *geminiSchema `json:"responseSchema,omitempty"`
}

type geminiSchema struct {
	Type             string                   `json:"type"`
	Description      string                   `json:"description,omitempty"`
	Properties       map[string]*geminiSchema `json:"properties,omitempty"`
	Items            *geminiSchema            `json:"items,omitempty"`
	Required         []string                 `json:"required,omitempty"`
	PropertyOrdering []string                 `json:"propertyOrdering,omitempty"`
}

type generateContentResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
}

type geminiCandidate struct {
	Content           geminiContent      `json:"content"`
	FinishReason      string             `json:"finishReason,omitempty"`
	GroundingMetadata *groundingMetadata `json:"groundingMetadata,omitempty"`
}

type groundingMetadata struct {
	GroundingAttributions []groundingAttribution `json:"groundingAttributions"`
}

type groundingAttribution struct {
	Web *webSource `json:"web,omitempty"`
}

type webSource struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type geminiErrorResponse struct {
	Error geminiErrorDetail `json:"error"`
}

type geminiErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// structuredOutputSchema is the fixed shape requested in structured mode.
// confidence_score is descriptive only; the client never validates it.
func structuredOutputSchema() *geminiSchema {
	return &geminiSchema{
		Type: "OBJECT",
		Properties: map[string]*geminiSchema{
			"reasoning_steps": {Type: "ARRAY", Items: &geminiSchema{Type: "STRING"}},
			"final_summary":   {Type: "STRING"},
			"confidence_score": {
				Type:        "NUMBER",
				Description: "Confidence in the answer, 0-100.",
			},
		},
		Required:         []string{"reasoning_steps", "final_summary", "confidence_score"},
		PropertyOrdering: []string{"reasoning_steps", "final_summary", "confidence_score"},
	}
}

// buildGeminiPayload maps a Request onto the wire shape. Structured mode and
// the search tool are never attached together; structured silently wins when
// both flags are set.
func buildGeminiPayload(req Request) generateContentRequest {
	p := generateContentRequest{
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: req.Query}}}},
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: req.SystemPrompt}}},
	}
	switch {
	case req.Structured:
		p.GenerationConfig = &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   structuredOutputSchema(),
		}
	case req.Grounding:
		p.Tools = []geminiTool{{GoogleSearch: &googleSearchTool{}}}
	}
	return p
}
