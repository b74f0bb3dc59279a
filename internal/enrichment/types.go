package enrichment

// Result holds an LLM rewrite of the heuristic narrative.
type Result struct {
	Summary string
	// Tag is a conventional-commit prefix, or "" when the model gave none
	// or an unknown one.
	Tag string
	// NarratedBy is "provider:model", e.g. "openai:grok-3-mini-fast".
	NarratedBy string
}

// API request/response types for OpenAI-compatible chat completions.

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	ResponseFormat *respFormat   `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []chatChoice `json:"choices"`
	Error   *apiError    `json:"error,omitempty"`
}

type chatChoice struct {
	Message chatMessage `json:"message"`
}

type respFormat struct {
	Type string `json:"type"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// rewriteJSON is the expected JSON structure from the model.
type rewriteJSON struct {
	Summary string `json:"summary"`
	Tag     string `json:"tag"`
}
