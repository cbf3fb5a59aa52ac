// Package types holds the JSON wire types of the model server's HTTP API.
// Both the OpenAI-compatible and the native Ollama shapes are covered.
package types

// Message roles.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a chat conversation.
type ChatMessage struct {
	// One of system, user, assistant.
	Role string `json:"role"`
	// Message text.
	Content string `json:"content"`
}

// ChatRequest is the body of POST /v1/chat/completions (and /api/chat).
type ChatRequest struct {
	// Optional model identifier. Servers hosting a single model ignore it.
	Model string `json:"model,omitempty"`
	// Sampling temperature. Conservative between 0.6 and 1.0, creative above.
	Temperature float64 `json:"temperature"`
	// Always false; sllm reads complete replies only.
	Stream bool `json:"stream"`
	// System instruction followed by the user message.
	Messages []ChatMessage `json:"messages"`
}

// ChatChoice is one entry of an OpenAI-style choices array.
type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason,omitempty"`
}

// Usage contains token accounting (OpenAI shape).
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Timings is the llama.cpp server extension to the OpenAI response.
type Timings struct {
	PromptN            int     `json:"prompt_n"`
	PromptMS           float64 `json:"prompt_ms"`
	PredictedN         int     `json:"predicted_n"`
	PredictedMS        float64 `json:"predicted_ms"`
	PredictedPerSecond float64 `json:"predicted_per_second"`
}

// ChatResponse covers both response variants: OpenAI-style servers fill
// Choices (and possibly Usage/Timings), the native API fills Message and the
// *_count/*_duration fields.
type ChatResponse struct {
	Model   string       `json:"model,omitempty"`
	Choices []ChatChoice `json:"choices,omitempty"`
	Usage   *Usage       `json:"usage,omitempty"`
	Timings *Timings     `json:"timings,omitempty"`

	// Native variant.
	Message            *ChatMessage `json:"message,omitempty"`
	Done               bool         `json:"done,omitempty"`
	PromptEvalCount    int          `json:"prompt_eval_count,omitempty"`
	PromptEvalDuration int64        `json:"prompt_eval_duration,omitempty"` // nanoseconds
	EvalCount          int          `json:"eval_count,omitempty"`
	EvalDuration       int64        `json:"eval_duration,omitempty"` // nanoseconds
}

// Content returns the reply text from whichever variant is populated.
func (r ChatResponse) Content() (string, bool) {
	if len(r.Choices) > 0 {
		return r.Choices[0].Message.Content, true
	}
	if r.Message != nil {
		return r.Message.Content, true
	}
	return "", false
}

// ErrorResponse is the error envelope returned by OpenAI-compatible servers.
type ErrorResponse struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type,omitempty"`
	} `json:"error"`
}
