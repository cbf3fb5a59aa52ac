package chat

import (
	"time"

	"sllm/pkg/types"
)

// Request is one chat-completion call. InputHeader and ResponseHeader frame
// the query the same way the prompt's few-shot examples are framed.
type Request struct {
	Prompt         string // system instruction
	Query          string // user text
	InputHeader    string
	ResponseHeader string
	Temperature    float64
	Timeout        time.Duration // 0 uses the client's request timeout
}

// UserContent joins the headers and query, each on its own line. Empty
// headers still produce their line.
func (r Request) UserContent() string {
	return r.InputHeader + "\n" + r.Query + "\n" + r.ResponseHeader
}

// Payload builds the JSON body for r.
func (r Request) Payload(model string) types.ChatRequest {
	return types.ChatRequest{
		Model:       model,
		Temperature: r.Temperature,
		Stream:      false,
		Messages: []types.ChatMessage{
			{Role: types.RoleSystem, Content: r.Prompt},
			{Role: types.RoleUser, Content: r.UserContent()},
		},
	}
}

// Stats summarizes server-side timing and token counts, when reported.
type Stats struct {
	PromptTokens     int
	CompletionTokens int
	PromptTime       time.Duration
	GenerationTime   time.Duration
	TokensPerSecond  float64
}

// Response is the parsed reply.
type Response struct {
	Content  string // trimmed reply text
	Model    string
	Stats    Stats
	Duration time.Duration // wall time of the HTTP exchange
}

func statsOf(r types.ChatResponse) Stats {
	var s Stats
	if r.Usage != nil {
		s.PromptTokens = r.Usage.PromptTokens
		s.CompletionTokens = r.Usage.CompletionTokens
	}
	if t := r.Timings; t != nil {
		s.PromptTime = time.Duration(t.PromptMS * float64(time.Millisecond))
		s.GenerationTime = time.Duration(t.PredictedMS * float64(time.Millisecond))
		s.TokensPerSecond = t.PredictedPerSecond
		if s.PromptTokens == 0 {
			s.PromptTokens = t.PromptN
		}
		if s.CompletionTokens == 0 {
			s.CompletionTokens = t.PredictedN
		}
	}
	if r.PromptEvalCount > 0 && s.PromptTokens == 0 {
		s.PromptTokens = r.PromptEvalCount
	}
	if r.EvalCount > 0 && s.CompletionTokens == 0 {
		s.CompletionTokens = r.EvalCount
	}
	if r.PromptEvalDuration > 0 && s.PromptTime == 0 {
		s.PromptTime = time.Duration(r.PromptEvalDuration)
	}
	if r.EvalDuration > 0 && s.GenerationTime == 0 {
		s.GenerationTime = time.Duration(r.EvalDuration)
		if s.CompletionTokens > 0 {
			s.TokensPerSecond = float64(s.CompletionTokens) / s.GenerationTime.Seconds()
		}
	}
	return s
}
