package llm

// LLMRequest is one single-turn completion: the prompt is sent as the only
// user message.
type LLMRequest struct {
	Prompt      string
	MaxTokens   int
	Temperature float64
}

type LLMResponse struct {
	Content    string
	Model      string
	StopReason string
}
