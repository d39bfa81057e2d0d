package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/povarna/generative-ai-agents/clinical-validator/internal/llm"
)

type fakeInvokeAPI struct {
	input *bedrockruntime.InvokeModelInput
	body  string
	err   error
}

func (f *fakeInvokeAPI) InvokeModel(_ context.Context, params *bedrockruntime.InvokeModelInput, _ ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &bedrockruntime.InvokeModelOutput{Body: []byte(f.body)}, nil
}

func TestClient_InvokeModel(t *testing.T) {
	api := &fakeInvokeAPI{body: `{
		"model": "claude-3-haiku",
		"content": [
			{"type": "text", "text": "{\"feedback\":"},
			{"type": "text", "text": " \"ok\"}"}
		],
		"stop_reason": "end_turn"
	}`}
	client := &Client{Client: api, ModelID: "anthropic.claude-3-haiku-20240307-v1:0"}

	resp, err := client.InvokeModel(context.Background(), llm.LLMRequest{
		Prompt:      "validate this",
		MaxTokens:   500,
		Temperature: 0.1,
	})
	if err != nil {
		t.Fatalf("InvokeModel() error = %v", err)
	}

	if resp.Content != `{"feedback": "ok"}` || resp.Model != "claude-3-haiku" || resp.StopReason != "end_turn" {
		t.Errorf("response = %+v", resp)
	}

	if *api.input.ModelId != "anthropic.claude-3-haiku-20240307-v1:0" {
		t.Errorf("model id = %q", *api.input.ModelId)
	}

	var sent claudeMessageRequest
	if err := json.Unmarshal(api.input.Body, &sent); err != nil {
		t.Fatalf("request body: %v", err)
	}
	if sent.AnthropicVersion != anthropicVersion || sent.MaxTokens != 500 || sent.Temperature != 0.1 {
		t.Errorf("request = %+v", sent)
	}
	if len(sent.Messages) != 1 || sent.Messages[0].Role != "user" || sent.Messages[0].Content != "validate this" {
		t.Errorf("messages = %+v", sent.Messages)
	}
}

func TestClient_InvokeModel_ModelFallsBackToID(t *testing.T) {
	api := &fakeInvokeAPI{body: `{"content": [{"type": "text", "text": "hi"}]}`}
	client := &Client{Client: api, ModelID: "model-id"}

	resp, err := client.InvokeModel(context.Background(), llm.LLMRequest{Prompt: "p"})
	if err != nil {
		t.Fatalf("InvokeModel() error = %v", err)
	}
	if resp.Model != "model-id" {
		t.Errorf("model = %q", resp.Model)
	}
}

func TestClient_InvokeModel_Errors(t *testing.T) {
	tests := []struct {
		name string
		api  *fakeInvokeAPI
	}{
		{name: "transport error", api: &fakeInvokeAPI{err: errors.New("throttled")}},
		{name: "invalid body", api: &fakeInvokeAPI{body: "not json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &Client{Client: tt.api, ModelID: "m"}
			if _, err := client.InvokeModel(context.Background(), llm.LLMRequest{Prompt: "p"}); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestNewClient_RequiresModelID(t *testing.T) {
	if _, err := NewClient(context.Background(), "us-east-1", ""); err == nil {
		t.Error("expected error for empty model id")
	}
}
