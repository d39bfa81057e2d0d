package huggingface

import (
	"errors"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	// DefaultBaseURL is the Hugging Face router, which serves hosted models
	// behind an OpenAI-compatible chat completions API.
	DefaultBaseURL = "https://router.huggingface.co/v1/"

	DefaultModelID = "google/gemma-2-9b-it"
)

var ErrMissingAPIKey = errors.New("hugging face API key is required")

type Client struct {
	Client  openai.Client
	ModelID string
}

type Option func(*clientConfig)

type clientConfig struct {
	baseURL string
	extra   []option.RequestOption
}

// WithBaseURL points the client at a different OpenAI-compatible endpoint
// (a dedicated inference endpoint or a test server).
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithRequestOptions appends raw SDK request options.
func WithRequestOptions(opts ...option.RequestOption) Option {
	return func(c *clientConfig) {
		c.extra = append(c.extra, opts...)
	}
}

func NewClient(apiKey string, modelID string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	if modelID == "" {
		modelID = DefaultModelID
	}

	cfg := clientConfig{baseURL: DefaultBaseURL}
	for _, o := range opts {
		o(&cfg)
	}

	// The validator owns the retry budget, so SDK retries stay off.
	requestOpts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithBaseURL(cfg.baseURL),
		option.WithMaxRetries(0),
	}
	requestOpts = append(requestOpts, cfg.extra...)

	return &Client{
		Client:  openai.NewClient(requestOpts...),
		ModelID: modelID,
	}, nil
}

func (c *Client) String() string {
	return fmt.Sprintf("huggingface(%s)", c.ModelID)
}
