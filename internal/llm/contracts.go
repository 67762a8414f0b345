package llm

import (
	"context"
	"time"
)

// GenerationConfig is the immutable record a model handle is built from.
type GenerationConfig struct {
	Backend      string        `json:"backend"`
	Model        string        `json:"model"`      // artifact: repo id, server model id or local file
	ModelType    string        `json:"model_type"` // family, e.g. "llama"
	MaxNewTokens int           `json:"max_new_tokens"`
	Temperature  float64       `json:"temperature"`
	BaseURL      string        `json:"base_url,omitempty"`
	APIKey       string        `json:"-"`
	Timeout      time.Duration `json:"-"`
	Binary       string        `json:"-"` // llama.cpp CLI for the llamacpp backend
}

// Model is a loaded generative model. It is owned by whoever loaded it.
type Model interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}
