package openai

import (
	"log/slog"
	"net/http"
	"time"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/joseph-ayodele/slm/internal/llm"
)

// local servers (llama.cpp, LocalAI) accept any bearer token
const placeholderAPIKey = "sk-no-key-required"

// Client talks to an OpenAI-compatible server hosting a local quantized model.
type Client struct {
	cfg    llm.GenerationConfig
	api    sdk.Client
	logger *slog.Logger
}

func newClient(cfg llm.GenerationConfig, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:8080/v1"
	}
	if cfg.APIKey == "" {
		cfg.APIKey = placeholderAPIKey
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if logger == nil {
		logger = slog.Default()
	}
	api := sdk.NewClient(
		option.WithBaseURL(cfg.BaseURL),
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		option.WithMaxRetries(0),
	)
	return &Client{cfg: cfg, api: api, logger: logger}
}
