package openai

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	sdk "github.com/openai/openai-go"

	"github.com/joseph-ayodele/slm/constants"
	"github.com/joseph-ayodele/slm/internal/llm"
)

func init() {
	llm.RegisterBackend(constants.BackendOpenAI, New)
}

// New checks that the server is reachable and serves cfg.Model, then returns a handle.
func New(ctx context.Context, cfg llm.GenerationConfig, logger *slog.Logger) (llm.Model, error) {
	if err := llm.CheckFamily(cfg); err != nil {
		return nil, err
	}
	c := newClient(cfg, logger)
	if err := c.ensureModel(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Client) Name() string { return c.cfg.Model }

func (c *Client) ensureModel(ctx context.Context) error {
	start := time.Now()
	page, err := c.api.Models.List(ctx)
	if err != nil {
		return llm.NewLoadError(c.cfg, fmt.Errorf("list models at %s: %w", c.cfg.BaseURL, err))
	}
	ids := make([]string, 0, len(page.Data))
	for _, m := range page.Data {
		ids = append(ids, m.ID)
	}
	c.logger.Debug("llm.openai.models", "base_url", c.cfg.BaseURL, "models", ids,
		"elapsed_ms", time.Since(start).Milliseconds())
	if !slices.Contains(ids, c.cfg.Model) {
		return llm.NewConfigurationError(c.cfg,
			"model not served by backend (available: "+strings.Join(ids, ", ")+")", nil)
	}
	return nil
}

// Generate performs one blocking chat completion.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := c.api.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Model:       c.cfg.Model,
		Messages:    []sdk.ChatCompletionMessageParamUnion{sdk.UserMessage(prompt)},
		MaxTokens:   sdk.Int(int64(c.cfg.MaxNewTokens)),
		Temperature: sdk.Float(c.cfg.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}
	c.logger.Debug("llm.openai.completion",
		"model", c.cfg.Model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"finish_reason", resp.Choices[0].FinishReason,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return resp.Choices[0].Message.Content, nil
}
