package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/joseph-ayodele/slm/internal/common"
)

// Ask loads a fresh model for cfg and sends it a single prompt.
// Every call pays the full load cost; use a Session to reuse the handle.
func Ask(ctx context.Context, cfg GenerationConfig, prompt string, logger *slog.Logger) (string, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	m, err := Load(ctx, cfg, logger)
	if err != nil {
		return "", err
	}
	return generate(ctx, m, prompt, logger)
}

// Session loads the model on first use and keeps the handle for later prompts.
type Session struct {
	cfg    GenerationConfig
	logger *slog.Logger

	mu    sync.Mutex
	model Model
}

func NewSession(cfg GenerationConfig, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	return &Session{cfg: cfg, logger: logger}
}

// Ask sends prompt to the session's model, loading it if needed.
// A failed load is not cached; the next Ask tries again.
func (s *Session) Ask(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", ErrEmptyPrompt
	}
	m, err := s.handle(ctx)
	if err != nil {
		return "", err
	}
	return generate(ctx, m, prompt, s.logger)
}

func (s *Session) handle(ctx context.Context) (Model, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.model != nil {
		return s.model, nil
	}
	m, err := Load(ctx, s.cfg, s.logger)
	if err != nil {
		return nil, err
	}
	s.model = m
	return m, nil
}

func generate(ctx context.Context, m Model, prompt string, logger *slog.Logger) (string, error) {
	ctx, runID := common.EnsureRunID(ctx)
	start := time.Now()
	logger.Info("llm.generate.start", "run_id", runID, "model", m.Name(), "prompt_len", len(prompt))

	out, err := m.Generate(ctx, prompt)
	if err != nil {
		logger.Error("llm.generate.failed", "run_id", runID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return "", fmt.Errorf("generate: %w", err)
	}

	logger.Info("llm.generate.ok", "run_id", runID, "bytes", len(out),
		"elapsed_ms", time.Since(start).Milliseconds())
	return out, nil
}
