// Package llamacpp runs a quantized local model through the llama.cpp CLI.
package llamacpp

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/slm/constants"
	"github.com/joseph-ayodele/slm/internal/llm"
	"github.com/joseph-ayodele/slm/internal/runner"
)

const defaultBinary = "llama-cli"

// families the llama.cpp runtime can load
var supportedFamilies = []constants.ModelType{
	constants.ModelTypeLlama,
	constants.ModelTypeMistral,
	constants.ModelTypeFalcon,
	constants.ModelTypeGPT2,
	constants.ModelTypeStarcode,
	constants.ModelTypeMPT,
	constants.ModelTypeGPTNeoX,
}

var modelExtensions = []string{"gguf", "ggml", "bin"}

func init() {
	llm.RegisterBackend(constants.BackendLlamaCpp, New)
}

// Model is a local model file bound to the llama.cpp binary that runs it.
type Model struct {
	cfg    llm.GenerationConfig
	runner runner.Runner
	logger *slog.Logger
}

// New validates the model file and the llama.cpp binary.
func New(ctx context.Context, cfg llm.GenerationConfig, logger *slog.Logger) (llm.Model, error) {
	if cfg.Binary == "" {
		cfg.Binary = defaultBinary
	}
	if err := runner.LookPath(cfg.Binary); err != nil {
		if verr := checkArtifact(cfg); verr != nil {
			return nil, verr
		}
		return nil, llm.NewLoadError(cfg, fmt.Errorf("llama.cpp binary %q: %w", cfg.Binary, err))
	}
	m, err := NewWithRunner(cfg, runner.Exec{Logger: logger}, logger)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// NewWithRunner is New with an explicit command runner and no binary lookup.
func NewWithRunner(cfg llm.GenerationConfig, r runner.Runner, logger *slog.Logger) (*Model, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Binary == "" {
		cfg.Binary = defaultBinary
	}
	if err := checkArtifact(cfg); err != nil {
		return nil, err
	}
	return &Model{cfg: cfg, runner: r, logger: logger}, nil
}

func (m *Model) Name() string { return filepath.Base(m.cfg.Model) }

// Generate runs the CLI once and returns what it printed.
func (m *Model) Generate(ctx context.Context, prompt string) (string, error) {
	args := []string{
		"-m", m.cfg.Model,
		"-p", prompt,
		"-n", strconv.Itoa(m.cfg.MaxNewTokens),
		"--temp", strconv.FormatFloat(m.cfg.Temperature, 'f', -1, 64),
		"--no-display-prompt",
	}
	out, errb, err := m.runner.Run(ctx, m.cfg.Binary, args...)
	if err != nil {
		return "", fmt.Errorf("llama.cpp: %w: %s", err, strings.TrimSpace(string(errb)))
	}
	return strings.TrimSpace(string(out)), nil
}

func checkArtifact(cfg llm.GenerationConfig) error {
	if err := llm.CheckFamily(cfg); err != nil {
		return err
	}
	if !slices.Contains(supportedFamilies, constants.ModelType(cfg.ModelType)) {
		return llm.NewConfigurationError(cfg, "model_type not supported by llama.cpp", nil)
	}

	ext := constants.NormalizeExt(filepath.Ext(cfg.Model))
	if !slices.Contains(modelExtensions, ext) {
		return llm.NewConfigurationError(cfg, "model must be a local ."+strings.Join(modelExtensions, "/.")+" file", nil)
	}
	st, err := os.Stat(cfg.Model)
	if err != nil {
		return llm.NewConfigurationError(cfg, "model file unavailable", err)
	}
	if st.IsDir() {
		return llm.NewConfigurationError(cfg, "model path is a directory", nil)
	}
	if ext == "gguf" {
		magic, err := readMagic(cfg.Model)
		if err != nil {
			return llm.NewLoadError(cfg, err)
		}
		if magic != "GGUF" {
			return llm.NewConfigurationError(cfg, "file is not GGUF", nil)
		}
	}
	return nil
}

func readMagic(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	buf := make([]byte, 4)
	if _, err := io.ReadFull(f, buf); err != nil {
		return "", fmt.Errorf("read header: %w", err)
	}
	return string(buf), nil
}
