package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// BackendFactory builds a Model for cfg. Factories return *ConfigurationError
// when the family/artifact pairing cannot work; anything else is treated as a
// load failure.
type BackendFactory func(ctx context.Context, cfg GenerationConfig, logger *slog.Logger) (Model, error)

var (
	backendsMu sync.RWMutex
	backends   = map[string]BackendFactory{}
)

// RegisterBackend registers a backend factory by name. Backends call this from init().
func RegisterBackend(name string, factory BackendFactory) {
	backendsMu.Lock()
	defer backendsMu.Unlock()
	backends[name] = factory
}

// Backends lists the registered backend names.
func Backends() []string {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	out := make([]string, 0, len(backends))
	for k := range backends {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func lookupBackend(name string) (BackendFactory, bool) {
	backendsMu.RLock()
	defer backendsMu.RUnlock()
	f, ok := backends[name]
	return f, ok
}

// Load validates cfg and builds a model handle with the configured backend.
// Errors are logged and returned as *ConfigurationError or *LoadError.
func Load(ctx context.Context, cfg GenerationConfig, logger *slog.Logger) (Model, error) {
	if logger == nil {
		logger = slog.Default()
	}
	start := time.Now()

	if err := ValidateConfig(cfg); err != nil {
		logger.Error("llm.load.config_error", "error", err)
		return nil, err
	}

	factory, ok := lookupBackend(cfg.Backend)
	if !ok {
		err := NewConfigurationError(cfg, fmt.Sprintf("unknown backend (registered: %v)", Backends()), nil)
		logger.Error("llm.load.config_error", "error", err)
		return nil, err
	}

	m, err := factory(ctx, cfg, logger)
	if err != nil {
		var ce *ConfigurationError
		if errors.As(err, &ce) {
			logger.Error("llm.load.config_error", "error", err,
				"hint", "ensure the model file and model_type are compatible")
			return nil, err
		}
		var le *LoadError
		if !errors.As(err, &le) {
			err = NewLoadError(cfg, err)
		}
		logger.Error("llm.load.failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, err
	}

	logger.Info("LLM loaded successfully",
		"backend", cfg.Backend,
		"model", cfg.Model,
		"model_type", cfg.ModelType,
		"max_new_tokens", cfg.MaxNewTokens,
		"temperature", cfg.Temperature,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return m, nil
}
