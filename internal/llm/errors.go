package llm

import (
	"errors"
	"fmt"
)

// ErrEmptyPrompt is returned when a question has no text.
var ErrEmptyPrompt = errors.New("prompt is empty")

// ConfigurationError means the model family, artifact or generation settings
// do not fit together. It is never retried.
type ConfigurationError struct {
	Backend   string
	Model     string
	ModelType string
	Reason    string
	Err       error
}

func (e *ConfigurationError) Error() string {
	msg := fmt.Sprintf("llm configuration (backend=%s model=%s type=%s): %s", e.Backend, e.Model, e.ModelType, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// LoadError covers every other failure while bringing a model up.
type LoadError struct {
	Backend string
	Model   string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("llm load (backend=%s model=%s): %v", e.Backend, e.Model, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// NewConfigurationError builds a ConfigurationError for cfg.
func NewConfigurationError(cfg GenerationConfig, reason string, err error) *ConfigurationError {
	return &ConfigurationError{
		Backend:   cfg.Backend,
		Model:     cfg.Model,
		ModelType: cfg.ModelType,
		Reason:    reason,
		Err:       err,
	}
}

// NewLoadError builds a LoadError for cfg.
func NewLoadError(cfg GenerationConfig, err error) *LoadError {
	return &LoadError{Backend: cfg.Backend, Model: cfg.Model, Err: err}
}

// IsConfigurationError reports whether err carries a ConfigurationError.
func IsConfigurationError(err error) bool {
	var ce *ConfigurationError
	return errors.As(err, &ce)
}
