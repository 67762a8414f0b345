package llm

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/joseph-ayodele/slm/constants"
)

// GenerationConfigSchema returns the JSON-Schema every GenerationConfig must satisfy.
func GenerationConfigSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"backend":        map[string]any{"type": "string", "minLength": 1},
			"model":          map[string]any{"type": "string", "minLength": 1},
			"model_type":     map[string]any{"type": "string", "enum": constants.ModelTypes()},
			"max_new_tokens": map[string]any{"type": "integer", "minimum": 1},
			"temperature":    map[string]any{"type": "number", "minimum": 0.0, "maximum": 1.0},
			"base_url":       map[string]any{"type": "string"},
		},
		"required": []string{"backend", "model", "model_type", "max_new_tokens", "temperature"},
	}
}

// ValidateJSONAgainstSchema validates "data" against "schemaMap".
func ValidateJSONAgainstSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}

// ValidateConfig checks cfg against GenerationConfigSchema.
// Failures come back as *ConfigurationError.
func ValidateConfig(cfg GenerationConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return NewConfigurationError(cfg, "encode config", err)
	}
	if err := ValidateJSONAgainstSchema(GenerationConfigSchema(), data); err != nil {
		return NewConfigurationError(cfg, "invalid generation config", err)
	}
	return nil
}
