package constants

// ModelType is the model family identifier a quantized artifact was built for.
type ModelType string

const (
	ModelTypeLlama    ModelType = "llama"
	ModelTypeMistral  ModelType = "mistral"
	ModelTypeFalcon   ModelType = "falcon"
	ModelTypeGPT2     ModelType = "gpt2"
	ModelTypeGPTJ     ModelType = "gptj"
	ModelTypeGPTNeoX  ModelType = "gpt_neox"
	ModelTypeMPT      ModelType = "mpt"
	ModelTypeStarcode ModelType = "starcoder"
	ModelTypeReplit   ModelType = "replit"
)

var allModelTypes = []ModelType{
	ModelTypeLlama,
	ModelTypeMistral,
	ModelTypeFalcon,
	ModelTypeGPT2,
	ModelTypeGPTJ,
	ModelTypeGPTNeoX,
	ModelTypeMPT,
	ModelTypeStarcode,
	ModelTypeReplit,
}

// ModelTypes returns every known family as strings.
func ModelTypes() []string {
	out := make([]string, len(allModelTypes))
	for i, t := range allModelTypes {
		out[i] = string(t)
	}
	return out
}

// IsModelType reports whether s names a known model family.
func IsModelType(s string) bool {
	for _, t := range allModelTypes {
		if string(t) == s {
			return true
		}
	}
	return false
}

// Backend names accepted by llm.Load.
const (
	BackendOpenAI   = "openai"
	BackendLlamaCpp = "llamacpp"
)

// Defaults taken over from the original script.
const (
	DefaultModel        = "TheBloke/Llama-2-7b-Chat-GGML"
	DefaultModelType    = ModelTypeLlama
	DefaultMaxNewTokens = 1000
	DefaultTemperature  = 0.01
)
