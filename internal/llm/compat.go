package llm

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/slm/constants"
)

// artifact name tokens that give away the family a model was built for.
// Multi-token hints must appear as consecutive tokens. Order matters: more
// specific hints first.
var familyHints = []struct {
	token  string
	family constants.ModelType
}{
	{"starcoder", constants.ModelTypeStarcode},
	{"replit", constants.ModelTypeReplit},
	{"falcon", constants.ModelTypeFalcon},
	{"mistral", constants.ModelTypeMistral},
	{"llama", constants.ModelTypeLlama},
	{"vicuna", constants.ModelTypeLlama},
	{"gpt-neox", constants.ModelTypeGPTNeoX},
	{"pythia", constants.ModelTypeGPTNeoX},
	{"dolly", constants.ModelTypeGPTNeoX},
	{"gpt-j", constants.ModelTypeGPTJ},
	{"gptj", constants.ModelTypeGPTJ},
	{"gpt2", constants.ModelTypeGPT2},
	{"gpt-2", constants.ModelTypeGPT2},
	{"mpt", constants.ModelTypeMPT},
}

// nameTokens splits an artifact name on the separators model files use.
func nameTokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '-' || r == '_' || r == '.' || r == ' '
	})
}

// tokenMatches accepts an exact token, or a hint ending in a letter followed
// by a version or size ("llama2", "falcon40b").
func tokenMatches(tok, hint string) bool {
	if tok == hint {
		return true
	}
	last := hint[len(hint)-1]
	if last < 'a' || last > 'z' || !strings.HasPrefix(tok, hint) {
		return false
	}
	next := tok[len(hint)]
	return next >= '0' && next <= '9'
}

func containsHint(tokens, hint []string) bool {
	for i := 0; i+len(hint) <= len(tokens); i++ {
		ok := true
		for j, h := range hint {
			if j < len(hint)-1 && tokens[i+j] != h || j == len(hint)-1 && !tokenMatches(tokens[i+j], h) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

// FamilyHint guesses the model family from the last element of an artifact
// identifier (hub repo id or file path).
func FamilyHint(artifact string) (constants.ModelType, bool) {
	tokens := nameTokens(path.Base(filepath.ToSlash(artifact)))
	for _, h := range familyHints {
		if containsHint(tokens, nameTokens(h.token)) {
			return h.family, true
		}
	}
	return "", false
}

// compatible families: the llama runtime also loads mistral weights.
func familiesCompatible(declared, hinted constants.ModelType) bool {
	if declared == hinted {
		return true
	}
	return declared == constants.ModelTypeLlama && hinted == constants.ModelTypeMistral ||
		declared == constants.ModelTypeMistral && hinted == constants.ModelTypeLlama
}

// CheckFamily returns a *ConfigurationError when the artifact name clearly
// belongs to a different family than cfg.ModelType. Unrecognised names pass.
func CheckFamily(cfg GenerationConfig) error {
	if !constants.IsModelType(cfg.ModelType) {
		return NewConfigurationError(cfg, "unknown model_type", nil)
	}
	hint, ok := FamilyHint(cfg.Model)
	if !ok {
		return nil
	}
	if !familiesCompatible(constants.ModelType(cfg.ModelType), hint) {
		return NewConfigurationError(cfg, "model artifact looks like a "+string(hint)+" model", nil)
	}
	return nil
}
