//go:build !gosseract

package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/slm/constants"
)

func TestNewRecognizer_GosseractNotCompiled(t *testing.T) {
	_, err := NewRecognizer(Config{Engine: constants.EngineGosseract}, &fakeRunner{}, nil)

	assert.ErrorIs(t, err, ErrEngineNotCompiled)
}
