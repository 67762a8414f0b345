//go:build !gosseract

package ocr

// NewGosseract fails unless the binary was built with -tags gosseract.
func NewGosseract(_ Config) (Recognizer, error) {
	return nil, ErrEngineNotCompiled
}
