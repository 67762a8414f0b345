package constants

// Strategy selects how page text is obtained from a document.
type Strategy string

const (
	StrategyOCR  Strategy = "ocr"  // rasterize every page and recognize it
	StrategyText Strategy = "text" // read the embedded text layer only
	StrategyAuto Strategy = "auto" // text layer, OCR for pages without one
)

// ParseStrategy maps a user supplied name to a Strategy; ok is false for unknown names.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(s) {
	case StrategyOCR, StrategyText, StrategyAuto:
		return Strategy(s), true
	case "":
		return StrategyOCR, true
	}
	return "", false
}

// OCR engine names.
const (
	EngineTesseract = "tesseract"
	EngineGosseract = "gosseract"
)
