package common

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/joseph-ayodele/slm/constants"
)

// Config holds all application configuration
type Config struct {
	LLM     LLMConfig
	OCR     OCRConfig
	Extract ExtractConfig
	Cache   CacheConfig
	Log     LogConfig
}

// LLMConfig holds model loading and generation settings
type LLMConfig struct {
	Backend      string
	Model        string
	ModelType    string
	MaxNewTokens int
	Temperature  float64
	BaseURL      string
	APIKey       string
	Timeout      time.Duration
	LlamaBin     string
}

// OCRConfig holds rasterization and recognition settings
type OCRConfig struct {
	Engine                  string
	Tesseract               string
	Pdftoppm                string
	Pdftotext               string
	Lang                    string
	OEM                     int
	PSM                     int
	PreserveInterwordSpaces bool
	DPI                     int
	MaxPages                int
	TessdataDir             string
	Concurrency             int
	Grayscale               bool
	MinWidth                int
	Normalize               bool
	HeicConverter           string
}

// ExtractConfig holds document resolution settings
type ExtractConfig struct {
	BaseDir  string
	Strategy string
}

// CacheConfig holds the optional extraction cache location; empty disables it
type CacheConfig struct {
	Path string
}

// LogConfig holds logger settings
type LogConfig struct {
	Level string
}

// LoadDotEnv loads .env style files into the process environment. Missing files are skipped.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return WrapError(err, "load "+p)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Backend:      getEnv("SLM_BACKEND", constants.BackendOpenAI),
			Model:        getEnv("SLM_MODEL", constants.DefaultModel),
			ModelType:    getEnv("SLM_MODEL_TYPE", string(constants.DefaultModelType)),
			MaxNewTokens: getEnvAsInt("SLM_MAX_NEW_TOKENS", constants.DefaultMaxNewTokens),
			Temperature:  getEnvAsFloat("SLM_TEMPERATURE", constants.DefaultTemperature),
			BaseURL:      getEnv("SLM_BASE_URL", "http://localhost:8080/v1"),
			APIKey:       getEnv("SLM_API_KEY", ""),
			Timeout:      getEnvAsDuration("SLM_TIMEOUT", 5*time.Minute),
			LlamaBin:     getEnv("SLM_LLAMA_BIN", "llama-cli"),
		},
		OCR: OCRConfig{
			Engine:                  getEnv("SLM_OCR_ENGINE", constants.EngineTesseract),
			Tesseract:               getEnv("SLM_TESSERACT_BIN", "tesseract"),
			Pdftoppm:                getEnv("SLM_PDFTOPPM_BIN", "pdftoppm"),
			Pdftotext:               getEnv("SLM_PDFTOTEXT_BIN", "pdftotext"),
			Lang:                    getEnv("SLM_OCR_LANG", "eng"),
			OEM:                     getEnvAsInt("SLM_OCR_OEM", 3),
			PSM:                     getEnvAsInt("SLM_OCR_PSM", 6),
			PreserveInterwordSpaces: getEnvAsBool("SLM_OCR_PRESERVE_SPACES", true),
			DPI:                     getEnvAsInt("SLM_OCR_DPI", 300),
			MaxPages:                getEnvAsInt("SLM_OCR_MAX_PAGES", 0),
			TessdataDir:             getEnv("TESSDATA_PREFIX", ""),
			Concurrency:             getEnvAsInt("SLM_OCR_CONCURRENCY", 1),
			Grayscale:               getEnvAsBool("SLM_OCR_GRAYSCALE", false),
			MinWidth:                getEnvAsInt("SLM_OCR_MIN_WIDTH", 0),
			Normalize:               getEnvAsBool("SLM_OCR_NORMALIZE", false),
			HeicConverter:           getEnv("SLM_HEIC_CONVERTER", "heif-convert"),
		},
		Extract: ExtractConfig{
			BaseDir:  getEnv("SLM_PDF_DIR", "."),
			Strategy: getEnv("SLM_STRATEGY", string(constants.StrategyOCR)),
		},
		Cache: CacheConfig{
			Path: getEnv("SLM_CACHE_PATH", ""),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks the settings shared by both flows.
func (c *Config) Validate() error {
	v := NewValidator()
	v.Field("SLM_BACKEND", c.LLM.Backend, Required, OneOf(constants.BackendOpenAI, constants.BackendLlamaCpp))
	v.Field("SLM_MODEL", c.LLM.Model, Required)
	v.Field("SLM_MODEL_TYPE", c.LLM.ModelType, Required)
	v.Field("SLM_MAX_NEW_TOKENS", c.LLM.MaxNewTokens, IntRange(1, 1<<20))
	v.Field("SLM_TEMPERATURE", c.LLM.Temperature, FloatRange(0, 1))
	v.Field("SLM_STRATEGY", c.Extract.Strategy, OneOf(
		string(constants.StrategyOCR), string(constants.StrategyText), string(constants.StrategyAuto)))
	v.Field("SLM_OCR_ENGINE", c.OCR.Engine, OneOf(constants.EngineTesseract, constants.EngineGosseract))
	v.Field("SLM_OCR_OEM", c.OCR.OEM, IntRange(0, 3))
	v.Field("SLM_OCR_PSM", c.OCR.PSM, IntRange(0, 13))
	v.Field("SLM_OCR_DPI", c.OCR.DPI, IntRange(36, 1200))
	v.Field("SLM_OCR_MAX_PAGES", c.OCR.MaxPages, IntRange(0, 1<<16))
	v.Field("SLM_OCR_CONCURRENCY", c.OCR.Concurrency, IntRange(1, 64))
	v.Field("SLM_OCR_MIN_WIDTH", c.OCR.MinWidth, IntRange(0, 20000))
	v.Field("SLM_HEIC_CONVERTER", c.OCR.HeicConverter, OneOf("heif-convert", "magick", "sips"))
	if err := v.Error(); err != nil {
		return NewAppError(CodeConfig, "invalid configuration", err)
	}
	return nil
}

// ParseLogLevel maps LOG_LEVEL values onto slog levels, defaulting to info.
func ParseLogLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
