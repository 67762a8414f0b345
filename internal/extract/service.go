package extract

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joseph-ayodele/slm/constants"
	"github.com/joseph-ayodele/slm/internal/common"
	"github.com/joseph-ayodele/slm/internal/ocr"
	"github.com/joseph-ayodele/slm/internal/runner"
)

// Service resolves file names against a base directory and runs the chosen strategy.
type Service struct {
	baseDir         string
	strategies      map[constants.Strategy]Extractor
	defaultStrategy constants.Strategy
	cache           Cache
	fingerprint     string
	logger          *slog.Logger
}

type Option func(*Service)

// WithStrategy registers (or replaces) the extractor used for a strategy.
func WithStrategy(s constants.Strategy, e Extractor) Option {
	return func(svc *Service) {
		svc.strategies[s] = e
	}
}

func WithDefaultStrategy(s constants.Strategy) Option {
	return func(svc *Service) {
		if s != "" {
			svc.defaultStrategy = s
		}
	}
}

// WithCache enables result caching. fingerprint must change whenever a
// setting that affects recognized text changes.
func WithCache(c Cache, fingerprint string) Option {
	return func(svc *Service) {
		svc.cache = c
		svc.fingerprint = fingerprint
	}
}

func NewService(baseDir string, logger *slog.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		baseDir:         baseDir,
		strategies:      map[constants.Strategy]Extractor{},
		defaultStrategy: constants.StrategyOCR,
		logger:          logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// DefaultStrategies wires the ocr, text and auto strategies onto the external tools in cfg.
func DefaultStrategies(cfg ocr.Config, opts OCROptions, r runner.Runner, logger *slog.Logger) ([]Option, error) {
	cfg = cfg.WithDefaults()
	rec, err := ocr.NewRecognizer(cfg, r, logger)
	if err != nil {
		return nil, err
	}
	if opts.HEIC == nil {
		opts.HEIC = ocr.NewHEICConverter(cfg, r, logger)
	}
	ocrx := NewOCRExtractor(ocr.NewPDFRasterizer(cfg, r, logger), rec, cfg, opts, logger)
	textx := NewTextExtractor(ocr.NewTextLayer(cfg, r, logger))
	return []Option{
		WithStrategy(constants.StrategyOCR, ocrx),
		WithStrategy(constants.StrategyText, textx),
		WithStrategy(constants.StrategyAuto, NewAutoExtractor(textx, ocrx)),
	}, nil
}

// Resolve joins fileName onto the base directory; absolute names are kept.
func (s *Service) Resolve(fileName string) string {
	if filepath.IsAbs(fileName) {
		return fileName
	}
	return filepath.Join(s.baseDir, fileName)
}

// Extract runs the default strategy.
func (s *Service) Extract(ctx context.Context, fileName string) (Result, error) {
	return s.ExtractWith(ctx, fileName, s.defaultStrategy)
}

// ExtractWith runs the named strategy on fileName. A blank file name yields
// an empty result and no error.
func (s *Service) ExtractWith(ctx context.Context, fileName string, strategy constants.Strategy) (Result, error) {
	if strings.TrimSpace(fileName) == "" {
		s.logger.Debug("extract.skip.empty_name")
		return NewResult(nil, ""), nil
	}
	ex, ok := s.strategies[strategy]
	if !ok {
		return Result{}, common.NewAppError(common.CodeConfig, fmt.Sprintf("unknown strategy %q", strategy), common.ErrInvalidInput)
	}

	ctx, runID := common.EnsureRunID(ctx)
	start := time.Now()
	path := s.Resolve(fileName)
	s.logger.Info("extract.start", "run_id", runID, "path", path, "strategy", strategy)

	st, err := os.Stat(path)
	if err != nil {
		s.logger.Error("extract.resolve_failed", "run_id", runID, "path", path, "error", err)
		if errors.Is(err, fs.ErrNotExist) {
			return Result{}, fmt.Errorf("resolve %s: %w: %w", fileName, common.ErrNotFound, err)
		}
		return Result{}, fmt.Errorf("resolve %s: %w", fileName, err)
	}
	if st.IsDir() {
		return Result{}, fmt.Errorf("resolve %s: %w: is a directory", fileName, common.ErrInvalidInput)
	}

	key := ""
	if s.cache != nil {
		key, err = s.cacheKey(path, strategy)
		if err != nil {
			return Result{}, fmt.Errorf("hash %s: %w", fileName, err)
		}
		if res, hit, err := s.cache.Get(ctx, key); err != nil {
			s.logger.Warn("extract.cache.get_failed", "run_id", runID, "error", err)
		} else if hit {
			res.Source = path
			res.Duration = time.Since(start)
			s.logger.Info("extract.cache.hit", "run_id", runID, "pages", len(res.Pages))
			return res, nil
		}
	}

	res, err := ex.Extract(ctx, path)
	if err != nil {
		s.logger.Error("extract.failed", "run_id", runID, "path", path, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return Result{}, err
	}
	res.Source = path
	res.Duration = time.Since(start)

	if s.cache != nil {
		if err := s.cache.Put(ctx, key, res); err != nil {
			s.logger.Warn("extract.cache.put_failed", "run_id", runID, "error", err)
		}
	}

	s.logger.Info("extract.ok",
		"run_id", runID,
		"method", res.Method,
		"pages", len(res.Pages),
		"bytes", len(res.FullText),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

func (s *Service) cacheKey(path string, strategy constants.Strategy) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)) + ":" + string(strategy) + ":" + s.fingerprint, nil
}
