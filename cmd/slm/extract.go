package main

import (
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v2"

	"github.com/joseph-ayodele/slm/constants"
	"github.com/joseph-ayodele/slm/internal/cache"
	"github.com/joseph-ayodele/slm/internal/common"
	"github.com/joseph-ayodele/slm/internal/export"
	"github.com/joseph-ayodele/slm/internal/extract"
	"github.com/joseph-ayodele/slm/internal/ocr"
	"github.com/joseph-ayodele/slm/internal/runner"
)

func extractCommand(cfg *common.Config) *cli.Command {
	return &cli.Command{
		Name:      "extract",
		Usage:     "extract page text from a document in the configured directory",
		ArgsUsage: "<file name>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Usage: "base directory file names resolve against (SLM_PDF_DIR)"},
			&cli.StringFlag{Name: "strategy", Usage: "ocr, text or auto (SLM_STRATEGY)"},
			&cli.StringFlag{Name: "engine", Usage: "tesseract or gosseract (SLM_OCR_ENGINE)"},
			&cli.IntFlag{Name: "concurrency", Usage: "pages recognized in parallel (SLM_OCR_CONCURRENCY)"},
			&cli.StringFlag{Name: "out", Usage: "also write the result to a .json or .xlsx file"},
			&cli.BoolFlag{Name: "no-cache", Usage: "ignore SLM_CACHE_PATH"},
		},
		Action: func(c *cli.Context) error {
			if c.IsSet("dir") {
				cfg.Extract.BaseDir = c.String("dir")
			}
			if c.IsSet("strategy") {
				cfg.Extract.Strategy = c.String("strategy")
			}
			if c.IsSet("engine") {
				cfg.OCR.Engine = c.String("engine")
			}
			if c.IsSet("concurrency") {
				cfg.OCR.Concurrency = c.Int("concurrency")
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			strategy, _ := constants.ParseStrategy(cfg.Extract.Strategy)
			logger := slog.Default()

			ocrCfg := ocrConfig(cfg)
			opts, err := extract.DefaultStrategies(ocrCfg, extract.OCROptions{
				Concurrency: cfg.OCR.Concurrency,
			}, runner.Exec{Logger: logger}, logger)
			if err != nil {
				return err
			}
			opts = append(opts, extract.WithDefaultStrategy(strategy))

			if cfg.Cache.Path != "" && !c.Bool("no-cache") {
				store, err := cache.Open(c.Context, cfg.Cache.Path, logger)
				if err != nil {
					return err
				}
				defer func() {
					if err := store.Close(); err != nil {
						logger.Warn("close cache", "error", err)
					}
				}()
				opts = append(opts, extract.WithCache(store, ocrCfg.WithDefaults().Fingerprint()))
			}

			svc := extract.NewService(cfg.Extract.BaseDir, logger, opts...)
			res, err := svc.Extract(c.Context, c.Args().First())
			if err != nil {
				return err
			}

			if out := c.String("out"); out != "" {
				if err := export.WriteFile(out, res); err != nil {
					return fmt.Errorf("export: %w", err)
				}
				logger.Info("extract.exported", "path", out)
			}
			return export.WriteJSON(c.App.Writer, res)
		},
	}
}

func ocrConfig(cfg *common.Config) ocr.Config {
	return ocr.Config{
		Pdftotext:               cfg.OCR.Pdftotext,
		Pdftoppm:                cfg.OCR.Pdftoppm,
		Tesseract:               cfg.OCR.Tesseract,
		Engine:                  cfg.OCR.Engine,
		Lang:                    cfg.OCR.Lang,
		OEM:                     cfg.OCR.OEM,
		PSM:                     cfg.OCR.PSM,
		PreserveInterwordSpaces: cfg.OCR.PreserveInterwordSpaces,
		TessdataDir:             cfg.OCR.TessdataDir,
		DPI:                     cfg.OCR.DPI,
		MaxPages:                cfg.OCR.MaxPages,
		Grayscale:               cfg.OCR.Grayscale,
		MinWidth:                cfg.OCR.MinWidth,
		Normalize:               cfg.OCR.Normalize,
		HeicConverter:           cfg.OCR.HeicConverter,
	}
}
