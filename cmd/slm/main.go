package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/joseph-ayodele/slm/internal/common"
)

func main() {
	if err := common.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	cfg := common.LoadConfig()
	setLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(cfg).RunContext(ctx, os.Args); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func setLogger(level string) {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: common.ParseLogLevel(level),
	}))
	slog.SetDefault(logger)
}

// newApp builds the CLI; flags given on the command line override cfg.
func newApp(cfg *common.Config) *cli.App {
	return &cli.App{
		Name:  "slm",
		Usage: "query a local quantized model and extract text from documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides LOG_LEVEL)",
			},
		},
		Before: func(c *cli.Context) error {
			if c.IsSet("log-level") {
				cfg.Log.Level = c.String("log-level")
				setLogger(cfg.Log.Level)
			}
			return nil
		},
		Commands: []*cli.Command{
			askCommand(cfg),
			extractCommand(cfg),
		},
	}
}
