package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/joseph-ayodele/slm/internal/common"
	"github.com/joseph-ayodele/slm/internal/llm"
	_ "github.com/joseph-ayodele/slm/internal/llm/llamacpp"
	_ "github.com/joseph-ayodele/slm/internal/llm/openai"
)

const defaultQuestion = "Please generate the json object of questions and answers from this Text: " +
	"'Multimodal generative AI represents a frontier in technological advancement that promises to reshape " +
	"how we interact with and harness technology across various sectors. By understanding and utilizing this " +
	"powerful tool, professionals and creatives alike can unlock unprecedented levels of innovation and " +
	"efficiency. For those looking to delve deeper into the capabilities of generative AI and explore its " +
	"transformative potential within the business landscape, the Generative AI for Business Transformation " +
	"course offered by Simplilearn is an excellent resource. This course provides comprehensive insights and " +
	"practical skills to leverage generative AI effectively in your organization. Embrace the future of AI and " +
	"enhance your professional toolkit by enrolling today at Generative AI for Business Transformation. Unlock " +
	"your creative potential and lead the charge in the AI-driven business revolution!'"

func askCommand(cfg *common.Config) *cli.Command {
	return &cli.Command{
		Name:  "ask",
		Usage: "load the model and send it one or more prompts",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "prompt", Aliases: []string{"p"}, Usage: "prompt text; repeat to reuse one loaded model"},
			&cli.StringFlag{Name: "backend", Usage: "openai or llamacpp (SLM_BACKEND)"},
			&cli.StringFlag{Name: "model", Usage: "model artifact: server model id or local file (SLM_MODEL)"},
			&cli.StringFlag{Name: "model-type", Usage: "model family, e.g. llama (SLM_MODEL_TYPE)"},
			&cli.IntFlag{Name: "max-new-tokens", Usage: "maximum tokens to generate (SLM_MAX_NEW_TOKENS)"},
			&cli.Float64Flag{Name: "temperature", Usage: "sampling temperature 0..1 (SLM_TEMPERATURE)"},
			&cli.StringFlag{Name: "base-url", Usage: "OpenAI-compatible endpoint (SLM_BASE_URL)"},
		},
		Action: func(c *cli.Context) error {
			applyAskFlags(c, cfg)
			if err := cfg.Validate(); err != nil {
				return err
			}
			gen := generationConfig(cfg)
			logger := slog.Default()

			prompts := c.StringSlice("prompt")
			if len(prompts) == 0 {
				prompts = []string{defaultQuestion}
			}

			if len(prompts) == 1 {
				resp, err := llm.Ask(c.Context, gen, prompts[0], logger)
				if err != nil {
					return err
				}
				printResponse(c.App.Writer, resp)
				return nil
			}

			session := llm.NewSession(gen, logger)
			for _, p := range prompts {
				resp, err := session.Ask(c.Context, p)
				if err != nil {
					return err
				}
				printResponse(c.App.Writer, resp)
			}
			return nil
		},
	}
}

func applyAskFlags(c *cli.Context, cfg *common.Config) {
	if c.IsSet("backend") {
		cfg.LLM.Backend = c.String("backend")
	}
	if c.IsSet("model") {
		cfg.LLM.Model = c.String("model")
	}
	if c.IsSet("model-type") {
		cfg.LLM.ModelType = c.String("model-type")
	}
	if c.IsSet("max-new-tokens") {
		cfg.LLM.MaxNewTokens = c.Int("max-new-tokens")
	}
	if c.IsSet("temperature") {
		cfg.LLM.Temperature = c.Float64("temperature")
	}
	if c.IsSet("base-url") {
		cfg.LLM.BaseURL = c.String("base-url")
	}
}

func generationConfig(cfg *common.Config) llm.GenerationConfig {
	return llm.GenerationConfig{
		Backend:      cfg.LLM.Backend,
		Model:        cfg.LLM.Model,
		ModelType:    cfg.LLM.ModelType,
		MaxNewTokens: cfg.LLM.MaxNewTokens,
		Temperature:  cfg.LLM.Temperature,
		BaseURL:      cfg.LLM.BaseURL,
		APIKey:       cfg.LLM.APIKey,
		Timeout:      cfg.LLM.Timeout,
		Binary:       cfg.LLM.LlamaBin,
	}
}

func printResponse(w io.Writer, resp string) {
	fmt.Fprintf(w, "%s %s\n", color.New(color.FgGreen, color.Bold).Sprint("Response:"), resp)
}
