package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/LouiseDailyXYZ/tarot-reading/internal/adapters/decks"
	"github.com/LouiseDailyXYZ/tarot-reading/internal/adapters/llm/deepseek"
	"github.com/LouiseDailyXYZ/tarot-reading/internal/adapters/storage/memory"
	"github.com/LouiseDailyXYZ/tarot-reading/internal/app"
	"github.com/LouiseDailyXYZ/tarot-reading/internal/config"
	"github.com/LouiseDailyXYZ/tarot-reading/internal/domain"
	"github.com/LouiseDailyXYZ/tarot-reading/internal/telemetry"
)

const serviceName = "tarotd"

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "tarotd",
	Short: "Single-card tarot readings",
	Long:  "tarotd draws one Major Arcana card for a question and interprets it,\nfalling back to a fixed template when the language model is unavailable.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(drawCmd)
	rootCmd.AddCommand(deckCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// stdRNG delegates to math/rand/v2 (auto-seeded).
type stdRNG struct{}

func (stdRNG) Intn(n int) int { return rand.IntN(n) }

// deps holds everything a subcommand needs.
type deps struct {
	cfg      config.Config
	logger   *slog.Logger
	svc      *app.TarotService
	shutdown func(context.Context) error
}

// setup loads config and wires the service. Logs go to w; the TUI passes
// io.Discard so log lines do not tear the screen.
func setup(ctx context.Context, w io.Writer) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	shutdown, err := telemetry.Setup(ctx, serviceName, cfg.OTelURL, cfg.OTelEnabled)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
	}

	if !cfg.HasAPIKey() {
		logger.Warn("DEEPSEEK_API_KEY not set, readings will use the fallback template")
	}

	llmClient := deepseek.NewClient(
		&http.Client{Timeout: cfg.LLMTimeout},
		cfg.APIKey,
		cfg.BaseURL,
		deepseek.Options{
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			TopP:        cfg.TopP,
		},
		logger,
	)

	svc := app.NewTarotService(
		decks.NewEmbeddedStore(),
		cfg.DeckID,
		app.NewGenerator(llmClient, cfg.LLMTimeout, logger),
		stdRNG{},
		memory.NewSessionStore(),
		domain.Machine{Again: cfg.AgainPolicy()},
		logger,
	)

	return &deps{cfg: cfg, logger: logger, svc: svc, shutdown: shutdown}, nil
}

func (r *deps) close() {
	if err := r.shutdown(context.Background()); err != nil {
		r.logger.Error("tracer shutdown", "error", err)
	}
}
