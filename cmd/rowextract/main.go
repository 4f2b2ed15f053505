// rowextract sends one document through the provider extraction router and
// prints the extracted material rows as JSON. Credentials come from
// OPENAI_API_KEY, ANTHROPIC_API_KEY and GEMINI_API_KEY.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/common"
	"github.com/vilmerfrost/solvix/internal/ingest"
	"github.com/vilmerfrost/solvix/internal/llm"
	"github.com/vilmerfrost/solvix/internal/llm/anthropic"
	"github.com/vilmerfrost/solvix/internal/llm/gemini"
	"github.com/vilmerfrost/solvix/internal/llm/openai"
	"github.com/vilmerfrost/solvix/internal/repository"
	"github.com/vilmerfrost/solvix/internal/router"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	var (
		path         = flag.String("file", "", "path to a pdf/jpg/png/xlsx/tsv/txt file")
		modelID      = flag.String("model", "", "model id (empty uses the platform default)")
		userID       = flag.String("user", "local", "acting user id")
		instructions = flag.String("instructions", "", "extra extraction instructions")
	)
	flag.Parse()
	if *path == "" {
		logger.Error("usage: rowextract -file <path> [-model id] [-user id]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	data, err := os.ReadFile(*path)
	if err != nil {
		logger.Error("read file", "path", *path, "error", err)
		os.Exit(1)
	}

	req, err := ingest.BuildRequest(*path, data, *instructions, llm.Settings{
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
	})
	if err != nil {
		logger.Error("build request", "path", *path, "error", err)
		os.Exit(1)
	}

	adapters := router.Adapters{
		constants.ProviderOpenAI:    openai.New(openai.Config{Timeout: cfg.LLM.Timeout}, logger),
		constants.ProviderAnthropic: anthropic.New(anthropic.Config{Timeout: cfg.LLM.Timeout}, logger),
		constants.ProviderGoogle:    gemini.New(gemini.Config{Timeout: cfg.LLM.Timeout}, logger),
	}

	// usage ledger is optional for the CLI path
	var usage router.UsageRecorder
	if cfg.Database.DSN != "" {
		db, err := repository.Open(context.Background(), cfg.Database, logger)
		if err != nil {
			logger.Error("open db", "error", err)
			os.Exit(1)
		}
		defer repository.Close(db, logger)
		usage = repository.NewUsageRepository(db, logger)
	}

	r, err := router.NewRouter(adapters, usage, logger)
	if err != nil {
		logger.Error("build router", "error", err)
		os.Exit(1)
	}

	keys := router.ResolvedKeys{
		PreferredModelID: *modelID,
		PlatformKeys: map[constants.Provider]string{
			constants.ProviderOpenAI:    os.Getenv("OPENAI_API_KEY"),
			constants.ProviderAnthropic: os.Getenv("ANTHROPIC_API_KEY"),
			constants.ProviderGoogle:    os.Getenv("GEMINI_API_KEY"),
		},
		ManagedEligible: true,
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.LLM.Timeout+30*time.Second)
	defer cancel()

	res, err := r.Route(ctx, *userID, req, keys)
	if err != nil {
		logger.Error("route extraction", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}
