// docproc runs the full document pipeline for one file: classification,
// schema resolution, structured extraction, validation, review-task creation
// and SLA evaluation. Results print as JSON on stdout.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/vilmerfrost/solvix/internal/classify"
	"github.com/vilmerfrost/solvix/internal/common"
	"github.com/vilmerfrost/solvix/internal/events"
	"github.com/vilmerfrost/solvix/internal/ingest"
	"github.com/vilmerfrost/solvix/internal/orchestrate"
	"github.com/vilmerfrost/solvix/internal/repository"
	"github.com/vilmerfrost/solvix/internal/schema"
	"github.com/vilmerfrost/solvix/internal/sla"
	"github.com/vilmerfrost/solvix/internal/structured"
	"github.com/vilmerfrost/solvix/internal/validate"
	"github.com/vilmerfrost/solvix/internal/workflow"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	var (
		path    = flag.String("file", "", "path to a txt/tsv/xlsx document")
		userID  = flag.String("user", "local", "acting user id")
		contact = flag.String("contact", "", "email for SLA breach alerts")
	)
	flag.Parse()
	if *path == "" {
		logger.Error("usage: docproc -file <path> [-user id] [-contact email]")
		os.Exit(2)
	}

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx = common.WithUserID(common.WithRequestID(ctx, uuid.New().String()), *userID)

	db, err := repository.Open(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("open db", "error", err)
		os.Exit(1)
	}
	defer repository.Close(db, logger)
	if err := repository.Migrate(ctx, db); err != nil {
		logger.Error("migrate db", "error", err)
		os.Exit(1)
	}

	text, err := loadText(*path)
	if err != nil {
		logger.Error("load document", "path", *path, "error", err)
		os.Exit(1)
	}

	var overrides []classify.OverrideRule
	var slaRules []sla.Rule
	if cfg.Pipeline.RulesPath != "" {
		data, err := os.ReadFile(cfg.Pipeline.RulesPath)
		if err != nil {
			logger.Error("read rules file", "path", cfg.Pipeline.RulesPath, "error", err)
			os.Exit(1)
		}
		if overrides, err = classify.LoadRulesYAML(data); err != nil {
			logger.Error("parse override rules", "error", err)
			os.Exit(1)
		}
		if slaRules, err = sla.LoadRulesYAML(data); err != nil {
			logger.Error("parse sla rules", "error", err)
			os.Exit(1)
		}
	}

	dispatcher := events.LogDispatcher{Logger: logger}
	audit := repository.NewAuditRepository(db, logger)
	engine := workflow.NewEngine(repository.NewTaskRepository(db, logger), dispatcher, audit, logger)
	store := schema.NewStore(repository.NewSchemaRepository(db, logger), logger)

	orch := orchestrate.New(
		store,
		structured.PresenceHeuristic{},
		validate.New(logger),
		engine,
		repository.NewClassificationRepository(db, logger),
		repository.NewSlaRepository(db, logger),
		sla.NewLogNotifier(logger),
		dispatcher,
		audit,
		logger,
	)

	docs := repository.NewDocumentRepository(db, logger)
	doc := orchestrate.Document{
		ID:        uuid.New().String(),
		Filename:  filepath.Base(*path),
		Text:      text,
		CreatedAt: time.Now(),
	}
	if err := docs.CreateDocument(ctx, repository.Document{
		ID:        doc.ID,
		UserID:    *userID,
		Filename:  doc.Filename,
		CreatedAt: doc.CreatedAt,
	}); err != nil {
		logger.Error("create document", "error", err)
		os.Exit(1)
	}

	result, err := orch.ProcessDocument(ctx, orchestrate.ResolvedConfig{
		UserID:               *userID,
		HomeCurrency:         cfg.Pipeline.HomeCurrency,
		AutoApproveThreshold: cfg.Pipeline.AutoApproveThreshold,
		HighConfidence:       cfg.Pipeline.HighConfidence,
		OverrideRules:        overrides,
		SlaRules:             slaRules,
		Contact:              *contact,
	}, doc)
	if err != nil {
		logger.Error("process document", "document_id", doc.ID, "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		logger.Error("encode result", "error", err)
		os.Exit(1)
	}
}

func loadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if filepath.Ext(path) == ".xlsx" {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		return ingest.SpreadsheetToTSV(f)
	}
	return string(data), nil
}
