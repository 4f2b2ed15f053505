// Package orchestrate composes classification, schema resolution, structured
// extraction, validation, review workflow and SLA evaluation into one
// document-processing run.
package orchestrate

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/classify"
	"github.com/vilmerfrost/solvix/internal/common"
	"github.com/vilmerfrost/solvix/internal/events"
	"github.com/vilmerfrost/solvix/internal/repository"
	"github.com/vilmerfrost/solvix/internal/schema"
	"github.com/vilmerfrost/solvix/internal/sla"
	"github.com/vilmerfrost/solvix/internal/structured"
	"github.com/vilmerfrost/solvix/internal/validate"
	"github.com/vilmerfrost/solvix/internal/workflow"
)

// RawTextSampleMax bounds the stored raw-text sample.
const RawTextSampleMax = 2000

// ResolvedConfig carries everything a run needs, built once per request.
// The pipeline itself performs no hidden settings reads.
type ResolvedConfig struct {
	UserID               string
	HomeCurrency         string
	AutoApproveThreshold int     // completeness 0..100
	HighConfidence       float64 // classification confidence 0..1
	OverrideRules        []classify.OverrideRule
	SlaRules             []sla.Rule
	Contact              string // optional email for SLA breach alerts
}

// Document is one processing-run input. Text comes from the external
// PDF/Excel extraction layer.
type Document struct {
	ID        string
	Filename  string
	Text      string
	CreatedAt time.Time
}

// ProcessResult exposes all four externally visible decisions independently:
// classification, schema selection, validation outcome and approval.
type ProcessResult struct {
	DocumentID        string                 `json:"document_id"`
	Domain            string                 `json:"domain"`
	DocType           constants.DocType      `json:"doc_type"`
	Classification    classify.Decision      `json:"classification"`
	SchemaID          string                 `json:"schema_id"`
	SchemaVersion     int                    `json:"schema_version"`
	UsedDefaultSchema bool                   `json:"used_default_schema"`
	Extraction        structured.Extraction  `json:"extraction"`
	Validation        validate.Outcome       `json:"validation"`
	AutoApproved      bool                   `json:"auto_approved"`
	Task              workflow.Task          `json:"task"`
	Sla               sla.Evaluation         `json:"sla"`
	RawTextSample     string                 `json:"raw_text_sample"`
}

type Orchestrator struct {
	schemas     *schema.Store
	tables      structured.TableExtractor
	validator   *validate.Validator
	workflow    *workflow.Engine
	decisions   repository.ClassificationRepository
	slaRepo     sla.Repository
	notifier    sla.Notifier
	dispatcher  events.Dispatcher
	audit       events.AuditRecorder
	log         *slog.Logger
	now         func() time.Time
}

func New(
	schemas *schema.Store,
	tables structured.TableExtractor,
	validator *validate.Validator,
	wf *workflow.Engine,
	decisions repository.ClassificationRepository,
	slaRepo sla.Repository,
	notifier sla.Notifier,
	dispatcher events.Dispatcher,
	audit events.AuditRecorder,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		schemas:    schemas,
		tables:     tables,
		validator:  validator,
		workflow:   wf,
		decisions:  decisions,
		slaRepo:    slaRepo,
		notifier:   notifier,
		dispatcher: dispatcher,
		audit:      audit,
		log:        logger,
		now:        time.Now,
	}
}

// WithClock overrides the orchestrator clock, for tests.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

// ProcessDocument runs the sequential pipeline for one document. Each stage
// depends on the previous stage's output; no internal parallelism.
func (o *Orchestrator) ProcessDocument(ctx context.Context, cfg ResolvedConfig, doc Document) (ProcessResult, error) {
	start := o.now()
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
		ctx = common.WithRequestID(ctx, rid)
	}
	o.log.Info("orchestrate.process.start", "req_id", rid, "document_id", doc.ID, "user_id", cfg.UserID, "filename", doc.Filename)

	// 1) classify and persist the decision verbatim
	classifier := classify.New(cfg.OverrideRules, o.log)
	decision := classifier.Classify(doc.Filename, doc.Text)
	if err := o.decisions.SaveDecision(ctx, doc.ID, decision); err != nil {
		return ProcessResult{}, fmt.Errorf("save classification: %w", err)
	}
	o.emit(ctx, constants.EventDocumentClassified, doc.ID, map[string]any{"decision": decision})
	o.record(ctx, cfg.UserID, doc.ID, "document.classify",
		fmt.Sprintf("classified as %s (%s)", decision.FinalType, decision.Source),
		map[string]any{"decision": decision})

	// 2) resolve the active schema
	res, err := o.schemas.Resolve(ctx, cfg.UserID, decision.FinalType, decision.SchemaID)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("resolve schema: %w", err)
	}

	// 3) deterministic field/table extraction
	extractor := structured.New(cfg.HomeCurrency, o.tables, o.log)
	extraction := extractor.Extract(res.Template, doc.Text)

	// 4) validate
	outcome := o.validator.Validate(res.Template, extraction, decision.ModelConfidence)

	// 5) auto-approval decision
	autoApprove := len(outcome.BlockingIssues) == 0 &&
		outcome.Completeness >= cfg.AutoApproveThreshold &&
		decision.ModelConfidence >= cfg.HighConfidence

	// 6) review task, pre-approved when the gate passes
	status := constants.ReviewStatusNew
	if autoApprove {
		status = constants.ReviewStatusApproved
	}
	task, err := o.workflow.Upsert(ctx, cfg.UserID, workflow.Task{DocumentID: doc.ID, Status: status})
	if err != nil {
		return ProcessResult{}, fmt.Errorf("upsert review task: %w", err)
	}

	// 7) SLA against the document's creation time
	evaluator := sla.NewEvaluator(cfg.SlaRules, o.slaRepo, o.dispatcher, o.notifier, o.log).WithClock(o.now)
	var createdAt *time.Time
	if !doc.CreatedAt.IsZero() {
		createdAt = &doc.CreatedAt
	}
	slaEval, err := evaluator.Evaluate(ctx, sla.Input{
		DocumentID: doc.ID,
		TaskID:     task.DocumentID,
		DocType:    decision.FinalType,
		CreatedAt:  createdAt,
		Contact:    cfg.Contact,
	})
	if err != nil {
		return ProcessResult{}, fmt.Errorf("evaluate sla: %w", err)
	}

	result := ProcessResult{
		DocumentID:        doc.ID,
		Domain:            "office",
		DocType:           decision.FinalType,
		Classification:    decision,
		SchemaID:          res.Template.SchemaID,
		SchemaVersion:     res.Template.Version,
		UsedDefaultSchema: res.UsedDefault,
		Extraction:        extraction,
		Validation:        outcome,
		AutoApproved:      autoApprove,
		Task:              task,
		Sla:               slaEval,
		RawTextSample:     Sample(doc.Text, RawTextSampleMax),
	}

	o.emit(ctx, constants.EventDocumentProcessed, doc.ID, map[string]any{
		"docType":      string(result.DocType),
		"schemaId":     result.SchemaID,
		"completeness": outcome.Completeness,
		"autoApproved": autoApprove,
	})
	o.record(ctx, cfg.UserID, doc.ID, "document.process",
		fmt.Sprintf("processed %s: completeness=%d blocking=%d autoApproved=%t",
			result.DocType, outcome.Completeness, len(outcome.BlockingIssues), autoApprove),
		map[string]any{"validation": outcome, "autoApproved": autoApprove, "schemaId": result.SchemaID})

	o.log.Info("orchestrate.process.done",
		"req_id", rid,
		"document_id", doc.ID,
		"doc_type", result.DocType,
		"completeness", outcome.Completeness,
		"auto_approved", autoApprove,
		"sla_risk", slaEval.Risk,
		"elapsed_ms", o.now().Sub(start).Milliseconds(),
	)
	return result, nil
}

func (o *Orchestrator) emit(ctx context.Context, name, documentID string, payload map[string]any) {
	if o.dispatcher == nil {
		return
	}
	if err := o.dispatcher.Dispatch(ctx, events.New(name, documentID, payload)); err != nil {
		o.log.Error("orchestrate.emit_failed", "document_id", documentID, "event", name, "error", err)
	}
}

func (o *Orchestrator) record(ctx context.Context, actorID, documentID, action, description string, metadata map[string]any) {
	if o.audit == nil {
		return
	}
	if err := o.audit.Record(ctx, events.AuditRecord{
		ActorID:     actorID,
		DocumentID:  documentID,
		Action:      action,
		Description: description,
		Metadata:    metadata,
	}); err != nil {
		o.log.Error("orchestrate.audit_failed", "document_id", documentID, "action", action, "error", err)
	}
}

// Sample bounds s to max bytes for storage economy.
func Sample(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
