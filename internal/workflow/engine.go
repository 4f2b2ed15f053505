// Package workflow maintains the per-document review task and its
// append-only transition log.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/common"
	"github.com/vilmerfrost/solvix/internal/events"
)

// Task is the mutable review record, one active task per document.
type Task struct {
	DocumentID string                 `json:"document_id"`
	Assignee   string                 `json:"assignee,omitempty"`
	DueAt      *time.Time             `json:"due_at,omitempty"`
	Status     constants.ReviewStatus `json:"status"`
	Notes      string                 `json:"notes,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at"`
}

// TaskEvent is one transition log entry, decoupled from the mutable task row.
type TaskEvent struct {
	ID         string         `json:"id"`
	DocumentID string         `json:"document_id"`
	Actor      string         `json:"actor"`
	Type       string         `json:"type"`
	Payload    map[string]any `json:"payload,omitempty"`
	At         time.Time      `json:"at"`
}

// Repository is the persistence contract.
type Repository interface {
	UpsertTask(ctx context.Context, t Task) (Task, error)
	GetTask(ctx context.Context, documentID string) (Task, error)
	AppendTaskEvent(ctx context.Context, ev TaskEvent) error
	ListTaskEvents(ctx context.Context, documentID string) ([]TaskEvent, error)
}

type Engine struct {
	repo       Repository
	dispatcher events.Dispatcher
	audit      events.AuditRecorder
	log        *slog.Logger
	now        func() time.Time
}

func NewEngine(repo Repository, dispatcher events.Dispatcher, audit events.AuditRecorder, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{repo: repo, dispatcher: dispatcher, audit: audit, log: logger, now: time.Now}
}

// WithClock overrides the engine clock, for tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Upsert creates or updates the document's task. Creating a task when one
// exists is an update, not a duplicate insert.
func (e *Engine) Upsert(ctx context.Context, actorID string, t Task) (Task, error) {
	if t.DocumentID == "" {
		return Task{}, common.NewAppError("WORKFLOW_INPUT", "document id is required", common.ErrInvalidInput)
	}
	if t.Status == "" {
		t.Status = constants.ReviewStatusNew
	}
	now := e.now().UTC()

	prev, err := e.repo.GetTask(ctx, t.DocumentID)
	created := errors.Is(err, common.ErrNotFound)
	if err != nil && !created {
		return Task{}, err
	}
	if created {
		t.CreatedAt = now
	} else {
		t.CreatedAt = prev.CreatedAt
	}
	t.UpdatedAt = now

	saved, err := e.repo.UpsertTask(ctx, t)
	if err != nil {
		return Task{}, err
	}

	evType := "task.updated"
	if created {
		evType = "task.created"
	}
	if err := e.repo.AppendTaskEvent(ctx, TaskEvent{
		DocumentID: t.DocumentID,
		Actor:      actorID,
		Type:       evType,
		Payload:    map[string]any{"status": string(t.Status), "assignee": t.Assignee},
		At:         now,
	}); err != nil {
		return Task{}, err
	}

	if err := e.emitForStatus(ctx, actorID, saved, created, prev.Status); err != nil {
		e.log.Error("workflow.upsert.emit_failed", "document_id", t.DocumentID, "error", err)
	}

	e.log.Info("workflow.task.upsert",
		"document_id", saved.DocumentID,
		"status", saved.Status,
		"created", created,
	)
	return saved, nil
}

// Transition moves the document's task to a new status. Transitions are not
// constrained by a transition table; any state is reachable from any state.
func (e *Engine) Transition(ctx context.Context, actorID, documentID string, to constants.ReviewStatus, notes string) (Task, error) {
	t, err := e.repo.GetTask(ctx, documentID)
	if err != nil {
		return Task{}, err
	}
	from := t.Status
	t.Status = to
	if notes != "" {
		t.Notes = notes
	}
	t.UpdatedAt = e.now().UTC()

	saved, err := e.repo.UpsertTask(ctx, t)
	if err != nil {
		return Task{}, err
	}
	if err := e.repo.AppendTaskEvent(ctx, TaskEvent{
		DocumentID: documentID,
		Actor:      actorID,
		Type:       "task.transition",
		Payload:    map[string]any{"from": string(from), "to": string(to)},
		At:         t.UpdatedAt,
	}); err != nil {
		return Task{}, err
	}
	if err := e.emitForStatus(ctx, actorID, saved, false, from); err != nil {
		e.log.Error("workflow.transition.emit_failed", "document_id", documentID, "error", err)
	}

	e.log.Info("workflow.task.transition", "document_id", documentID, "from", from, "to", to)
	return saved, nil
}

// emitForStatus dispatches the outward event and audit record a status
// change calls for: approved/rejected get dedicated events, everything else
// a generic reviewed event.
func (e *Engine) emitForStatus(ctx context.Context, actorID string, t Task, created bool, from constants.ReviewStatus) error {
	if !created && t.Status == from {
		return nil
	}

	name := constants.EventDocumentReviewed
	switch t.Status {
	case constants.ReviewStatusApproved:
		name = constants.EventDocumentApproved
	case constants.ReviewStatusRejected:
		name = constants.EventDocumentRejected
	}

	if e.dispatcher != nil {
		ev := events.New(name, t.DocumentID, map[string]any{"status": string(t.Status)})
		if err := e.dispatcher.Dispatch(ctx, ev); err != nil {
			return err
		}
	}
	if e.audit != nil && t.Status.Terminal() {
		return e.audit.Record(ctx, events.AuditRecord{
			ActorID:     actorID,
			DocumentID:  t.DocumentID,
			Action:      "review." + string(t.Status),
			Description: fmt.Sprintf("review task moved to %s", t.Status),
			Metadata:    map[string]any{"from": string(from), "to": string(t.Status)},
		})
	}
	return nil
}

// CurrentStatus replays the document's event log through the reducer.
func (e *Engine) CurrentStatus(ctx context.Context, documentID string) (constants.ReviewStatus, error) {
	evs, err := e.repo.ListTaskEvents(ctx, documentID)
	if err != nil {
		return "", err
	}
	return Reduce(evs), nil
}
