// Package sla computes document age against per-type thresholds and raises
// warning/breach signals.
package sla

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/events"
)

// Default thresholds when no rule is configured for a document type.
const (
	DefaultWarningMinutes = 60
	DefaultBreachMinutes  = 240
)

// Evaluation is one appended SLA record; never mutated.
type Evaluation struct {
	DocumentID  string            `json:"document_id"`
	TaskID      string            `json:"task_id,omitempty"`
	DocType     constants.DocType `json:"doc_type"`
	Risk        constants.SlaRisk `json:"risk"`
	Reason      string            `json:"reason"`
	EvaluatedAt time.Time         `json:"evaluated_at"`
}

// Repository appends evaluations. Every call is recorded, even none risk:
// silence is not evidence of timeliness.
type Repository interface {
	AppendEvaluation(ctx context.Context, ev Evaluation) error
}

// Notifier sends direct breach alerts when a contact address is known.
type Notifier interface {
	NotifyBreach(ctx context.Context, contact string, ev Evaluation) error
}

// Input describes the document under evaluation.
type Input struct {
	DocumentID string
	TaskID     string
	DocType    constants.DocType
	CreatedAt  *time.Time
	Contact    string // optional email for breach alerts
}

type Evaluator struct {
	rules      []Rule
	repo       Repository
	dispatcher events.Dispatcher
	notifier   Notifier
	log        *slog.Logger
	now        func() time.Time
}

func NewEvaluator(rules []Rule, repo Repository, dispatcher events.Dispatcher, notifier Notifier, logger *slog.Logger) *Evaluator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Evaluator{rules: rules, repo: repo, dispatcher: dispatcher, notifier: notifier, log: logger, now: time.Now}
}

// WithClock overrides the evaluator clock, for tests.
func (e *Evaluator) WithClock(now func() time.Time) *Evaluator {
	e.now = now
	return e
}

// ClassifyAge is the pure risk function: strictly escalating in age for a
// fixed threshold pair.
func ClassifyAge(ageMinutes, warningMinutes, breachMinutes float64) constants.SlaRisk {
	switch {
	case ageMinutes >= breachMinutes:
		return constants.SlaRiskBreach
	case ageMinutes >= warningMinutes:
		return constants.SlaRiskWarning
	default:
		return constants.SlaRiskNone
	}
}

// Evaluate computes and records the document's SLA risk, dispatching
// warning/breach signals. A missing creation timestamp degrades to none risk
// with a diagnostic reason rather than an error.
func (e *Evaluator) Evaluate(ctx context.Context, in Input) (Evaluation, error) {
	now := e.now().UTC()
	rule := e.ruleFor(in.DocType)

	ev := Evaluation{
		DocumentID:  in.DocumentID,
		TaskID:      in.TaskID,
		DocType:     in.DocType,
		EvaluatedAt: now,
	}

	if in.CreatedAt == nil || in.CreatedAt.IsZero() {
		ev.Risk = constants.SlaRiskNone
		ev.Reason = "unknown age: document has no creation timestamp"
	} else {
		ageMinutes := now.Sub(in.CreatedAt.UTC()).Minutes()
		ev.Risk = ClassifyAge(ageMinutes, float64(rule.WarningMinutes), float64(rule.BreachMinutes))
		ev.Reason = fmt.Sprintf("age %.0f min against warning=%d breach=%d", ageMinutes, rule.WarningMinutes, rule.BreachMinutes)
	}

	if err := e.repo.AppendEvaluation(ctx, ev); err != nil {
		return Evaluation{}, err
	}

	switch ev.Risk {
	case constants.SlaRiskWarning:
		e.dispatch(ctx, constants.EventSlaWarning, ev)
	case constants.SlaRiskBreach:
		e.dispatch(ctx, constants.EventSlaBreach, ev)
		if e.notifier != nil && in.Contact != "" {
			if err := e.notifier.NotifyBreach(ctx, in.Contact, ev); err != nil {
				e.log.Error("sla.evaluate.notify_failed", "document_id", in.DocumentID, "error", err)
			}
		}
	}

	e.log.Info("sla.evaluate.done",
		"document_id", in.DocumentID,
		"doc_type", in.DocType,
		"risk", ev.Risk,
		"reason", ev.Reason,
	)
	return ev, nil
}

func (e *Evaluator) dispatch(ctx context.Context, name string, ev Evaluation) {
	if e.dispatcher == nil {
		return
	}
	payload := map[string]any{
		"risk":    string(ev.Risk),
		"docType": string(ev.DocType),
		"reason":  ev.Reason,
	}
	if err := e.dispatcher.Dispatch(ctx, events.New(name, ev.DocumentID, payload)); err != nil {
		e.log.Error("sla.evaluate.dispatch_failed", "document_id", ev.DocumentID, "event", name, "error", err)
	}
}

func (e *Evaluator) ruleFor(dt constants.DocType) Rule {
	for _, r := range e.rules {
		if r.DocType == dt {
			return r
		}
	}
	return Rule{DocType: dt, WarningMinutes: DefaultWarningMinutes, BreachMinutes: DefaultBreachMinutes}
}
