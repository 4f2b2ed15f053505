// Package events defines the outbound event and audit contracts. Delivery
// transport (webhooks, email) lives outside this core; a logging dispatcher
// is provided for local runs and tests.
package events

import (
	"context"
	"log/slog"
)

// Version tag carried by every dispatched event payload.
const Version = "1"

// Event is one named notification for the external webhook layer.
// Payload always contains at least documentId.
type Event struct {
	Name    string         `json:"name"`
	Version string         `json:"version"`
	Payload map[string]any `json:"payload"`
}

// New builds an event with the documentId guarantee.
func New(name, documentID string, payload map[string]any) Event {
	if payload == nil {
		payload = map[string]any{}
	}
	payload["documentId"] = documentID
	return Event{Name: name, Version: Version, Payload: payload}
}

// Dispatcher delivers events to the external notification layer.
type Dispatcher interface {
	Dispatch(ctx context.Context, ev Event) error
}

// AuditRecord mirrors one decision just made.
type AuditRecord struct {
	ActorID     string         `json:"actor_id"`
	DocumentID  string         `json:"document_id"`
	Action      string         `json:"action"`
	Description string         `json:"description"`
	Metadata    map[string]any `json:"metadata"`
}

// AuditRecorder appends audit records.
type AuditRecorder interface {
	Record(ctx context.Context, rec AuditRecord) error
}

// LogDispatcher logs events instead of delivering them.
type LogDispatcher struct {
	Logger *slog.Logger
}

func (d LogDispatcher) Dispatch(_ context.Context, ev Event) error {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("events.dispatch", "name", ev.Name, "version", ev.Version, "document_id", ev.Payload["documentId"])
	return nil
}
