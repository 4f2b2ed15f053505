package sla

import (
	"context"
	"log/slog"
)

// LogNotifier records breach alerts in the structured log. Stands in until a
// mail or webhook channel is configured; deployments without a contact
// address still get an operator-visible signal.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{log: logger}
}

func (n *LogNotifier) NotifyBreach(ctx context.Context, contact string, ev Evaluation) error {
	n.log.Warn("sla.notify.breach",
		"document_id", ev.DocumentID,
		"task_id", ev.TaskID,
		"doc_type", ev.DocType,
		"contact", contact,
		"reason", ev.Reason,
	)
	return nil
}
