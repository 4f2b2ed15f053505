package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGuaranteesDocumentID(t *testing.T) {
	ev := New("document.processed", "d1", nil)
	assert.Equal(t, "document.processed", ev.Name)
	assert.Equal(t, Version, ev.Version)
	assert.Equal(t, "d1", ev.Payload["documentId"])

	ev = New("sla.breach", "d2", map[string]any{"risk": "breach"})
	assert.Equal(t, "d2", ev.Payload["documentId"])
	assert.Equal(t, "breach", ev.Payload["risk"])
}

func TestLogDispatcher(t *testing.T) {
	require.NoError(t, LogDispatcher{}.Dispatch(context.Background(), New("x", "d1", nil)))
}
