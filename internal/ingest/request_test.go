package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/common"
	"github.com/vilmerfrost/solvix/internal/llm"
)

func TestBuildRequestText(t *testing.T) {
	req, err := BuildRequest("report.txt", []byte("hello"), "", llm.Settings{})
	require.NoError(t, err)
	assert.Equal(t, constants.ContentSpreadsheet, req.Kind)
	assert.Equal(t, "hello", req.Text)
	assert.Empty(t, req.Content)
}

func TestBuildRequestPDF(t *testing.T) {
	data := []byte("%PDF-1.7 fake")
	req, err := BuildRequest("scan.PDF", data, "extract rows", llm.Settings{})
	require.NoError(t, err)
	assert.Equal(t, constants.ContentPDF, req.Kind)
	assert.Equal(t, "application/pdf", req.MimeType)
	assert.Equal(t, data, req.Content)
	assert.Empty(t, req.Text)
	assert.Equal(t, "extract rows", req.Instructions)
}

func TestBuildRequestImageMime(t *testing.T) {
	req, err := BuildRequest("photo.jpeg", []byte{0xff, 0xd8}, "", llm.Settings{})
	require.NoError(t, err)
	assert.Equal(t, constants.ContentImage, req.Kind)
	assert.Equal(t, "image/jpeg", req.MimeType)
}

func TestBuildRequestUnsupportedExtension(t *testing.T) {
	_, err := BuildRequest("malware.exe", []byte{1}, "", llm.Settings{})
	assert.ErrorIs(t, err, common.ErrValidation)
}
