package ingest

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/vilmerfrost/solvix/constants"
	"github.com/vilmerfrost/solvix/internal/common"
	"github.com/vilmerfrost/solvix/internal/llm"
)

var mimeByExt = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

// BuildRequest turns an uploaded file into a provider-agnostic extraction
// request. Spreadsheets are flattened to TSV text here so adapters never see
// workbook bytes; PDFs and images pass through with their mime type.
func BuildRequest(filename string, data []byte, instructions string, settings llm.Settings) (llm.ExtractionRequest, error) {
	ext := constants.NormalizeExt(filepath.Ext(filename))
	if _, ok := constants.AllowedExtensions[ext]; !ok {
		return llm.ExtractionRequest{}, common.NewAppError("UNSUPPORTED_FILE",
			fmt.Sprintf("unsupported file extension %q", ext), common.ErrValidation)
	}

	req := llm.ExtractionRequest{
		Kind:         constants.KindForExt(ext),
		Filename:     filename,
		Instructions: instructions,
		Settings:     settings,
	}
	switch req.Kind {
	case constants.ContentPDF, constants.ContentImage:
		req.Content = data
		req.MimeType = mimeByExt[ext]
	default:
		if ext == "xlsx" {
			text, err := SpreadsheetToTSV(bytes.NewReader(data))
			if err != nil {
				return llm.ExtractionRequest{}, err
			}
			req.Text = text
		} else {
			req.Text = string(data)
		}
	}
	return req, nil
}
