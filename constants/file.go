package constants

import "strings"

// AllowedExtensions holds the default allowed file extensions for document ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"xlsx": {},
	"tsv":  {},
	"txt":  {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// KindForExt maps a normalized extension to a content kind.
// Text-like inputs default to spreadsheet (tabular prompt content).
func KindForExt(ext string) ContentKind {
	switch NormalizeExt(ext) {
	case "pdf":
		return ContentPDF
	case "jpg", "jpeg", "png":
		return ContentImage
	default:
		return ContentSpreadsheet
	}
}
