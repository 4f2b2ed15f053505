package constants

// Provider identifies an AI extraction backend.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGoogle    Provider = "google"
)

// Providers lists all supported backends.
var Providers = []Provider{ProviderOpenAI, ProviderAnthropic, ProviderGoogle}

// ContentKind describes the payload of an extraction request.
type ContentKind string

const (
	ContentSpreadsheet ContentKind = "spreadsheet"
	ContentPDF         ContentKind = "pdf"
	ContentImage       ContentKind = "image"
)

// Binary reports whether the content kind is attached as inline base64
// rather than prompt text.
func (k ContentKind) Binary() bool {
	return k == ContentPDF || k == ContentImage
}
