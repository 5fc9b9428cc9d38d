package printing

// ReceiptFormat selects the rendered output
type ReceiptFormat string

const (
	// FormatHTML returns the rendered HTML document
	FormatHTML ReceiptFormat = "html"
	// FormatPDF renders a PDF and archives it
	FormatPDF ReceiptFormat = "pdf"
)

// IsValid checks if the format is supported
func (f ReceiptFormat) IsValid() bool {
	return f == FormatHTML || f == FormatPDF
}

// ReceiptResponse is the rendered document. HTML is always present; PDF
// and URL are set only for PDF renders.
type ReceiptResponse struct {
	HTML        string `json:"html,omitempty"`
	PDF         []byte `json:"-"`
	URL         string `json:"url,omitempty"`
	ContentType string `json:"content_type"`
	StorageKey  string `json:"storage_key,omitempty"`
}
