package printing

import (
	"context"
	"time"

	"github.com/oms/backend/internal/domain/printing"
)

// RenderRequest describes one receipt document to turn into a PDF.
type RenderRequest struct {
	HTML        string
	PaperSize   printing.PaperSize
	Orientation printing.Orientation
	Margins     printing.Margins
	// Title lands in the PDF document metadata.
	Title string
	// HeaderHTML and FooterHTML repeat on every page when set.
	HeaderHTML string
	FooterHTML string
	// Timeout overrides the renderer default for this request.
	Timeout time.Duration
}

// RenderResult is the rendered PDF plus render metadata.
type RenderResult struct {
	PDFData        []byte
	PageCount      int
	RenderDuration time.Duration
}

// PDFRenderer turns receipt HTML into PDF bytes.
type PDFRenderer interface {
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Close releases the underlying browser resources.
	Close() error
}

// Rendering failure codes carried by RenderError.
const (
	ErrCodeRenderTimeout    = "RENDER_TIMEOUT"
	ErrCodeRenderFailed     = "RENDER_FAILED"
	ErrCodeInvalidHTML      = "INVALID_HTML"
	ErrCodeInvalidPaperSize = "INVALID_PAPER_SIZE"
)

// RenderError tags a rendering failure with a stable code so callers can
// map it onto an HTTP response.
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

// NewRenderError wraps cause with a failure code. cause may be nil.
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{Code: code, Message: message, Cause: cause}
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
