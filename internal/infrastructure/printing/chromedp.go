package printing

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/oms/backend/internal/domain/printing"
)

const (
	defaultRenderTimeout = 30 * time.Second
	defaultScale         = 1.0

	// Receipt paper is continuous; give Chrome a page tall enough that a
	// single receipt never paginates. ~3 meters covers any realistic order.
	receiptPageHeightMM = 3000

	// PrintToPDF reserves header/footer space out of the page margin, so a
	// margin smaller than this clips them.
	headerFooterMinMarginMM = 10
)

// ChromeOptions configures the headless-Chrome PDF renderer. The renderer
// always runs headless with GPU disabled; those are not server choices.
type ChromeOptions struct {
	// RemoteURL points at an already-running Chrome DevTools endpoint.
	// Empty means launch a local browser per allocator.
	RemoteURL string
	// Timeout bounds a single render when the request carries none.
	Timeout time.Duration
	// NoSandbox is required when Chrome runs as root (Docker).
	NoSandbox bool
	// Scale applied to every render.
	Scale  float64
	Logger *zap.Logger
}

// ChromedpRenderer renders HTML to PDF over the Chrome DevTools Protocol.
// A single allocator is shared across renders; each Render gets its own
// browser context.
type ChromedpRenderer struct {
	opts        ChromeOptions
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

func NewChromedpRenderer(opts *ChromeOptions) (*ChromedpRenderer, error) {
	o := ChromeOptions{}
	if opts != nil {
		o = *opts
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultRenderTimeout
	}
	if o.Scale <= 0 {
		o.Scale = defaultScale
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	r := &ChromedpRenderer{opts: o, logger: o.Logger}

	if o.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), o.RemoteURL)
		return r, nil
	}

	flags := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true), // /dev/shm is tiny in containers
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("disable-translate", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if o.NoSandbox {
		flags = append(flags, chromedp.Flag("no-sandbox", true))
	}
	r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), flags...)

	return r, nil
}

// Render produces a PDF from the request's HTML.
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil {
		return nil, NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if !req.PaperSize.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+string(req.PaperSize), nil)
	}

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.opts.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browserCtx, browserCancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...interface{}) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	defer browserCancel()

	html := wrapDocument(req.HTML, req.Title)
	print := r.printToPDF(req)

	start := time.Now()

	var pdfData []byte
	err := chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := print.Do(ctx)
			if err != nil {
				return err
			}
			pdfData = data
			return nil
		}),
	)
	if err != nil {
		switch ctx.Err() {
		case context.DeadlineExceeded:
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		case context.Canceled:
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed: "+err.Error(), err)
	}
	if len(pdfData) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	elapsed := time.Since(start)
	pages := countPDFPages(pdfData)

	r.logger.Info("PDF rendered",
		zap.Int("bytes", len(pdfData)),
		zap.Int("pages", pages),
		zap.Duration("duration", elapsed))

	return &RenderResult{
		PDFData:        pdfData,
		PageCount:      pages,
		RenderDuration: elapsed,
	}, nil
}

// printToPDF translates the request's paper geometry (millimeters) into
// the CDP call, which wants inches.
func (r *ChromedpRenderer) printToPDF(req *RenderRequest) *page.PrintToPDFParams {
	width, height := req.PaperSize.Dimensions()
	paperHeight := float64(height)
	if req.PaperSize.IsReceipt() {
		paperHeight = receiptPageHeightMM
	}

	marginTop := float64(req.Margins.Top)
	marginBottom := float64(req.Margins.Bottom)
	headerFooter := req.HeaderHTML != "" || req.FooterHTML != ""
	if req.HeaderHTML != "" && marginTop < headerFooterMinMarginMM {
		marginTop = headerFooterMinMarginMM
	}
	if req.FooterHTML != "" && marginBottom < headerFooterMinMarginMM {
		marginBottom = headerFooterMinMarginMM
	}

	return page.PrintToPDF().
		WithPrintBackground(true).
		WithPaperWidth(mmToInches(float64(width))).
		WithPaperHeight(mmToInches(paperHeight)).
		WithMarginTop(mmToInches(marginTop)).
		WithMarginRight(mmToInches(float64(req.Margins.Right))).
		WithMarginBottom(mmToInches(marginBottom)).
		WithMarginLeft(mmToInches(float64(req.Margins.Left))).
		WithScale(r.opts.Scale).
		WithLandscape(req.Orientation == printing.OrientationLandscape).
		WithDisplayHeaderFooter(headerFooter).
		WithHeaderTemplate(req.HeaderHTML).
		WithFooterTemplate(req.FooterHTML)
}

// wrapDocument turns an HTML fragment into a full document. Content that
// already carries a doctype or <html> tag passes through untouched.
func wrapDocument(html, title string) string {
	lower := strings.ToLower(html)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		return html
	}

	var buf strings.Builder
	buf.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	buf.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1.0">`)
	if title != "" {
		buf.WriteString("<title>")
		buf.WriteString(title)
		buf.WriteString("</title>")
	}
	buf.WriteString("</head><body>")
	buf.WriteString(html)
	buf.WriteString("</body></html>")
	return buf.String()
}

// countPDFPages counts page objects in the raw PDF. "/Type /Pages" (the
// tree node) also matches the "/Type /Page" needle, so it is subtracted.
func countPDFPages(pdfData []byte) int {
	pages := bytes.Count(pdfData, []byte("/Type /Page")) -
		bytes.Count(pdfData, []byte("/Type /Pages"))
	return max(pages, 1)
}

func mmToInches(mm float64) float64 {
	return mm / 25.4
}

// Close tears down the shared allocator.
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
