// Package printing provides infrastructure implementations for PDF generation
// of order and purchase invoice receipts.
//
// This package contains:
// - PDFRenderer interface for rendering HTML to PDF
// - ChromedpRenderer implementation backed by headless Chrome
// - ReceiptArchive interface for archiving rendered receipts
// - S3ReceiptArchive and InlineReceiptArchive implementations
package printing
