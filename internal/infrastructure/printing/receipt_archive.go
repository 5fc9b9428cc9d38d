package printing

import (
	"context"
	"time"

	"github.com/oms/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// ReceiptArchive persists rendered receipt PDFs and hands back a URL the
// caller can serve to clients.
type ReceiptArchive interface {
	// Store uploads the PDF under the given key and returns a download URL
	Store(ctx context.Context, key string, pdf []byte) (string, error)
}

// S3ReceiptArchive archives receipts in S3-compatible object storage and
// returns presigned download URLs.
type S3ReceiptArchive struct {
	storage   *storage.S3Store
	urlExpiry time.Duration
	logger    *zap.Logger
}

// NewS3ReceiptArchive creates a new S3ReceiptArchive
func NewS3ReceiptArchive(objectStorage *storage.S3Store, urlExpiry time.Duration, logger *zap.Logger) *S3ReceiptArchive {
	if logger == nil {
		logger = zap.NewNop()
	}
	if urlExpiry <= 0 {
		urlExpiry = 15 * time.Minute
	}
	return &S3ReceiptArchive{storage: objectStorage, urlExpiry: urlExpiry, logger: logger}
}

// Store uploads the PDF and returns a presigned download URL
func (a *S3ReceiptArchive) Store(ctx context.Context, key string, pdf []byte) (string, error) {
	if err := a.storage.Upload(ctx, key, pdf, "application/pdf"); err != nil {
		return "", err
	}

	url, _, err := a.storage.PresignDownload(ctx, key, a.urlExpiry)
	if err != nil {
		return "", err
	}

	a.logger.Debug("receipt archived",
		zap.String("key", key),
		zap.Int("size", len(pdf)))
	return url, nil
}

var _ ReceiptArchive = (*S3ReceiptArchive)(nil)

// InlineReceiptArchive skips archiving entirely. Rendered PDFs are only
// returned inline in the response; no URL is produced. Used when object
// storage is not configured.
type InlineReceiptArchive struct{}

// NewInlineReceiptArchive creates a new InlineReceiptArchive
func NewInlineReceiptArchive() *InlineReceiptArchive {
	return &InlineReceiptArchive{}
}

// Store discards the PDF and returns an empty URL
func (a *InlineReceiptArchive) Store(ctx context.Context, key string, pdf []byte) (string, error) {
	return "", nil
}

var _ ReceiptArchive = (*InlineReceiptArchive)(nil)
