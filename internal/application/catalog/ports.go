// Package catalog holds the use cases of the catalog server: paired product
// rows, manual and barcode connections, feed sync, accounts, the orders board
// and product reports.
package catalog

import (
	"context"
	"time"

	"github.com/erp/reconciler/internal/domain/catalog"
	"github.com/erp/reconciler/internal/domain/shared"
)

// ReportWriter renders product rows into a downloadable report
type ReportWriter interface {
	WriteProducts(rows []catalog.Row) ([]byte, error)
	ContentType() string
	Extension() string
}

// ExportArchive keeps copies of exported reports
type ExportArchive interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	// DownloadURL returns a URL the report can be fetched from and when it
	// stops working
	DownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
}

// ErrExportNotFound is returned for an unknown archive key
var ErrExportNotFound = shared.NewDomainError("NOT_FOUND", "Export not found")
