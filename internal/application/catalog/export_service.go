package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erp/reconciler/internal/domain/catalog"
)

// ExportService renders selected product rows into a report
type ExportService struct {
	productRepo catalog.ProductRepository
	writer      ReportWriter
	archive     ExportArchive
	archiveTTL  time.Duration
	serviceOptions
}

// NewExportService creates a new ExportService. archive may be nil.
func NewExportService(
	productRepo catalog.ProductRepository,
	writer ReportWriter,
	archive ExportArchive,
	archiveTTL time.Duration,
	opts ...Option,
) *ExportService {
	return &ExportService{
		productRepo:    productRepo,
		writer:         writer,
		archive:        archive,
		archiveTTL:     archiveTTL,
		serviceOptions: newServiceOptions(opts),
	}
}

// Export renders the user's products among ids. A marketplace product brings
// its connected warehouse product into the same row; ids of other users are
// ignored.
func (s *ExportService) Export(ctx context.Context, userID int64, ids []int64) (*ExportResult, error) {
	products, err := s.productRepo.FindByIDs(ctx, userID, ids)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, catalog.ErrProductNotFound
	}
	if len(products) != len(ids) {
		s.logger.Warn("export skips unknown products",
			zap.Int64("user_id", userID),
			zap.Int("requested", len(ids)),
			zap.Int("found", len(products)))
	}

	rows, err := pairRows(ctx, s.productRepo, s.logger, userID, products)
	if err != nil {
		return nil, err
	}
	data, err := s.writer.WriteProducts(rows)
	if err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}

	now := s.now()
	result := &ExportResult{
		FileName:    fmt.Sprintf("products_report_%s%s", now.Format("2006-01-02_150405"), s.writer.Extension()),
		ContentType: s.writer.ContentType(),
		Data:        data,
	}
	if s.archive != nil {
		result.ArchiveURL = s.store(ctx, userID, result)
	}

	s.logger.Info("products exported",
		zap.Int64("user_id", userID),
		zap.Int("rows", len(rows)),
		zap.Int("bytes", len(data)))
	return result, nil
}

// store archives a copy. Failures only cost the copy.
func (s *ExportService) store(ctx context.Context, userID int64, r *ExportResult) string {
	key := fmt.Sprintf("products-%d-%s%s", userID, uuid.NewString(), s.writer.Extension())
	if err := s.archive.Upload(ctx, key, r.Data, r.ContentType); err != nil {
		s.logger.Error("failed to archive export", zap.String("key", key), zap.Error(err))
		return ""
	}
	url, _, err := s.archive.DownloadURL(ctx, key, s.archiveTTL)
	if err != nil {
		s.logger.Error("failed to sign export url", zap.String("key", key), zap.Error(err))
		return ""
	}
	return url
}
