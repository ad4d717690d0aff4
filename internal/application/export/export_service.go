package export

import (
	"context"
	"time"

	"github.com/commerce/backend/internal/domain/export"
	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ObjectStorage stores export files and hands out time-limited download links
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	GenerateDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, time.Time, error)
	DeleteObject(ctx context.Context, key string) error
	ObjectExists(ctx context.Context, key string) (bool, error)
}

// DownloadLinkTTL is how long a presigned export download stays valid
const DownloadLinkTTL = 15 * time.Minute

// ExportService queues CSV export jobs and serves download links for
// finished files. The actual file generation happens in the Worker.
type ExportService struct {
	exportRepo export.Repository
	storage    ObjectStorage
	logger     *zap.Logger
}

// NewExportService creates a new export service
func NewExportService(exportRepo export.Repository, storage ObjectStorage, logger *zap.Logger) *ExportService {
	return &ExportService{
		exportRepo: exportRepo,
		storage:    storage,
		logger:     logger,
	}
}

// Request queues a new export job for the worker to pick up
func (s *ExportService) Request(ctx context.Context, input RequestExportInput) (*export.Export, error) {
	e, err := export.NewExport(input.RequestedBy, export.Resource(input.Resource))
	if err != nil {
		return nil, err
	}

	if err := s.exportRepo.Save(ctx, e); err != nil {
		s.logger.Error("Failed to save export", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to request export")
	}

	s.logger.Info("Export requested",
		zap.String("export_id", e.ID.String()),
		zap.String("resource", string(e.Resource)))

	return e, nil
}

// Get retrieves an export job owned by the caller. Staff callers see all
// jobs.
func (s *ExportService) Get(ctx context.Context, id, callerID uuid.UUID, isStaff bool) (*export.Export, error) {
	e, err := s.exportRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isStaff && e.RequestedBy != callerID {
		return nil, shared.ErrForbidden
	}
	return e, nil
}

// ListByUser retrieves a user's export jobs
func (s *ExportService) ListByUser(ctx context.Context, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[*export.Export], error) {
	return s.exportRepo.FindByUser(ctx, userID, filter)
}

// DownloadURL returns a presigned link to a completed export file
func (s *ExportService) DownloadURL(ctx context.Context, id, callerID uuid.UUID, isStaff bool) (*DownloadResult, error) {
	e, err := s.Get(ctx, id, callerID, isStaff)
	if err != nil {
		return nil, err
	}
	if e.Status != export.StatusCompleted {
		return nil, shared.NewDomainError("EXPORT_NOT_READY", "Export has not completed")
	}

	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, e.FileKey, DownloadLinkTTL)
	if err != nil {
		s.logger.Error("Failed to presign export download", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate download link")
	}

	return &DownloadResult{URL: url, ExpiresAt: expiresAt}, nil
}
