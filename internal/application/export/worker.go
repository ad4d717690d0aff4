package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/commerce/backend/internal/domain/catalog"
	"github.com/commerce/backend/internal/domain/export"
	"github.com/commerce/backend/internal/domain/identity"
	"github.com/commerce/backend/internal/domain/order"
	"github.com/commerce/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// exportPageSize is how many rows the worker reads per repository page
const exportPageSize = 500

// Worker polls for queued export jobs, renders the requested data set as
// CSV, and uploads the file to object storage. Jobs are claimed with a
// row-level lock so multiple workers never pick the same one.
type Worker struct {
	exportRepo   export.Repository
	orderRepo    order.Repository
	productRepo  catalog.ProductRepository
	userRepo     identity.UserRepository
	storage      ObjectStorage
	pollInterval time.Duration
	jobTimeout   time.Duration
	logger       *zap.Logger
}

// NewWorker creates a new export worker
func NewWorker(
	exportRepo export.Repository,
	orderRepo order.Repository,
	productRepo catalog.ProductRepository,
	userRepo identity.UserRepository,
	storage ObjectStorage,
	pollInterval time.Duration,
	jobTimeout time.Duration,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		exportRepo:   exportRepo,
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		storage:      storage,
		pollInterval: pollInterval,
		jobTimeout:   jobTimeout,
		logger:       logger,
	}
}

// Run polls for jobs until the context is canceled, draining all queued
// jobs on every tick
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Export worker started",
		zap.Duration("poll_interval", w.pollInterval))

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		w.drain(ctx)

		select {
		case <-ctx.Done():
			w.logger.Info("Export worker stopped")
			return
		case <-ticker.C:
		}
	}
}

// drain processes queued jobs until none remain
func (w *Worker) drain(ctx context.Context) {
	for {
		processed, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("Export job failed", zap.Error(err))
			return
		}
		if !processed {
			return
		}
	}
}

// RunOnce claims and processes a single queued job. It returns false when
// the queue is empty.
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	e, err := w.exportRepo.NextPending(ctx)
	if err != nil {
		return false, err
	}
	if e == nil {
		return false, nil
	}

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	w.process(jobCtx, e)
	return true, nil
}

// process runs a claimed job to completion or failure
func (w *Worker) process(ctx context.Context, e *export.Export) {
	if err := e.Start(); err != nil {
		w.logger.Warn("Skipping export in unexpected state",
			zap.String("export_id", e.ID.String()),
			zap.Error(err))
		return
	}
	if err := w.exportRepo.Save(ctx, e); err != nil {
		w.logger.Error("Failed to mark export in progress", zap.Error(err))
		return
	}

	data, err := w.generate(ctx, e.Resource)
	if err != nil {
		w.fail(ctx, e, err)
		return
	}

	key := fmt.Sprintf("exports/%s/%s.csv", e.Resource, e.ID)
	if err := w.storage.Upload(ctx, key, data, "text/csv"); err != nil {
		w.fail(ctx, e, err)
		return
	}

	if err := e.Complete(key); err != nil {
		w.fail(ctx, e, err)
		return
	}
	if err := w.exportRepo.Save(ctx, e); err != nil {
		w.logger.Error("Failed to mark export completed", zap.Error(err))
		return
	}

	w.logger.Info("Export completed",
		zap.String("export_id", e.ID.String()),
		zap.String("file_key", key),
		zap.Int("bytes", len(data)))
}

// fail records the error on the job
func (w *Worker) fail(ctx context.Context, e *export.Export, cause error) {
	w.logger.Error("Export failed",
		zap.String("export_id", e.ID.String()),
		zap.Error(cause))

	if err := e.Fail(cause.Error()); err != nil {
		return
	}
	if err := w.exportRepo.Save(ctx, e); err != nil {
		w.logger.Error("Failed to mark export failed", zap.Error(err))
	}
}

// generate renders the requested resource as CSV
func (w *Worker) generate(ctx context.Context, resource export.Resource) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	var err error
	switch resource {
	case export.ResourceOrders:
		err = w.writeOrders(ctx, writer)
	case export.ResourceProducts:
		err = w.writeProducts(ctx, writer)
	case export.ResourceUsers:
		err = w.writeUsers(ctx, writer)
	default:
		err = shared.NewDomainError("INVALID_EXPORT", "Unknown export resource: "+string(resource))
	}
	if err != nil {
		return nil, err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *Worker) writeOrders(ctx context.Context, writer *csv.Writer) error {
	if err := writer.Write([]string{"number", "status", "user_id", "guest_email", "total_incl_tax", "total_excl_tax", "lines", "created_at"}); err != nil {
		return err
	}

	return w.forEachPage(ctx, func(filter shared.Filter) (int, error) {
		orders, err := w.orderRepo.FindAll(ctx, filter)
		if err != nil {
			return 0, err
		}
		for _, o := range orders {
			userID := ""
			if o.UserID != nil {
				userID = o.UserID.String()
			}
			row := []string{
				o.Number,
				string(o.Status),
				userID,
				o.GuestEmail,
				o.TotalInclTax.StringFixed(2),
				o.TotalExclTax.StringFixed(2),
				strconv.Itoa(len(o.Lines)),
				o.CreatedAt.UTC().Format(time.RFC3339),
			}
			if err := writer.Write(row); err != nil {
				return 0, err
			}
		}
		return len(orders), nil
	})
}

func (w *Worker) writeProducts(ctx context.Context, writer *csv.Writer) error {
	if err := writer.Write([]string{"name", "slug", "price", "rating", "is_active", "is_discountable", "created_at"}); err != nil {
		return err
	}

	return w.forEachPage(ctx, func(filter shared.Filter) (int, error) {
		products, err := w.productRepo.FindAll(ctx, filter)
		if err != nil {
			return 0, err
		}
		for _, p := range products {
			row := []string{
				p.Name,
				p.Slug,
				p.Price.StringFixed(2),
				strconv.FormatFloat(p.Rating, 'f', 2, 64),
				strconv.FormatBool(p.IsActive),
				strconv.FormatBool(p.IsDiscountable),
				p.CreatedAt.UTC().Format(time.RFC3339),
			}
			if err := writer.Write(row); err != nil {
				return 0, err
			}
		}
		return len(products), nil
	})
}

func (w *Worker) writeUsers(ctx context.Context, writer *csv.Writer) error {
	if err := writer.Write([]string{"username", "email", "first_name", "last_name", "is_active", "is_superuser", "created_at"}); err != nil {
		return err
	}

	return w.forEachPage(ctx, func(filter shared.Filter) (int, error) {
		users, err := w.userRepo.FindAll(ctx, filter)
		if err != nil {
			return 0, err
		}
		for _, u := range users {
			row := []string{
				u.Username,
				u.Email,
				u.FirstName,
				u.LastName,
				strconv.FormatBool(u.IsActive),
				strconv.FormatBool(u.IsSuperuser),
				u.CreatedAt.UTC().Format(time.RFC3339),
			}
			if err := writer.Write(row); err != nil {
				return 0, err
			}
		}
		return len(users), nil
	})
}

// forEachPage calls page with ascending creation-order filters until a page
// comes back short
func (w *Worker) forEachPage(ctx context.Context, page func(shared.Filter) (int, error)) error {
	filter := shared.Filter{
		Page:     1,
		PageSize: exportPageSize,
		OrderBy:  "created_at",
		OrderDir: "asc",
	}
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := page(filter)
		if err != nil {
			return err
		}
		if n < filter.PageSize {
			return nil
		}
		filter.Page++
	}
}
