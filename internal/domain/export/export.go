package export

import (
	"strings"
	"time"

	"github.com/commerce/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status enumerates the lifecycle states of an export job
type Status string

const (
	StatusCreated    Status = "CREATED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
)

// Resource enumerates the data sets that can be exported
type Resource string

const (
	ResourceOrders   Resource = "orders"
	ResourceProducts Resource = "products"
	ResourceUsers    Resource = "users"
)

// IsValid checks whether the resource is exportable
func (r Resource) IsValid() bool {
	switch r {
	case ResourceOrders, ResourceProducts, ResourceUsers:
		return true
	}
	return false
}

// Export is an asynchronous CSV export job. A worker picks up CREATED jobs,
// writes the file to object storage, and records the file key.
type Export struct {
	shared.BaseAggregateRoot
	RequestedBy uuid.UUID `gorm:"type:uuid;not null;index"`
	Resource    Resource  `gorm:"type:varchar(20);not null"`
	Status      Status    `gorm:"type:varchar(20);not null;default:'CREATED'"`
	FileKey     string    `gorm:"type:varchar(255)"`
	Error       string    `gorm:"type:text"`
	StartedAt   *time.Time
	FinishedAt  *time.Time
}

// TableName returns the table name for GORM
func (Export) TableName() string {
	return "exports"
}

// NewExport creates a new export job in CREATED status
func NewExport(requestedBy uuid.UUID, resource Resource) (*Export, error) {
	if requestedBy == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EXPORT", "Requesting user is required")
	}
	if !resource.IsValid() {
		return nil, shared.NewDomainError("INVALID_EXPORT", "Unknown export resource: "+string(resource))
	}

	return &Export{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RequestedBy:       requestedBy,
		Resource:          resource,
		Status:            StatusCreated,
	}, nil
}

// Start marks the job as picked up by a worker
func (e *Export) Start() error {
	if e.Status != StatusCreated {
		return shared.NewDomainError("INVALID_EXPORT_STATE", "Only created exports can start")
	}

	now := time.Now()
	e.Status = StatusInProgress
	e.StartedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	return nil
}

// Complete records the storage key of the finished file
func (e *Export) Complete(fileKey string) error {
	if e.Status != StatusInProgress {
		return shared.NewDomainError("INVALID_EXPORT_STATE", "Only in-progress exports can complete")
	}

	fileKey = strings.TrimSpace(fileKey)
	if fileKey == "" {
		return shared.NewDomainError("INVALID_EXPORT", "File key cannot be empty")
	}

	now := time.Now()
	e.Status = StatusCompleted
	e.FileKey = fileKey
	e.FinishedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	return nil
}

// Fail records the failure reason
func (e *Export) Fail(reason string) error {
	if e.Status != StatusInProgress && e.Status != StatusCreated {
		return shared.NewDomainError("INVALID_EXPORT_STATE", "Export has already finished")
	}

	now := time.Now()
	e.Status = StatusFailed
	e.Error = strings.TrimSpace(reason)
	e.FinishedAt = &now
	e.UpdatedAt = now
	e.IncrementVersion()

	return nil
}
