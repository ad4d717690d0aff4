package export

import (
	"time"

	"github.com/google/uuid"
)

// RequestExportInput queues a new CSV export job
type RequestExportInput struct {
	RequestedBy uuid.UUID `json:"-"`
	Resource    string    `json:"resource" validate:"required,oneof=orders products users"`
}

// DownloadResult is a presigned link to a finished export file
type DownloadResult struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}
