package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/recordstack/chronology/constants"
)

// Document represents one uploaded medical-record file for data transfer
// between layers.
type Document struct {
	ID          uuid.UUID                `json:"id"`
	Filename    string                   `json:"filename"`
	SourcePath  string                   `json:"source_path"`
	Format      string                   `json:"format"`
	ContentHash []byte                   `json:"content_hash"`
	PageCount   int                      `json:"page_count"`
	Status      constants.DocumentStatus `json:"status"`
	Error       string                   `json:"error,omitempty"`
	CreatedAt   time.Time                `json:"created_at"`
	UpdatedAt   time.Time                `json:"updated_at"`
}
