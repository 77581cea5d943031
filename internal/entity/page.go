package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/recordstack/chronology/constants"
)

// Page represents one OCR'd page of a document for data transfer between
// layers. TextHash and SimHash are recomputed whenever Text changes.
type Page struct {
	ID            uuid.UUID            `json:"id"`
	DocumentID    uuid.UUID            `json:"document_id"`
	PageNumber    int                  `json:"page_number"`
	Text          string               `json:"text"`
	HasDate       bool                 `json:"has_date"`
	DateOfService *time.Time           `json:"date_of_service,omitempty"`
	DateSource    constants.DateSource `json:"date_source"`
	InheritedFrom *int                 `json:"inherited_from,omitempty"`
	DocumentType  *string              `json:"document_type,omitempty"`
	TextHash      string               `json:"text_hash"`
	SimHash       uint64               `json:"sim_hash"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}
