package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/recordstack/chronology/constants"
)

// DateEvent represents one clinical event on the timeline for data transfer
// between layers. Source distinguishes heuristic extraction from LLM output.
type DateEvent struct {
	ID         uuid.UUID            `json:"id"`
	DocumentID uuid.UUID            `json:"document_id"`
	PageID     uuid.UUID            `json:"page_id"`
	PageNumber int                  `json:"page_number"`
	EventDate  time.Time            `json:"event_date"`
	Summary    string               `json:"summary"`
	EventType  constants.EventType  `json:"event_type"`
	IsPrimary  bool                 `json:"is_primary"`
	Confidence float32              `json:"confidence"`
	Source     constants.DateSource `json:"source"`
	CreatedAt  time.Time            `json:"created_at"`
}
