package chronology

import (
	"time"

	"github.com/recordstack/chronology/constants"
)

// ExtractedDate is one date occurrence found in a page's text.
// Values are immutable once produced by FindDates/Classify.
type ExtractedDate struct {
	Raw           string
	Date          time.Time // date-only, UTC midnight
	ContextBefore string
	ContextAfter  string
	Position      constants.PagePosition
	Offset        int
	Class         constants.Classification
	Confidence    float32
}

// PageResult is the per-page extraction state flowing through the pipeline.
type PageResult struct {
	PageNumber     int
	Text           string
	ExtractedDates []ExtractedDate
	DateOfService  *time.Time
	DateSource     constants.DateSource
	InheritedFrom  int // page number; 0 unless DateSource == SourceInherited
	DocumentType   string
}

// HasOwnDate reports whether the page carries a date it determined itself,
// i.e. one that can seed inheritance for later pages.
func (p *PageResult) HasOwnDate() bool {
	return p.DateOfService != nil && p.DateSource != constants.SourceInherited && p.DateSource != constants.SourceNone
}

// PageCluster groups pages sharing one date of service.
type PageCluster struct {
	ID            string
	DateOfService time.Time
	Pages         []int
	PrimaryPage   int
	DocumentType  string
}

// ChronologyStats summarizes a pipeline run.
type ChronologyStats struct {
	TotalPages     int
	PagesWithDates int // pages with at least one extracted date
	PagesWithDOS   int // pages with a directly determined date of service
	PagesInherited int
	PagesFromLLM   int
}

// ChronologyResult is the aggregate output of a chronology build.
type ChronologyResult struct {
	Pages        []PageResult
	Clusters     []PageCluster
	UndatedPages []int
	Stats        ChronologyStats
}
