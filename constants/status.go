package constants

// DocumentStatus is the canonical processing status for rows in documents.
type DocumentStatus string

// Stable values (store these exact strings in DB).
const (
	StatusQueued   DocumentStatus = "QUEUED"   // uploaded, waiting for processing
	StatusRunning  DocumentStatus = "RUNNING"  // in progress
	StatusOCROK    DocumentStatus = "OCR_OK"   // stage 1 completed (page text extracted)
	StatusLLMOK    DocumentStatus = "LLM_OK"   // stage 2 completed (events extracted)
	StatusComplete DocumentStatus = "COMPLETE" // chronology + duplicates built
	StatusFailed   DocumentStatus = "FAILED"   // terminal failure
)

// DocumentStatusStrings returns the lifecycle values as plain strings (for
// schema enums).
func DocumentStatusStrings() []string {
	return []string{
		string(StatusQueued),
		string(StatusRunning),
		string(StatusOCROK),
		string(StatusLLMOK),
		string(StatusComplete),
		string(StatusFailed),
	}
}
