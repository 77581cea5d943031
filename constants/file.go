package constants

import "strings"

// Document source formats.
const (
	PDF = "PDF"
	TXT = "TXT"
)

// FileTypes holds the allowed file types for the format field on documents.
var FileTypes = []string{PDF, TXT}

// AllowedExtensions holds the default allowed file extensions for record ingestion.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
	"txt": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// MapExtToFormat maps a file extension onto a document format label,
// returning "" for unsupported extensions.
func MapExtToFormat(ext string) string {
	switch NormalizeExt(ext) {
	case "pdf":
		return PDF
	case "txt":
		return TXT
	default:
		return ""
	}
}
