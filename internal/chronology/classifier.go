package chronology

import (
	"regexp"

	"github.com/recordstack/chronology/constants"
)

// Indicator phrase sets, compiled once and shared read-only. Preceding
// context outranks following context: medical-form labels conventionally
// precede their value.
var (
	reServiceIndicator = regexp.MustCompile(`(?i)(date of service|service date|visit date|admission date|discharge date|encounter date|procedure date|exam date|treatment date|\bdos\s*:)`)
	reBirthIndicator   = regexp.MustCompile(`(?i)(date of birth|\bdob\b|birth\s*date|\bborn\b)`)
	reFaxIndicator     = regexp.MustCompile(`(?i)(\bfax\b|facsimile|transmitted|\bsent\s*:|\breceived\b)`)
)

// Classify labels a date occurrence from the text windows around it.
// Pure function; first matching rule wins.
func Classify(before, after string) (constants.Classification, float32) {
	if reServiceIndicator.MatchString(before) {
		return constants.ClassDateOfService, 0.9
	}
	if reBirthIndicator.MatchString(before) {
		return constants.ClassDateOfBirth, 0.95
	}
	if reFaxIndicator.MatchString(before) || reFaxIndicator.MatchString(after) {
		return constants.ClassFax, 0.8
	}
	if reServiceIndicator.MatchString(after) {
		return constants.ClassDateOfService, 0.7
	}
	return constants.ClassUnknown, 0.0
}
