package chronology

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/recordstack/chronology/constants"
)

// contextWindow is how many characters of surrounding text we keep on each
// side of a match for classification.
const contextWindow = 50

const monthAlt = `jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:t(?:ember)?)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?`

type patternKind int

const (
	kindISO patternKind = iota
	kindMonthDayYear
	kindDayMonthYear
	kindCompact
	kindNumeric
	kindMonthYear
	kindNumMonthYear
)

type datePattern struct {
	re   *regexp.Regexp
	kind patternKind
}

// Compiled once at init and shared read-only. Order is match priority when
// two patterns claim the same offset.
var datePatterns = []datePattern{
	{regexp.MustCompile(`\b(\d{4})[-/.](\d{1,2})[-/.](\d{1,2})\b`), kindISO},
	{regexp.MustCompile(`(?i)\b(` + monthAlt + `)\.?\s+(\d{1,2})(?:st|nd|rd|th)?(?:\s*,\s*|\s+)(\d{4})\b`), kindMonthDayYear},
	{regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(` + monthAlt + `)\.?,?\s+(\d{4})\b`), kindDayMonthYear},
	{regexp.MustCompile(`\b((?:19|20)\d{2})(\d{2})(\d{2})\b`), kindCompact},
	{regexp.MustCompile(`\b(\d{1,2})[-/.](\d{1,2})[-/.](\d{2,4})\b`), kindNumeric},
	{regexp.MustCompile(`(?i)\b(` + monthAlt + `)\.?,?\s+(\d{4})\b`), kindMonthYear},
	{regexp.MustCompile(`\b(\d{1,2})/(\d{4})\b`), kindNumMonthYear},
}

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

type dateCandidate struct {
	start, end int
	priority   int
	date       time.Time
	valid      bool
}

// FindDates scans text left to right and returns every parseable date in
// first-occurrence order; matches never overlap. Ambiguous numeric A/B/C
// forms are read month-first (US convention) with a day-first fallback when
// the month-first reading is not a real calendar date — a deliberate
// heuristic, not a correctness guarantee. Two-digit years are resolved into
// the 2000s. Date-shaped substrings that fail calendar validation are
// dropped silently.
func FindDates(text string) []ExtractedDate {
	var cands []dateCandidate
	for prio, p := range datePatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
			c := dateCandidate{start: m[0], end: m[1], priority: prio}
			c.date, c.valid = parseMatch(text, p.kind, m)
			cands = append(cands, c)
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].start != cands[j].start {
			return cands[i].start < cands[j].start
		}
		if cands[i].end != cands[j].end {
			return cands[i].end > cands[j].end // longer match wins
		}
		return cands[i].priority < cands[j].priority
	})

	var out []ExtractedDate
	lastEnd := 0
	for _, c := range cands {
		if c.start < lastEnd {
			continue
		}
		lastEnd = c.end
		if !c.valid {
			// date-shaped but not a real calendar date; the region is
			// still consumed so fragments of it don't re-match
			continue
		}
		out = append(out, ExtractedDate{
			Raw:           text[c.start:c.end],
			Date:          c.date,
			ContextBefore: text[maxInt(0, c.start-contextWindow):c.start],
			ContextAfter:  text[c.end:minInt(len(text), c.end+contextWindow)],
			Position:      positionFor(c.start, len(text)),
			Offset:        c.start,
			Class:         constants.ClassUnknown,
		})
	}
	return out
}

// ExtractDates runs FindDates and classifies each match by its context.
func ExtractDates(text string) []ExtractedDate {
	dates := FindDates(text)
	for i := range dates {
		dates[i].Class, dates[i].Confidence = Classify(dates[i].ContextBefore, dates[i].ContextAfter)
	}
	return dates
}

func parseMatch(text string, kind patternKind, m []int) (time.Time, bool) {
	group := func(n int) string { return text[m[2*n]:m[2*n+1]] }

	switch kind {
	case kindISO, kindCompact:
		y, ok := parseYear(group(1))
		if !ok {
			return time.Time{}, false
		}
		return makeDate(y, atoi(group(2)), atoi(group(3)))
	case kindNumeric:
		y, ok := parseYear(group(3))
		if !ok {
			return time.Time{}, false
		}
		a, b := atoi(group(1)), atoi(group(2))
		if d, ok := makeDate(y, a, b); ok {
			return d, true
		}
		return makeDate(y, b, a)
	case kindMonthDayYear:
		mon, ok := monthFromName(group(1))
		if !ok {
			return time.Time{}, false
		}
		y, ok := parseYear(group(3))
		if !ok {
			return time.Time{}, false
		}
		return makeDate(y, int(mon), atoi(group(2)))
	case kindDayMonthYear:
		mon, ok := monthFromName(group(2))
		if !ok {
			return time.Time{}, false
		}
		y, ok := parseYear(group(3))
		if !ok {
			return time.Time{}, false
		}
		return makeDate(y, int(mon), atoi(group(1)))
	case kindMonthYear:
		mon, ok := monthFromName(group(1))
		if !ok {
			return time.Time{}, false
		}
		y, ok := parseYear(group(2))
		if !ok {
			return time.Time{}, false
		}
		return makeDate(y, int(mon), 1)
	case kindNumMonthYear:
		y, ok := parseYear(group(2))
		if !ok {
			return time.Time{}, false
		}
		return makeDate(y, atoi(group(1)), 1)
	}
	return time.Time{}, false
}

// makeDate validates (y,m,d) as a real calendar date and returns it at UTC
// midnight. time.Date normalizes overflow (Apr 31 -> May 1), so we compare
// the components back.
func makeDate(y, m, d int) (time.Time, bool) {
	if m < 1 || m > 12 || d < 1 || d > 31 {
		return time.Time{}, false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	if t.Year() != y || int(t.Month()) != m || t.Day() != d {
		return time.Time{}, false
	}
	return t, true
}

// parseYear accepts 2- or 4-digit years; 2-digit years are assumed 2000s.
func parseYear(s string) (int, bool) {
	switch len(s) {
	case 2:
		return 2000 + atoi(s), true
	case 4:
		return atoi(s), true
	default:
		return 0, false
	}
}

func monthFromName(s string) (time.Month, bool) {
	s = strings.ToLower(s)
	if len(s) > 3 {
		s = s[:3]
	}
	m, ok := monthsByPrefix[s]
	return m, ok
}

func positionFor(offset, textLen int) constants.PagePosition {
	ratio := float64(offset) / float64(textLen)
	switch {
	case ratio < 1.0/3.0:
		return constants.PositionTop
	case ratio < 2.0/3.0:
		return constants.PositionMiddle
	default:
		return constants.PositionBottom
	}
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
