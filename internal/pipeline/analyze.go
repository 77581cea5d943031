package processor

import (
	"github.com/recordstack/chronology/constants"
	"github.com/recordstack/chronology/internal/chronology"
)

// AnalyzePages runs heuristic date extraction and selection over raw page
// texts. Page numbers are 1-based positions in the slice.
func AnalyzePages(pages []string) []chronology.PageResult {
	out := make([]chronology.PageResult, len(pages))
	for i, text := range pages {
		dates := chronology.ExtractDates(text)
		pr := chronology.PageResult{
			PageNumber:     i + 1,
			Text:           text,
			ExtractedDates: dates,
			DateSource:     constants.SourceNone,
		}
		if sel := chronology.SelectDateOfService(dates); sel != nil {
			d := sel.Date
			pr.DateOfService = &d
			pr.DateSource = constants.SourceHeuristic
		}
		out[i] = pr
	}
	return out
}

// candidateDates returns the page's extracted dates as ISO strings for the
// LLM hint list, excluding ones already ruled out as birth or fax dates.
func candidateDates(pr chronology.PageResult) []string {
	var out []string
	for _, d := range pr.ExtractedDates {
		if d.Class == constants.ClassDateOfBirth || d.Class == constants.ClassFax {
			continue
		}
		out = append(out, d.Date.Format("2006-01-02"))
	}
	return out
}
