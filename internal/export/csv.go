package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/recordstack/chronology/internal/chronology"
	"github.com/recordstack/chronology/internal/dedupe"
)

// WriteTimelineCSV writes one row per cluster in chronological order.
// encoding/csv handles quoting, so summaries and context snippets are safe
// regardless of embedded commas or newlines.
func WriteTimelineCSV(w io.Writer, res *chronology.ChronologyResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"date_of_service", "cluster_id", "primary_page", "pages", "document_type"}); err != nil {
		return err
	}
	for _, c := range res.Clusters {
		rec := []string{
			c.DateOfService.Format("2006-01-02"),
			c.ID,
			strconv.Itoa(c.PrimaryPage),
			joinPages(c.Pages),
			c.DocumentType,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePagesCSV writes the per-page date resolution, including undated pages.
func WritePagesCSV(w io.Writer, res *chronology.ChronologyResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"page", "date_of_service", "source", "inherited_from", "document_type"}); err != nil {
		return err
	}
	for _, p := range res.Pages {
		date, inheritedFrom := "", ""
		if p.DateOfService != nil {
			date = p.DateOfService.Format("2006-01-02")
		}
		if p.InheritedFrom > 0 {
			inheritedFrom = strconv.Itoa(p.InheritedFrom)
		}
		rec := []string{
			strconv.Itoa(p.PageNumber),
			date,
			string(p.DateSource),
			inheritedFrom,
			p.DocumentType,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDuplicatesCSV writes one row per duplicate group member, primary
// first, so collapsed pages stay visible in the output.
func WriteDuplicatesCSV(w io.Writer, res *dedupe.DuplicateResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"group", "kind", "primary_page", "page", "similarity"}); err != nil {
		return err
	}
	groupNo := 0
	write := func(groups []dedupe.DuplicateGroup, kind string) error {
		for _, g := range groups {
			groupNo++
			for _, m := range g.Members {
				rec := []string{
					strconv.Itoa(groupNo),
					kind,
					strconv.Itoa(g.PrimaryPage),
					strconv.Itoa(m.PageNumber),
					fmt.Sprintf("%.3f", m.Similarity),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := write(res.ExactGroups, "exact"); err != nil {
		return err
	}
	if err := write(res.NearGroups, "near"); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func joinPages(pages []int) string {
	parts := make([]string, len(pages))
	for i, p := range pages {
		parts[i] = strconv.Itoa(p)
	}
	return strings.Join(parts, " ")
}
