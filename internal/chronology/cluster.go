package chronology

import (
	"fmt"
	"sort"

	"github.com/recordstack/chronology/constants"
)

// BuildClusters groups post-inheritance pages by date of service. Undated
// pages are excluded. Within a cluster the primary page is the first one
// encountered (ascending page number, given sorted input) and the cluster's
// document type is copied from it. Output is sorted chronologically and ids
// are deterministic over identical input.
func BuildClusters(pages []PageResult) []PageCluster {
	byDate := make(map[string]*PageCluster)
	var order []string
	for i := range pages {
		p := &pages[i]
		if p.DateOfService == nil {
			continue
		}
		key := p.DateOfService.Format("2006-01-02")
		c, ok := byDate[key]
		if !ok {
			c = &PageCluster{
				DateOfService: *p.DateOfService,
				PrimaryPage:   p.PageNumber,
				DocumentType:  p.DocumentType,
			}
			c.ID = clusterID(key, p.PageNumber)
			byDate[key] = c
			order = append(order, key)
		}
		c.Pages = append(c.Pages, p.PageNumber)
	}

	out := make([]PageCluster, 0, len(order))
	for _, key := range order {
		out = append(out, *byDate[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateOfService.Before(out[j].DateOfService)
	})
	return out
}

func clusterID(isoDate string, primaryPage int) string {
	return fmt.Sprintf("%s-p%d", isoDate, primaryPage)
}

// BuildChronology runs inheritance and clustering over extracted pages and
// aggregates the result with summary statistics. Input must be sorted by
// ascending page number with per-page extraction already complete.
func BuildChronology(pages []PageResult) ChronologyResult {
	resolved := ApplyInheritance(pages)

	res := ChronologyResult{
		Pages:    resolved,
		Clusters: BuildClusters(resolved),
	}
	res.Stats.TotalPages = len(resolved)
	for i := range resolved {
		p := &resolved[i]
		if len(p.ExtractedDates) > 0 {
			res.Stats.PagesWithDates++
		}
		switch p.DateSource {
		case constants.SourceHeuristic:
			res.Stats.PagesWithDOS++
		case constants.SourceLLM:
			res.Stats.PagesWithDOS++
			res.Stats.PagesFromLLM++
		case constants.SourceInherited:
			res.Stats.PagesInherited++
		}
		if p.DateOfService == nil {
			res.UndatedPages = append(res.UndatedPages, p.PageNumber)
		}
	}
	return res
}
