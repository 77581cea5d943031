package dedupe

import (
	"sort"

	"github.com/google/uuid"
)

// NearDuplicateThreshold is the fingerprint similarity at which two pages
// count as near duplicates. OCR re-scans of the same physical page differ
// by noise only, so the bar is high.
const NearDuplicateThreshold = 0.9

// PageContent is the per-page input to duplicate detection.
type PageContent struct {
	ID          uuid.UUID
	PageNumber  int
	TextHash    string
	Fingerprint uint64
}

// GroupMember is one page in a duplicate group with its similarity to the
// group's primary page (1.0 for the primary and for exact matches).
type GroupMember struct {
	PageID     uuid.UUID
	PageNumber int
	Similarity float64
}

// DuplicateGroup is a primary page plus every page detected as its duplicate.
// Non-primary members are always preserved: confirmed duplicates stay
// reachable downstream, collapsed rather than hidden.
type DuplicateGroup struct {
	PrimaryPageID uuid.UUID
	PrimaryPage   int
	Members       []GroupMember
}

// DuplicateResult carries both detection passes over one document.
type DuplicateResult struct {
	ExactGroups []DuplicateGroup
	NearGroups  []DuplicateGroup
}

// FindDuplicates partitions a document's pages into duplicate groups. Pass 1
// groups pages with equal text hashes. Pass 2 runs greedy single-link
// clustering by fingerprint similarity over the pages left out of pass 1;
// O(n²) but fine at per-document page counts. Groups with a single member
// are not reported.
func FindDuplicates(pages []PageContent) DuplicateResult {
	sorted := make([]PageContent, len(pages))
	copy(sorted, pages)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].PageNumber < sorted[j].PageNumber })

	var res DuplicateResult
	inExact := make(map[uuid.UUID]bool)

	// pass 1: exact, by hash equality
	byHash := make(map[string][]PageContent)
	var hashOrder []string
	for _, p := range sorted {
		if _, seen := byHash[p.TextHash]; !seen {
			hashOrder = append(hashOrder, p.TextHash)
		}
		byHash[p.TextHash] = append(byHash[p.TextHash], p)
	}
	for _, h := range hashOrder {
		group := byHash[h]
		if len(group) < 2 {
			continue
		}
		g := DuplicateGroup{PrimaryPageID: group[0].ID, PrimaryPage: group[0].PageNumber}
		for _, p := range group {
			g.Members = append(g.Members, GroupMember{PageID: p.ID, PageNumber: p.PageNumber, Similarity: 1.0})
			inExact[p.ID] = true
		}
		res.ExactGroups = append(res.ExactGroups, g)
	}

	// pass 2: near, greedy single-link over the remainder
	var remaining []PageContent
	for _, p := range sorted {
		if !inExact[p.ID] {
			remaining = append(remaining, p)
		}
	}
	processed := make(map[uuid.UUID]bool)
	for i, a := range remaining {
		if processed[a.ID] {
			continue
		}
		processed[a.ID] = true
		g := DuplicateGroup{PrimaryPageID: a.ID, PrimaryPage: a.PageNumber}
		g.Members = append(g.Members, GroupMember{PageID: a.ID, PageNumber: a.PageNumber, Similarity: 1.0})
		for _, b := range remaining[i+1:] {
			if processed[b.ID] {
				continue
			}
			sim := Similarity(a.Fingerprint, b.Fingerprint)
			if sim >= NearDuplicateThreshold {
				processed[b.ID] = true
				g.Members = append(g.Members, GroupMember{PageID: b.ID, PageNumber: b.PageNumber, Similarity: sim})
			}
		}
		if len(g.Members) >= 2 {
			res.NearGroups = append(res.NearGroups, g)
		}
	}
	return res
}
