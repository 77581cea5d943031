package dedupe

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func page(n int, hash string, fp uint64) PageContent {
	return PageContent{ID: uuid.New(), PageNumber: n, TextHash: hash, Fingerprint: fp}
}

func TestFindDuplicatesExactGroup(t *testing.T) {
	p1 := page(1, TextHash("A"), Fingerprint("A"))
	p2 := page(2, TextHash("A"), Fingerprint("A"))

	res := FindDuplicates([]PageContent{p1, p2})
	require.Len(t, res.ExactGroups, 1)
	assert.Empty(t, res.NearGroups)

	g := res.ExactGroups[0]
	assert.Equal(t, p1.ID, g.PrimaryPageID)
	assert.Equal(t, 1, g.PrimaryPage)
	require.Len(t, g.Members, 2)
	for _, m := range g.Members {
		assert.Equal(t, 1.0, m.Similarity)
	}
}

func TestFindDuplicatesLowestPageNumberIsPrimary(t *testing.T) {
	p5 := page(5, "h1", 0)
	p2 := page(2, "h1", 0)
	p9 := page(9, "h1", 0)

	// input order must not matter
	res := FindDuplicates([]PageContent{p5, p9, p2})
	require.Len(t, res.ExactGroups, 1)
	assert.Equal(t, p2.ID, res.ExactGroups[0].PrimaryPageID)
	assert.Equal(t, []int{2, 5, 9}, memberPages(res.ExactGroups[0]))
}

func TestFindDuplicatesNearGroup(t *testing.T) {
	var base uint64 = 0xDEAD_BEEF_CAFE_F00D
	p1 := page(1, "h1", base)
	p2 := page(2, "h2", base^0b11)            // 2 bits apart: sim 62/64
	p3 := page(3, "h3", base^0xFFFF_FFFF)     // far away
	p4 := page(4, "h4", base^(0xFF<<56|0b11)) // 10 bits apart: below threshold

	res := FindDuplicates([]PageContent{p1, p2, p3, p4})
	assert.Empty(t, res.ExactGroups)
	require.Len(t, res.NearGroups, 1)

	g := res.NearGroups[0]
	assert.Equal(t, p1.ID, g.PrimaryPageID)
	require.Len(t, g.Members, 2)
	assert.Equal(t, 1.0, g.Members[0].Similarity)
	assert.InDelta(t, 1.0-2.0/64.0, g.Members[1].Similarity, 1e-9)
	assert.Equal(t, p2.ID, g.Members[1].PageID)
}

func TestFindDuplicatesExactMembersSkipNearPass(t *testing.T) {
	// pages 1 and 2 are exact matches; page 3 has an identical fingerprint
	// but different hash, so it can only pair in the near pass — and exact
	// members must not participate there
	p1 := page(1, "same", 42)
	p2 := page(2, "same", 42)
	p3 := page(3, "other", 42)

	res := FindDuplicates([]PageContent{p1, p2, p3})
	require.Len(t, res.ExactGroups, 1)
	assert.Empty(t, res.NearGroups, "page 3 alone cannot form a near group")
}

func TestFindDuplicatesSingletonsNotReported(t *testing.T) {
	res := FindDuplicates([]PageContent{
		page(1, "a", 0),
		page(2, "b", 0xFFFF_FFFF_FFFF_FFFF),
	})
	assert.Empty(t, res.ExactGroups)
	assert.Empty(t, res.NearGroups)
}

func TestFindDuplicatesGroupsAreDisjoint(t *testing.T) {
	var base uint64 = 1 << 20
	pages := []PageContent{
		page(1, "h1", base),
		page(2, "h2", base^1),
		page(3, "h3", base^2),
		page(4, "same", 0xAAAA),
		page(5, "same", 0xAAAA),
	}
	res := FindDuplicates(pages)

	seen := map[uuid.UUID]int{}
	for _, g := range append(res.ExactGroups, res.NearGroups...) {
		for _, m := range g.Members {
			seen[m.PageID]++
		}
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, "page %s appears in more than one group", id)
	}
}

func memberPages(g DuplicateGroup) []int {
	out := make([]int, len(g.Members))
	for i, m := range g.Members {
		out[i] = m.PageNumber
	}
	return out
}
