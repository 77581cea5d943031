package chronology

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordstack/chronology/constants"
)

func TestBuildClustersChronologicalOrder(t *testing.T) {
	mar := date(2024, time.March, 1)
	jan := date(2024, time.January, 5)
	pages := []PageResult{
		datedPage(1, mar, constants.SourceHeuristic),
		datedPage(2, jan, constants.SourceHeuristic),
	}
	clusters := BuildClusters(pages)
	require.Len(t, clusters, 2)
	assert.Equal(t, jan, clusters[0].DateOfService)
	assert.Equal(t, mar, clusters[1].DateOfService)
	assert.Equal(t, 2, clusters[0].PrimaryPage)
	assert.Equal(t, 1, clusters[1].PrimaryPage)
}

func TestBuildClustersGroupsSharedDates(t *testing.T) {
	d := date(2024, time.January, 5)
	p1 := datedPage(1, d, constants.SourceHeuristic)
	p1.DocumentType = "Emergency Department Note"
	p2 := datedPage(2, d, constants.SourceInherited)
	p3 := datedPage(3, date(2024, time.February, 1), constants.SourceHeuristic)

	clusters := BuildClusters([]PageResult{p1, p2, p3})
	require.Len(t, clusters, 2)
	assert.Equal(t, []int{1, 2}, clusters[0].Pages)
	assert.Equal(t, 1, clusters[0].PrimaryPage)
	assert.Equal(t, "Emergency Department Note", clusters[0].DocumentType)
	assert.Equal(t, []int{3}, clusters[1].Pages)
}

func TestBuildClustersExcludesUndated(t *testing.T) {
	clusters := BuildClusters([]PageResult{
		undatedPage(1),
		datedPage(2, date(2024, time.January, 5), constants.SourceHeuristic),
		undatedPage(3),
	})
	require.Len(t, clusters, 1)
	assert.Equal(t, []int{2}, clusters[0].Pages)
}

func TestBuildClustersDeterministicIDs(t *testing.T) {
	pages := []PageResult{
		datedPage(1, date(2024, time.January, 5), constants.SourceHeuristic),
		datedPage(2, date(2024, time.March, 1), constants.SourceHeuristic),
	}
	a := BuildClusters(pages)
	b := BuildClusters(pages)
	require.Len(t, a, 2)
	assert.Equal(t, "2024-01-05-p1", a[0].ID)
	assert.Equal(t, a[0].ID, b[0].ID)
	assert.Equal(t, a[1].ID, b[1].ID)
}

func TestBuildChronologyEndToEnd(t *testing.T) {
	text1 := "DOB: 03/04/1980 ... Date of Service: 01/15/2024 labs drawn"
	p1 := PageResult{PageNumber: 1, Text: text1, ExtractedDates: ExtractDates(text1)}
	require.Len(t, p1.ExtractedDates, 2)
	assert.Equal(t, constants.ClassDateOfBirth, p1.ExtractedDates[0].Class)
	assert.Equal(t, constants.ClassDateOfService, p1.ExtractedDates[1].Class)

	sel := SelectDateOfService(p1.ExtractedDates)
	require.NotNil(t, sel)
	assert.True(t, sel.Confident)
	assert.Equal(t, date(2024, time.January, 15), sel.Date)
	p1.DateOfService = &sel.Date
	p1.DateSource = constants.SourceHeuristic

	p2 := PageResult{PageNumber: 2, Text: "continuation, nothing dated", DateSource: constants.SourceNone}
	p3 := PageResult{PageNumber: 3, Text: "also blank", DateSource: constants.SourceNone}

	res := BuildChronology([]PageResult{p1, p2, p3})

	assert.Equal(t, 3, res.Stats.TotalPages)
	assert.Equal(t, 1, res.Stats.PagesWithDates)
	assert.Equal(t, 1, res.Stats.PagesWithDOS)
	assert.Equal(t, 2, res.Stats.PagesInherited)
	assert.Empty(t, res.UndatedPages)

	require.Len(t, res.Clusters, 1)
	assert.Equal(t, []int{1, 2, 3}, res.Clusters[0].Pages)
	assert.Equal(t, 1, res.Clusters[0].PrimaryPage)
}
