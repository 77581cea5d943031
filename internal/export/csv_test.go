package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordstack/chronology/constants"
	"github.com/recordstack/chronology/internal/chronology"
	"github.com/recordstack/chronology/internal/dedupe"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func sampleResult() *chronology.ChronologyResult {
	jan15 := day(2024, time.January, 15)
	feb3 := day(2024, time.February, 3)
	return &chronology.ChronologyResult{
		Pages: []chronology.PageResult{
			{PageNumber: 1, DateOfService: &jan15, DateSource: constants.SourceHeuristic, DocumentType: "progress note"},
			{PageNumber: 2, DateOfService: &jan15, DateSource: constants.SourceInherited, InheritedFrom: 1},
			{PageNumber: 3, DateOfService: &feb3, DateSource: constants.SourceLLM},
			{PageNumber: 4, DateSource: constants.SourceNone},
		},
		Clusters: []chronology.PageCluster{
			{ID: "2024-01-15-p1", DateOfService: jan15, Pages: []int{1, 2}, PrimaryPage: 1, DocumentType: "progress note"},
			{ID: "2024-02-03-p3", DateOfService: feb3, Pages: []int{3}, PrimaryPage: 3},
		},
		UndatedPages: []int{4},
	}
}

func TestWriteTimelineCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTimelineCSV(&buf, sampleResult()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"date_of_service", "cluster_id", "primary_page", "pages", "document_type"}, rows[0])
	assert.Equal(t, []string{"2024-01-15", "2024-01-15-p1", "1", "1 2", "progress note"}, rows[1])
	assert.Equal(t, []string{"2024-02-03", "2024-02-03-p3", "3", "3", ""}, rows[2])
}

func TestWritePagesCSVIncludesUndated(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePagesCSV(&buf, sampleResult()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"2", "2024-01-15", "inherited", "1", ""}, rows[2])
	assert.Equal(t, []string{"4", "", "none", "", ""}, rows[4])
}

func TestWriteDuplicatesCSV(t *testing.T) {
	dupes := &dedupe.DuplicateResult{
		ExactGroups: []dedupe.DuplicateGroup{{
			PrimaryPageID: uuid.New(),
			PrimaryPage:   1,
			Members: []dedupe.GroupMember{
				{PageNumber: 1, Similarity: 1.0},
				{PageNumber: 4, Similarity: 1.0},
			},
		}},
		NearGroups: []dedupe.DuplicateGroup{{
			PrimaryPageID: uuid.New(),
			PrimaryPage:   2,
			Members: []dedupe.GroupMember{
				{PageNumber: 2, Similarity: 1.0},
				{PageNumber: 5, Similarity: 0.9375},
			},
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDuplicatesCSV(&buf, dupes))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 5)
	assert.Equal(t, []string{"1", "exact", "1", "4", "1.000"}, rows[2])
	assert.Equal(t, []string{"2", "near", "2", "5", "0.938"}, rows[4])
}

func TestTimelineCSVEscapesSeparators(t *testing.T) {
	res := &chronology.ChronologyResult{
		Clusters: []chronology.PageCluster{{
			ID:            "2024-01-15-p1",
			DateOfService: day(2024, time.January, 15),
			Pages:         []int{1},
			PrimaryPage:   1,
			DocumentType:  `lab, "special" report`,
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTimelineCSV(&buf, res))

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, `lab, "special" report`, rows[1][4])
}
