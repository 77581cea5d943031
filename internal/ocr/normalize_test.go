package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	in := "Patient:\tJane Doe\r\nDOB:   03/04/1980\n\n\n\nVisit note   "
	out := Normalize(in)
	assert.Equal(t, "Patient: Jane Doe\nDOB: 03/04/1980\n\nVisit note", out)
}

func TestNormalizeStripsBoxNoise(t *testing.T) {
	in := "Header\n__________\nBody\n----\nFooter"
	out := Normalize(in)
	assert.NotContains(t, out, "____")
	assert.NotContains(t, out, "----")
	assert.Contains(t, out, "Header")
	assert.Contains(t, out, "Body")
	assert.Contains(t, out, "Footer")
}

func TestNormalizeEmpty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   \n\n  "))
}

func TestSplitPagesSinglePage(t *testing.T) {
	pages := SplitPages("just one page of text")
	require.Len(t, pages, 1)
	assert.Equal(t, "just one page of text", pages[0])
}

func TestSplitPagesFormFeeds(t *testing.T) {
	pages := SplitPages("page one\fpage two\fpage three")
	require.Len(t, pages, 3)
	assert.Equal(t, "page one", pages[0])
	assert.Equal(t, "page two", pages[1])
	assert.Equal(t, "page three", pages[2])
}

func TestSplitPagesTrailingFormFeed(t *testing.T) {
	// pdftotext emits a trailing \f after the final page
	pages := SplitPages("page one\fpage two\f")
	require.Len(t, pages, 2)
}

func TestSplitPagesKeepsBlankPages(t *testing.T) {
	pages := SplitPages("page one\f   \fpage three")
	require.Len(t, pages, 3)
	assert.Equal(t, "", pages[1])
	assert.Equal(t, "page three", pages[2])
}

func TestTextLayerUsable(t *testing.T) {
	long := make([]byte, 200)
	for i := range long {
		long[i] = 'a'
	}
	assert.True(t, textLayerUsable([]string{string(long)}))
	assert.False(t, textLayerUsable([]string{"x"}))
	assert.False(t, textLayerUsable(nil))
	// sparse average drags a mixed document below the threshold
	assert.False(t, textLayerUsable([]string{string(long[:60]), "", "", ""}))
}
