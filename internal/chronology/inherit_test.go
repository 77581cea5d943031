package chronology

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordstack/chronology/constants"
)

func datedPage(n int, d time.Time, src constants.DateSource) PageResult {
	return PageResult{PageNumber: n, DateOfService: &d, DateSource: src}
}

func undatedPage(n int) PageResult {
	return PageResult{PageNumber: n, DateSource: constants.SourceNone}
}

func TestApplyInheritanceForwardFill(t *testing.T) {
	d := date(2024, time.January, 1)
	out := ApplyInheritance([]PageResult{
		datedPage(1, d, constants.SourceHeuristic),
		undatedPage(2),
		undatedPage(3),
	})
	require.Len(t, out, 3)
	for _, n := range []int{1, 2} {
		p := out[n]
		require.NotNil(t, p.DateOfService)
		assert.Equal(t, d, *p.DateOfService)
		assert.Equal(t, constants.SourceInherited, p.DateSource)
		assert.Equal(t, 1, p.InheritedFrom)
	}
	assert.Equal(t, constants.SourceHeuristic, out[0].DateSource)
}

func TestApplyInheritanceNearestPrecedingWins(t *testing.T) {
	d1 := date(2024, time.January, 1)
	d2 := date(2024, time.February, 2)
	out := ApplyInheritance([]PageResult{
		datedPage(1, d1, constants.SourceHeuristic),
		undatedPage(2),
		datedPage(3, d2, constants.SourceLLM),
		undatedPage(4),
	})
	assert.Equal(t, 1, out[1].InheritedFrom)
	assert.Equal(t, d1, *out[1].DateOfService)
	assert.Equal(t, 3, out[3].InheritedFrom)
	assert.Equal(t, d2, *out[3].DateOfService)
}

func TestApplyInheritanceNeverFlowsBackward(t *testing.T) {
	d := date(2024, time.March, 1)
	out := ApplyInheritance([]PageResult{
		undatedPage(1),
		datedPage(2, d, constants.SourceHeuristic),
	})
	assert.Nil(t, out[0].DateOfService)
	assert.Equal(t, constants.SourceNone, out[0].DateSource)
}

func TestApplyInheritanceIdempotent(t *testing.T) {
	d := date(2024, time.January, 1)
	in := []PageResult{
		datedPage(1, d, constants.SourceHeuristic),
		undatedPage(2),
		datedPage(3, date(2024, time.April, 4), constants.SourceHeuristic),
		undatedPage(4),
	}
	once := ApplyInheritance(in)
	twice := ApplyInheritance(once)
	assert.Equal(t, once, twice)
}

func TestApplyInheritanceInheritedPageIsNotASource(t *testing.T) {
	d := date(2024, time.January, 1)
	inherited := datedPage(2, d, constants.SourceInherited)
	inherited.InheritedFrom = 1
	out := ApplyInheritance([]PageResult{
		inherited,
		undatedPage(3),
	})
	// page 3 saw no page with its own date, so it stays undated
	assert.Nil(t, out[1].DateOfService)
}

func TestApplyInheritanceDoesNotMutateInput(t *testing.T) {
	d := date(2024, time.January, 1)
	in := []PageResult{datedPage(1, d, constants.SourceHeuristic), undatedPage(2)}
	_ = ApplyInheritance(in)
	assert.Nil(t, in[1].DateOfService)
}
