package chronology

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recordstack/chronology/constants"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestFindDatesSurfaceForms(t *testing.T) {
	tests := []struct {
		name string
		text string
		want time.Time
	}{
		{"iso dash", "seen on 2024-01-15 for follow-up", date(2024, time.January, 15)},
		{"iso slash", "seen on 2024/01/15 for follow-up", date(2024, time.January, 15)},
		{"iso dot", "seen on 2024.01.15 for follow-up", date(2024, time.January, 15)},
		{"month first numeric", "visit 01/15/2024 noted", date(2024, time.January, 15)},
		{"month first two digit year", "visit 01/15/24 noted", date(2024, time.January, 15)},
		{"day first numeric", "visit 25/12/2023 noted", date(2023, time.December, 25)},
		{"day first dots", "visit 25.12.2023 noted", date(2023, time.December, 25)},
		{"day first two digit year", "visit 25-12-23 noted", date(2023, time.December, 25)},
		{"compact", "record 20240115 filed", date(2024, time.January, 15)},
		{"month name day year", "on January 15, 2024 patient seen", date(2024, time.January, 15)},
		{"month name abbreviated", "on Jan 15, 2024 patient seen", date(2024, time.January, 15)},
		{"month name no comma", "on January 15 2024 patient seen", date(2024, time.January, 15)},
		{"ordinal suffix", "on January 3rd, 2024 patient seen", date(2024, time.January, 3)},
		{"day month year", "on 15 January 2024 patient seen", date(2024, time.January, 15)},
		{"day of month year", "on 3rd of March 2021 patient seen", date(2021, time.March, 3)},
		{"sept abbreviation", "on Sept 9, 2022 patient seen", date(2022, time.September, 9)},
		{"month year only", "during March 2024 the patient", date(2024, time.March, 1)},
		{"numeric month year only", "billing period 03/2024 closed", date(2024, time.March, 1)},
		{"case insensitive month", "on JANUARY 15, 2024 patient seen", date(2024, time.January, 15)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindDates(tt.text)
			require.Len(t, got, 1, "text: %q", tt.text)
			assert.Equal(t, tt.want, got[0].Date)
		})
	}
}

func TestFindDatesAmbiguityPolicy(t *testing.T) {
	// both components plausible as month: month-first wins
	got := FindDates("note 03/04/2024 end")
	require.Len(t, got, 1)
	assert.Equal(t, date(2024, time.March, 4), got[0].Date)

	// month-first impossible: falls back to day-first
	got = FindDates("note 25/04/2024 end")
	require.Len(t, got, 1)
	assert.Equal(t, date(2024, time.April, 25), got[0].Date)
}

func TestFindDatesDropsInvalidCalendarDates(t *testing.T) {
	// April has 30 days; both readings fail so the match vanishes
	assert.Empty(t, FindDates("scheduled 04/31/2024 maybe"))
	// Feb 30 in any reading
	assert.Empty(t, FindDates("scheduled 30/02/2024 maybe"))
	assert.Empty(t, FindDates("scheduled February 30, 2024 maybe"))
	// month 13 in both positions
	assert.Empty(t, FindDates("code 13-13-2024 ref"))
}

func TestFindDatesOrderAndNonOverlap(t *testing.T) {
	text := "DOB: 03/04/1980 admitted 2024-01-15 discharged January 17, 2024"
	got := FindDates(text)
	require.Len(t, got, 3)

	prevEnd := 0
	for _, d := range got {
		assert.GreaterOrEqual(t, d.Offset, prevEnd, "matches must not overlap")
		prevEnd = d.Offset + len(d.Raw)
	}
	assert.Equal(t, date(1980, time.March, 4), got[0].Date)
	assert.Equal(t, date(2024, time.January, 15), got[1].Date)
	assert.Equal(t, date(2024, time.January, 17), got[2].Date)
}

func TestFindDatesISOWinsOverEmbeddedNumeric(t *testing.T) {
	// the numeric pattern must not pick "24-01-15" out of "2024-01-15"
	got := FindDates("2024-01-15")
	require.Len(t, got, 1)
	assert.Equal(t, "2024-01-15", got[0].Raw)
}

func TestFindDatesContextWindows(t *testing.T) {
	text := "Date of Service: 01/15/2024 labs drawn"
	got := FindDates(text)
	require.Len(t, got, 1)
	assert.Equal(t, "Date of Service: ", got[0].ContextBefore)
	assert.Equal(t, " labs drawn", got[0].ContextAfter)
	assert.Equal(t, 17, got[0].Offset)
}

func TestFindDatesPosition(t *testing.T) {
	top := "01/15/2024" + string(make([]byte, 0))
	pad := "x"
	for len(pad) < 300 {
		pad += " filler"
	}
	got := FindDates(top + " " + pad)
	require.Len(t, got, 1)
	assert.Equal(t, constants.PositionTop, got[0].Position)

	got = FindDates(pad + " 01/15/2024")
	require.Len(t, got, 1)
	assert.Equal(t, constants.PositionBottom, got[0].Position)
}

func TestExtractDatesClassifies(t *testing.T) {
	got := ExtractDates("DOB: 03/04/1980 Date of Service: 01/15/2024")
	require.Len(t, got, 2)
	assert.Equal(t, constants.ClassDateOfBirth, got[0].Class)
	assert.Equal(t, constants.ClassDateOfService, got[1].Class)
}

func TestFindDatesNoDates(t *testing.T) {
	assert.Empty(t, FindDates("no dates here, just vitals 120/80 and room 12"))
}
