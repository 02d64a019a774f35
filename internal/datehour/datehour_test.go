package datehour

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrement(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"same day", "1978-10-01 10", "1978-10-01 11"},
		{"end of day", "1978-10-01 23", "1978-10-02 00"},
		{"end of month", "2021-04-30 23", "2021-05-01 00"},
		{"end of year", "1999-12-31 23", "2000-01-01 00"},
		{"leap year", "2024-02-28 23", "2024-02-29 00"},
		{"leap day", "2024-02-29 23", "2024-03-01 00"},
		{"non leap year", "2023-02-28 23", "2023-03-01 00"},
		{"century non leap", "1900-02-28 23", "1900-03-01 00"},
		{"small year", "0999-12-31 23", "1000-01-01 00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Increment(tt.in)
			assert.Equal(t, tt.want, got)
			assert.True(t, IsValid(got), "increment must stay in the date-hour format")
		})
	}
}

func TestIncrement_NormalizesOutOfRangeFields(t *testing.T) {
	assert.Equal(t, "2023-03-02 01", Increment("2023-02-30 00"))
}

func TestIncrement_MalformedInputDoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() { Increment("not a date") })
	assert.NotPanics(t, func() { Increment("") })
}

func TestIncrement_ExactlyOneHourLater(t *testing.T) {
	start := time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	s := Format(start)
	for i := 0; i < 24*800; i++ {
		next := Increment(s)

		prev, err := Parse(s)
		require.NoError(t, err)
		cur, err := Parse(next)
		require.NoError(t, err)

		require.Equal(t, time.Hour, cur.Sub(prev), "step %d from %s", i, s)
		s = next
	}
	assert.Equal(t, Format(start.Add(24*800*time.Hour)), s)
}

func TestIsValid(t *testing.T) {
	valid := []string{"1978-10-01 10", "0000-00-00 00", "2024-02-29 23", "9999-99-99 99"}
	invalid := []string{
		"",
		"1978-10-01",
		"1978-10-01 1",
		"1978-10-01  10",
		"1978-10-01T10",
		"78-10-01 10",
		"1978-1-01 10",
		" 1978-10-01 10",
		"1978-10-01 10 ",
		"1978-10-01 10:00",
		"abcd-ef-gh ij",
	}
	for _, s := range valid {
		assert.True(t, IsValid(s), "%q should be valid", s)
	}
	for _, s := range invalid {
		assert.False(t, IsValid(s), "%q should be invalid", s)
	}
}

func TestParse(t *testing.T) {
	ts, err := Parse("1978-10-01 10")
	require.NoError(t, err)
	assert.Equal(t, time.Date(1978, time.October, 1, 10, 0, 0, 0, time.UTC), ts)

	_, err = Parse("1978-10-01")
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestFormatAndTruncate(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2000, time.January, 1, 1, 59, 30, 0, loc)

	assert.Equal(t, "1999-12-31 23", Format(ts))
	assert.Equal(t, time.Date(1999, time.December, 31, 23, 0, 0, 0, time.UTC), Truncate(ts))
}
