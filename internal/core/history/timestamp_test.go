package history

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeRunTime(t *testing.T) {
	assert.Equal(t, "2024-06-05T10:15:30", NormalizeRunTime("2024-06-05 10:15:30"))
	assert.Equal(t, "2024-06-05T10:15:30.500", NormalizeRunTime(" 2024-06-05 10:15:30.500 "))
	assert.Equal(t, "2024-06-05T10:15:30Z", NormalizeRunTime("2024-06-05T10:15:30Z"))
}

func TestParseRunTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{
			name:     "space separated",
			input:    "2024-06-05 10:15:30",
			expected: time.Date(2024, time.June, 5, 10, 15, 30, 0, time.UTC),
		},
		{
			name:     "milliseconds",
			input:    "2024-06-05 10:15:30.500",
			expected: time.Date(2024, time.June, 5, 10, 15, 30, 500_000_000, time.UTC),
		},
		{
			name:     "microseconds",
			input:    "2024-06-05 10:15:30.000123",
			expected: time.Date(2024, time.June, 5, 10, 15, 30, 123_000, time.UTC),
		},
		{
			name:     "already strict",
			input:    "2024-06-05T10:15:30",
			expected: time.Date(2024, time.June, 5, 10, 15, 30, 0, time.UTC),
		},
		{
			name:     "rfc3339 with offset",
			input:    "2024-06-05T12:15:30+02:00",
			expected: time.Date(2024, time.June, 5, 10, 15, 30, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRunTime(tt.input, time.UTC)
			require.NoError(t, err)
			assert.True(t, tt.expected.Equal(got), "got %s, want %s", got, tt.expected)
		})
	}
}

func TestParseRunTimeUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)

	got, err := ParseRunTime("2024-06-05 23:30:00", loc)
	require.NoError(t, err)
	assert.Equal(t, loc, got.Location())
	assert.Equal(t, 23, got.Hour())
}

func TestParseRunTimeMalformed(t *testing.T) {
	for _, input := range []string{"", "yesterday", "2024-13-01 00:00:00", "2024-06-05  10:15:30"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseRunTime(input, time.UTC)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrMalformedTimestamp))
		})
	}
}

func TestDayLabel(t *testing.T) {
	assert.Equal(t, "5 June, 2024", DayLabel(time.Date(2024, time.June, 5, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, "31 December, 1999", DayLabel(time.Date(1999, time.December, 31, 23, 59, 59, 0, time.UTC)))
}
