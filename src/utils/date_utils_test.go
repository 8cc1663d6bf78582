package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReportDate(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2023-01-10 15:30:00", time.Date(2023, 1, 10, 15, 30, 0, 0, time.UTC)},
		{"2023-01-10", time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)},
		{"2023-01-10T15:30:00Z", time.Date(2023, 1, 10, 15, 30, 0, 0, time.UTC)},
		{"10.01.2023", time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)},
		{" 2023-01-10 ", time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseReportDate(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}
}

func TestParseReportDateRejectsGarbage(t *testing.T) {
	_, err := ParseReportDate("yesterday")
	assert.Error(t, err)
	_, err = ParseReportDate("")
	assert.Error(t, err)
}

func TestCanonicalDateKeyIgnoresTimeOfDay(t *testing.T) {
	morning := time.Date(2023, 1, 10, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2023, 1, 10, 21, 15, 0, 0, time.UTC)
	assert.Equal(t, "20230110", CanonicalDateKey(morning))
	assert.Equal(t, CanonicalDateKey(morning), CanonicalDateKey(evening))
}
