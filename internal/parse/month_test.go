package parse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillingMonth(t *testing.T) {
	now := time.Date(2024, 7, 19, 22, 0, 0, 0, time.UTC)

	testCases := []struct {
		name      string
		raw       string
		expected  time.Time
		expectErr bool
	}{
		{name: "Year and month", raw: "2024-05", expected: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Full date normalised", raw: "2024-05-17", expected: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Empty defaults to now", raw: "", expected: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Surrounding spaces", raw: " 2023-12 ", expected: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)},
		{name: "Bad month", raw: "2024-13", expectErr: true},
		{name: "Garbage", raw: "May 2024", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := BillingMonth(tc.raw, now)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestFormatMonth(t *testing.T) {
	assert.Equal(t, "2024-05", FormatMonth(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)))
}
