package parse

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomPattern(t *testing.T) {
	testCases := []struct {
		name      string
		pattern   string
		expected  []string
		expectErr bool
	}{
		{
			name:     "Simple range",
			pattern:  "101-105",
			expected: []string{"101", "102", "103", "104", "105"},
		},
		{
			name:     "Reversed range",
			pattern:  "203-201",
			expected: []string{"201", "202", "203"},
		},
		{
			name:     "List with spaces",
			pattern:  "101, 102 ,  305",
			expected: []string{"101", "102", "305"},
		},
		{
			name:     "Mixed ranges, singles and duplicates",
			pattern:  "101-103, 102, 201, A3, 201",
			expected: []string{"101", "102", "103", "201", "A3"},
		},
		{
			name:     "Range with inner spaces",
			pattern:  "7 - 9",
			expected: []string{"7", "8", "9"},
		},
		{
			name:     "Empty segments ignored",
			pattern:  ",,12,",
			expected: []string{"12"},
		},
		{
			name:      "Empty pattern",
			pattern:   "  ",
			expectErr: true,
		},
		{
			name:      "Malformed range",
			pattern:   "A1-A5",
			expectErr: true,
		},
		{
			name:      "Range too large",
			pattern:   "1-5000",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := RoomPattern(tc.pattern)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestFloor(t *testing.T) {
	testCases := map[string]int{
		"101":  1,
		"305":  3,
		"1204": 12,
		"7":    1,
		"99":   1,
		"A3":   1,
		"":     1,
		" 402": 4,
	}
	for in, expected := range testCases {
		assert.Equal(t, expected, Floor(in), "room %q", in)
	}
}

func TestCompareRoomNumbers(t *testing.T) {
	rooms := []string{"10", "2", "A10", "101", "A2", "1", "b1", "002"}
	sort.Slice(rooms, func(i, j int) bool { return CompareRoomNumbers(rooms[i], rooms[j]) < 0 })
	assert.Equal(t, []string{"1", "2", "002", "10", "101", "A2", "A10", "b1"}, rooms)
}
