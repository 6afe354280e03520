package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSchedule_Valid(t *testing.T) {
	start, end, freq, minute, err := ParseSchedule("11 18 3 15")
	require.NoError(t, err)
	assert.Equal(t, 11, start)
	assert.Equal(t, 18, end)
	assert.Equal(t, 3, freq)
	assert.Equal(t, 15, minute)

	start, end, freq, minute, err = ParseSchedule("  9 9 1 0 ")
	require.NoError(t, err)
	assert.Equal(t, 9, start)
	assert.Equal(t, 9, end)
	assert.Equal(t, 1, freq)
	assert.Equal(t, 0, minute)
}

func TestParseSchedule_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too few fields", "11 18 3"},
		{"too many fields", "11 18 3 15 7"},
		{"not a number", "11 eighteen 3 15"},
		{"negative start", "-1 18 3 15"},
		{"start after end", "19 18 3 15"},
		{"end above 23", "11 24 3 15"},
		{"zero frequency", "11 18 0 15"},
		{"minute 60", "11 18 3 60"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, _, _, err := ParseSchedule(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSchedule)
		})
	}
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule(0, 23, 1, 0))
	assert.NoError(t, ValidateSchedule(9, 9, 5, 59))

	assert.ErrorIs(t, ValidateSchedule(-1, 18, 3, 15), ErrInvalidSchedule)
	assert.ErrorIs(t, ValidateSchedule(11, 10, 3, 15), ErrInvalidSchedule)
	assert.ErrorIs(t, ValidateSchedule(11, 18, -2, 15), ErrInvalidSchedule)
	assert.ErrorIs(t, ValidateSchedule(11, 18, 3, 60), ErrInvalidSchedule)
}
