package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeStringValidate(t *testing.T) {
	tests := []struct {
		value string
		ok    bool
	}{
		{"09:00", true},
		{"00:00", true},
		{"23:59", true},
		{"24:00", false},
		{"09:60", false},
		{"9:00", false},
		{"09:0", false},
		{"09-00", false},
		{"", false},
		{"ab:cd", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := TimeString(tt.value).Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
			}
		})
	}
}

func TestTimeStringMinutes(t *testing.T) {
	m, err := TimeString("09:30").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 570, m)

	m, err = TimeString("00:00").Minutes()
	require.NoError(t, err)
	assert.Equal(t, 0, m)

	_, err = TimeString("25:00").Minutes()
	assert.Error(t, err)
}

func TestTimeStringAddMinutes(t *testing.T) {
	ts, err := TimeString("09:00").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:30"), ts)

	ts, err = TimeString("09:45").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15"), ts)

	_, err = TimeString("23:45").AddMinutes(30)
	assert.Error(t, err)

	_, err = TimeString("00:10").AddMinutes(-30)
	assert.Error(t, err)
}

func TestTimeStringComparison(t *testing.T) {
	// Сравнение в минутах, а не лексикографически
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.True(t, TimeString("09:59").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("10:00").IsAfter("09:59"))
}

func TestNewTimeString(t *testing.T) {
	ts := NewTimeString(time.Date(2025, 10, 13, 9, 5, 30, 0, time.UTC))
	assert.Equal(t, TimeString("09:05"), ts)
}

func TestNewTimeStringFromString(t *testing.T) {
	ts, err := NewTimeStringFromString("14:30")
	require.NoError(t, err)
	assert.Equal(t, TimeString("14:30"), ts)

	_, err = NewTimeStringFromString("2pm")
	assert.Error(t, err)
}

func TestTimeStringScan(t *testing.T) {
	var ts TimeString
	// Postgres TIME приезжает с секундами
	require.NoError(t, ts.Scan("09:30:00"))
	assert.Equal(t, TimeString("09:30"), ts)

	require.NoError(t, ts.Scan([]byte("10:15")))
	assert.Equal(t, TimeString("10:15"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())
}
