package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    TimeString
		wantErr bool
	}{
		{name: "hour and minute", raw: "9:30", want: "09:30:00"},
		{name: "full", raw: "14:00:00", want: "14:00:00"},
		{name: "hour only", raw: "7", want: "07:00:00"},
		{name: "spaces", raw: " 10:00 ", want: "10:00:00"},
		{name: "empty", raw: "", wantErr: true},
		{name: "bad minute", raw: "10:60", wantErr: true},
		{name: "bad hour", raw: "24:00", wantErr: true},
		{name: "letters", raw: "ab:cd", wantErr: true},
		{name: "too many parts", raw: "10:00:00:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeTime(tt.raw)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Format12h(t *testing.T) {
	assert.Equal(t, "12:00 AM", TimeString("00:00:00").Format12h())
	assert.Equal(t, "10:30 AM", TimeString("10:30:00").Format12h())
	assert.Equal(t, "12:00 PM", TimeString("12:00:00").Format12h())
	assert.Equal(t, "6:30 PM", TimeString("18:30:00").Format12h())
}

func TestTimeString_AddMinutesAndCompare(t *testing.T) {
	start := TimeString("10:00:00")

	next, err := start.AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:30:00"), next)
	assert.True(t, start.IsBefore(next))
	assert.True(t, next.IsAfter(start))

	_, err = TimeString("23:45:00").AddMinutes(30)
	assert.ErrorIs(t, err, ErrTimeOverflow)
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("CST", -6*3600)
	date := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)

	got := TimeString("10:30:00").On(date, loc)
	assert.Equal(t, time.Date(2026, 10, 19, 10, 30, 0, 0, loc), got)
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan([]byte("10:00:00")))
	assert.Equal(t, TimeString("10:00:00"), ts)

	require.NoError(t, ts.Scan("9:30"))
	assert.Equal(t, TimeString("09:30:00"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 17, 30, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("17:30:00"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := TimeString("10:00:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "10:00:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
