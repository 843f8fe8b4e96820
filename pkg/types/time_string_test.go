package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr error
	}{
		{name: "обычное время", input: "09:30", want: "09:30"},
		{name: "секунды из SQL отбрасываются", input: "18:00:00", want: "18:00"},
		{name: "конец дня", input: "24:00", want: "24:00"},
		{name: "полночь", input: "00:00", want: "00:00"},
		{name: "после конца дня", input: "24:30", wantErr: ErrTimeOutOfRange},
		{name: "некорректные минуты", input: "10:75", wantErr: ErrInvalidTimeString},
		{name: "без ведущего нуля", input: "9:30", wantErr: ErrInvalidTimeString},
		{name: "мусор", input: "ab:cd", wantErr: ErrInvalidTimeString},
		{name: "знак в часах", input: "+8:00", wantErr: ErrInvalidTimeString},
		{name: "знак в минутах", input: "08:+5", wantErr: ErrInvalidTimeString},
		{name: "отрицательные часы", input: "-1:00", wantErr: ErrInvalidTimeString},
		{name: "знак в секундах", input: "08:00:+1", wantErr: ErrInvalidTimeString},
		{name: "пробел вместо цифры", input: " 8:00", wantErr: ErrInvalidTimeString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_AddMinutes(t *testing.T) {
	end, err := MustTimeString("22:30").AddMinutes(90)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), end)

	_, err = MustTimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrTimeOutOfRange)

	_, err = TimeString("bad").AddMinutes(30)
	assert.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_Compare(t *testing.T) {
	a := MustTimeString("10:00")
	b := MustTimeString("11:30")

	assert.True(t, a.IsBefore(b))
	assert.False(t, b.IsBefore(a))
	assert.True(t, b.IsAfter(a))
	assert.False(t, a.IsBefore(a))
	assert.Equal(t, 11, b.Hour())
	assert.Equal(t, 690, b.Minutes())
	assert.Equal(t, -1, TimeString("oops").Minutes())
}

func TestTimeString_IsOnGrid(t *testing.T) {
	assert.True(t, MustTimeString("10:30").IsOnGrid(30))
	assert.False(t, MustTimeString("10:15").IsOnGrid(30))
	assert.False(t, MustTimeString("10:30").IsOnGrid(0))
}

func TestTimeString_Scan(t *testing.T) {
	var ts TimeString

	require.NoError(t, ts.Scan("07:45:00"))
	assert.Equal(t, TimeString("07:45"), ts)

	require.NoError(t, ts.Scan([]byte("12:00")))
	assert.Equal(t, TimeString("12:00"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 16, 20, 33, 0, time.UTC)))
	assert.Equal(t, TimeString("16:20"), ts)

	require.NoError(t, ts.Scan(nil))
	assert.True(t, ts.IsZero())

	assert.Error(t, ts.Scan(42))
}

func TestTimeString_Value(t *testing.T) {
	v, err := MustTimeString("08:00").Value()
	require.NoError(t, err)
	assert.Equal(t, "08:00", v)

	v, err = TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
