package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func month(y int, m time.Month) time.Time {
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func TestAppendRejectsOutOfOrder(t *testing.T) {
	s := New[float64](2)
	require.NoError(t, s.Append(month(2023, 2), 2))

	assert.Error(t, s.Append(month(2023, 2), 3))
	assert.Error(t, s.Append(month(2023, 1), 1))
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Append(month(2023, 3), 3))
	assert.Equal(t, 2, s.Len())
}

func TestAsOf(t *testing.T) {
	s := New[float64](0)
	require.NoError(t, s.Append(month(2023, 1), 100))
	require.NoError(t, s.Append(month(2023, 2), 101))
	require.NoError(t, s.Append(month(2023, 3), 102))

	tests := []struct {
		name    string
		on      time.Time
		wantDay time.Time
		want    float64
		ok      bool
	}{
		{"exact", month(2023, 2), month(2023, 2), 101, true},
		{"between", time.Date(2023, 2, 20, 0, 0, 0, 0, time.UTC), month(2023, 2), 101, true},
		{"after last", month(2024, 1), month(2023, 3), 102, true},
		{"before first", month(2022, 12), time.Time{}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day, v, ok := s.AsOf(tt.on)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.wantDay, day)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestGetAndIterate(t *testing.T) {
	s := New[string](0)
	require.NoError(t, s.Append(month(2023, 1), "a"))
	require.NoError(t, s.Append(month(2023, 2), "b"))

	v, ok := s.Get(month(2023, 2))
	assert.True(t, ok)
	assert.Equal(t, "b", v)

	_, ok = s.Get(month(2023, 3))
	assert.False(t, ok)
	assert.Equal(t, -1, s.Index(month(2023, 3)))

	var got []string
	for _, v := range s.All() {
		got = append(got, v)
	}
	assert.Equal(t, []string{"a", "b"}, got)

	first, _ := s.First()
	last, lv := s.Latest()
	assert.Equal(t, month(2023, 1), first)
	assert.Equal(t, month(2023, 2), last)
	assert.Equal(t, "b", lv)

	s.Clear()
	assert.Equal(t, 0, s.Len())
	_, _, ok = s.AsOf(month(2023, 2))
	assert.False(t, ok)
}
