package cron

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCronSpecFromClock(t *testing.T) {
	cases := []struct {
		clock string
		want  string
	}{
		{"08:00", "0 8 * * *"},
		{"12:30", "30 12 * * *"},
		{"19:05", "5 19 * * *"},
		{"00:00", "0 0 * * *"},
		{"23:59", "59 23 * * *"},
	}
	for _, tc := range cases {
		got, err := cronSpecFromClock(tc.clock)
		require.NoError(t, err, tc.clock)
		require.Equal(t, tc.want, got)
	}
}

func TestCronSpecFromClockRejectsMalformedInput(t *testing.T) {
	for _, clock := range []string{"", "8", "24:00", "12:60", "-1:30", "noonish", "12:3:4"} {
		_, err := cronSpecFromClock(clock)
		require.Error(t, err, clock)
	}
}
