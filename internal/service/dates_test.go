package service

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		mode DateMode
		want string
		ok   bool
	}{
		{"2024-03-05", DateAuto, "2024-03-05", true},
		{"05/03/2024", DateDayFirst, "2024-03-05", true},
		{"05/03/2024", DateMonthFirst, "2024-05-03", true},
		{"2024/03/05", DateAuto, "2024-03-05", true},
		{"5/3/24", DateDayFirst, "2024-03-05", true},
		{"31/12/2023", DateDayFirst, "2023-12-31", true},
		{"30/02/2024", DateDayFirst, "", false},
		{"not a date", DateAuto, "", false},
		{"", DateAuto, "", false},
	}
	for _, tc := range cases {
		got, ok := NormalizeDate(tc.raw, tc.mode)
		require.Equal(t, tc.ok, ok, "raw=%q mode=%s", tc.raw, tc.mode)
		if tc.ok {
			require.Equal(t, tc.want, got, "raw=%q mode=%s", tc.raw, tc.mode)
		}
	}
}

func TestNormalizeDateFallsBackToRaw(t *testing.T) {
	t.Parallel()

	got, ok := NormalizeDate("garbage", DateAuto)
	require.False(t, ok)
	require.Equal(t, "garbage", got)
}

func TestDaysApart(t *testing.T) {
	t.Parallel()

	d, err := DaysApart("2024-01-01", "2024-01-03")
	require.NoError(t, err)
	require.Equal(t, 2, d)

	d, err = DaysApart("2024-01-03", "2024-01-01")
	require.NoError(t, err)
	require.Equal(t, 2, d)

	_, err = DaysApart("2024-01-01", "bogus")
	require.Error(t, err)
}
