package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"15/03/2026", time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC), false},
		{"01/01/1970", time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC), false},
		{"29/02/2024", time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC), false},
		{"29/02/2023", time.Time{}, true}, // not a leap year
		{"31/04/2026", time.Time{}, true},
		{"2026/03/15", time.Time{}, true},
		{"15-03-2026", time.Time{}, true},
		{"5/3/2026", time.Time{}, true},
		{"15/03/26", time.Time{}, true},
		{"aa/bb/cccc", time.Time{}, true},
		{"", time.Time{}, true},
	}
	for _, tc := range tests {
		got, err := CheckDate(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrBadDate, "input %q", tc.in)
			continue
		}
		require.NoError(t, err, "input %q", tc.in)
		assert.True(t, got.Equal(tc.want), "input %q: got %s", tc.in, got)
	}
}
