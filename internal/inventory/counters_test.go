package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalized(t *testing.T) {
	tests := []struct {
		name string
		in   Counters
		want Counters
	}{
		{
			name: "consistent row is untouched",
			in:   Counters{Total: 10, Committed: 3, Scheduled: 2},
			want: Counters{Total: 10, Committed: 3, Scheduled: 2, Available: 7, Backorder: 0},
		},
		{
			name: "overcommit becomes backorder",
			in:   Counters{Total: 10, Committed: 14},
			want: Counters{Total: 10, Committed: 14, Available: 0, Backorder: 4},
		},
		{
			name: "negative counters clamp to zero",
			in:   Counters{Total: -2, Committed: -5, Scheduled: -1},
			want: Counters{Total: 0, Committed: 0, Scheduled: 0, Available: 0, Backorder: 0},
		},
		{
			name: "scheduled never exceeds committed",
			in:   Counters{Total: 10, Committed: 2, Scheduled: 6},
			want: Counters{Total: 10, Committed: 2, Scheduled: 2, Available: 8, Backorder: 0},
		},
		{
			name: "derived pair is recomputed, not trusted",
			in:   Counters{Total: 10, Committed: 0, Available: 0, Backorder: 10},
			want: Counters{Total: 10, Committed: 0, Available: 10, Backorder: 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Normalized())
		})
	}
}

func TestSchedulable(t *testing.T) {
	c := Counters{Committed: 5, Scheduled: 3}
	assert.Equal(t, 2, c.Schedulable())
}
