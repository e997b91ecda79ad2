package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		from, to int
		want     []string
	}{
		{"forward", 0, 2, []string{"B", "C", "A", "D"}},
		{"backward", 3, 0, []string{"D", "A", "B", "C"}},
		{"to end", 0, 3, []string{"B", "C", "D", "A"}},
		{"adjacent", 1, 2, []string{"A", "C", "B", "D"}},
		{"same index", 2, 2, []string{"A", "B", "C", "D"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := []string{"A", "B", "C", "D"}
			got, err := Move(input, tt.from, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, []string{"A", "B", "C", "D"}, input, "input must not be modified")
		})
	}
}

func TestMove_InvalidIndex(t *testing.T) {
	input := []string{"A", "B", "C"}
	for _, idx := range [][2]int{{-1, 0}, {0, 3}, {3, 0}, {0, -1}} {
		_, err := Move(input, idx[0], idx[1])
		assert.ErrorIs(t, err, ErrInvalidIndex, "from=%d to=%d", idx[0], idx[1])
	}

	_, err := Move([]string{}, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidIndex)
}

func TestMove_InversePairRestoresOrder(t *testing.T) {
	input := []string{"A", "B", "C", "D", "E"}
	for from := range input {
		for to := range input {
			moved, err := Move(input, from, to)
			require.NoError(t, err)
			back, err := Move(moved, to, from)
			require.NoError(t, err)
			assert.Equal(t, input, back, "from=%d to=%d", from, to)
		}
	}
}
