package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/wordgraph/internal/domain"
)

func TestRanks_AveragesTies(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []float64{1, 2, 3.5, 5, 3.5}, ranks([]float64{5, 6, 7, 8, 7}))
	assert.Equal(t, []float64{2, 2, 2}, ranks([]float64{1, 1, 1}))
	assert.Equal(t, []float64{3, 1, 2}, ranks([]float64{0.9, 0.1, 0.5}))
}

func TestSpearman(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		x, y    []float64
		wantRho float64
		wantP   float64
	}{
		{
			name:    "ties",
			x:       []float64{1, 2, 3, 4, 5},
			y:       []float64{5, 6, 7, 8, 7},
			wantRho: 0.8207826816681233,
			wantP:   0.0885870053135438,
		},
		{
			name:    "perfect",
			x:       []float64{1, 2, 3, 4},
			y:       []float64{10, 20, 30, 40},
			wantRho: 1,
			wantP:   0,
		},
		{
			name:    "inverse",
			x:       []float64{1, 2, 3, 4},
			y:       []float64{4, 3, 2, 1},
			wantRho: -1,
			wantP:   0,
		},
		{
			name:    "two points",
			x:       []float64{1, 2},
			y:       []float64{3, 4},
			wantRho: 1,
			wantP:   1,
		},
		{
			name:    "constant series",
			x:       []float64{1, 2, 3},
			y:       []float64{0, 0, 0},
			wantRho: 0,
			wantP:   1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rho, p, err := Spearman(tt.x, tt.y)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantRho, rho, 1e-9)
			assert.InDelta(t, tt.wantP, p, 1e-9)
		})
	}
}

func TestSpearman_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := Spearman([]float64{1}, []float64{1})
	assert.ErrorIs(t, err, domain.ErrInsufficientPairs)

	_, _, err = Spearman([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRegIncBeta(t *testing.T) {
	t.Parallel()

	// I_x(1, 1) = x and I_x(a, b) = 1 - I_{1-x}(b, a).
	assert.InDelta(t, 0.3, regIncBeta(1, 1, 0.3), 1e-12)
	assert.InDelta(t, 1-regIncBeta(0.5, 2.5, 0.6), regIncBeta(2.5, 0.5, 0.4), 1e-12)
	assert.Equal(t, 0.0, regIncBeta(2, 3, 0))
	assert.Equal(t, 1.0, regIncBeta(2, 3, 1))
}
