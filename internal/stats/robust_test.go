// ABOUTME: Tests for robust statistics against hand-computed reference values.
// ABOUTME: Covers outlier resistance, sign-flip invariance, and interpolation.
package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 5},
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{1, 2, 3, 4}, 2.5},
		{"unsorted", []float64{9, 1, 5, 3, 7}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Median(tt.values))
		})
	}
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Median(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestMADResistsOutliers(t *testing.T) {
	// median of [1,2,3,4,100] = 3; deviations [2,1,0,1,97]; MAD = 1.
	assert.Equal(t, 1.0, MAD([]float64{1, 2, 3, 4, 100}))

	// The outlier dominates the standard deviation but not the MAD.
	sd := StdDev([]float64{1, 2, 3, 4, 100})
	assert.Greater(t, sd, 35.0)
}

func TestMADSignFlipInvariance(t *testing.T) {
	values := []float64{2, 4, 7, 11, 13}
	flipped := make([]float64, len(values))
	for i, v := range values {
		flipped[i] = -v
	}
	assert.Equal(t, MAD(values), MAD(flipped))
}

func TestPercentileInterpolation(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	assert.Equal(t, 10.0, Percentile(values, 0))
	assert.Equal(t, 40.0, Percentile(values, 100))
	assert.Equal(t, 25.0, Percentile(values, 50))
	assert.InDelta(t, 17.5, Percentile(values, 25), 1e-9)
}

func TestPercentileRank(t *testing.T) {
	values := []float64{10, 20, 30, 40}

	assert.Equal(t, 50.0, PercentileRank(values, 25))
	assert.Equal(t, 0.0, PercentileRank(values, 5))
	assert.Equal(t, 100.0, PercentileRank(values, 50))
	// Equal values count as half a step.
	assert.Equal(t, 50.0, PercentileRank([]float64{7, 7, 7}, 7))
	// Empty history is indistinguishable from the middle of the pack.
	assert.Equal(t, 50.0, PercentileRank(nil, 42))
}

func TestStdDevPopulation(t *testing.T) {
	// Population stddev of [2,4,4,4,5,5,7,9] is exactly 2.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.0, StdDev(values), 1e-9)

	assert.Equal(t, 0.0, StdDev([]float64{70, 70, 70}))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-1000, 0, 100))
	assert.Equal(t, 100.0, Clamp(1000, 0, 100))
	assert.Equal(t, 42.0, Clamp(42, 0, 100))
	assert.False(t, math.IsNaN(Clamp(50, 0, 100)))
}
