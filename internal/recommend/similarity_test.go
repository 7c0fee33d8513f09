package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarityMatrix(t *testing.T) {
	vectors := [][]float64{
		{1, 0},
		{0, 1},
		{1, 1},
	}

	sim := CosineSimilarityMatrix(vectors)
	require.Len(t, sim, 3)

	assert.InDelta(t, 0.0, sim[0][1], 1e-12, "Orthogonal vectors have zero similarity")
	assert.InDelta(t, 0.70710678, sim[0][2], 1e-6)
	assert.InDelta(t, 0.70710678, sim[1][2], 1e-6)
}

func TestCosineSimilarityMatrixDiagonal(t *testing.T) {
	vectors := [][]float64{
		{3, 4, 0},
		{1, 2, 3},
	}

	sim := CosineSimilarityMatrix(vectors)

	for i := range sim {
		assert.InDelta(t, 1.0, sim[i][i], 1e-12, "Self-similarity must be 1")
	}
}

func TestCosineSimilarityMatrixSymmetry(t *testing.T) {
	vectors := [][]float64{
		{5, 0, 4, 1},
		{0, 3, 2, 5},
		{1, 1, 0, 4},
		{2, 0, 0, 0},
	}

	sim := CosineSimilarityMatrix(vectors)

	for i := range sim {
		for j := range sim[i] {
			assert.Equal(t, sim[i][j], sim[j][i], "Matrix must be symmetric")
		}
	}
}

func TestCosineSimilarityMatrixZeroVector(t *testing.T) {
	// A movie nobody in the neighborhood rated has a zero vector; its
	// similarity row stays zero rather than dividing by a zero norm
	vectors := [][]float64{
		{0, 0, 0},
		{1, 2, 3},
	}

	sim := CosineSimilarityMatrix(vectors)

	assert.Equal(t, 0.0, sim[0][0])
	assert.Equal(t, 0.0, sim[0][1])
	assert.Equal(t, 0.0, sim[1][0])
	assert.InDelta(t, 1.0, sim[1][1], 1e-12)
}

func TestCosineSimilarityMatrixIdenticalVectors(t *testing.T) {
	vectors := [][]float64{
		{2, 4, 6},
		{1, 2, 3},
	}

	sim := CosineSimilarityMatrix(vectors)

	assert.InDelta(t, 1.0, sim[0][1], 1e-12, "Scaled copies of a vector are fully similar")
}
