package recommend

import "math"

// CosineSimilarityMatrix computes the symmetric item-item cosine
// similarity over movie rating vectors. Unrated cells contribute zero,
// which biases similarity toward movie pairs with mutually dense support;
// that approximation is accepted by the neighborhood design. The diagonal
// comes out as 1 by construction and is not excluded here; already-rated
// movies are removed later, during score propagation.
func CosineSimilarityMatrix(vectors [][]float64) [][]float64 {
	n := len(vectors)
	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
	}

	norms := make([]float64, n)
	for i, vec := range vectors {
		var sum float64
		for _, v := range vec {
			sum += v * v
		}
		norms[i] = math.Sqrt(sum)
	}

	for i := 0; i < n; i++ {
		if norms[i] == 0 {
			continue
		}
		for j := i; j < n; j++ {
			if norms[j] == 0 {
				continue
			}
			var dot float64
			for k, v := range vectors[i] {
				dot += v * vectors[j][k]
			}
			s := dot / (norms[i] * norms[j])
			sim[i][j] = s
			sim[j][i] = s
		}
	}
	return sim
}
