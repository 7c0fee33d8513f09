package recommend

// MinMaxNormalize scales a score series into [0, 1]. A constant series
// (including all zeros) normalizes to all zeros instead of dividing by
// zero, so the output is never NaN.
func MinMaxNormalize(values []float64) []float64 {
	normalized := make([]float64, len(values))
	if len(values) == 0 {
		return normalized
	}

	min, max := values[0], values[0]
	for _, v := range values[1:] {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	if max == min {
		return normalized
	}

	span := max - min
	for i, v := range values {
		normalized[i] = (v - min) / span
	}
	return normalized
}
