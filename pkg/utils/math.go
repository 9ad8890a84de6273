package utils

// MinInt returns the minimum of two integers
func MinInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// ClampFloat64 clamps a float64 value between min and max
func ClampFloat64(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// Mean calculates the mean of a slice of float64 values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}

// Sum calculates the sum of a slice of float64 values
func Sum(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum
}

// MaxIntIndex returns the largest value in values and the index of its
// first occurrence. An empty slice returns (0, -1).
func MaxIntIndex(values []int) (int, int) {
	if len(values) == 0 {
		return 0, -1
	}
	best, bestIdx := values[0], 0
	for i, v := range values {
		if v > best {
			best, bestIdx = v, i
		}
	}
	return best, bestIdx
}
