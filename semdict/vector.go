package semdict

import "math"

// meanVector computes the element-wise arithmetic mean of the given vectors.
// All vectors are expected to share the dimensionality of the first one.
func meanVector(vecs [][]float32) []float32 {
	if len(vecs) == 0 {
		return nil
	}
	dim := len(vecs[0])
	sum := make([]float64, dim)
	for _, v := range vecs {
		n := dim
		if len(v) < n {
			n = len(v)
		}
		for i := 0; i < n; i++ {
			sum[i] += float64(v[i])
		}
	}
	out := make([]float32, dim)
	inv := 1.0 / float64(len(vecs))
	for i, s := range sum {
		out[i] = float32(s * inv)
	}
	return out
}

// vectorNorm returns the Euclidean norm of the vector.
func vectorNorm(vec []float32) float64 {
	var sum float64
	for _, v := range vec {
		f := float64(v)
		sum += f * f
	}
	return math.Sqrt(sum)
}

// normalizeVector scales the vector to unit length. A zero-norm vector is
// returned unchanged.
func normalizeVector(vec []float32) []float32 {
	norm := vectorNorm(vec)
	if norm == 0 {
		return vec
	}
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

// dotProduct computes the dot product in float64 for numeric stability.
// For unit vectors this is the cosine similarity.
func dotProduct(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// round3 rounds to three decimal places, the precision of the output artifact.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// clamp bounds v to [lo, hi].
func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func cloneVector(vec []float32) []float32 {
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
