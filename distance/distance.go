// Package distance provides similarity scoring for vector comparisons.
//
// All scores are similarities: higher means more similar. Distance-based
// metrics are mapped through monotonic transforms so that graph construction
// and search can treat every metric uniformly as "bigger is better".
package distance

import (
	"fmt"
	"math"

	"github.com/x448/float16"
)

// Element is the set of vector element types supported by the engine.
// float32 is the canonical encoding; int8 covers byte-quantized vectors and
// float16.Float16 half-precision storage.
type Element interface {
	float32 | int8 | float16.Float16
}

// Func computes the similarity between two vectors of equal length.
// Implementations must be pure and consistent: the same inputs always
// produce the same score. Higher scores mean more similar.
type Func[E Element] func(a, b []E) float32

// Metric identifies a similarity metric.
type Metric int

const (
	// MetricDot scores by dot product, normalized to (1+dot)/2.
	// Intended for unit-length vectors.
	MetricDot Metric = iota
	// MetricCosine scores by cosine similarity, normalized to (1+cos)/2.
	MetricCosine
	// MetricL2 scores by euclidean distance through 1/(1+d^2).
	MetricL2
)

func (m Metric) String() string {
	switch m {
	case MetricDot:
		return "Dot"
	case MetricCosine:
		return "Cosine"
	case MetricL2:
		return "L2"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// Dot calculates the dot product of two float32 vectors.
// Assumes vectors are the same length (caller's responsibility).
func Dot(a, b []float32) float32 {
	var sum float32
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// SquaredL2 calculates the squared euclidean distance between two vectors.
func SquaredL2(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

// DotInt8 calculates the integer dot product of two byte-quantized vectors.
func DotInt8(a, b []int8) int32 {
	var sum int32
	for i := range a {
		sum += int32(a[i]) * int32(b[i])
	}
	return sum
}

// SquaredL2Int8 calculates the squared euclidean distance of two
// byte-quantized vectors.
func SquaredL2Int8(a, b []int8) int32 {
	var sum int32
	for i := range a {
		d := int32(a[i]) - int32(b[i])
		sum += d * d
	}
	return sum
}

// DotFloat16 calculates the dot product of two half-precision vectors.
func DotFloat16(a, b []float16.Float16) float32 {
	var sum float32
	for i := range a {
		sum += a[i].Float32() * b[i].Float32()
	}
	return sum
}

// SquaredL2Float16 calculates the squared euclidean distance of two
// half-precision vectors.
func SquaredL2Float16(a, b []float16.Float16) float32 {
	var sum float32
	for i := range a {
		d := a[i].Float32() - b[i].Float32()
		sum += d * d
	}
	return sum
}

// DotSimilarity maps a float32 dot product into [0, 1] for unit vectors.
func DotSimilarity(a, b []float32) float32 {
	return (1 + Dot(a, b)) / 2
}

// CosineSimilarity maps cosine similarity into [0, 1].
// Zero-norm inputs score 0.
func CosineSimilarity(a, b []float32) float32 {
	var dot, na, nb float32
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return (1 + dot/sqrt32(na*nb)) / 2
}

// EuclideanSimilarity maps squared euclidean distance into (0, 1].
func EuclideanSimilarity(a, b []float32) float32 {
	return 1 / (1 + SquaredL2(a, b))
}

// DotSimilarityInt8 maps the integer dot product into [0, 1].
// Follows the byte-vector scaling convention dot/(dim*2^15).
func DotSimilarityInt8(a, b []int8) float32 {
	if len(a) == 0 {
		return 0
	}
	return 0.5 + float32(DotInt8(a, b))/float32(len(a)*(1<<15))
}

// EuclideanSimilarityInt8 maps byte-vector squared distance into (0, 1].
func EuclideanSimilarityInt8(a, b []int8) float32 {
	return 1 / (1 + float32(SquaredL2Int8(a, b)))
}

// DotSimilarityFloat16 maps the half-precision dot product into [0, 1]
// for unit vectors.
func DotSimilarityFloat16(a, b []float16.Float16) float32 {
	return (1 + DotFloat16(a, b)) / 2
}

// EuclideanSimilarityFloat16 maps half-precision squared distance into (0, 1].
func EuclideanSimilarityFloat16(a, b []float16.Float16) float32 {
	return 1 / (1 + SquaredL2Float16(a, b))
}

// Provider returns the similarity function for the given metric and element
// type. The element type is resolved once, at construction time; the returned
// Func performs no dispatch of its own.
func Provider[E Element](m Metric) (Func[E], error) {
	var impl any

	var zero E
	switch any(zero).(type) {
	case float32:
		switch m {
		case MetricDot:
			impl = Func[float32](DotSimilarity)
		case MetricCosine:
			impl = Func[float32](CosineSimilarity)
		case MetricL2:
			impl = Func[float32](EuclideanSimilarity)
		}
	case int8:
		switch m {
		case MetricDot:
			impl = Func[int8](DotSimilarityInt8)
		case MetricL2:
			impl = Func[int8](EuclideanSimilarityInt8)
		}
	case float16.Float16:
		switch m {
		case MetricDot:
			impl = Func[float16.Float16](DotSimilarityFloat16)
		case MetricL2:
			impl = Func[float16.Float16](EuclideanSimilarityFloat16)
		}
	}

	if impl == nil {
		return nil, fmt.Errorf("unsupported metric %v for element type %T", m, zero)
	}
	return impl.(Func[E]), nil
}

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}
