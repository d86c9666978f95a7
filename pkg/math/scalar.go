package math

import "golang.org/x/exp/constraints"

// Clamp limits v to [lo, hi].
func Clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp returns (1-t)*a + t*b.
func Lerp(a, b, t float32) float32 {
	return (1-t)*a + t*b
}

// Wrap returns i modulo n in [0, n). n must be positive.
func Wrap[T constraints.Integer](i, n T) T {
	r := i % n
	if r < 0 {
		r += n
	}
	return r
}
