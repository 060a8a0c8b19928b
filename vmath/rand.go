package vmath

import "math"

// FastRand is a xorshift64 generator
// Not safe for concurrent use; each scheduler loop owns its own
type FastRand struct {
	state uint64
}

// NewFastRand seeds a generator, zero is replaced since xorshift sticks at 0
func NewFastRand(seed uint64) *FastRand {
	if seed == 0 {
		seed = 1
	}
	return &FastRand{state: seed}
}

func (r *FastRand) Next() uint64 {
	x := r.state
	x ^= x << 13
	x ^= x >> 17
	x ^= x << 5
	r.state = x
	return x
}

func (r *FastRand) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return int(r.Next() % uint64(n))
}

// Float64 returns a value in [0, 1) from the top 53 bits
func (r *FastRand) Float64() float64 {
	return float64(r.Next()>>11) / (1 << 53)
}

// Source is the minimal random interface used by the effects
// *FastRand and *math/rand/v2.Rand both satisfy it
type Source interface {
	Float64() float64
}

// Pick maps a draw in [0, 1) to an index in [0, n)
func Pick(src Source, n int) int {
	if n <= 0 {
		return 0
	}
	i := int(src.Float64() * float64(n))
	if i >= n {
		i = n - 1
	}
	return i
}

// Jitter returns a centred offset in [-span/2, span/2)
func Jitter(src Source, span float64) float64 {
	return (src.Float64() - 0.5) * span
}

// Polar converts an angle in radians and a distance to a cartesian offset
func Polar(angle, dist float64) (dx, dy float64) {
	return math.Cos(angle) * dist, math.Sin(angle) * dist
}
