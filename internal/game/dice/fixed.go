package dice

import "sync"

// FixedSource replays a scripted sequence of values, cycling when exhausted.
// It exists so combat outcomes can be pinned in tests and replays.
//
// Invariant: len(values) >= 1.
type FixedSource struct {
	mu     sync.Mutex
	values []float64
	next   int
}

// NewFixedSource returns a Source that yields values in order, wrapping around.
//
// Precondition: at least one value; every value in [0, 1).
func NewFixedSource(values ...float64) *FixedSource {
	if len(values) == 0 {
		panic("dice: NewFixedSource requires at least one value")
	}
	return &FixedSource{values: append([]float64(nil), values...)}
}

// Float64 returns the next scripted value.
func (f *FixedSource) Float64() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	v := f.values[f.next%len(f.values)]
	f.next++
	return v
}

// Intn maps the next scripted value onto [0, n).
//
// Precondition: n > 0.
func (f *FixedSource) Intn(n int) int {
	if n <= 0 {
		panic("dice: Intn called with n <= 0")
	}
	v := int(f.Float64() * float64(n))
	if v >= n {
		v = n - 1
	}
	return v
}
