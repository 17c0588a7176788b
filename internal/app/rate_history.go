package app

// RateRing is a circular buffer of per-interval arrival counts.
type RateRing struct {
	buf   []float64
	pos   int
	count int
}

// NewRateRing creates a new circular buffer with the given capacity.
func NewRateRing(capacity int) *RateRing {
	if capacity < 1 {
		capacity = 1
	}
	return &RateRing{
		buf: make([]float64, capacity),
	}
}

// Push adds a value to the ring buffer.
func (r *RateRing) Push(val float64) {
	r.buf[r.pos] = val
	r.pos = (r.pos + 1) % len(r.buf)
	if r.count < len(r.buf) {
		r.count++
	}
}

// Values returns all stored values in chronological order.
func (r *RateRing) Values() []float64 {
	if r.count == 0 {
		return nil
	}
	result := make([]float64, r.count)
	if r.count < len(r.buf) {
		copy(result, r.buf[:r.count])
	} else {
		start := r.pos
		n := copy(result, r.buf[start:])
		copy(result[n:], r.buf[:start])
	}
	return result
}

// Last returns the most recent value, or 0 if empty.
func (r *RateRing) Last() float64 {
	if r.count == 0 {
		return 0
	}
	idx := (r.pos - 1 + len(r.buf)) % len(r.buf)
	return r.buf[idx]
}

// Reset drops all values.
func (r *RateRing) Reset() {
	r.pos, r.count = 0, 0
}

// Len returns the number of stored values.
func (r *RateRing) Len() int {
	return r.count
}

// MeanLast averages the n most recent values.
func (r *RateRing) MeanLast(n int) float64 {
	vals := r.Values()
	if len(vals) == 0 || n <= 0 {
		return 0
	}
	if n < len(vals) {
		vals = vals[len(vals)-n:]
	}
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}
