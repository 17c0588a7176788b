package sensor

import "sync/atomic"

// Latest holds the most recent sample delivered by a Source. Writers
// overwrite, readers see only the newest value; nothing is queued.
type Latest struct {
	cur      atomic.Pointer[RawSample]
	arrivals atomic.Uint64
}

// NewLatest creates an empty slot.
func NewLatest() *Latest {
	return &Latest{}
}

// Put stores s as the newest sample and stamps its arrival number.
// Safe to call from any goroutine. Put has the Sink signature.
func (l *Latest) Put(s RawSample) {
	s.Seq = l.arrivals.Add(1)
	s.Values = append([]float64(nil), s.Values...)
	l.cur.Store(&s)
}

// Load returns the newest sample, or false if nothing has arrived yet.
func (l *Latest) Load() (RawSample, bool) {
	p := l.cur.Load()
	if p == nil {
		return RawSample{}, false
	}
	return *p, true
}

// Arrivals returns the number of samples received so far.
func (l *Latest) Arrivals() uint64 {
	return l.arrivals.Load()
}

// Reset forgets the current sample. The arrival counter keeps counting.
func (l *Latest) Reset() {
	l.cur.Store(nil)
}
