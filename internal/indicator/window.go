// Package indicator provides bounded rolling windows and the moving statistics strategies derive from them.
package indicator

import (
	"errors"
	"math"
)

// ErrInsufficientData reports that a window does not yet hold enough samples for a derived value.
var ErrInsufficientData = errors.New("insufficient data")

// Window is a fixed-capacity FIFO buffer of samples. Oldest entries are evicted on overflow.
// A Window is not safe for concurrent use; each strategy owns its windows exclusively.
type Window struct {
	buf   []float64
	head  int // index of the oldest entry
	count int
}

// NewWindow allocates a window holding at most capacity samples (minimum 1).
func NewWindow(capacity int) *Window {
	if capacity < 1 {
		capacity = 1
	}
	return &Window{buf: make([]float64, capacity)}
}

// Push appends v, evicting the oldest sample when the window is full.
func (w *Window) Push(v float64) {
	if w.count < len(w.buf) {
		w.buf[(w.head+w.count)%len(w.buf)] = v
		w.count++
		return
	}
	w.buf[w.head] = v
	w.head = (w.head + 1) % len(w.buf)
}

// Len returns the number of samples currently held.
func (w *Window) Len() int { return w.count }

// Cap returns the window capacity.
func (w *Window) Cap() int { return len(w.buf) }

// Ready reports whether the window holds at least min samples.
func (w *Window) Ready(min int) bool { return w.count >= min }

// Full reports whether the window is at capacity.
func (w *Window) Full() bool { return w.count == len(w.buf) }

// Values returns a copy of the samples in push order (oldest first).
func (w *Window) Values() []float64 {
	out := make([]float64, w.count)
	for i := 0; i < w.count; i++ {
		out[i] = w.buf[(w.head+i)%len(w.buf)]
	}
	return out
}

// Ago returns the sample n positions before the newest (0 is the newest).
func (w *Window) Ago(n int) (float64, bool) {
	if n < 0 || n >= w.count {
		return 0, false
	}
	return w.buf[(w.head+w.count-1-n)%len(w.buf)], true
}

// Last returns the newest sample.
func (w *Window) Last() (float64, bool) { return w.Ago(0) }

// Mean returns the arithmetic mean of the held samples.
func (w *Window) Mean() (float64, bool) {
	if w.count == 0 {
		return 0, false
	}
	sum := 0.0
	for i := 0; i < w.count; i++ {
		sum += w.buf[(w.head+i)%len(w.buf)]
	}
	return sum / float64(w.count), true
}

// Min returns the smallest held sample.
func (w *Window) Min() (float64, bool) {
	if w.count == 0 {
		return 0, false
	}
	lo := math.Inf(1)
	for i := 0; i < w.count; i++ {
		lo = math.Min(lo, w.buf[(w.head+i)%len(w.buf)])
	}
	return lo, true
}

// Max returns the largest held sample.
func (w *Window) Max() (float64, bool) {
	if w.count == 0 {
		return 0, false
	}
	hi := math.Inf(-1)
	for i := 0; i < w.count; i++ {
		hi = math.Max(hi, w.buf[(w.head+i)%len(w.buf)])
	}
	return hi, true
}

// StdDev returns the population standard deviation (divides by N).
func (w *Window) StdDev() (float64, bool) {
	mean, ok := w.Mean()
	if !ok {
		return 0, false
	}
	variance := 0.0
	for i := 0; i < w.count; i++ {
		d := w.buf[(w.head+i)%len(w.buf)] - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(w.count)), true
}

// RateOfChange returns (newest - sample n ago) / sample n ago.
func (w *Window) RateOfChange(n int) (float64, bool) {
	if n <= 0 {
		return 0, false
	}
	latest, ok := w.Last()
	if !ok {
		return 0, false
	}
	past, ok := w.Ago(n)
	if !ok || past == 0 {
		return 0, false
	}
	return (latest - past) / past, true
}
