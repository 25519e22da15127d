package channel

// Window is a fixed-length history of the most recent values for one channel,
// used for scrolling display. It is owned exclusively by the consumer side and
// needs no locking. The scroll pointer starts at -N so the first sample lands
// at global position -N+1; plot sinks use it to place the window's rightmost
// element on an absolute sample axis.
type Window struct {
	values []float64
	ptr    int
}

func NewWindow(size int) *Window {
	return &Window{
		values: make([]float64, size),
		ptr:    -size,
	}
}

// Push drops the oldest value, appends v at the last index, advances the
// scroll pointer and returns its new value.
func (w *Window) Push(v float64) int {
	copy(w.values, w.values[1:])
	w.values[len(w.values)-1] = v
	w.ptr++
	return w.ptr
}

// Values returns the window contents, oldest first. The slice is the backing
// array; callers must not mutate or retain it across pushes.
func (w *Window) Values() []float64 {
	return w.values
}

// Position returns the absolute position of the window's rightmost element.
func (w *Window) Position() int {
	return w.ptr
}

// Size returns the fixed window length.
func (w *Window) Size() int {
	return len(w.values)
}
