// Package runtime is the cooperative task set: a goroutine per spec task,
// a Signal per spec single-slot latest-wins value, and a OneShot per spec
// close-once shutdown rendezvous. Ported in spirit from
// original_source/firmware/src/{key_matrix,i2c}.rs's embassy_sync::signal
// usage, generalized from embassy's single-threaded executor to Go's
// scheduler.
package runtime

import "sync"

// Signal is a single-slot, latest-wins value shared between a producer
// and a consumer goroutine. Unlike a channel, Set never blocks and TryTake
// never loses a concurrently-arriving value: it is a mutex-guarded cell,
// not a queue.
type Signal[T any] struct {
	mu      sync.Mutex
	value   T
	latched T
	fresh   bool
}

// NewSignal returns a Signal with its latched value initialized to zero.
func NewSignal[T any]() *Signal[T] {
	return &Signal[T]{}
}

// Set stores v as the latest value, overwriting any value not yet taken.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.latched = v
	s.fresh = true
	s.mu.Unlock()
}

// TryTake returns the latest unconsumed value and true, or the zero value
// and false if nothing new has been Set since the last TryTake.
func (s *Signal[T]) TryTake() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fresh {
		var zero T
		return zero, false
	}
	s.fresh = false
	return s.value, true
}

// Latched returns the last value ever Set, regardless of whether it has
// already been taken (spec §4.5 step 1's "keep the previous value on a
// quiet tick" behavior).
func (s *Signal[T]) Latched() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latched
}

// OneShot is a close-once shutdown rendezvous: any number of goroutines
// may call Signal, only the first has effect, and any number may wait on
// Done.
type OneShot struct {
	once sync.Once
	done chan struct{}
}

// NewOneShot returns a ready-to-use OneShot.
func NewOneShot() *OneShot {
	return &OneShot{done: make(chan struct{})}
}

// Signal closes Done exactly once, idempotently.
func (o *OneShot) Signal() {
	o.once.Do(func() { close(o.done) })
}

// Done returns a channel closed once Signal has been called.
func (o *OneShot) Done() <-chan struct{} {
	return o.done
}
