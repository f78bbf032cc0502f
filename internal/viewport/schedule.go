package viewport

import "sync"

// Scheduler defers a callback to the next display refresh.
type Scheduler interface {
	Schedule(fn func())
}

// FrameScheduler is a Scheduler driven by the host's render loop: callbacks
// run on the next call to Tick. Callbacks scheduled while a tick is running
// are held until the following tick.
type FrameScheduler struct {
	mu    sync.Mutex
	queue []func()
}

// NewFrameScheduler creates an empty frame scheduler.
func NewFrameScheduler() *FrameScheduler {
	return &FrameScheduler{}
}

// Schedule queues fn for the next tick.
func (s *FrameScheduler) Schedule(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, fn)
}

// Tick runs every callback queued before the call and returns how many ran.
func (s *FrameScheduler) Tick() int {
	s.mu.Lock()
	queue := s.queue
	s.queue = nil
	s.mu.Unlock()

	for _, fn := range queue {
		fn()
	}
	return len(queue)
}

// Pending returns the number of callbacks waiting for the next tick.
func (s *FrameScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queue)
}
