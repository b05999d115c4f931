package coordinator

import (
	"sync"
	"time"

	"github.com/syndicate-hq/coordinator/pkg/metrics"
)

// pollScheduler owns the bridge poll timers, keyed by intent ID. Scheduling a
// poll for an intent that already has one replaces the outstanding timer, so
// there is never more than one pending poll per intent.
type pollScheduler struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newPollScheduler() *pollScheduler {
	return &pollScheduler{
		timers: make(map[string]*time.Timer),
	}
}

// Schedule arms a timer for the intent, cancelling any outstanding one
func (s *pollScheduler) Schedule(intentID string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[intentID]; ok {
		t.Stop()
	}

	var t *time.Timer
	t = time.AfterFunc(delay, func() {
		s.mu.Lock()
		// A replaced timer can still fire; only the current one runs
		if s.timers[intentID] != t {
			s.mu.Unlock()
			return
		}
		delete(s.timers, intentID)
		metrics.PollSchedulerSize.Set(float64(len(s.timers)))
		s.mu.Unlock()

		fn()
	})

	s.timers[intentID] = t
	metrics.PollSchedulerSize.Set(float64(len(s.timers)))
}

// Cancel stops the intent's outstanding timer if one exists
func (s *pollScheduler) Cancel(intentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.timers[intentID]; ok {
		t.Stop()
		delete(s.timers, intentID)
		metrics.PollSchedulerSize.Set(float64(len(s.timers)))
	}
}

// CancelAll stops every outstanding timer
func (s *pollScheduler) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, t := range s.timers {
		t.Stop()
		delete(s.timers, id)
	}
	metrics.PollSchedulerSize.Set(0)
}

// Size returns the number of outstanding timers
func (s *pollScheduler) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
