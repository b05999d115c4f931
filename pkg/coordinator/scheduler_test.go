package coordinator

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchedulerReplacesOutstandingTimer(t *testing.T) {
	s := newPollScheduler()
	var first, second int32

	s.Schedule("intent-1", 5*time.Millisecond, func() { atomic.AddInt32(&first, 1) })
	s.Schedule("intent-1", 5*time.Millisecond, func() { atomic.AddInt32(&second, 1) })

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&second) == 1
	}, time.Second, time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&first))
	assert.Equal(t, 0, s.Size())
}

func TestSchedulerCancelStopsTimer(t *testing.T) {
	s := newPollScheduler()
	var fired int32

	s.Schedule("intent-1", 10*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	s.Cancel("intent-1")

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
	assert.Equal(t, 0, s.Size())
}

func TestSchedulerTracksIndependentIntents(t *testing.T) {
	s := newPollScheduler()
	var fired int32

	s.Schedule("intent-1", 5*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	s.Schedule("intent-2", 5*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	assert.Equal(t, 2, s.Size())

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&fired) == 2
	}, time.Second, time.Millisecond)
	assert.Equal(t, 0, s.Size())
}

func TestSchedulerCancelAll(t *testing.T) {
	s := newPollScheduler()
	var fired int32

	s.Schedule("intent-1", 10*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	s.Schedule("intent-2", 10*time.Millisecond, func() { atomic.AddInt32(&fired, 1) })
	s.CancelAll()

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&fired))
	assert.Equal(t, 0, s.Size())
}
