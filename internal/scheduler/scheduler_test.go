package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAfterFiresOnce(t *testing.T) {
	s := New()
	defer s.Stop()

	var fired atomic.Int32
	s.After(20*time.Millisecond, func() { fired.Add(1) })

	assert.Eventually(t, func() bool { return fired.Load() == 1 },
		time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.EqualValues(t, 1, fired.Load())
}

func TestEarlierDeadlineFiresFirst(t *testing.T) {
	s := New()
	defer s.Stop()

	order := make(chan string, 2)
	s.After(80*time.Millisecond, func() { order <- "late" })
	s.After(20*time.Millisecond, func() { order <- "early" })

	assert.Equal(t, "early", <-order)
	assert.Equal(t, "late", <-order)
}

func TestManyTimersShareOneQueue(t *testing.T) {
	s := New()
	defer s.Stop()

	var fired atomic.Int32
	for i := 0; i < 100; i++ {
		s.After(time.Duration(i%10)*time.Millisecond, func() { fired.Add(1) })
	}

	assert.Eventually(t, func() bool { return fired.Load() == 100 },
		2*time.Second, 5*time.Millisecond)
}

func TestStopDropsPendingTasks(t *testing.T) {
	s := New()

	var fired atomic.Int32
	s.After(time.Hour, func() { fired.Add(1) })
	s.Stop()

	// Scheduling after Stop is a no-op, not a panic
	s.After(time.Millisecond, func() { fired.Add(1) })

	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, fired.Load())
}

func TestSlowTaskDoesNotBlockOthers(t *testing.T) {
	s := New()
	defer s.Stop()

	var fastDone atomic.Bool
	s.After(5*time.Millisecond, func() { time.Sleep(500 * time.Millisecond) })
	s.After(10*time.Millisecond, func() { fastDone.Store(true) })

	assert.Eventually(t, func() bool { return fastDone.Load() },
		200*time.Millisecond, 5*time.Millisecond)
}
