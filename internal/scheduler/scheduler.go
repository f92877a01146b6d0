package scheduler

import (
	"container/heap"
	"sync"
	"time"

	"tg-groupwarden/internal/crash"
)

// Scheduler runs fire-once delayed tasks from a single goroutine owning
// a deadline-ordered queue, instead of one sleeping goroutine per task.
type Scheduler struct {
	mu      sync.Mutex
	tasks   taskHeap
	wake    chan struct{}
	done    chan struct{}
	stopped bool
	wg      sync.WaitGroup
}

type task struct {
	deadline time.Time
	run      func()
	index    int
}

type taskHeap []*task

func (h taskHeap) Len() int            { return len(h) }
func (h taskHeap) Less(i, j int) bool  { return h[i].deadline.Before(h[j].deadline) }
func (h taskHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *taskHeap) Push(x interface{}) { t := x.(*task); t.index = len(*h); *h = append(*h, t) }
func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

// New creates a running Scheduler
func New() *Scheduler {
	s := &Scheduler{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.loop()
	return s
}

// After schedules fn to run once after the given delay. Tasks scheduled
// after Stop are dropped.
func (s *Scheduler) After(delay time.Duration, fn func()) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	heap.Push(&s.tasks, &task{deadline: time.Now().Add(delay), run: fn})
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Stop shuts the scheduler down; pending tasks are discarded
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	close(s.done)
	s.wg.Wait()
}

func (s *Scheduler) loop() {
	defer s.wg.Done()

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		s.mu.Lock()
		var wait time.Duration
		if len(s.tasks) == 0 {
			wait = time.Hour
		} else {
			wait = time.Until(s.tasks[0].deadline)
		}
		s.mu.Unlock()

		if wait <= 0 {
			s.runDue()
			continue
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-s.done:
			return
		case <-s.wake:
		case <-timer.C:
			s.runDue()
		}
	}
}

func (s *Scheduler) runDue() {
	now := time.Now()
	for {
		s.mu.Lock()
		if len(s.tasks) == 0 || s.tasks[0].deadline.After(now) {
			s.mu.Unlock()
			return
		}
		t := heap.Pop(&s.tasks).(*task)
		s.mu.Unlock()

		// Run off the queue goroutine so a slow task cannot delay
		// other deadlines.
		crash.SafeGoroutine("scheduler-task", t.run)
	}
}
