package schedule

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const loopQueueSize = 64

// Loop is a real-time event loop. Posted functions and fired timers are
// funnelled through one channel and executed by Run.
type Loop struct {
	log   *zap.Logger
	tasks chan func()
	quit  chan struct{}
	once  sync.Once
}

// NewLoop returns a loop that is not running yet.
func NewLoop(log *zap.Logger) *Loop {
	return &Loop{
		log:   log,
		tasks: make(chan func(), loopQueueSize),
		quit:  make(chan struct{}),
	}
}

// Run executes tasks until ctx is cancelled or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	defer l.Stop()
	l.log.Debug("Event loop started")

	for {
		select {
		case <-ctx.Done():
			l.log.Debug("Event loop cancelled", zap.Error(ctx.Err()))
			return ctx.Err()
		case <-l.quit:
			l.log.Debug("Event loop stopped")
			return nil
		case task := <-l.tasks:
			task()
		}
	}
}

// Stop makes Run return after the task in progress. Safe to call more than
// once and from any goroutine.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.quit) })
}

// Post enqueues task. It returns false once the loop has stopped. It must
// not be called from a task when the queue may be full.
func (l *Loop) Post(task func()) bool {
	select {
	case <-l.quit:
		return false
	default:
	}

	select {
	case l.tasks <- task:
		return true
	case <-l.quit:
		return false
	}
}

// AfterFunc schedules f on the loop. It must be called from the loop
// goroutine, as must Stop on the returned timer.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	lt := &loopTimer{}
	lt.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			// The timer may have been stopped after time.Timer fired but
			// before this task was dequeued.
			if lt.done {
				return
			}
			lt.done = true
			f()
		})
	})
	return lt
}

type loopTimer struct {
	timer *time.Timer
	done  bool // only touched on the loop goroutine
}

func (t *loopTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.timer.Stop()
	return true
}
