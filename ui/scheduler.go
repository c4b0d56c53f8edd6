package ui

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"
)

// Scheduler defers work onto the UI goroutine.
//
// All callbacks run on the goroutine that owns the Document. The returned
// cancel funcs must also be called from that goroutine; calling one after
// the callback already ran is a no-op.
type Scheduler interface {
	Now() time.Time
	// AfterFunc runs fn once d has elapsed.
	AfterFunc(d time.Duration, fn func()) (cancel func())
	// NextFrame runs fn after the next layout pass, before drawing.
	NextFrame(fn func()) (cancel func())
}

// frameQueue holds the callbacks waiting for the next frame.
type frameQueue struct {
	pending []*frameCall
}

type frameCall struct {
	fn        func()
	cancelled bool
}

func (q *frameQueue) push(fn func()) (cancel func()) {
	c := &frameCall{fn: fn}
	q.pending = append(q.pending, c)
	return func() { c.cancelled = true }
}

// run calls the callbacks queued so far. Callbacks queued while running
// wait for the following frame. It reports whether anything ran.
func (q *frameQueue) run() bool {
	calls := q.pending
	q.pending = nil
	ran := false
	for _, c := range calls {
		if c.cancelled {
			continue
		}
		c.cancelled = true
		c.fn()
		ran = true
	}
	return ran
}

func (q *frameQueue) empty() bool {
	for _, c := range q.pending {
		if !c.cancelled {
			return false
		}
	}
	return true
}

// loopScheduler marshals timers and frames onto the App loop through
// tcell interrupt events.
type loopScheduler struct {
	frames frameQueue

	mu      sync.Mutex
	screen  Screen
	backlog []tcell.Event // posted before the screen was attached
	wake    bool          // a frame wake-up is in flight
}

func (l *loopScheduler) Now() time.Time { return time.Now() }

func (l *loopScheduler) AfterFunc(d time.Duration, fn func()) func() {
	var cancelled atomic.Bool
	t := time.AfterFunc(d, func() {
		l.post(func() {
			if !cancelled.Load() {
				fn()
			}
		})
	})
	return func() {
		cancelled.Store(true)
		t.Stop()
	}
}

func (l *loopScheduler) NextFrame(fn func()) func() {
	cancel := l.frames.push(fn)
	l.mu.Lock()
	needWake := !l.wake
	l.wake = true
	l.mu.Unlock()
	if needWake {
		l.post(nil)
	}
	return cancel
}

// post wakes the loop and has it call fn. A nil fn only triggers a frame.
func (l *loopScheduler) post(fn func()) {
	ev := tcell.NewEventInterrupt(fn)
	l.mu.Lock()
	s := l.screen
	if s == nil {
		l.backlog = append(l.backlog, ev)
	}
	l.mu.Unlock()
	if s != nil {
		_ = s.PostEvent(ev)
	}
}

// attach starts delivering events to s, flushing anything posted earlier.
func (l *loopScheduler) attach(s Screen) {
	l.mu.Lock()
	l.screen = s
	backlog := l.backlog
	l.backlog = nil
	l.mu.Unlock()
	for _, ev := range backlog {
		_ = s.PostEvent(ev)
	}
}

// runFrames is called by the loop once the layout is current.
func (l *loopScheduler) runFrames() bool {
	l.mu.Lock()
	l.wake = false
	l.mu.Unlock()
	ran := l.frames.run()
	if !l.frames.empty() {
		l.mu.Lock()
		needWake := !l.wake
		l.wake = true
		l.mu.Unlock()
		if needWake {
			l.post(nil)
		}
	}
	return ran
}
