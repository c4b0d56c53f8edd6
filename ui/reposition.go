package ui

import (
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// DefaultRepositionInterval is the minimum time between two placement
// passes triggered by resize or scroll.
const DefaultRepositionInterval = 100 * time.Millisecond

type resizeObserver interface {
	ObserveResize(e Element, fn func()) (off func())
}

type scrollObserver interface {
	OnScroll(fn func(Element)) (off func())
}

// repositioner re-runs a placement pass when the geometry it depends on
// changes. Triggers are throttled on the leading edge: the first trigger
// runs, later ones inside the interval are dropped.
type repositioner struct {
	host     any
	sched    Scheduler
	logger   *log.Logger
	limiter  *rate.Limiter
	pass     func()
	offs     []func()
	cancel   func() // pending frame
	stopped  bool
	watching bool
}

func newRepositioner(host any, sched Scheduler, interval time.Duration, logger *log.Logger, pass func()) *repositioner {
	if interval <= 0 {
		interval = DefaultRepositionInterval
	}
	return &repositioner{
		host:    host,
		sched:   sched,
		logger:  logger,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		pass:    pass,
	}
}

// watch subscribes to size changes of elems and to scrolling of any
// element for which inScope returns true.
func (r *repositioner) watch(elems []Element, inScope func(Element) bool) {
	r.stopped = false
	if r.watching {
		return
	}
	r.watching = true

	if ro, ok := r.host.(resizeObserver); ok {
		for _, e := range elems {
			if e != nil {
				r.offs = append(r.offs, ro.ObserveResize(e, r.trigger))
			}
		}
	} else {
		r.logger.Debug("resize observation unavailable, overlay will not follow size changes")
	}

	if so, ok := r.host.(scrollObserver); ok {
		r.offs = append(r.offs, so.OnScroll(func(e Element) {
			if inScope == nil || inScope(e) {
				r.trigger()
			}
		}))
	} else {
		r.logger.Debug("scroll observation unavailable, overlay will not follow scrolling")
	}
}

// trigger requests a placement pass, subject to throttling.
func (r *repositioner) trigger() {
	if r.stopped || r.cancel != nil {
		return
	}
	if !r.limiter.AllowN(r.sched.Now(), 1) {
		return
	}
	r.cancel = r.sched.NextFrame(func() {
		r.cancel = nil
		if r.stopped {
			return
		}
		r.pass()
	})
}

// stop drops every subscription and any pending pass.
func (r *repositioner) stop() {
	r.stopped = true
	r.watching = false
	for _, off := range r.offs {
		off()
	}
	r.offs = nil
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
