package policy

import (
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
)

// Stale gate entries are swept every this many admissions, keeping the
// map bounded by recent traffic instead of every user ever seen.
const gateSweepEvery = 256

// RateGate drops commands from users firing faster than one per window.
// State lives in a lock-free map keyed by user id; the check-and-update
// is a single atomic compute so concurrent commands from one user cannot
// both pass.
type RateGate struct {
	window time.Duration
	last   *xsync.MapOf[int64, int64]
	now    func() time.Time
	calls  atomic.Uint64
}

// NewRateGate creates a gate with the given minimum spacing per user
func NewRateGate(window time.Duration) *RateGate {
	return &RateGate{
		window: window,
		last:   xsync.NewMapOf[int64, int64](),
		now:    time.Now,
	}
}

// Allow reports whether a command from the user may proceed, recording
// the attempt time when it does.
func (g *RateGate) Allow(userID int64) bool {
	now := g.now().UnixNano()
	allowed := false
	g.last.Compute(userID, func(prev int64, loaded bool) (int64, bool) {
		if !loaded || now-prev >= g.window.Nanoseconds() {
			allowed = true
			return now, false
		}
		return prev, false
	})

	if g.calls.Add(1)%gateSweepEvery == 0 {
		g.sweep(now)
	}
	return allowed
}

// sweep drops entries already outside the window. Such an entry would
// admit the user's next command anyway, so removing it changes nothing
// but the map size. The delete re-checks under the atomic compute so a
// concurrent admission is never thrown away.
func (g *RateGate) sweep(nowNanos int64) {
	g.last.Range(func(userID int64, last int64) bool {
		if nowNanos-last >= g.window.Nanoseconds() {
			g.last.Compute(userID, func(prev int64, loaded bool) (int64, bool) {
				return prev, loaded && nowNanos-prev >= g.window.Nanoseconds()
			})
		}
		return true
	})
}
