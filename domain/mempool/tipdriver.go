package mempool

import (
	"context"
	"time"
)

// tipDriver implements spec.md §4.7: a periodic worker that picks up
// whatever root OnNewTip last recorded and triggers a priority-map rebuild
// against it. Grounded on the teacher's blockdag notification goroutines
// (a single-slot "latest known state" read on a timer, rather than an
// unbounded work queue).
type tipDriver struct {
	mp     *MemPool
	period time.Duration
}

func (d *tipDriver) tick() {
	d.mp.tickleHashMu.Lock()
	pending := d.mp.tickleHash
	d.mp.tickleHash = nil
	d.mp.tickleHashMu.Unlock()

	if pending == nil {
		return
	}
	driverLog.Debugf("tip driver rebuilding priority map at root %s", pending)
	d.mp.RebuildPriorityMap(*pending)
}

// runDriver runs tick every period, recovering from any panic inside a
// single pass rather than letting it take the process down, per spec.md §7
// ("background drivers swallow per-pass exceptions"). Grounded on the
// teacher's util/panics.GoroutineWrapperFunc.
func runDriver(ctx context.Context, name string, period time.Duration, tick func()) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			driverLog.Debugf("%s driver stopping", name)
			return
		case <-ticker.C:
			runTickSafely(name, tick)
		}
	}
}

func runTickSafely(name string, tick func()) {
	defer func() {
		if r := recover(); r != nil {
			driverLog.Errorf("%s driver pass panicked: %v", name, r)
		}
	}()
	tick()
}
