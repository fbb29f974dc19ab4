// internal/worker/runner.go
package worker

import (
	"context"
	"time"

	"github.com/pvtools/pet7018z-go/internal/bus"
)

// idlePoll is how often the continuous loop rechecks the running flag.
const idlePoll = time.Second

// RunContinuous sweeps repeatedly while continuous mode is on, pausing the
// configured delay between sweeps. One goroutine. A sweep failure reports
// to the measurement log and halts continuous mode rather than spamming a
// dead instrument.
func (w *Worker) RunContinuous(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		run := w.run.Load()
		if !w.running.Load() || run == nil {
			if !sleepCtx(ctx, idlePoll) {
				return
			}
			continue
		}

		if err := w.single(); err != nil {
			w.running.Store(false)
			w.logToBus(bus.LevelError, "Continuous measurement failed! "+err.Error())
			continue
		}
		if !sleepCtx(ctx, run.DAQ.Delay()) {
			return
		}
	}
}

// sleepCtx sleeps d unless ctx ends first; it reports whether the full
// sleep elapsed.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
