package health

import (
	"context"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/go-faster/errors"
)

// GoroutineCountCheck flags goroutine leaks: it fails once the live
// goroutine count passes limit.
func GoroutineCountCheck(limit int) CheckFunc {
	return func(context.Context) error {
		n := runtime.NumGoroutine()
		if n <= limit {
			return nil
		}
		return errors.Errorf("goroutine count %d exceeds threshold %d", n, limit)
	}
}

// GCMaxPauseCheck flags memory pressure: it fails when any recorded GC
// pause was longer than limit.
func GCMaxPauseCheck(limit time.Duration) CheckFunc {
	return func(context.Context) error {
		var stats debug.GCStats
		debug.ReadGCStats(&stats)

		for _, pause := range stats.Pause {
			if pause > limit {
				return errors.Errorf("GC pause %s exceeds threshold %s", pause, limit)
			}
		}
		return nil
	}
}
