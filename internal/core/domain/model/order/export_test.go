package order

import "time"

// SetClock replaces the package clock until the returned restore func is called.
func SetClock(now func() time.Time) (restore func()) {
	prev := clock
	clock = now
	return func() { clock = prev }
}
