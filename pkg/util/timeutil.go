package util

import "time"

// NowFunc is injected where handlers compare against the current time.
type NowFunc func() time.Time

// NowUTC exposes time.Now for deterministic testing.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// OrNow returns fn, or NowUTC when fn is nil.
func OrNow(fn NowFunc) NowFunc {
	if fn == nil {
		return NowUTC
	}
	return fn
}
