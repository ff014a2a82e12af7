package timeblock

import "time"

// BlockStart floors t to the start of the current half-hour window
// (:00 or :30, UTC), with seconds and below zeroed.
func BlockStart(t time.Time) time.Time {
	u := t.UTC()
	min := 0
	if u.Minute() >= 30 {
		min = 30
	}
	return time.Date(u.Year(), u.Month(), u.Day(), u.Hour(), min, 0, 0, time.UTC)
}

// SecondsToNextBlock returns whole seconds until the next half-hour boundary.
// At an exact boundary the window just opened, so it returns a full 1800.
func SecondsToNextBlock(t time.Time) int {
	next := BlockStart(t).Add(30 * time.Minute)
	d := next.Sub(t.UTC())
	if d < 0 {
		return 0
	}
	return int(d / time.Second)
}
