// Package clock provides the millisecond wall clock used to stamp
// fragments and to choose read-at timestamps.
package clock

import "time"

// Clock returns the current time as milliseconds since the Unix epoch.
//
// It exists as an interface so sessions and the consolidator can be
// driven by a fake clock in tests without sleeping to avoid
// timestamp collisions.
type Clock interface {
	NowMillis() int64
}

// System is the default Clock, backed by the OS wall clock.
type System struct{}

// NowMillis returns time.Now() in milliseconds since the Unix epoch.
func (System) NowMillis() int64 {
	return time.Now().UnixMilli()
}

// Default is the Clock used when no Clock option is supplied.
var Default Clock = System{}

// Fake is a Clock whose value changes only through Set and Advance,
// useful for deterministically reproducing same-millisecond fragment
// collisions in tests.
type Fake struct {
	millis int64
}

// NewFake creates a Fake clock starting at the given millisecond value.
func NewFake(start int64) *Fake {
	return &Fake{millis: start}
}

// NowMillis returns the current fake time.
func (f *Fake) NowMillis() int64 {
	return f.millis
}

// Set pins the fake clock to an explicit value.
func (f *Fake) Set(millis int64) {
	f.millis = millis
}

// Advance moves the fake clock forward by delta milliseconds and
// returns the new value.
func (f *Fake) Advance(delta int64) int64 {
	f.millis += delta
	return f.millis
}
