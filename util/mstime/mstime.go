// Package mstime wraps time.Time at millisecond precision, the resolution
// the node's wire protocol and mempool timestamps are defined at. Grounded
// on the teacher's util/mstime package (referenced throughout
// domain/mempool/mempool.go as mstime.Now/mstime.Time) — millisecond, not
// nanosecond, precision keeps timestamps stable across serialization
// round-trips.
package mstime

import "time"

// Time is a point in time truncated to millisecond precision.
type Time struct {
	inner time.Time
}

// Now returns the current time truncated to millisecond precision.
func Now() Time {
	return Time{inner: time.Now().Truncate(time.Millisecond)}
}

// UnixMilliseconds builds a Time from a Unix millisecond timestamp.
func UnixMilliseconds(ms int64) Time {
	return Time{inner: time.UnixMilli(ms)}
}

// UnixMilliseconds returns t as a Unix millisecond timestamp.
func (t Time) UnixMilliseconds() int64 {
	return t.inner.UnixMilli()
}

// Add returns t+d.
func (t Time) Add(d time.Duration) Time {
	return Time{inner: t.inner.Add(d)}
}

// After reports whether t is after other.
func (t Time) After(other Time) bool {
	return t.inner.After(other.inner)
}

// Before reports whether t is before other.
func (t Time) Before(other Time) bool {
	return t.inner.Before(other.inner)
}

// Sub returns the duration t-other.
func (t Time) Sub(other Time) time.Duration {
	return t.inner.Sub(other.inner)
}

// String formats t with second precision, RFC3339-like.
func (t Time) String() string {
	return t.inner.Format(time.RFC3339)
}
