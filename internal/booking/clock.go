package booking

import "time"

// Clock abstracts wall-clock time so that expiry decisions can be
// tested against a fixed instant.  All times flowing through the
// booking package are naive UTC.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current time in UTC.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
