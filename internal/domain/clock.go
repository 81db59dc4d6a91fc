package domain

import "time"

// Clock supplies the current time. Components take a Clock instead of
// calling time.Now directly so refresh cycles and news classification are
// deterministic under test.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall-clock Clock used in production.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
