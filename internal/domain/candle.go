package domain

import "time"

// Interval is a candle bucket width supported by the node's candle API.
type Interval string

const (
	Interval1M  Interval = "INTERVAL_I1M"
	Interval5M  Interval = "INTERVAL_I5M"
	Interval15M Interval = "INTERVAL_I15M"
	Interval1H  Interval = "INTERVAL_I1H"
	Interval6H  Interval = "INTERVAL_I6H"
	Interval1D  Interval = "INTERVAL_I1D"
)

// intervals is ordered from finest to coarsest.
var intervals = []struct {
	interval Interval
	duration time.Duration
}{
	{Interval1M, time.Minute},
	{Interval5M, 5 * time.Minute},
	{Interval15M, 15 * time.Minute},
	{Interval1H, time.Hour},
	{Interval6H, 6 * time.Hour},
	{Interval1D, 24 * time.Hour},
}

// Duration returns the bucket width of the interval, or zero for an
// unknown interval value.
func (i Interval) Duration() time.Duration {
	for _, e := range intervals {
		if e.interval == i {
			return e.duration
		}
	}
	return 0
}

// Valid reports whether i is one of the supported intervals.
func (i Interval) Valid() bool {
	return i.Duration() != 0
}

// IntervalFor returns the coarsest interval whose bucket width does not
// exceed window. Windows shorter than one minute fall back to the one
// minute interval.
func IntervalFor(window time.Duration) Interval {
	chosen := Interval1M
	for _, e := range intervals {
		if e.duration <= window {
			chosen = e.interval
		}
	}
	return chosen
}

// Candle is one OHLCV bucket. Prices have already been scaled down by the
// market's decimal places; candles are never mutated after creation.
type Candle struct {
	Start  time.Time `json:"datetime"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume uint64    `json:"volume"`
}
