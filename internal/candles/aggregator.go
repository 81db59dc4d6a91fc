// Package candles fetches candle series from the node and folds them into
// coarser buckets and enriched price summaries.
package candles

import "github.com/vegaprotocol/ticker-service/internal/domain"

// Zip merges consecutive candles into coarser buckets of step input
// candles each; the final bucket may cover fewer. A step of zero or less
// folds the entire input into a single bucket. Each bucket takes its open
// from the first chunk member, its close and timestamp from the last, the
// max high, the min low, and the exact volume sum. Empty input yields an
// empty result.
func Zip(in []domain.Candle, step int) []domain.Candle {
	if len(in) == 0 {
		return nil
	}
	if step <= 0 {
		step = len(in)
	}

	out := make([]domain.Candle, 0, (len(in)+step-1)/step)
	for start := 0; start < len(in); start += step {
		chunk := in[start:min(start+step, len(in))]
		b := domain.Candle{
			Start: chunk[len(chunk)-1].Start,
			Open:  chunk[0].Open,
			Close: chunk[len(chunk)-1].Close,
			High:  chunk[0].High,
			Low:   chunk[0].Low,
		}
		for _, c := range chunk {
			if c.High > b.High {
				b.High = c.High
			}
			if c.Low < b.Low {
				b.Low = c.Low
			}
			b.Volume += c.Volume
		}
		out = append(out, b)
	}
	return out
}

// Enrich derives the fractional change and gainer/loser classification for
// one bucket. A zero open price makes the change undefined; the bucket is
// reported flat with a zero change instead of dividing by zero.
func Enrich(c domain.Candle) domain.PriceSummary {
	s := domain.PriceSummary{Candle: c, Action: domain.ActionNoChange}
	if c.Open == 0 {
		return s
	}
	s.Change = (c.Close - c.Open) / c.Open
	switch {
	case c.Close > c.Open:
		s.Action = domain.ActionGainer
	case c.Close < c.Open:
		s.Action = domain.ActionLoser
	}
	return s
}

// Closes returns the close prices of candles in order, oldest to newest.
func Closes(in []domain.Candle) []float64 {
	if len(in) == 0 {
		return nil
	}
	out := make([]float64, len(in))
	for i, c := range in {
		out[i] = c.Close
	}
	return out
}
