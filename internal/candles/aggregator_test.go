package candles

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

func makeCandle(start time.Time, open, close float64, volume uint64) domain.Candle {
	high := open
	if close > high {
		high = close
	}
	low := open
	if close < low {
		low = close
	}
	return domain.Candle{
		Start:  start,
		Open:   open,
		High:   high,
		Low:    low,
		Close:  close,
		Volume: volume,
	}
}

func TestZip(t *testing.T) {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	in := []domain.Candle{
		makeCandle(base, 100, 110, 10),
		makeCandle(base.Add(time.Minute), 110, 105, 20),
		makeCandle(base.Add(2*time.Minute), 105, 120, 30),
	}

	t.Run("empty input", func(t *testing.T) {
		assert.Nil(t, Zip(nil, 2))
		assert.Nil(t, Zip([]domain.Candle{}, 2))
	})

	t.Run("step one is identity", func(t *testing.T) {
		out := Zip(in, 1)
		assert.Equal(t, in, out)
	})

	t.Run("zero step folds everything", func(t *testing.T) {
		out := Zip(in, 0)
		require.Len(t, out, 1)

		b := out[0]
		assert.Equal(t, base.Add(2*time.Minute), b.Start, "bucket keeps last chunk member's start")
		assert.Equal(t, 100.0, b.Open, "open from first chunk member")
		assert.Equal(t, 120.0, b.Close, "close from last chunk member")
		assert.Equal(t, 120.0, b.High)
		assert.Equal(t, 100.0, b.Low)
		assert.Equal(t, uint64(60), b.Volume, "volume is the exact sum")
	})

	t.Run("uneven final bucket", func(t *testing.T) {
		out := Zip(in, 2)
		require.Len(t, out, 2)

		assert.Equal(t, 100.0, out[0].Open)
		assert.Equal(t, 105.0, out[0].Close)
		assert.Equal(t, uint64(30), out[0].Volume)

		assert.Equal(t, 105.0, out[1].Open)
		assert.Equal(t, 120.0, out[1].Close)
		assert.Equal(t, uint64(30), out[1].Volume)
	})

	t.Run("does not mutate input", func(t *testing.T) {
		before := make([]domain.Candle, len(in))
		copy(before, in)
		Zip(in, 2)
		assert.Equal(t, before, in)
	})
}

func TestEnrich(t *testing.T) {
	tests := []struct {
		name       string
		open       float64
		close      float64
		wantChange float64
		wantAction domain.PriceAction
	}{
		{name: "gainer", open: 100, close: 120, wantChange: 0.20, wantAction: domain.ActionGainer},
		{name: "loser", open: 100, close: 90, wantChange: -0.10, wantAction: domain.ActionLoser},
		{name: "flat", open: 100, close: 100, wantChange: 0, wantAction: domain.ActionNoChange},
		{name: "zero open reported flat", open: 0, close: 120, wantChange: 0, wantAction: domain.ActionNoChange},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Enrich(domain.Candle{Open: tt.open, Close: tt.close})
			assert.InDelta(t, tt.wantChange, s.Change, 1e-9)
			assert.Equal(t, tt.wantAction, s.Action)
		})
	}
}

func TestEnrichZippedSeries(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	in := []domain.Candle{
		makeCandle(base, 100, 110, 1),
		makeCandle(base.Add(time.Hour), 110, 105, 1),
		makeCandle(base.Add(2*time.Hour), 105, 120, 1),
	}

	buckets := Zip(in, 0)
	require.Len(t, buckets, 1)

	s := Enrich(buckets[0])
	assert.InDelta(t, 0.20, s.Change, 1e-9)
	assert.Equal(t, domain.ActionGainer, s.Action)
}

func TestCloses(t *testing.T) {
	assert.Nil(t, Closes(nil))

	base := time.Now()
	in := []domain.Candle{
		makeCandle(base, 1, 2, 0),
		makeCandle(base.Add(time.Minute), 2, 3, 0),
	}
	assert.Equal(t, []float64{2, 3}, Closes(in))
}
