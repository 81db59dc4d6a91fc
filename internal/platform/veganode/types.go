package veganode

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// flexInt unmarshals from a JSON number or a numeric string; the node emits
// integer fields such as decimalPlaces both ways depending on version.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexInt(n)
	return nil
}

// nanoTime converts a nanosecond timestamp string to a time.Time. Missing,
// malformed, and zero values all map to the zero time.
func nanoTime(s string) time.Time {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n)
}

// unixTime converts a Unix-seconds timestamp string to a time.Time.
// Governance terms carry seconds, unlike every other timestamp on the API.
func unixTime(s string) time.Time {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n == 0 {
		return time.Time{}
	}
	return time.Unix(n, 0)
}

// scalePrice converts a fixed-point decimal string scaled by 10^decimals
// into a plain decimal price.
func scalePrice(s string, decimals int) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", s, err)
	}
	f, _ := d.Shift(int32(-decimals)).Float64()
	return f, nil
}

// --------------------------------------------------------------------------
// Markets API DTOs
// --------------------------------------------------------------------------

type marketsResponse struct {
	Markets struct {
		Edges []struct {
			Node APIMarket `json:"node"`
		} `json:"edges"`
	} `json:"markets"`
}

// APIMarket represents a market as returned by the node's markets endpoint.
type APIMarket struct {
	ID                 string  `json:"id"`
	DecimalPlaces      flexInt `json:"decimalPlaces"`
	State              string  `json:"state"`
	TradableInstrument struct {
		Instrument struct {
			Code string `json:"code"`
			Name string `json:"name"`
		} `json:"instrument"`
	} `json:"tradableInstrument"`
	MarketTimestamps struct {
		Proposed string `json:"proposed"`
		Pending  string `json:"pending"`
		Open     string `json:"open"`
		Close    string `json:"close"`
	} `json:"marketTimestamps"`
}

// ToDomain converts an APIMarket to a domain.Market. It errors on records
// missing an ID so a single malformed entry can be skipped upstream.
func (m *APIMarket) ToDomain() (domain.Market, error) {
	if m.ID == "" {
		return domain.Market{}, fmt.Errorf("market record without id")
	}
	return domain.Market{
		ID:            m.ID,
		Code:          m.TradableInstrument.Instrument.Code,
		Name:          m.TradableInstrument.Instrument.Name,
		State:         domain.MarketState(m.State),
		DecimalPlaces: int(m.DecimalPlaces),
		PendingAt:     nanoTime(m.MarketTimestamps.Pending),
		OpenAt:        nanoTime(m.MarketTimestamps.Open),
		CloseAt:       nanoTime(m.MarketTimestamps.Close),
	}, nil
}

// --------------------------------------------------------------------------
// Market data API DTOs
// --------------------------------------------------------------------------

type marketsDataResponse struct {
	MarketsData []APIMarketData `json:"marketsData"`
}

// APIMarketData represents the live trading state of one market.
type APIMarketData struct {
	Market       string `json:"market"`
	MarkPrice    string `json:"markPrice"`
	AuctionStart string `json:"auctionStart"`
	Trigger      string `json:"trigger"`
}

// ToDomain converts an APIMarketData to a domain.MarketData. decimals is
// the owning market's decimal places, used to scale the mark price.
func (d *APIMarketData) ToDomain(decimals int) (domain.MarketData, error) {
	if d.Market == "" {
		return domain.MarketData{}, fmt.Errorf("market data record without market id")
	}
	md := domain.MarketData{
		MarketID:     d.Market,
		AuctionStart: nanoTime(d.AuctionStart),
		Trigger:      domain.AuctionTrigger(d.Trigger),
	}
	if d.MarkPrice != "" {
		p, err := scalePrice(d.MarkPrice, decimals)
		if err != nil {
			return domain.MarketData{}, err
		}
		md.MarkPrice = p
	}
	return md, nil
}

// --------------------------------------------------------------------------
// Candle API DTOs
// --------------------------------------------------------------------------

type candlesResponse struct {
	Candles struct {
		Edges []struct {
			Node APICandle `json:"node"`
		} `json:"edges"`
	} `json:"candles"`
}

// APICandle represents one OHLCV bucket on the wire. All prices are
// fixed-point strings scaled by the market's decimal places.
type APICandle struct {
	Start  string `json:"start"`
	Open   string `json:"open"`
	High   string `json:"high"`
	Low    string `json:"low"`
	Close  string `json:"close"`
	Volume string `json:"volume"`
}

// ToDomain converts an APICandle to a domain.Candle, scaling prices down
// by decimals. Volume is a plain integer and is not scaled.
func (c *APICandle) ToDomain(decimals int) (domain.Candle, error) {
	var (
		out domain.Candle
		err error
	)
	out.Start = nanoTime(c.Start)
	if out.Open, err = scalePrice(c.Open, decimals); err != nil {
		return domain.Candle{}, err
	}
	if out.High, err = scalePrice(c.High, decimals); err != nil {
		return domain.Candle{}, err
	}
	if out.Low, err = scalePrice(c.Low, decimals); err != nil {
		return domain.Candle{}, err
	}
	if out.Close, err = scalePrice(c.Close, decimals); err != nil {
		return domain.Candle{}, err
	}
	if c.Volume != "" {
		v, err := strconv.ParseUint(c.Volume, 10, 64)
		if err != nil {
			return domain.Candle{}, fmt.Errorf("parse volume %q: %w", c.Volume, err)
		}
		out.Volume = v
	}
	return out, nil
}

// --------------------------------------------------------------------------
// Governance API DTOs
// --------------------------------------------------------------------------

type proposalsResponse struct {
	Data []APIProposalEnvelope `json:"data"`
}

// APIProposalEnvelope wraps a proposal with its vote tallies; only the
// proposal itself is used here.
type APIProposalEnvelope struct {
	Proposal APIProposal `json:"proposal"`
}

// APIProposal represents a governance proposal. The top-level timestamp is
// nanoseconds; the terms timestamps are Unix seconds.
type APIProposal struct {
	ID        string `json:"id"`
	State     string `json:"state"`
	Timestamp string `json:"timestamp"`
	Terms     struct {
		ClosingTimestamp   string `json:"closingTimestamp"`
		EnactmentTimestamp string `json:"enactmentTimestamp"`
		NewMarket          *struct {
			Changes struct {
				Instrument struct {
					Code string `json:"code"`
				} `json:"instrument"`
			} `json:"changes"`
		} `json:"newMarket"`
	} `json:"terms"`
}

// ToDomain converts an APIProposal to a domain.Proposal.
func (p *APIProposal) ToDomain() (domain.Proposal, error) {
	if p.ID == "" {
		return domain.Proposal{}, fmt.Errorf("proposal record without id")
	}
	out := domain.Proposal{
		ID:          p.ID,
		State:       domain.ProposalState(p.State),
		SubmittedAt: nanoTime(p.Timestamp),
		ClosingAt:   unixTime(p.Terms.ClosingTimestamp),
		EnactmentAt: unixTime(p.Terms.EnactmentTimestamp),
	}
	if p.Terms.NewMarket != nil {
		out.NewMarket = true
		out.MarketCode = p.Terms.NewMarket.Changes.Instrument.Code
	}
	return out, nil
}

// --------------------------------------------------------------------------
// Statistics API DTOs
// --------------------------------------------------------------------------

type statisticsResponse struct {
	Statistics json.RawMessage `json:"statistics"`
}
