package news

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vegaprotocol/ticker-service/internal/domain"
)

type fakeProposalLister struct {
	proposals []domain.Proposal
	err       error
}

func (f *fakeProposalLister) ListProposals(context.Context) ([]domain.Proposal, error) {
	return f.proposals, f.err
}

func TestProposalMonitor(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := fixedClock{now: now}

	newMonitor := func(proposals []domain.Proposal, err error) *ProposalMonitor {
		return NewProposalMonitor(&fakeProposalLister{proposals: proposals, err: err}, testURLs(), clock, discardLogger())
	}

	t.Run("freshly proposed", func(t *testing.T) {
		m := newMonitor([]domain.Proposal{{
			ID:          "p1",
			State:       domain.ProposalStateOpen,
			SubmittedAt: now.Add(-time.Hour),
			ClosingAt:   now.Add(48 * time.Hour),
			NewMarket:   true,
			MarketCode:  "BTC/USD",
		}}, nil)

		items, err := m.Produce(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "proposed", items[0].Subtype)
		assert.Equal(t, "Market proposed: BTC/USD", items[0].Message)
		assert.Equal(t, now.Add(-time.Hour), items[0].Timestamp)
		assert.Equal(t, "https://governance.test/governance/p1", items[0].URL)
	})

	t.Run("closing soon", func(t *testing.T) {
		m := newMonitor([]domain.Proposal{{
			ID:          "p2",
			State:       domain.ProposalStateOpen,
			SubmittedAt: now.Add(-48 * time.Hour),
			ClosingAt:   now.Add(time.Hour),
			NewMarket:   true,
			MarketCode:  "ETH/USD",
		}}, nil)

		items, err := m.Produce(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "closing", items[0].Subtype)
		assert.Equal(t, "Voting now! Closing soon: ETH/USD", items[0].Message)
		assert.Equal(t, now, items[0].Timestamp, "closing items are dated now")
	})

	t.Run("declined and failed report failed", func(t *testing.T) {
		for _, state := range []domain.ProposalState{domain.ProposalStateDeclined, domain.ProposalStateFailed} {
			m := newMonitor([]domain.Proposal{{
				ID:         "p3",
				State:      state,
				ClosingAt:  now.Add(-time.Hour),
				NewMarket:  true,
				MarketCode: "SOL/USD",
			}}, nil)

			items, err := m.Produce(context.Background())
			require.NoError(t, err)
			require.Len(t, items, 1)
			assert.Equal(t, "failed", items[0].Subtype)
			assert.Equal(t, now.Add(-time.Hour), items[0].Timestamp)
		}
	})

	t.Run("passed", func(t *testing.T) {
		m := newMonitor([]domain.Proposal{{
			ID:         "p4",
			State:      domain.ProposalStatePassed,
			ClosingAt:  now.Add(-time.Hour),
			NewMarket:  true,
			MarketCode: "DOT/USD",
		}}, nil)

		items, err := m.Produce(context.Background())
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "passed", items[0].Subtype)
		assert.Equal(t, "New market approved: DOT/USD", items[0].Message)
	})

	t.Run("non-market proposals skipped", func(t *testing.T) {
		m := newMonitor([]domain.Proposal{{
			ID:        "p5",
			State:     domain.ProposalStateOpen,
			NewMarket: false,
		}}, nil)

		items, err := m.Produce(context.Background())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("unrecognized state skipped", func(t *testing.T) {
		m := newMonitor([]domain.Proposal{{
			ID:         "p6",
			State:      domain.ProposalStateEnacted,
			NewMarket:  true,
			MarketCode: "ADA/USD",
		}}, nil)

		items, err := m.Produce(context.Background())
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("upstream failure propagates", func(t *testing.T) {
		m := newMonitor(nil, errors.New("boom"))

		_, err := m.Produce(context.Background())
		assert.Error(t, err)
	})
}
