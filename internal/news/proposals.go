package news

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vegaprotocol/ticker-service/internal/consoleurl"
	"github.com/vegaprotocol/ticker-service/internal/domain"
)

// proposalLister is what the proposal monitor needs from the node client.
type proposalLister interface {
	ListProposals(ctx context.Context) ([]domain.Proposal, error)
}

// ProposalMonitor reports the lifecycle of new-market governance
// proposals: freshly proposed, closing soon, failed, or passed. Proposals
// that are not about a new market, or whose state is not recognized, are
// skipped; other governance actions are a known limitation of the feed.
type ProposalMonitor struct {
	api    proposalLister
	urls   *consoleurl.Builder
	clock  domain.Clock
	logger *slog.Logger
}

// NewProposalMonitor creates a ProposalMonitor.
func NewProposalMonitor(api proposalLister, urls *consoleurl.Builder, clock domain.Clock, logger *slog.Logger) *ProposalMonitor {
	return &ProposalMonitor{
		api:    api,
		urls:   urls,
		clock:  clock,
		logger: logger.With(slog.String("producer", "proposal_monitor")),
	}
}

func (m *ProposalMonitor) Name() string { return "proposal_monitor" }

// Produce emits at most one item per new-market proposal.
func (m *ProposalMonitor) Produce(ctx context.Context) ([]domain.NewsItem, error) {
	proposals, err := m.api.ListProposals(ctx)
	if err != nil {
		return nil, fmt.Errorf("proposal monitor: %w", err)
	}

	var (
		items   []domain.NewsItem
		skipped int
	)
	for _, p := range proposals {
		if !p.NewMarket {
			skipped++
			continue
		}
		item, ok := m.classify(p)
		if ok {
			items = append(items, item)
		} else {
			skipped++
		}
	}

	m.logger.DebugContext(ctx, "produced proposal news",
		slog.Int("count", len(items)),
		slog.Int("skipped", skipped),
	)
	return items, nil
}

func (m *ProposalMonitor) classify(p domain.Proposal) (domain.NewsItem, bool) {
	item := domain.NewsItem{
		Type: domain.ItemMarketProposal,
		URL:  m.urls.Proposal(p.ID),
	}

	switch p.State {
	case domain.ProposalStateOpen:
		// While voting is open, report whichever end of the voting window
		// is nearer: just proposed, or closing soon.
		now := m.clock.Now()
		sinceOpen := now.Sub(p.SubmittedAt)
		if sinceOpen < 0 {
			sinceOpen = 0
		}
		untilClose := p.ClosingAt.Sub(now)
		if untilClose < 0 {
			untilClose = 0
		}
		if sinceOpen < untilClose {
			item.Timestamp = p.SubmittedAt
			item.Subtype = "proposed"
			item.Message = "Market proposed: " + p.MarketCode
		} else {
			item.Timestamp = now
			item.Subtype = "closing"
			item.Message = "Voting now! Closing soon: " + p.MarketCode
		}
	case domain.ProposalStateDeclined, domain.ProposalStateFailed:
		item.Timestamp = p.ClosingAt
		item.Subtype = "failed"
		item.Message = "Market proposal failed: " + p.MarketCode
	case domain.ProposalStatePassed:
		item.Timestamp = p.ClosingAt
		item.Subtype = "passed"
		item.Message = "New market approved: " + p.MarketCode
	default:
		return domain.NewsItem{}, false
	}
	return item, true
}
