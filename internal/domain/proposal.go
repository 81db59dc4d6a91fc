package domain

import "time"

// ProposalState mirrors the governance proposal state enum of the node.
type ProposalState string

const (
	ProposalStateFailed   ProposalState = "STATE_FAILED"
	ProposalStateOpen     ProposalState = "STATE_OPEN"
	ProposalStatePassed   ProposalState = "STATE_PASSED"
	ProposalStateDeclined ProposalState = "STATE_DECLINED"
	ProposalStateEnacted  ProposalState = "STATE_ENACTED"
)

// Proposal is a governance proposal. Only new-market proposals feed the
// news producers; others are carried through untouched and skipped there.
type Proposal struct {
	ID          string
	State       ProposalState
	SubmittedAt time.Time
	ClosingAt   time.Time
	EnactmentAt time.Time

	// NewMarket is true when the proposal's terms create a market;
	// MarketCode is the instrument code of that market.
	NewMarket  bool
	MarketCode string
}
