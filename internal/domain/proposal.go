package domain

import "time"

// ProposalStatus is the lifecycle state of a governance proposal.
type ProposalStatus string

const (
	ProposalDraft    ProposalStatus = "draft"
	ProposalActive   ProposalStatus = "active"
	ProposalPassed   ProposalStatus = "passed"
	ProposalRejected ProposalStatus = "rejected"
	ProposalExecuted ProposalStatus = "executed"
)

// Currency is a proposal budget denomination.
type Currency string

const (
	CurrencyUSD  Currency = "USD"
	CurrencyNALO Currency = "NALO"
	CurrencyAVT  Currency = "APT"
	CurrencySUI  Currency = "SUI"
)

// Proposal is a governance item with a time-boxed voting window and quorum
// threshold. Tallies are maintained by the backend and are monotonically
// non-decreasing while the proposal is active.
type Proposal struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Description    string         `json:"description"`
	AuthorID       string         `json:"author_id"`
	Budget         float64        `json:"budget"`
	BudgetCurrency Currency       `json:"budget_currency"`
	Attachments    []string       `json:"attachments,omitempty"`
	Status         ProposalStatus `json:"status"`
	VotingStart    time.Time      `json:"voting_start"`
	VotingEnd      time.Time      `json:"voting_end"`
	Quorum         int            `json:"quorum"`
	YesVotes       int            `json:"yes_votes"`
	NoVotes        int            `json:"no_votes"`
	AbstainVotes   int            `json:"abstain_votes"`
	Tags           []string       `json:"tags,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`

	// Author summary, present when the read embeds the users relation.
	User *UserRef `json:"users,omitempty"`
}
