package domain

import "time"

// VoteChoice is a ballot option.
type VoteChoice string

const (
	VoteYes     VoteChoice = "yes"
	VoteNo      VoteChoice = "no"
	VoteAbstain VoteChoice = "abstain"
)

// Vote is a single user's ballot on one proposal. The backend enforces at
// most one vote per (proposal, user) pair; the client checks existence with
// the gateway's HasVoted lookup before offering a ballot.
type Vote struct {
	ID          string     `json:"id"`
	ProposalID  string     `json:"proposal_id"`
	UserID      string     `json:"user_id"`
	Choice      VoteChoice `json:"vote"`
	VotingPower float64    `json:"voting_power"`
	CreatedAt   time.Time  `json:"created_at"`

	// Voter summary, present when the read embeds the users relation.
	User *UserRef `json:"users,omitempty"`
}
