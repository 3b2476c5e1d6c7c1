package gateway

import (
	"context"

	"github.com/NaloDAO/community_app/infra/supabase"
	"github.com/NaloDAO/community_app/internal/domain"
)

type voteService struct {
	client *supabase.Client
}

func (s *voteService) ListByProposal(ctx context.Context, proposalID string) ([]domain.Vote, error) {
	var rows []domain.Vote
	err := s.client.Database().From(TableVotes).
		Select("*, users(name, avatar_url)").
		Eq("proposal_id", proposalID).
		Order("created_at", supabase.OrderDesc).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create submits a ballot. The backend's unique (proposal_id, user_id)
// constraint turns a double vote into a conflict error, which is returned
// as-is.
func (s *voteService) Create(ctx context.Context, vote *domain.Vote) (*domain.Vote, error) {
	var rows []domain.Vote
	err := s.client.Database().From(TableVotes).
		Insert(vote).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, supabase.NewError("PGRST116", "no rows returned", 404)
	}
	return &rows[0], nil
}

// HasVoted reports whether the user already voted on the proposal, returning
// the existing ballot when present.
func (s *voteService) HasVoted(ctx context.Context, proposalID, userID string) (bool, *domain.Vote, error) {
	var rows []domain.Vote
	err := s.client.Database().From(TableVotes).
		Select("*").
		Eq("proposal_id", proposalID).
		Eq("user_id", userID).
		Limit(1).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return false, nil, err
	}
	if len(rows) == 0 {
		return false, nil, nil
	}
	return true, &rows[0], nil
}
