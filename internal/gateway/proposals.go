package gateway

import (
	"context"

	"github.com/NaloDAO/community_app/infra/supabase"
	"github.com/NaloDAO/community_app/internal/domain"
)

const proposalSelect = "*, users(name, avatar_url)"

type proposalService struct {
	client *supabase.Client
}

func (s *proposalService) List(ctx context.Context, page Page) ([]domain.Proposal, int64, error) {
	from, to := page.bounds()
	var rows []domain.Proposal
	total, err := s.client.Database().From(TableProposals).
		Select(proposalSelect).
		Order("created_at", supabase.OrderDesc).
		Range(from, to).
		Count(supabase.CountExact).
		ExecuteIntoWithCount(ctx, &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// ListActive returns every proposal open for voting, oldest deadline first.
func (s *proposalService) ListActive(ctx context.Context) ([]domain.Proposal, error) {
	var rows []domain.Proposal
	err := s.client.Database().From(TableProposals).
		Select(proposalSelect).
		Eq("status", string(domain.ProposalActive)).
		Order("voting_end", supabase.OrderAsc).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *proposalService) Get(ctx context.Context, id string) (*domain.Proposal, error) {
	var proposal domain.Proposal
	err := s.client.Database().From(TableProposals).
		Select(proposalSelect).
		Eq("id", id).
		Single().
		ExecuteInto(ctx, &proposal)
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (s *proposalService) Create(ctx context.Context, proposal *domain.Proposal) (*domain.Proposal, error) {
	var rows []domain.Proposal
	err := s.client.Database().From(TableProposals).
		Insert(proposal).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, supabase.NewError("PGRST116", "no rows returned", 404)
	}
	return &rows[0], nil
}

func (s *proposalService) Update(ctx context.Context, id string, updates map[string]interface{}) (*domain.Proposal, error) {
	var rows []domain.Proposal
	err := s.client.Database().From(TableProposals).
		Update(updates).
		Eq("id", id).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, supabase.NewError("PGRST116", "no rows returned", 404)
	}
	return &rows[0], nil
}
