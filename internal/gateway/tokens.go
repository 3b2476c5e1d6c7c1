package gateway

import (
	"context"

	"github.com/NaloDAO/community_app/infra/supabase"
	"github.com/NaloDAO/community_app/internal/domain"
)

type tokenService struct {
	client *supabase.Client
}

func (s *tokenService) Balances(ctx context.Context, userID string) ([]domain.TokenBalance, error) {
	var rows []domain.TokenBalance
	err := s.client.Database().From(TableTokenBalances).
		Select("*").
		Eq("user_id", userID).
		Order("token_symbol", supabase.OrderAsc).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// UpsertBalance writes a balance snapshot, replacing the existing row for the
// same user and token.
func (s *tokenService) UpsertBalance(ctx context.Context, userID, tokenSymbol string, balance float64) (*domain.TokenBalance, error) {
	record := map[string]interface{}{
		"user_id":      userID,
		"token_symbol": tokenSymbol,
		"balance":      balance,
	}
	var rows []domain.TokenBalance
	err := s.client.Database().From(TableTokenBalances).
		Upsert(record, "user_id,token_symbol").
		ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, supabase.NewError("PGRST116", "no rows returned", 404)
	}
	return &rows[0], nil
}
