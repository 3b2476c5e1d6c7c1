package gateway

import (
	"context"

	"github.com/NaloDAO/community_app/infra/supabase"
	"github.com/NaloDAO/community_app/internal/domain"
)

type userService struct {
	client *supabase.Client
}

// CreateProfile inserts the profile row that backs an identity. The row id
// must equal the identity id.
func (s *userService) CreateProfile(ctx context.Context, user *domain.User) (*domain.User, error) {
	var rows []domain.User
	err := s.client.Database().From(TableUsers).
		Insert(user).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, supabase.NewError("PGRST116", "no rows returned", 404)
	}
	return &rows[0], nil
}

func (s *userService) Profile(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := s.client.Database().From(TableUsers).
		Select("*").
		Eq("id", id).
		Single().
		ExecuteInto(ctx, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) (*domain.User, error) {
	var rows []domain.User
	err := s.client.Database().From(TableUsers).
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

func (s *userService) ByWalletAddress(ctx context.Context, walletAddress string) (*domain.User, error) {
	var user domain.User
	err := s.client.Database().From(TableUsers).
		Select("*").
		Eq("wallet_address", walletAddress).
		Single().
		ExecuteInto(ctx, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
