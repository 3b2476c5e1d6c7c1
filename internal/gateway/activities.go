package gateway

import (
	"context"

	"github.com/NaloDAO/community_app/infra/supabase"
	"github.com/NaloDAO/community_app/internal/domain"
)

// activitySelect embeds the author's display fields so list views render
// without a second round trip.
const activitySelect = "*, users(name, avatar_url)"

type activityService struct {
	client *supabase.Client
}

func (s *activityService) list(ctx context.Context, page Page, apply func(*supabase.QueryBuilder) *supabase.QueryBuilder) ([]domain.Activity, int64, error) {
	from, to := page.bounds()
	q := s.client.Database().From(TableActivities).
		Select(activitySelect).
		Order("created_at", supabase.OrderDesc).
		Range(from, to).
		Count(supabase.CountExact)
	if apply != nil {
		q = apply(q)
	}

	var rows []domain.Activity
	total, err := q.ExecuteIntoWithCount(ctx, &rows)
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (s *activityService) List(ctx context.Context, page Page) ([]domain.Activity, int64, error) {
	return s.list(ctx, page, nil)
}

func (s *activityService) ListByUser(ctx context.Context, userID string, page Page) ([]domain.Activity, int64, error) {
	return s.list(ctx, page, func(q *supabase.QueryBuilder) *supabase.QueryBuilder {
		return q.Eq("user_id", userID)
	})
}

func (s *activityService) ListByType(ctx context.Context, activityType domain.ActivityType, page Page) ([]domain.Activity, int64, error) {
	return s.list(ctx, page, func(q *supabase.QueryBuilder) *supabase.QueryBuilder {
		return q.Eq("activity_type", string(activityType))
	})
}

func (s *activityService) ListVerified(ctx context.Context, page Page) ([]domain.Activity, int64, error) {
	return s.list(ctx, page, func(q *supabase.QueryBuilder) *supabase.QueryBuilder {
		return q.Eq("status", string(domain.ActivityVerified))
	})
}

func (s *activityService) Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error) {
	var rows []domain.Activity
	err := s.client.Database().From(TableActivities).
		Insert(activity).
		ExecuteInto(ctx, &rows)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, supabase.NewError("PGRST116", "no rows returned", 404)
	}
	return &rows[0], nil
}

func (s *activityService) Update(ctx context.Context, id string, updates map[string]interface{}) (*domain.Activity, error) {
	var rows []domain.Activity
	err := s.client.Database().From(TableActivities).
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

func (s *activityService) Delete(ctx context.Context, id string) error {
	_, err := s.client.Database().From(TableActivities).
		Delete().
		Eq("id", id).
		Execute(ctx)
	return err
}
