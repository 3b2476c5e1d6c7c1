package gateway

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/NaloDAO/community_app/infra/supabase"
)

type realtimeService struct {
	client *supabase.Client
	log    zerolog.Logger

	mu        sync.Mutex
	connected bool
}

// SubscribeToTable opens a change feed for every event type on the table.
// The socket is dialed lazily on the first subscription.
func (s *realtimeService) SubscribeToTable(ctx context.Context, table string, fn supabase.ChangeHandler) (*Subscription, error) {
	s.mu.Lock()
	if !s.connected {
		if err := s.client.Realtime().Connect(ctx); err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.connected = true
	}
	s.mu.Unlock()

	channel, err := s.client.Realtime().SubscribeToChanges(ctx, "public", table, supabase.ChangeAll, fn)
	if err != nil {
		return nil, err
	}

	sub := &Subscription{
		ID:     uuid.NewString(),
		Table:  table,
		cancel: func() error { return channel.Unsubscribe(context.Background()) },
	}
	s.log.Debug().Str("table", table).Str("subscription", sub.ID).Msg("realtime subscription opened")
	return sub, nil
}
