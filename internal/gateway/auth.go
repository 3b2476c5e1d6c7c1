package gateway

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/NaloDAO/community_app/infra/supabase"
)

// authService wraps GoTrue operations and broadcasts auth state changes to
// registered listeners.
type authService struct {
	client *supabase.Client
	log    zerolog.Logger

	mu        sync.Mutex
	listeners map[string]func(AuthChange)
}

func newAuthService(client *supabase.Client, log zerolog.Logger) *authService {
	return &authService{
		client:    client,
		log:       log,
		listeners: make(map[string]func(AuthChange)),
	}
}

// SignUp registers a new identity. The display name travels in the identity
// metadata so the backend keeps it even before a profile row exists.
func (s *authService) SignUp(ctx context.Context, email, password, name string) (*supabase.Session, error) {
	session, err := s.client.Auth().SignUp(ctx, supabase.SignUpRequest{
		Email:    email,
		Password: password,
		Data:     map[string]interface{}{"name": name},
	})
	if err != nil {
		return nil, err
	}
	s.emit(AuthChange{Event: AuthSignedIn, Session: session})
	return session, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*supabase.Session, error) {
	session, err := s.client.Auth().SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	s.emit(AuthChange{Event: AuthSignedIn, Session: session})
	return session, nil
}

// SignOut revokes the session. Listeners are notified only when the backend
// accepted the revocation.
func (s *authService) SignOut(ctx context.Context, accessToken string) error {
	if err := s.client.Auth().SignOut(ctx, accessToken); err != nil {
		return err
	}
	s.emit(AuthChange{Event: AuthSignedOut})
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, accessToken string) (*supabase.User, error) {
	return s.client.Auth().GetUser(ctx, accessToken)
}

func (s *authService) ResetPassword(ctx context.Context, email string) error {
	return s.client.Auth().ResetPasswordForEmail(ctx, email, "")
}

func (s *authService) UpdatePassword(ctx context.Context, accessToken, newPassword string) error {
	_, err := s.client.Auth().UpdateUser(ctx, accessToken, map[string]interface{}{
		"password": newPassword,
	})
	return err
}

// OnAuthStateChange registers a listener for future auth events. Past events
// are not replayed. The returned function removes the listener; calling it
// more than once is safe.
func (s *authService) OnAuthStateChange(fn func(AuthChange)) func() {
	id := uuid.NewString()

	s.mu.Lock()
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// emit delivers the change to every listener on its own goroutine so a slow
// listener cannot stall auth operations.
func (s *authService) emit(change AuthChange) {
	s.mu.Lock()
	fns := make([]func(AuthChange), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	s.log.Debug().Str("event", string(change.Event)).Int("listeners", len(fns)).Msg("auth state change")
	for _, fn := range fns {
		go fn(change)
	}
}
