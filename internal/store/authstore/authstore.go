// Package authstore tracks the signed-in user and drives every identity
// operation through the backend gateway.
package authstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/NaloDAO/community_app/infra/supabase"
	"github.com/NaloDAO/community_app/internal/domain"
	"github.com/NaloDAO/community_app/internal/gateway"
	"github.com/NaloDAO/community_app/internal/store/prefs"
)

// State is an immutable snapshot of the auth store.
type State struct {
	User          *domain.User
	Session       *supabase.Session
	Authenticated bool
	Loading       bool
	Err           error
}

// Store owns auth state. All mutation goes through its methods; reads go
// through State().
type Store struct {
	auth     gateway.AuthAPI
	users    gateway.UserAPI
	sessions prefs.SessionStore
	log      zerolog.Logger

	mu          sync.Mutex
	state       State
	subscribers map[string]func(State)
	unsubAuth   func()
}

// New creates the store in the loading state. Call Initialize before use.
// sessions may be nil, in which case sign-ins do not survive restarts.
func New(auth gateway.AuthAPI, users gateway.UserAPI, sessions prefs.SessionStore, log zerolog.Logger) *Store {
	return &Store{
		auth:        auth,
		users:       users,
		sessions:    sessions,
		log:         log,
		state:       State{Loading: true},
		subscribers: make(map[string]func(State)),
	}
}

// State returns the current snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a listener called with each new snapshot. The returned
// function removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	id := uuid.NewString()
	s.mu.Lock()
	s.subscribers[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subscribers, id)
		s.mu.Unlock()
	}
}

// set applies fn to the state under the lock and notifies subscribers after
// releasing it.
func (s *Store) set(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state
	fns := make([]func(State), 0, len(s.subscribers))
	for _, sub := range s.subscribers {
		fns = append(fns, sub)
	}
	s.mu.Unlock()

	for _, sub := range fns {
		sub(snapshot)
	}
}

// Initialize installs the standing auth-change listener, then resolves any
// persisted session against the backend so a restart picks up where the
// previous run signed in. Only after that does it leave the loading state.
// It is idempotent.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	installed := s.unsubAuth != nil
	s.mu.Unlock()

	if !installed {
		unsub := s.auth.OnAuthStateChange(func(change gateway.AuthChange) {
			s.handleAuthChange(change)
		})
		s.mu.Lock()
		s.unsubAuth = unsub
		s.mu.Unlock()
	}

	s.restoreSession(ctx)

	s.set(func(st *State) { st.Loading = false })
}

// restoreSession validates a saved access token and hydrates the profile for
// it. A token the backend rejects is dropped from disk.
func (s *Store) restoreSession(ctx context.Context) {
	if s.sessions == nil {
		return
	}

	token, found, err := s.sessions.LoadToken()
	if err != nil {
		s.log.Warn().Err(err).Msg("loading saved session")
		return
	}
	if !found {
		return
	}

	user, err := s.auth.CurrentUser(ctx, token)
	if err != nil {
		s.log.Debug().Err(err).Msg("saved session no longer valid")
		if cerr := s.sessions.ClearToken(); cerr != nil {
			s.log.Warn().Err(cerr).Msg("clearing stale session")
		}
		return
	}

	var profile *domain.User
	if p, perr := s.users.Profile(ctx, user.ID); perr != nil {
		s.log.Debug().Err(perr).Str("user_id", user.ID).Msg("profile fetch on session restore")
	} else {
		profile = p
	}

	s.set(func(st *State) {
		st.Session = &supabase.Session{AccessToken: token, User: user}
		st.Authenticated = true
		if profile != nil {
			st.User = profile
		}
	})
}

// saveToken persists the session token, best effort.
func (s *Store) saveToken(session *supabase.Session) {
	if s.sessions == nil || session == nil || session.AccessToken == "" {
		return
	}
	if err := s.sessions.SaveToken(session.AccessToken); err != nil {
		s.log.Warn().Err(err).Msg("persisting session")
	}
}

// Close removes the standing listener.
func (s *Store) Close() {
	s.mu.Lock()
	unsub := s.unsubAuth
	s.unsubAuth = nil
	s.mu.Unlock()
	if unsub != nil {
		unsub()
	}
}

func (s *Store) handleAuthChange(change gateway.AuthChange) {
	switch change.Event {
	case gateway.AuthSignedIn:
		var profile *domain.User
		if change.Session != nil && change.Session.User != nil {
			// best effort: keep the previous profile if the fetch fails,
			// e.g. right after registration before the row is visible
			p, err := s.users.Profile(context.Background(), change.Session.User.ID)
			if err != nil {
				s.log.Debug().Err(err).Str("user_id", change.Session.User.ID).Msg("profile fetch on sign-in")
			} else {
				profile = p
			}
		}
		s.set(func(st *State) {
			st.Session = change.Session
			st.Authenticated = true
			if profile != nil {
				st.User = profile
			}
		})
	case gateway.AuthSignedOut:
		s.set(func(st *State) {
			st.User = nil
			st.Session = nil
			st.Authenticated = false
		})
	}
}

// SignIn authenticates with email and password. On failure the state keeps
// its previous user and records the error.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	s.set(func(st *State) {
		st.Loading = true
		st.Err = nil
	})

	session, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		s.set(func(st *State) {
			st.Loading = false
			st.Err = err
		})
		return err
	}

	var profile *domain.User
	if session.User != nil {
		p, perr := s.users.Profile(ctx, session.User.ID)
		if perr != nil {
			s.log.Debug().Err(perr).Msg("profile fetch on sign-in")
		} else {
			profile = p
		}
	}
	s.saveToken(session)
	s.set(func(st *State) {
		st.Loading = false
		st.Session = session
		st.Authenticated = true
		if profile != nil {
			st.User = profile
		}
	})
	return nil
}

// Register creates the identity, then its profile row. If the profile insert
// fails the identity is kept as-is and the error is returned; there is no
// rollback.
func (s *Store) Register(ctx context.Context, name, email, password string) error {
	s.set(func(st *State) {
		st.Loading = true
		st.Err = nil
	})

	session, err := s.auth.SignUp(ctx, email, password, name)
	if err != nil {
		s.set(func(st *State) {
			st.Loading = false
			st.Err = err
		})
		return err
	}

	userID := ""
	if session.User != nil {
		userID = session.User.ID
	}
	profile, err := s.users.CreateProfile(ctx, &domain.User{
		ID:    userID,
		Email: email,
		Name:  name,
	})
	if err != nil {
		s.set(func(st *State) {
			st.Loading = false
			st.Err = err
		})
		return err
	}

	s.saveToken(session)
	s.set(func(st *State) {
		st.Loading = false
		st.Session = session
		st.User = profile
		st.Authenticated = true
	})
	return nil
}

// SignOut revokes the session remotely. Local state is cleared only when the
// backend accepted the revocation; on failure the user stays signed in and
// the error is surfaced.
func (s *Store) SignOut(ctx context.Context) error {
	state := s.State()
	token := ""
	if state.Session != nil {
		token = state.Session.AccessToken
	}

	if err := s.auth.SignOut(ctx, token); err != nil {
		s.set(func(st *State) { st.Err = err })
		return err
	}

	if s.sessions != nil {
		if err := s.sessions.ClearToken(); err != nil {
			s.log.Warn().Err(err).Msg("clearing persisted session")
		}
	}
	s.set(func(st *State) {
		st.User = nil
		st.Session = nil
		st.Authenticated = false
		st.Err = nil
	})
	return nil
}

// ResetPassword requests a recovery email.
func (s *Store) ResetPassword(ctx context.Context, email string) error {
	if err := s.auth.ResetPassword(ctx, email); err != nil {
		s.set(func(st *State) { st.Err = err })
		return err
	}
	return nil
}

// UpdatePassword changes the signed-in user's password.
func (s *Store) UpdatePassword(ctx context.Context, newPassword string) error {
	state := s.State()
	token := ""
	if state.Session != nil {
		token = state.Session.AccessToken
	}

	if err := s.auth.UpdatePassword(ctx, token, newPassword); err != nil {
		s.set(func(st *State) { st.Err = err })
		return err
	}
	return nil
}

// ClearError drops the recorded error.
func (s *Store) ClearError() {
	s.set(func(st *State) { st.Err = nil })
}
