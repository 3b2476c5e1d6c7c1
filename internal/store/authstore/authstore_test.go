package authstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaloDAO/community_app/infra/supabase"
	"github.com/NaloDAO/community_app/internal/domain"
	"github.com/NaloDAO/community_app/internal/gateway"
)

// fakeAuth records calls and replays scripted results.
type fakeAuth struct {
	mu             sync.Mutex
	session        *supabase.Session
	signInErr      error
	signUpErr      error
	signOutErr     error
	resetErr       error
	updateErr      error
	currentUserErr error

	signOutTokens     []string
	currentUserTokens []string
	resetEmails       []string
	listeners         []func(gateway.AuthChange)
}

func (f *fakeAuth) SignUp(_ context.Context, email, password, name string) (*supabase.Session, error) {
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.session, nil
}

func (f *fakeAuth) SignIn(_ context.Context, email, password string) (*supabase.Session, error) {
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return f.session, nil
}

func (f *fakeAuth) SignOut(_ context.Context, accessToken string) error {
	f.mu.Lock()
	f.signOutTokens = append(f.signOutTokens, accessToken)
	f.mu.Unlock()
	return f.signOutErr
}

func (f *fakeAuth) CurrentUser(_ context.Context, accessToken string) (*supabase.User, error) {
	f.mu.Lock()
	f.currentUserTokens = append(f.currentUserTokens, accessToken)
	f.mu.Unlock()
	if f.currentUserErr != nil {
		return nil, f.currentUserErr
	}
	if f.session == nil {
		return nil, errors.New("no session")
	}
	return f.session.User, nil
}

func (f *fakeAuth) ResetPassword(_ context.Context, email string) error {
	f.mu.Lock()
	f.resetEmails = append(f.resetEmails, email)
	f.mu.Unlock()
	return f.resetErr
}

func (f *fakeAuth) UpdatePassword(_ context.Context, accessToken, newPassword string) error {
	return f.updateErr
}

func (f *fakeAuth) OnAuthStateChange(fn func(gateway.AuthChange)) func() {
	f.mu.Lock()
	f.listeners = append(f.listeners, fn)
	f.mu.Unlock()
	return func() {}
}

func (f *fakeAuth) fire(change gateway.AuthChange) {
	f.mu.Lock()
	fns := append([]func(gateway.AuthChange){}, f.listeners...)
	f.mu.Unlock()
	for _, fn := range fns {
		fn(change)
	}
}

// fakeUsers serves profiles from a map and records inserts.
type fakeUsers struct {
	mu        sync.Mutex
	profiles  map[string]*domain.User
	createErr error
	created   []*domain.User
}

func (f *fakeUsers) CreateProfile(_ context.Context, user *domain.User) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, user)
	if f.profiles == nil {
		f.profiles = map[string]*domain.User{}
	}
	f.profiles[user.ID] = user
	return user, nil
}

func (f *fakeUsers) Profile(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.profiles[id]; ok {
		return u, nil
	}
	return nil, supabase.NewError("PGRST116", "no rows returned", 404)
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id string, _ map[string]interface{}) (*domain.User, error) {
	return f.Profile(context.Background(), id)
}

func (f *fakeUsers) ByWalletAddress(context.Context, string) (*domain.User, error) {
	return nil, supabase.NewError("PGRST116", "no rows returned", 404)
}

// fakeSessions is an in-memory token store.
type fakeSessions struct {
	mu     sync.Mutex
	token  string
	found  bool
	saves  []string
	clears int
}

func (f *fakeSessions) LoadToken() (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.token, f.found, nil
}

func (f *fakeSessions) SaveToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = token
	f.found = true
	f.saves = append(f.saves, token)
	return nil
}

func (f *fakeSessions) ClearToken() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.token = ""
	f.found = false
	f.clears++
	return nil
}

func testSession() *supabase.Session {
	return &supabase.Session{
		AccessToken: "tok",
		User:        &supabase.User{ID: "u1", Email: "ann@example.com"},
	}
}

func TestInitializeLeavesLoading(t *testing.T) {
	store := New(&fakeAuth{}, &fakeUsers{}, nil, zerolog.Nop())
	assert.True(t, store.State().Loading)

	store.Initialize(context.Background())
	assert.False(t, store.State().Loading)
	assert.False(t, store.State().Authenticated)
}

func TestInitializeRestoresSavedSession(t *testing.T) {
	auth := &fakeAuth{session: testSession()}
	users := &fakeUsers{profiles: map[string]*domain.User{
		"u1": {ID: "u1", Name: "Ann", Email: "ann@example.com"},
	}}
	sessions := &fakeSessions{token: "tok", found: true}
	store := New(auth, users, sessions, zerolog.Nop())

	store.Initialize(context.Background())

	state := store.State()
	assert.False(t, state.Loading)
	assert.True(t, state.Authenticated)
	require.NotNil(t, state.Session)
	assert.Equal(t, "tok", state.Session.AccessToken)
	require.NotNil(t, state.User)
	assert.Equal(t, "Ann", state.User.Name)
	assert.Equal(t, []string{"tok"}, auth.currentUserTokens)
}

func TestInitializeDropsRejectedToken(t *testing.T) {
	auth := &fakeAuth{currentUserErr: supabase.NewError("invalid_token", "JWT expired", 401)}
	sessions := &fakeSessions{token: "stale", found: true}
	store := New(auth, &fakeUsers{}, sessions, zerolog.Nop())

	store.Initialize(context.Background())

	state := store.State()
	assert.False(t, state.Loading)
	assert.False(t, state.Authenticated)
	assert.Nil(t, state.Session)
	assert.Equal(t, 1, sessions.clears)
}

func TestInitializeWithoutSavedSessionStaysSignedOut(t *testing.T) {
	auth := &fakeAuth{session: testSession()}
	store := New(auth, &fakeUsers{}, &fakeSessions{}, zerolog.Nop())

	store.Initialize(context.Background())

	assert.False(t, store.State().Authenticated)
	assert.Empty(t, auth.currentUserTokens)
}

func TestSignInPersistsToken(t *testing.T) {
	auth := &fakeAuth{session: testSession()}
	users := &fakeUsers{profiles: map[string]*domain.User{"u1": {ID: "u1", Name: "Ann"}}}
	sessions := &fakeSessions{}
	store := New(auth, users, sessions, zerolog.Nop())
	store.Initialize(context.Background())

	require.NoError(t, store.SignIn(context.Background(), "ann@example.com", "hunter22"))
	assert.Equal(t, []string{"tok"}, sessions.saves)
}

func TestSignOutClearsPersistedToken(t *testing.T) {
	auth := &fakeAuth{session: testSession()}
	users := &fakeUsers{profiles: map[string]*domain.User{"u1": {ID: "u1", Name: "Ann"}}}
	sessions := &fakeSessions{}
	store := New(auth, users, sessions, zerolog.Nop())
	store.Initialize(context.Background())
	require.NoError(t, store.SignIn(context.Background(), "ann@example.com", "hunter22"))

	require.NoError(t, store.SignOut(context.Background()))
	assert.Equal(t, 1, sessions.clears)
}

func TestSignInLoadsProfile(t *testing.T) {
	auth := &fakeAuth{session: testSession()}
	users := &fakeUsers{profiles: map[string]*domain.User{
		"u1": {ID: "u1", Name: "Ann", Email: "ann@example.com"},
	}}
	store := New(auth, users, nil, zerolog.Nop())
	store.Initialize(context.Background())

	require.NoError(t, store.SignIn(context.Background(), "ann@example.com", "hunter22"))

	state := store.State()
	assert.True(t, state.Authenticated)
	assert.False(t, state.Loading)
	require.NotNil(t, state.User)
	assert.Equal(t, "Ann", state.User.Name)
	assert.Equal(t, "tok", state.Session.AccessToken)
}

func TestSignInFailureKeepsSignedOut(t *testing.T) {
	wantErr := supabase.NewError("invalid_grant", "Invalid login credentials", 400)
	store := New(&fakeAuth{signInErr: wantErr}, &fakeUsers{}, nil, zerolog.Nop())
	store.Initialize(context.Background())

	err := store.SignIn(context.Background(), "ann@example.com", "wrong")
	require.ErrorIs(t, err, wantErr)

	state := store.State()
	assert.False(t, state.Authenticated)
	assert.Nil(t, state.Session)
	assert.ErrorIs(t, state.Err, wantErr)
}

func TestRegisterCreatesProfileAndSignsIn(t *testing.T) {
	auth := &fakeAuth{session: testSession()}
	users := &fakeUsers{}
	store := New(auth, users, nil, zerolog.Nop())
	store.Initialize(context.Background())

	require.NoError(t, store.Register(context.Background(), "Ann", "ann@example.com", "hunter22"))

	require.Len(t, users.created, 1)
	assert.Equal(t, "u1", users.created[0].ID)
	assert.Equal(t, "Ann", users.created[0].Name)
	assert.Equal(t, "ann@example.com", users.created[0].Email)

	state := store.State()
	assert.True(t, state.Authenticated)
	require.NotNil(t, state.User)
	assert.Equal(t, "Ann", state.User.Name)
	assert.Zero(t, state.User.TotalActivities)
	assert.Zero(t, users.created[0].TotalActivities)
}

func TestRegisterProfileFailureSurfacesError(t *testing.T) {
	wantErr := supabase.NewError("23505", "duplicate key", 409)
	auth := &fakeAuth{session: testSession()}
	store := New(auth, &fakeUsers{createErr: wantErr}, nil, zerolog.Nop())
	store.Initialize(context.Background())

	err := store.Register(context.Background(), "Ann", "ann@example.com", "hunter22")
	require.ErrorIs(t, err, wantErr)
	assert.ErrorIs(t, store.State().Err, wantErr)
}

func TestSignOutClearsOnlyOnSuccess(t *testing.T) {
	t.Run("remote failure keeps session", func(t *testing.T) {
		auth := &fakeAuth{session: testSession(), signOutErr: errors.New("network down")}
		users := &fakeUsers{profiles: map[string]*domain.User{"u1": {ID: "u1", Name: "Ann"}}}
		store := New(auth, users, nil, zerolog.Nop())
		store.Initialize(context.Background())
		require.NoError(t, store.SignIn(context.Background(), "ann@example.com", "hunter22"))

		err := store.SignOut(context.Background())
		require.Error(t, err)

		state := store.State()
		assert.True(t, state.Authenticated)
		assert.NotNil(t, state.Session)
		assert.NotNil(t, state.User)
	})

	t.Run("remote success clears state", func(t *testing.T) {
		auth := &fakeAuth{session: testSession()}
		users := &fakeUsers{profiles: map[string]*domain.User{"u1": {ID: "u1", Name: "Ann"}}}
		store := New(auth, users, nil, zerolog.Nop())
		store.Initialize(context.Background())
		require.NoError(t, store.SignIn(context.Background(), "ann@example.com", "hunter22"))

		require.NoError(t, store.SignOut(context.Background()))

		state := store.State()
		assert.False(t, state.Authenticated)
		assert.Nil(t, state.Session)
		assert.Nil(t, state.User)
		assert.Equal(t, []string{"tok"}, auth.signOutTokens)
	})
}

func TestAuthChangeListenerUpdatesState(t *testing.T) {
	auth := &fakeAuth{}
	users := &fakeUsers{profiles: map[string]*domain.User{"u1": {ID: "u1", Name: "Ann"}}}
	store := New(auth, users, nil, zerolog.Nop())
	store.Initialize(context.Background())

	auth.fire(gateway.AuthChange{Event: gateway.AuthSignedIn, Session: testSession()})
	state := store.State()
	assert.True(t, state.Authenticated)
	require.NotNil(t, state.User)
	assert.Equal(t, "Ann", state.User.Name)

	auth.fire(gateway.AuthChange{Event: gateway.AuthSignedOut})
	state = store.State()
	assert.False(t, state.Authenticated)
	assert.Nil(t, state.User)
}

func TestSubscribeReceivesSnapshots(t *testing.T) {
	auth := &fakeAuth{session: testSession()}
	users := &fakeUsers{profiles: map[string]*domain.User{"u1": {ID: "u1", Name: "Ann"}}}
	store := New(auth, users, nil, zerolog.Nop())
	store.Initialize(context.Background())

	var mu sync.Mutex
	var last State
	unsubscribe := store.Subscribe(func(s State) {
		mu.Lock()
		last = s
		mu.Unlock()
	})
	defer unsubscribe()

	require.NoError(t, store.SignIn(context.Background(), "ann@example.com", "hunter22"))

	mu.Lock()
	defer mu.Unlock()
	assert.True(t, last.Authenticated)
}

func TestResetPasswordRecordsEmail(t *testing.T) {
	auth := &fakeAuth{}
	store := New(auth, &fakeUsers{}, nil, zerolog.Nop())

	require.NoError(t, store.ResetPassword(context.Background(), "ann@example.com"))
	assert.Equal(t, []string{"ann@example.com"}, auth.resetEmails)
}

func TestClearError(t *testing.T) {
	wantErr := errors.New("boom")
	store := New(&fakeAuth{signInErr: wantErr}, &fakeUsers{}, nil, zerolog.Nop())
	store.Initialize(context.Background())

	_ = store.SignIn(context.Background(), "a@b.c", "x")
	require.Error(t, store.State().Err)

	store.ClearError()
	assert.NoError(t, store.State().Err)
}
