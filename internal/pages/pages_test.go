package pages

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NaloDAO/community_app/infra/supabase"
	"github.com/NaloDAO/community_app/internal/domain"
	"github.com/NaloDAO/community_app/internal/forms"
	"github.com/NaloDAO/community_app/internal/gateway"
	"github.com/NaloDAO/community_app/internal/store/authstore"
	"github.com/NaloDAO/community_app/internal/store/prefs"
	"github.com/NaloDAO/community_app/internal/store/uistore"
)

// recordingAuth counts remote calls so tests can assert validation short-
// circuits before the backend is touched.
type recordingAuth struct {
	mu        sync.Mutex
	calls     []string
	signInErr error
	signUpErr error
	resetErr  error
	updateErr error
}

func (f *recordingAuth) record(name string) {
	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()
}

func (f *recordingAuth) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *recordingAuth) SignUp(_ context.Context, email, _, _ string) (*supabase.Session, error) {
	f.record("SignUp")
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &supabase.Session{AccessToken: "tok", User: &supabase.User{ID: "u1", Email: email}}, nil
}

func (f *recordingAuth) SignIn(_ context.Context, email, _ string) (*supabase.Session, error) {
	f.record("SignIn")
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &supabase.Session{AccessToken: "tok", User: &supabase.User{ID: "u1", Email: email}}, nil
}

func (f *recordingAuth) SignOut(context.Context, string) error {
	f.record("SignOut")
	return nil
}

func (f *recordingAuth) CurrentUser(context.Context, string) (*supabase.User, error) {
	return &supabase.User{ID: "u1"}, nil
}

func (f *recordingAuth) ResetPassword(_ context.Context, email string) error {
	f.record("ResetPassword")
	return f.resetErr
}

func (f *recordingAuth) UpdatePassword(context.Context, string, string) error {
	f.record("UpdatePassword")
	return f.updateErr
}

func (f *recordingAuth) OnAuthStateChange(func(gateway.AuthChange)) func() {
	return func() {}
}

type staticUsers struct{}

func (staticUsers) CreateProfile(_ context.Context, u *domain.User) (*domain.User, error) {
	return u, nil
}

func (staticUsers) Profile(_ context.Context, id string) (*domain.User, error) {
	return &domain.User{ID: id, Name: "Ann", TotalImpactScore: 321, TotalActivities: 7}, nil
}

func (staticUsers) UpdateProfile(_ context.Context, id string, _ map[string]interface{}) (*domain.User, error) {
	return &domain.User{ID: id}, nil
}

func (staticUsers) ByWalletAddress(context.Context, string) (*domain.User, error) {
	return nil, supabase.NewError("PGRST116", "no rows returned", 404)
}

type memThemeStore struct{}

func (memThemeStore) Load() (prefs.Theme, bool, error) { return prefs.Theme{}, false, nil }
func (memThemeStore) Save(prefs.Theme) error           { return nil }

func newTestStores(t *testing.T, auth *recordingAuth) (*authstore.Store, *uistore.Store) {
	t.Helper()
	as := authstore.New(auth, staticUsers{}, nil, zerolog.Nop())
	as.Initialize(context.Background())
	ui := uistore.New(memThemeStore{}, nil, nil, zerolog.Nop())
	return as, ui
}

func TestLoginSubmitValidatesBeforeRemoteCall(t *testing.T) {
	auth := &recordingAuth{}
	as, ui := newTestStores(t, auth)
	page := NewLogin(as, ui)

	err := page.Submit(context.Background(), forms.Login{Email: "nope", Password: ""})
	require.Error(t, err)

	fe, ok := FieldErrors(err)
	require.True(t, ok)
	assert.Contains(t, fe, "email")
	assert.Zero(t, auth.callCount(), "backend must not be called on invalid input")
	assert.Empty(t, ui.Notifications())
}

func TestLoginSubmitSuccessNotifies(t *testing.T) {
	auth := &recordingAuth{}
	as, ui := newTestStores(t, auth)
	page := NewLogin(as, ui)

	require.NoError(t, page.Submit(context.Background(), forms.Login{
		Email:    "ann@example.com",
		Password: "hunter22",
	}))

	got := ui.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, uistore.NotifySuccess, got[0].Type)
	assert.Equal(t, "Welcome back!", got[0].Title)
	assert.True(t, as.State().Authenticated)
}

func TestLoginSubmitRemoteFailureRaisesErrorToast(t *testing.T) {
	auth := &recordingAuth{signInErr: supabase.NewError("invalid_grant", "Invalid login credentials", 400)}
	as, ui := newTestStores(t, auth)
	page := NewLogin(as, ui)

	err := page.Submit(context.Background(), forms.Login{Email: "ann@example.com", Password: "wrong123"})
	require.Error(t, err)
	_, isField := FieldErrors(err)
	assert.False(t, isField)

	got := ui.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, uistore.NotifyError, got[0].Type)
}

func TestRegisterSubmit(t *testing.T) {
	auth := &recordingAuth{}
	as, ui := newTestStores(t, auth)
	page := NewRegister(as, ui)

	t.Run("field errors stop early", func(t *testing.T) {
		err := page.Submit(context.Background(), forms.Register{
			Name:            "A",
			Email:           "ann@example.com",
			Password:        "hunter2222",
			ConfirmPassword: "different1",
		})
		fe, ok := FieldErrors(err)
		require.True(t, ok)
		assert.Equal(t, "Name must be at least 2 characters", fe["name"])
		assert.Equal(t, "Passwords don't match", fe["confirmPassword"])
		assert.Zero(t, auth.callCount())
	})

	t.Run("success signs the user in", func(t *testing.T) {
		require.NoError(t, page.Submit(context.Background(), forms.Register{
			Name:            "Ann",
			Email:           "ann@example.com",
			Password:        "hunter2222",
			ConfirmPassword: "hunter2222",
		}))
		assert.True(t, as.State().Authenticated)
	})
}

func TestForgotPasswordSubmittedFlag(t *testing.T) {
	auth := &recordingAuth{}
	as, ui := newTestStores(t, auth)
	page := NewForgotPassword(as, ui)

	assert.False(t, page.Submitted())
	require.NoError(t, page.Submit(context.Background(), forms.ForgotPassword{Email: "ann@example.com"}))
	assert.True(t, page.Submitted())

	got := ui.Notifications()
	require.Len(t, got, 1)
	assert.Equal(t, "Email Sent", got[0].Title)
	assert.Equal(t, "Please check your email for password reset instructions.", got[0].Message)
}

func TestForgotPasswordFailureKeepsFormState(t *testing.T) {
	auth := &recordingAuth{resetErr: supabase.NewError("over_email_send_rate_limit", "rate limited", 429)}
	as, ui := newTestStores(t, auth)
	page := NewForgotPassword(as, ui)

	require.Error(t, page.Submit(context.Background(), forms.ForgotPassword{Email: "ann@example.com"}))
	assert.False(t, page.Submitted())
	require.Len(t, ui.Notifications(), 1)
	assert.Equal(t, uistore.NotifyError, ui.Notifications()[0].Type)
}

func TestResetPasswordSubmittedFlag(t *testing.T) {
	auth := &recordingAuth{}
	as, ui := newTestStores(t, auth)
	page := NewResetPassword(as, ui)

	require.NoError(t, page.Submit(context.Background(), forms.ResetPassword{
		Password:        "hunter2222",
		ConfirmPassword: "hunter2222",
	}))
	assert.True(t, page.Submitted())
	require.Len(t, ui.Notifications(), 1)
	assert.Equal(t, "Password Updated", ui.Notifications()[0].Title)
	assert.Equal(t, "Your password has been successfully updated.", ui.Notifications()[0].Message)
}

// fakeStorage records uploads and derives public URLs locally.
type fakeStorage struct {
	mu      sync.Mutex
	uploads []string
	err     error
}

func (f *fakeStorage) UploadFile(_ context.Context, bucket, path string, _ []byte, _ string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.mu.Lock()
	f.uploads = append(f.uploads, bucket+"/"+path)
	f.mu.Unlock()
	return "https://example.supabase.co/storage/v1/object/public/" + bucket + "/" + path, nil
}

func (f *fakeStorage) DeleteFile(context.Context, string, string) error { return f.err }

func (f *fakeStorage) PublicFileURL(bucket, path string) string {
	return "https://example.supabase.co/storage/v1/object/public/" + bucket + "/" + path
}

func TestProfileFormSeededFromUser(t *testing.T) {
	auth := &recordingAuth{}
	as, ui := newTestStores(t, auth)
	require.NoError(t, as.SignIn(context.Background(), "ann@example.com", "hunter22"))

	page := NewProfile(as, ui, &fakeStorage{}, "media")
	form := page.Form()
	assert.Equal(t, "Ann", form.Name)
}

func TestProfileSubmitReportsSuccessOnly(t *testing.T) {
	auth := &recordingAuth{}
	as, ui := newTestStores(t, auth)
	page := NewProfile(as, ui, &fakeStorage{}, "media")

	require.NoError(t, page.Submit(context.Background(), forms.Profile{Name: "Ann"}))
	require.Len(t, ui.Notifications(), 1)
	assert.Equal(t, "Profile Updated", ui.Notifications()[0].Title)
	assert.Equal(t, "Your profile has been successfully updated.", ui.Notifications()[0].Message)
	assert.Zero(t, auth.callCount())
}

func TestProfileUploadAvatar(t *testing.T) {
	auth := &recordingAuth{}
	as, ui := newTestStores(t, auth)
	storage := &fakeStorage{}
	page := NewProfile(as, ui, storage, "media")

	_, err := page.UploadAvatar(context.Background(), []byte{0x89}, "image/png")
	require.Error(t, err, "upload requires a signed-in user")

	require.NoError(t, as.SignIn(context.Background(), "ann@example.com", "hunter22"))
	url, err := page.UploadAvatar(context.Background(), []byte{0x89}, "image/png")
	require.NoError(t, err)
	assert.Contains(t, url, "/media/avatars/u1")
	assert.Equal(t, []string{"media/avatars/u1"}, storage.uploads)
}

func TestLandingContent(t *testing.T) {
	var page Landing
	title, tagline := page.Hero()
	assert.Equal(t, "A New Economy for Earth", title)
	assert.Contains(t, tagline, "regenerative activities")
	assert.Len(t, page.Stats(), 3)
	assert.Len(t, page.Features(), 4)
}

// fakeActivities and fakeProposals back the dashboard refresh tests.
type fakeActivities struct {
	rows  []domain.Activity
	total int64
	err   error

	mu         sync.Mutex
	lastUserID string
}

func (f *fakeActivities) List(context.Context, gateway.Page) ([]domain.Activity, int64, error) {
	return f.rows, f.total, f.err
}

func (f *fakeActivities) ListByUser(_ context.Context, userID string, _ gateway.Page) ([]domain.Activity, int64, error) {
	f.mu.Lock()
	f.lastUserID = userID
	f.mu.Unlock()
	return f.rows, f.total, f.err
}

func (f *fakeActivities) ListByType(context.Context, domain.ActivityType, gateway.Page) ([]domain.Activity, int64, error) {
	return f.rows, f.total, f.err
}

func (f *fakeActivities) ListVerified(context.Context, gateway.Page) ([]domain.Activity, int64, error) {
	return f.rows, f.total, f.err
}

func (f *fakeActivities) Create(_ context.Context, a *domain.Activity) (*domain.Activity, error) {
	return a, f.err
}

func (f *fakeActivities) Update(context.Context, string, map[string]interface{}) (*domain.Activity, error) {
	return nil, f.err
}

func (f *fakeActivities) Delete(context.Context, string) error { return f.err }

type fakeProposals struct {
	rows []domain.Proposal
	err  error
}

func (f *fakeProposals) List(context.Context, gateway.Page) ([]domain.Proposal, int64, error) {
	return f.rows, int64(len(f.rows)), f.err
}

func (f *fakeProposals) ListActive(context.Context) ([]domain.Proposal, error) {
	return f.rows, f.err
}

func (f *fakeProposals) Get(context.Context, string) (*domain.Proposal, error) { return nil, f.err }

func (f *fakeProposals) Create(_ context.Context, p *domain.Proposal) (*domain.Proposal, error) {
	return p, f.err
}

func (f *fakeProposals) Update(context.Context, string, map[string]interface{}) (*domain.Proposal, error) {
	return nil, f.err
}

func TestDashboardStats(t *testing.T) {
	auth := &recordingAuth{}
	as, ui := newTestStores(t, auth)
	require.NoError(t, as.SignIn(context.Background(), "ann@example.com", "hunter22"))

	page := NewDashboard(as, ui, &fakeActivities{}, &fakeProposals{})
	stats := page.Stats()
	require.Len(t, stats, 4)
	assert.Equal(t, "321", stats[0].Value)
	assert.Equal(t, "7", stats[1].Value)
	assert.Equal(t, "1,234", stats[2].Value)
	assert.Equal(t, "5,678", stats[3].Value)
}

func TestDashboardSampleData(t *testing.T) {
	auth := &recordingAuth{}
	as, ui := newTestStores(t, auth)
	page := NewDashboard(as, ui, &fakeActivities{}, &fakeProposals{})

	activities := page.RecentActivities()
	require.Len(t, activities, 3)
	assert.Equal(t, "Tree Planting Initiative", activities[0].Title)
	assert.Equal(t, domain.ActivityVerified, activities[0].Status)

	balances := page.TokenBalances()
	require.Len(t, balances, 3)
	assert.Equal(t, "NALO", balances[0].Symbol)
	assert.Equal(t, 1250.5, balances[0].Balance)

	proposals := page.ActiveProposals()
	require.Len(t, proposals, 2)
	assert.Equal(t, "Community Solar Panel Installation", proposals[0].Title)
	assert.Len(t, page.QuickActions(), 3)
}

func TestDashboardRefreshActivities(t *testing.T) {
	auth := &recordingAuth{}
	as, ui := newTestStores(t, auth)
	require.NoError(t, as.SignIn(context.Background(), "ann@example.com", "hunter22"))

	fake := &fakeActivities{rows: []domain.Activity{{ID: "a1", Title: "Beach cleanup"}}, total: 12}
	page := NewDashboard(as, ui, fake, &fakeProposals{})

	rows, total, err := page.RefreshActivities(context.Background(), gateway.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, rows, 1)
	assert.Equal(t, "u1", fake.lastUserID)
}

func TestDashboardRefreshProposalFailureNotifies(t *testing.T) {
	auth := &recordingAuth{}
	as, ui := newTestStores(t, auth)
	page := NewDashboard(as, ui, &fakeActivities{}, &fakeProposals{err: supabase.NewError("", "service unavailable", 503)})

	_, err := page.RefreshProposals(context.Background())
	require.Error(t, err)
	require.Len(t, ui.Notifications(), 1)
	assert.Equal(t, uistore.NotifyError, ui.Notifications()[0].Type)
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "0", formatNumber(0))
	assert.Equal(t, "1,234", formatNumber(1234))
	assert.Equal(t, "1,234,567", formatNumber(1234567))
	assert.Equal(t, "1,250.5", formatNumber(1250.5))
	assert.Equal(t, "-9,876", formatNumber(-9876))
}
