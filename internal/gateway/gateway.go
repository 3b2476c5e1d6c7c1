// Package gateway is the application's sole access point to the hosted
// backend: auth, row CRUD, file storage and change feeds. Every operation is
// a pass-through; backend errors are returned to the caller unmodified, with
// no retry and no backoff.
package gateway

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/NaloDAO/community_app/infra/supabase"
	"github.com/NaloDAO/community_app/internal/domain"
)

// Table names on the backend.
const (
	TableUsers         = "users"
	TableActivities    = "activities"
	TableProposals     = "proposals"
	TableVotes         = "votes"
	TableTokenBalances = "token_balances"
)

// DefaultPageSize is used when a list call passes a zero page size.
const DefaultPageSize = 10

// Page is a cursor-style page request. Numbering starts at 1.
type Page struct {
	Number int
	Size   int
}

func (p Page) bounds() (from, to int) {
	size := p.Size
	if size <= 0 {
		size = DefaultPageSize
	}
	number := p.Number
	if number <= 0 {
		number = 1
	}
	from = (number - 1) * size
	return from, from + size - 1
}

// AuthEvent identifies an auth state change.
type AuthEvent string

const (
	AuthSignedIn  AuthEvent = "SIGNED_IN"
	AuthSignedOut AuthEvent = "SIGNED_OUT"
)

// AuthChange is delivered to auth-change listeners. Delivery is asynchronous
// and at-most-once per event; there is no replay of past events.
type AuthChange struct {
	Event   AuthEvent
	Session *supabase.Session
}

// AuthAPI covers identity operations.
type AuthAPI interface {
	SignUp(ctx context.Context, email, password, name string) (*supabase.Session, error)
	SignIn(ctx context.Context, email, password string) (*supabase.Session, error)
	SignOut(ctx context.Context, accessToken string) error
	CurrentUser(ctx context.Context, accessToken string) (*supabase.User, error)
	ResetPassword(ctx context.Context, email string) error
	UpdatePassword(ctx context.Context, accessToken, newPassword string) error
	OnAuthStateChange(fn func(AuthChange)) (unsubscribe func())
}

// UserAPI covers profile records.
type UserAPI interface {
	CreateProfile(ctx context.Context, user *domain.User) (*domain.User, error)
	Profile(ctx context.Context, id string) (*domain.User, error)
	UpdateProfile(ctx context.Context, id string, updates map[string]interface{}) (*domain.User, error)
	ByWalletAddress(ctx context.Context, walletAddress string) (*domain.User, error)
}

// ActivityAPI covers logged activities. List operations return the backend's
// total row count alongside the page.
type ActivityAPI interface {
	List(ctx context.Context, page Page) ([]domain.Activity, int64, error)
	ListByUser(ctx context.Context, userID string, page Page) ([]domain.Activity, int64, error)
	ListByType(ctx context.Context, activityType domain.ActivityType, page Page) ([]domain.Activity, int64, error)
	ListVerified(ctx context.Context, page Page) ([]domain.Activity, int64, error)
	Create(ctx context.Context, activity *domain.Activity) (*domain.Activity, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*domain.Activity, error)
	Delete(ctx context.Context, id string) error
}

// ProposalAPI covers governance proposals.
type ProposalAPI interface {
	List(ctx context.Context, page Page) ([]domain.Proposal, int64, error)
	ListActive(ctx context.Context) ([]domain.Proposal, error)
	Get(ctx context.Context, id string) (*domain.Proposal, error)
	Create(ctx context.Context, proposal *domain.Proposal) (*domain.Proposal, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*domain.Proposal, error)
}

// VoteAPI covers ballots. HasVoted exposes the one-vote-per-pair check the
// backend enforces, so the caller can decide before submitting.
type VoteAPI interface {
	ListByProposal(ctx context.Context, proposalID string) ([]domain.Vote, error)
	Create(ctx context.Context, vote *domain.Vote) (*domain.Vote, error)
	HasVoted(ctx context.Context, proposalID, userID string) (bool, *domain.Vote, error)
}

// TokenAPI covers balance snapshots.
type TokenAPI interface {
	Balances(ctx context.Context, userID string) ([]domain.TokenBalance, error)
	UpsertBalance(ctx context.Context, userID, tokenSymbol string, balance float64) (*domain.TokenBalance, error)
}

// StorageAPI covers blob storage.
type StorageAPI interface {
	UploadFile(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
	DeleteFile(ctx context.Context, bucket, path string) error
	PublicFileURL(bucket, path string) string
}

// Subscription is a live change-feed registration. Callers must call
// Unsubscribe when done.
type Subscription struct {
	ID    string
	Table string

	cancel func() error
}

// Unsubscribe tears the subscription down.
func (s *Subscription) Unsubscribe() error {
	if s.cancel == nil {
		return nil
	}
	return s.cancel()
}

// RealtimeAPI delivers change events for a table as they occur. Events are
// at-least-once with no ordering guarantee across subscriptions.
type RealtimeAPI interface {
	SubscribeToTable(ctx context.Context, table string, fn supabase.ChangeHandler) (*Subscription, error)
}

// Gateway bundles the typed backend APIs.
type Gateway struct {
	Auth       AuthAPI
	Users      UserAPI
	Activities ActivityAPI
	Proposals  ProposalAPI
	Votes      VoteAPI
	Tokens     TokenAPI
	Storage    StorageAPI
	Realtime   RealtimeAPI
}

// New creates a gateway backed by the Supabase client.
func New(client *supabase.Client, log zerolog.Logger) *Gateway {
	return &Gateway{
		Auth:       newAuthService(client, log),
		Users:      &userService{client: client},
		Activities: &activityService{client: client},
		Proposals:  &proposalService{client: client},
		Votes:      &voteService{client: client},
		Tokens:     &tokenService{client: client},
		Storage:    &storageService{client: client},
		Realtime:   &realtimeService{client: client, log: log},
	}
}
