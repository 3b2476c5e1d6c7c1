// Package supabase provides a client for the hosted Supabase backend: auth,
// PostgREST database access, object storage and realtime change feeds.
package supabase

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// =============================================================================
// Configuration
// =============================================================================

// Config holds Supabase client configuration.
type Config struct {
	// ProjectURL is the Supabase project URL (e.g. https://xxx.supabase.co).
	ProjectURL string

	// AnonKey is the public API key sent with every request.
	AnonKey string

	// HTTPClient overrides the default HTTP client.
	HTTPClient *http.Client

	// Timeout for HTTP requests when no HTTPClient is supplied.
	Timeout time.Duration

	// DefaultHeaders are added to every request.
	DefaultHeaders map[string]string
}

// =============================================================================
// Auth Types
// =============================================================================

// User represents a backend auth identity.
type User struct {
	ID               string                 `json:"id"`
	Aud              string                 `json:"aud"`
	Role             string                 `json:"role"`
	Email            string                 `json:"email"`
	EmailConfirmedAt *time.Time             `json:"email_confirmed_at,omitempty"`
	LastSignInAt     *time.Time             `json:"last_sign_in_at,omitempty"`
	AppMetadata      map[string]interface{} `json:"app_metadata,omitempty"`
	UserMetadata     map[string]interface{} `json:"user_metadata,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
	UpdatedAt        time.Time              `json:"updated_at"`
}

// Session represents an auth session.
type Session struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at,omitempty"`
	RefreshToken string `json:"refresh_token"`
	User         *User  `json:"user,omitempty"`
}

// Expiry returns the session expiry time. When the token endpoint omits
// expires_at, the access token's exp claim is used instead; the token is not
// verified here, only decoded.
func (s *Session) Expiry() time.Time {
	if s.ExpiresAt > 0 {
		return time.Unix(s.ExpiresAt, 0)
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

// SignUpRequest for user registration. Data lands in the identity's
// user_metadata.
type SignUpRequest struct {
	Email    string                 `json:"email"`
	Password string                 `json:"password"`
	Data     map[string]interface{} `json:"data,omitempty"`
}

// =============================================================================
// Database Types
// =============================================================================

// FilterOperator for query filters.
type FilterOperator string

const (
	OpEq    FilterOperator = "eq"
	OpNeq   FilterOperator = "neq"
	OpGt    FilterOperator = "gt"
	OpGte   FilterOperator = "gte"
	OpLt    FilterOperator = "lt"
	OpLte   FilterOperator = "lte"
	OpLike  FilterOperator = "like"
	OpILike FilterOperator = "ilike"
	OpIs    FilterOperator = "is"
	OpIn    FilterOperator = "in"
)

// OrderDirection for sorting.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "asc"
	OrderDesc OrderDirection = "desc"
)

// Count algorithms accepted by the Prefer header.
const (
	CountExact     = "exact"
	CountPlanned   = "planned"
	CountEstimated = "estimated"
)

// =============================================================================
// Storage Types
// =============================================================================

// UploadResult is returned by object uploads.
type UploadResult struct {
	Key string `json:"Key"`
	ID  string `json:"Id,omitempty"`
}

// =============================================================================
// Realtime Types
// =============================================================================

// ChangeType identifies a database change event.
type ChangeType string

const (
	ChangeInsert ChangeType = "INSERT"
	ChangeUpdate ChangeType = "UPDATE"
	ChangeDelete ChangeType = "DELETE"
	ChangeAll    ChangeType = "*"
)

// ChangeEvent is a single database change delivered over the realtime feed.
type ChangeEvent struct {
	Type      ChangeType             `json:"type"`
	Schema    string                 `json:"schema"`
	Table     string                 `json:"table"`
	Record    map[string]interface{} `json:"record,omitempty"`
	OldRecord map[string]interface{} `json:"old_record,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

// ChangeHandler receives change events.
type ChangeHandler func(event *ChangeEvent)

// =============================================================================
// Error Types
// =============================================================================

// Error represents a backend API error. The gateway surfaces these to callers
// unmodified.
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Hint       string `json:"hint,omitempty"`
	StatusCode int    `json:"status_code"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// NewError creates a new backend error.
func NewError(code, message string, statusCode int) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Common errors
var (
	ErrUnauthorized = NewError("unauthorized", "unauthorized", 401)
	ErrForbidden    = NewError("forbidden", "forbidden", 403)
	ErrNotFound     = NewError("not_found", "resource not found", 404)
	ErrConflict     = NewError("conflict", "resource already exists", 409)
)
