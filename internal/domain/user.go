// Package domain defines the entity records persisted by the backend. Field
// tags follow the backend's snake_case column names.
package domain

import "time"

// Chain identifies a supported blockchain.
type Chain string

const (
	ChainSolana Chain = "solana"
	ChainAptos  Chain = "aptos"
	ChainSui    Chain = "sui"
)

// User is a member's profile record. Exactly one persisted record exists per
// identity id; the record is created at registration and never deleted by
// this application.
type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email,omitempty"`
	WalletAddress    string    `json:"wallet_address,omitempty"`
	WalletType       Chain     `json:"wallet_type,omitempty"`
	Name             string    `json:"name"`
	Bio              string    `json:"bio,omitempty"`
	Location         string    `json:"location,omitempty"`
	AvatarURL        string    `json:"avatar_url,omitempty"`
	ProjectInterests []string  `json:"project_interests,omitempty"`
	IsVerified       bool      `json:"is_verified"`
	TotalImpactScore float64   `json:"total_impact_score"`
	TotalActivities  int       `json:"total_activities"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// UserRef is the author summary embedded in activity/proposal/vote reads.
type UserRef struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}
