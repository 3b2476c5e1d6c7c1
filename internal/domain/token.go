package domain

import "time"

// TokenBalance is a per-user, per-chain, per-symbol balance snapshot.
// Balances are upserted by (user, symbol); the client performs no balance
// arithmetic.
type TokenBalance struct {
	UserID          string    `json:"user_id"`
	TokenSymbol     string    `json:"token_symbol"`
	TokenName       string    `json:"token_name,omitempty"`
	Chain           Chain     `json:"chain,omitempty"`
	Balance         float64   `json:"balance"`
	Decimals        int       `json:"decimals,omitempty"`
	ContractAddress string    `json:"contract_address,omitempty"`
	UpdatedAt       time.Time `json:"updated_at"`
}
