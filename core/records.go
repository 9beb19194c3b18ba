package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuthChallenge is the single pending login challenge for a wallet.
type AuthChallenge struct {
	WalletAddress string    `json:"wallet_address"` // lower-cased, primary key
	Nonce         string    `json:"nonce"`
	IssuedAt      time.Time `json:"issued_at"`
	ExpiresAt     time.Time `json:"expires_at"`
}

// Live reports whether the challenge can still be answered at the given time.
func (c *AuthChallenge) Live(now time.Time) bool {
	return c != nil && now.Before(c.ExpiresAt)
}

// ActionAuthorization is the persisted, single-use record of an off-chain
// intent. Payload fields that do not apply to the record's kind stay at their
// zero value and never participate in matching. Once Used flips to true the
// record is terminal; it is kept as an audit reference for downstream
// strategy bookkeeping and never deleted here.
type ActionAuthorization struct {
	ID            string     `json:"id"`
	WalletAddress string     `json:"wallet_address"`
	Action        ActionKind `json:"action"`
	Nonce         string     `json:"nonce"`

	Asset            AssetType       `json:"asset"`
	Strategy         StrategyType    `json:"strategy"`
	IntervalAmount   string          `json:"interval_amount,omitempty"`
	IntervalDays     int             `json:"interval_days,omitempty"`
	AcceptedSlippage decimal.Decimal `json:"accepted_slippage"`
	TotalAmount      string          `json:"total_amount,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}

// NewActionAuthorization flattens an intent into a storable record.
func NewActionAuthorization(id, wallet string, intent ActionIntent, now time.Time, ttl time.Duration) *ActionAuthorization {
	rec := &ActionAuthorization{
		ID:            id,
		WalletAddress: NormalizeAddress(wallet),
		Action:        intent.Kind(),
		Nonce:         intent.Nonce,
		CreatedAt:     now,
		ExpiresAt:     now.Add(ttl),
	}
	switch p := intent.Payload.(type) {
	case StrategyParams:
		rec.Asset = p.Asset
		rec.Strategy = p.Strategy
		rec.IntervalAmount = p.IntervalAmount
		rec.IntervalDays = p.IntervalDays
		rec.AcceptedSlippage = p.AcceptedSlippage
		rec.TotalAmount = p.TotalAmount
	case DeleteStrategyParams:
		rec.Asset = p.Asset
		rec.Strategy = p.Strategy
	}
	return rec
}

// Live reports whether the authorization can still be redeemed at the given time.
func (a *ActionAuthorization) Live(now time.Time) bool {
	return a != nil && now.Before(a.ExpiresAt)
}

// Matches compares the record against a decoded intent field-for-field. This
// is the anti-tamper check on redemption: a message with even one altered
// payload field matches no stored record.
func (a *ActionAuthorization) Matches(wallet string, intent ActionIntent) bool {
	if a.WalletAddress != NormalizeAddress(wallet) {
		return false
	}
	if a.Action != intent.Kind() || a.Nonce != intent.Nonce {
		return false
	}
	switch p := intent.Payload.(type) {
	case StrategyParams:
		return a.Asset == p.Asset &&
			a.Strategy == p.Strategy &&
			a.IntervalAmount == p.IntervalAmount &&
			a.IntervalDays == p.IntervalDays &&
			a.AcceptedSlippage.Equal(p.AcceptedSlippage) &&
			a.TotalAmount == p.TotalAmount
	case DeleteStrategyParams:
		return a.Asset == p.Asset && a.Strategy == p.Strategy
	}
	return false
}

// User is the create-or-touch identity record upserted on each login.
type User struct {
	WalletAddress string    `json:"wallet_address"` // lower-cased, primary key
	CreatedAt     time.Time `json:"created_at"`
	LastLoginAt   time.Time `json:"last_login_at"`
}
