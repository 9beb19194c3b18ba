package ports

import (
	"context"

	"github.com/deval2498/Spotmf/core"
)

// ChallengeStore holds the single pending login challenge per wallet.
type ChallengeStore interface {
	// GetChallenge returns the live challenge for a wallet, or nil when
	// absent or expired.
	GetChallenge(ctx context.Context, wallet string) (*core.AuthChallenge, error)

	// PutChallenge upserts the challenge, replacing any prior one.
	PutChallenge(ctx context.Context, challenge *core.AuthChallenge) error

	// DeleteChallenge atomically removes the wallet's challenge and reports
	// whether one was removed. This is the login single-use serialization
	// point: of two concurrent deletes, exactly one observes true.
	DeleteChallenge(ctx context.Context, wallet string) (bool, error)
}

// AuthorizationStore holds single-use action authorization records.
type AuthorizationStore interface {
	PutAuthorization(ctx context.Context, auth *core.ActionAuthorization) error

	// GetAuthorization returns the record by id, or nil when absent.
	GetAuthorization(ctx context.Context, id string) (*core.ActionAuthorization, error)

	// FindAuthorization returns the unexpired record matching the wallet
	// and every field of the decoded intent, or nil when nothing matches.
	// Used records are still returned, so a replayed redemption fails on
	// MarkAuthorizationUsed rather than looking like a missing record.
	FindAuthorization(ctx context.Context, wallet string, intent core.ActionIntent) (*core.ActionAuthorization, error)

	// MarkAuthorizationUsed flips used from false to true as a single
	// compare-and-set. A record that is already used fails with
	// core.ErrAlreadyRedeemed; the flip is never reversed.
	MarkAuthorizationUsed(ctx context.Context, id string) error
}

// UserStore upserts the identity record touched on each login.
type UserStore interface {
	UpsertUser(ctx context.Context, wallet string) (*core.User, error)
}

// Store is the durable storage the orchestrators run over.
type Store interface {
	ChallengeStore
	AuthorizationStore
	UserStore
}
