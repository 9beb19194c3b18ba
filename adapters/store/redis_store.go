package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/deval2498/Spotmf/core"
	"github.com/deval2498/Spotmf/ports"
	"github.com/redis/go-redis/v9"
)

// markUsedScript flips the used flag of an authorization record as a single
// server-side compare-and-set. Returns -1 when the record is missing, 0 when
// it was already used, 1 when this call performed the flip.
var markUsedScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
	return -1
end
local rec = cjson.decode(raw)
if rec["used"] then
	return 0
end
rec["used"] = true
redis.call("SET", KEYS[1], cjson.encode(rec))
return 1
`)

// RedisStore is a Redis implementation of the Store interface. Challenges
// carry a TTL matching their expiry; authorization records are kept without
// TTL because redeemed rows remain as audit references for downstream
// strategy bookkeeping.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a new Redis store.
func NewRedisStore(client *redis.Client) ports.Store {
	return &RedisStore{
		client: client,
		prefix: "spotmf:",
	}
}

func (s *RedisStore) challengeKey(wallet string) string {
	return s.prefix + "challenge:" + core.NormalizeAddress(wallet)
}

func (s *RedisStore) authKey(id string) string {
	return s.prefix + "action:" + id
}

func (s *RedisStore) nonceKey(nonce string) string {
	return s.prefix + "action:nonce:" + nonce
}

func (s *RedisStore) userKey(wallet string) string {
	return s.prefix + "user:" + core.NormalizeAddress(wallet)
}

func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %v: %w", op, err, core.ErrStoreUnavailable)
}

// GetChallenge returns the live challenge for a wallet, or nil.
func (s *RedisStore) GetChallenge(ctx context.Context, wallet string) (*core.AuthChallenge, error) {
	raw, err := s.client.Get(ctx, s.challengeKey(wallet)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get challenge", err)
	}

	var c core.AuthChallenge
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		return nil, storeErr("decode challenge", err)
	}
	// The key TTL tracks expiry, but never trust it over the clock.
	if !c.Live(time.Now()) {
		return nil, nil
	}
	return &c, nil
}

// PutChallenge upserts the wallet's challenge with a TTL matching its expiry.
func (s *RedisStore) PutChallenge(ctx context.Context, challenge *core.AuthChallenge) error {
	raw, err := json.Marshal(challenge)
	if err != nil {
		return storeErr("encode challenge", err)
	}
	ttl := time.Until(challenge.ExpiresAt)
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, s.challengeKey(challenge.WalletAddress), raw, ttl).Err(); err != nil {
		return storeErr("put challenge", err)
	}
	return nil
}

// DeleteChallenge removes the wallet's challenge; DEL's reply makes the
// delete-if-present atomic, so only one of two concurrent logins sees true.
func (s *RedisStore) DeleteChallenge(ctx context.Context, wallet string) (bool, error) {
	n, err := s.client.Del(ctx, s.challengeKey(wallet)).Result()
	if err != nil {
		return false, storeErr("delete challenge", err)
	}
	return n > 0, nil
}

// PutAuthorization stores a new authorization record plus a nonce index entry
// used by the redemption lookup.
func (s *RedisStore) PutAuthorization(ctx context.Context, auth *core.ActionAuthorization) error {
	raw, err := json.Marshal(auth)
	if err != nil {
		return storeErr("encode authorization", err)
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, s.authKey(auth.ID), raw, 0)
	pipe.Set(ctx, s.nonceKey(auth.Nonce), auth.ID, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return storeErr("put authorization", err)
	}
	return nil
}

// GetAuthorization returns the record by id, or nil.
func (s *RedisStore) GetAuthorization(ctx context.Context, id string) (*core.ActionAuthorization, error) {
	raw, err := s.client.Get(ctx, s.authKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get authorization", err)
	}

	var a core.ActionAuthorization
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		return nil, storeErr("decode authorization", err)
	}
	return &a, nil
}

// FindAuthorization resolves the nonce index and applies the field-for-field
// composite match against the stored record. Used records still match; the
// mark-used compare-and-set is what reports a replay as already redeemed.
func (s *RedisStore) FindAuthorization(ctx context.Context, wallet string, intent core.ActionIntent) (*core.ActionAuthorization, error) {
	id, err := s.client.Get(ctx, s.nonceKey(intent.Nonce)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("find authorization", err)
	}

	a, err := s.GetAuthorization(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil || !a.Live(time.Now()) || !a.Matches(wallet, intent) {
		return nil, nil
	}
	return a, nil
}

// MarkAuthorizationUsed runs the compare-and-set script on the record.
func (s *RedisStore) MarkAuthorizationUsed(ctx context.Context, id string) error {
	res, err := markUsedScript.Run(ctx, s.client, []string{s.authKey(id)}).Int()
	if err != nil {
		return storeErr("mark authorization used", err)
	}
	switch res {
	case 1:
		return nil
	case 0:
		return core.ErrAlreadyRedeemed
	default:
		return core.ErrNoMatchingAuthorization
	}
}

// UpsertUser creates the user on first login and touches it afterwards.
func (s *RedisStore) UpsertUser(ctx context.Context, wallet string) (*core.User, error) {
	key := s.userKey(wallet)
	now := time.Now()

	u := &core.User{WalletAddress: core.NormalizeAddress(wallet), CreatedAt: now}
	raw, err := s.client.Get(ctx, key).Result()
	switch {
	case errors.Is(err, redis.Nil):
		// first login, CreatedAt stands
	case err != nil:
		return nil, storeErr("get user", err)
	default:
		if err := json.Unmarshal([]byte(raw), u); err != nil {
			return nil, storeErr("decode user", err)
		}
	}
	u.LastLoginAt = now

	out, err := json.Marshal(u)
	if err != nil {
		return nil, storeErr("encode user", err)
	}
	if err := s.client.Set(ctx, key, out, 0).Err(); err != nil {
		return nil, storeErr("put user", err)
	}
	return u, nil
}
