package service

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"testing"
	"time"

	"github.com/deval2498/Spotmf/adapters/store"
	"github.com/deval2498/Spotmf/adapters/tokenizer"
	"github.com/deval2498/Spotmf/core"
	"github.com/deval2498/Spotmf/ports"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signPersonal emulates a wallet's personal_sign, V encoded as 27/28.
func signPersonal(t *testing.T, key *ecdsa.PrivateKey, message string) string {
	t.Helper()
	sig, err := gethcrypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	sig[gethcrypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig)
}

func newWallet(t *testing.T) (*ecdsa.PrivateKey, string) {
	t.Helper()
	key, err := gethcrypto.GenerateKey()
	require.NoError(t, err)
	return key, gethcrypto.PubkeyToAddress(key.PublicKey).Hex()
}

func newAuthService(t *testing.T) (*AuthService, ports.Store, ports.Tokenizer) {
	t.Helper()
	signKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tk := tokenizer.NewJWTTokenizer(signKey)
	st := store.NewMemoryStore()
	return NewAuthService(st, tk, nil), st, tk
}

func TestCreateChallengeIsIdempotentWhileLive(t *testing.T) {
	svc, _, _ := newAuthService(t)
	_, wallet := newWallet(t)
	ctx := context.Background()

	first, err := svc.CreateChallenge(ctx, wallet)
	require.NoError(t, err)
	assert.Contains(t, first, "Sign this message to authenticate ")

	second, err := svc.CreateChallenge(ctx, wallet)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCreateChallengeRejectsBadAddress(t *testing.T) {
	svc, _, _ := newAuthService(t)

	for _, addr := range []string{"", "0x123", "not-an-address", "0xGG34567890123456789012345678901234567890"} {
		_, err := svc.CreateChallenge(context.Background(), addr)
		assert.ErrorIs(t, err, core.ErrInvalidAddress, "address %q", addr)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _, tk := newAuthService(t)
	key, wallet := newWallet(t)
	ctx := context.Background()

	message, err := svc.CreateChallenge(ctx, wallet)
	require.NoError(t, err)

	token, err := svc.Login(ctx, wallet, signPersonal(t, key, message))
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := tk.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, core.NormalizeAddress(wallet), subject)

	// The challenge is consumed: replaying the same signature fails.
	_, err = svc.Login(ctx, wallet, signPersonal(t, key, message))
	assert.ErrorIs(t, err, core.ErrNoValidChallenge)
}

func TestLoginIsCaseInsensitiveOnAddress(t *testing.T) {
	svc, _, _ := newAuthService(t)
	key, wallet := newWallet(t)
	ctx := context.Background()

	message, err := svc.CreateChallenge(ctx, core.NormalizeAddress(wallet))
	require.NoError(t, err)

	// Checksummed casing on login, lower-cased on challenge.
	_, err = svc.Login(ctx, wallet, signPersonal(t, key, message))
	assert.NoError(t, err)
}

func TestLoginWrongSigner(t *testing.T) {
	svc, _, _ := newAuthService(t)
	_, wallet := newWallet(t)
	otherKey, _ := newWallet(t)
	ctx := context.Background()

	message, err := svc.CreateChallenge(ctx, wallet)
	require.NoError(t, err)

	_, err = svc.Login(ctx, wallet, signPersonal(t, otherKey, message))
	assert.ErrorIs(t, err, core.ErrSignatureMismatch)

	// The challenge survives a failed attempt.
	_, err = svc.CreateChallenge(ctx, wallet)
	require.NoError(t, err)
}

func TestLoginWithoutChallenge(t *testing.T) {
	svc, _, _ := newAuthService(t)
	key, wallet := newWallet(t)

	_, err := svc.Login(context.Background(), wallet, signPersonal(t, key, "anything"))
	assert.ErrorIs(t, err, core.ErrNoValidChallenge)
}

func TestLoginExpiredChallenge(t *testing.T) {
	svc, st, _ := newAuthService(t)
	key, wallet := newWallet(t)
	ctx := context.Background()

	expired := &core.AuthChallenge{
		WalletAddress: core.NormalizeAddress(wallet),
		Nonce:         "aaaa",
		IssuedAt:      time.Now().Add(-10 * time.Minute),
		ExpiresAt:     time.Now().Add(-5 * time.Minute),
	}
	require.NoError(t, st.PutChallenge(ctx, expired))

	message := "Sign this message to authenticate aaaa"
	_, err := svc.Login(ctx, wallet, signPersonal(t, key, message))
	assert.ErrorIs(t, err, core.ErrNoValidChallenge)

	// An expired challenge is replaced, not reissued.
	fresh, err := svc.CreateChallenge(ctx, wallet)
	require.NoError(t, err)
	assert.NotEqual(t, message, fresh)
}

func TestLoginRejectsMalformedSignatureFormat(t *testing.T) {
	svc, _, _ := newAuthService(t)
	_, wallet := newWallet(t)
	ctx := context.Background()

	_, err := svc.CreateChallenge(ctx, wallet)
	require.NoError(t, err)

	for _, sig := range []string{"", "0x1234", "nothex"} {
		_, err := svc.Login(ctx, wallet, sig)
		assert.ErrorIs(t, err, core.ErrInvalidSignature, "signature %q", sig)
	}
}

func TestLoginUpsertsUser(t *testing.T) {
	svc, st, _ := newAuthService(t)
	key, wallet := newWallet(t)
	ctx := context.Background()

	message, err := svc.CreateChallenge(ctx, wallet)
	require.NoError(t, err)
	_, err = svc.Login(ctx, wallet, signPersonal(t, key, message))
	require.NoError(t, err)

	user, err := st.UpsertUser(ctx, wallet)
	require.NoError(t, err)
	assert.Equal(t, core.NormalizeAddress(wallet), user.WalletAddress)
	assert.False(t, user.CreatedAt.IsZero())
}
