package eth

import (
	"crypto/ecdsa"
	"testing"

	"github.com/deval2498/Spotmf/core"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// signPersonal produces the 65-byte signature a wallet's personal_sign would,
// with V encoded as 27/28.
func signPersonal(t *testing.T, key *ecdsa.PrivateKey, message string) string {
	t.Helper()
	sig, err := crypto.Sign(accounts.TextHash([]byte(message)), key)
	require.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27
	return hexutil.Encode(sig)
}

func TestRecoverPersonalSigner(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	want := crypto.PubkeyToAddress(key.PublicKey)

	msg := "Sign this message to authenticate deadbeef"
	got, err := RecoverPersonalSigner(msg, signPersonal(t, key, msg))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestRecoverPersonalSignerAcceptsRawRecoveryID(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	msg := "hello"
	sig, err := crypto.Sign(accounts.TextHash([]byte(msg)), key)
	require.NoError(t, err)

	// V left as 0/1, the way go-ethereum emits it.
	got, err := RecoverPersonalSigner(msg, hexutil.Encode(sig))
	require.NoError(t, err)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), got)
}

func TestRecoverPersonalSignerWrongKeyIsNotAnError(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	other, err := crypto.GenerateKey()
	require.NoError(t, err)

	// Recovery succeeds but yields the other signer; the mismatch is the
	// caller's comparison, not a verifier failure.
	got, err := RecoverPersonalSigner("some message", signPersonal(t, other, "some message"))
	require.NoError(t, err)
	assert.NotEqual(t, crypto.PubkeyToAddress(key.PublicKey), got)
	assert.Equal(t, crypto.PubkeyToAddress(other.PublicKey), got)
}

func TestRecoverPersonalSignerMalformed(t *testing.T) {
	tests := []struct {
		name string
		sig  string
	}{
		{"not hex", "0xzz"},
		{"no prefix", "deadbeef"},
		{"too short", "0xdeadbeef"},
		{"bad recovery id", "0x" + repeatHex(64) + "05"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := RecoverPersonalSigner("msg", tc.sig)
			assert.ErrorIs(t, err, core.ErrInvalidSignature)
		})
	}
}

func repeatHex(n int) string {
	out := make([]byte, 2*n)
	for i := range out {
		out[i] = '1'
	}
	return string(out)
}
