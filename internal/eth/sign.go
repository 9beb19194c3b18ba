// Package eth wraps the go-ethereum primitives this service needs: EIP-191
// personal-message signature recovery and ERC-20 approve call construction.
package eth

import (
	"fmt"

	"github.com/deval2498/Spotmf/core"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// RecoverPersonalSigner returns the address that produced signatureHex over
// the given plaintext message, per EIP-191 personal_sign (the wallet signed
// the UTF-8 message, not a caller-digested hash). A malformed signature fails
// with core.ErrInvalidSignature; a well-formed signature from the wrong key
// recovers a different address, and the mismatch is the caller's comparison.
func RecoverPersonalSigner(message, signatureHex string) (common.Address, error) {
	sig, err := hexutil.Decode(signatureHex)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: not a hex signature", core.ErrInvalidSignature)
	}
	if len(sig) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("%w: signature must be %d bytes", core.ErrInvalidSignature, crypto.SignatureLength)
	}

	// Wallets emit V as 27/28; go-ethereum expects 0/1.
	sig = append([]byte(nil), sig...)
	if sig[crypto.RecoveryIDOffset] >= 27 {
		sig[crypto.RecoveryIDOffset] -= 27
	}
	if sig[crypto.RecoveryIDOffset] > 1 {
		return common.Address{}, fmt.Errorf("%w: invalid recovery id", core.ErrInvalidSignature)
	}

	pub, err := crypto.SigToPub(accounts.TextHash([]byte(message)), sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: recovery failed", core.ErrInvalidSignature)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
