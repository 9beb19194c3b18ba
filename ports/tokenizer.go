package ports

import "time"

// Tokenizer issues and verifies the stateless bearer credential binding a
// wallet address. The credential is signed, not encrypted: it prevents
// forgery, not disclosure, so callers must never embed secrets in it.
type Tokenizer interface {
	// Issue mints a credential for the wallet with the given lifetime.
	Issue(walletAddress string, ttl time.Duration) (string, error)

	// Verify checks the credential and returns the wallet it binds.
	// Expiry and signature failures are not distinguished to callers.
	Verify(token string) (walletAddress string, err error)
}
