package tokenizer

import "github.com/golang-jwt/jwt/v5"

// AccessClaims are the claims of the wallet credential. The wallet address is
// the subject; nothing else is carried.
type AccessClaims struct {
	jwt.RegisteredClaims
}
