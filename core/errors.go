package core

import "errors"

var (
	ErrInvalidAddress          = errors.New("invalid ethereum address")
	ErrInvalidSignature        = errors.New("invalid signature")
	ErrSignatureMismatch       = errors.New("signature does not match wallet")
	ErrNoValidChallenge        = errors.New("no valid challenge for wallet")
	ErrInvalidMessage          = errors.New("invalid action message")
	ErrNoMatchingAuthorization = errors.New("no matching action authorization")
	ErrAlreadyRedeemed         = errors.New("action authorization already redeemed")
	ErrInvalidPayload          = errors.New("invalid action payload")
	ErrUnknownAsset            = errors.New("asset not configured")
	ErrInvalidToken            = errors.New("invalid token")
	ErrStoreUnavailable        = errors.New("store unavailable")
)
