package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/deval2498/Spotmf/codec"
	"github.com/deval2498/Spotmf/core"
	"github.com/deval2498/Spotmf/internal/eth"
	"github.com/deval2498/Spotmf/ports"
)

// AuthService runs the challenge/response login flow.
type AuthService struct {
	store     ports.Store
	tokenizer ports.Tokenizer
	eventPub  ports.EventPublisher

	challengeTTL  time.Duration
	credentialTTL time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(
	store ports.Store,
	tokenizer ports.Tokenizer,
	eventPub ports.EventPublisher,
) *AuthService {
	return &AuthService{
		store:         store,
		tokenizer:     tokenizer,
		eventPub:      eventPub,
		challengeTTL:  5 * time.Minute,
		credentialTTL: 30 * 24 * time.Hour,
	}
}

// CreateChallenge returns the message the wallet must sign to log in. While a
// live challenge exists its message is returned unchanged, so repeated
// polling cannot churn nonces.
func (s *AuthService) CreateChallenge(ctx context.Context, walletAddress string) (string, error) {
	if !core.ValidAddress(walletAddress) {
		return "", core.ErrInvalidAddress
	}
	wallet := core.NormalizeAddress(walletAddress)

	existing, err := s.store.GetChallenge(ctx, wallet)
	if err != nil {
		return "", err
	}
	now := time.Now()
	if existing.Live(now) {
		return codec.EncodeChallenge(existing.Nonce), nil
	}

	nonce, err := generateNonce()
	if err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	challenge := &core.AuthChallenge{
		WalletAddress: wallet,
		Nonce:         nonce,
		IssuedAt:      now,
		ExpiresAt:     now.Add(s.challengeTTL),
	}
	if err := s.store.PutChallenge(ctx, challenge); err != nil {
		return "", err
	}
	return codec.EncodeChallenge(nonce), nil
}

// Login verifies the signed challenge and returns a bearer credential. The
// challenge deletion is the single-use serialization point: of two concurrent
// logins, the one whose delete removes the row wins and the other fails with
// ErrNoValidChallenge.
func (s *AuthService) Login(ctx context.Context, walletAddress, signature string) (string, error) {
	if !core.ValidAddress(walletAddress) {
		return "", core.ErrInvalidAddress
	}
	if !core.ValidSignatureHex(signature) {
		return "", core.ErrInvalidSignature
	}
	wallet := core.NormalizeAddress(walletAddress)

	challenge, err := s.store.GetChallenge(ctx, wallet)
	if err != nil {
		return "", err
	}
	if !challenge.Live(time.Now()) {
		return "", core.ErrNoValidChallenge
	}

	message := codec.EncodeChallenge(challenge.Nonce)
	signer, err := eth.RecoverPersonalSigner(message, signature)
	if err != nil {
		return "", err
	}
	if core.NormalizeAddress(signer.Hex()) != wallet {
		return "", core.ErrSignatureMismatch
	}

	deleted, err := s.store.DeleteChallenge(ctx, wallet)
	if err != nil {
		return "", err
	}
	if !deleted {
		return "", core.ErrNoValidChallenge
	}

	// The remaining effects must not be partially observable: if either
	// fails, re-insert the challenge so the caller can retry the login.
	if _, err := s.store.UpsertUser(ctx, wallet); err != nil {
		s.restoreChallenge(ctx, challenge)
		return "", err
	}
	token, err := s.tokenizer.Issue(wallet, s.credentialTTL)
	if err != nil {
		s.restoreChallenge(ctx, challenge)
		return "", fmt.Errorf("failed to issue credential: %w", err)
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishLogin(ctx, wallet); err != nil {
			// The login already succeeded; the event is advisory.
			log.Printf("warning: failed to publish login event: %v", err)
		}
	}
	return token, nil
}

func (s *AuthService) restoreChallenge(ctx context.Context, challenge *core.AuthChallenge) {
	if err := s.store.PutChallenge(ctx, challenge); err != nil {
		log.Printf("warning: failed to restore challenge after rollback: %v", err)
	}
}

// generateNonce returns 32 random bytes hex-encoded.
func generateNonce() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
