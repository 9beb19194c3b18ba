package service

import (
	"context"
	"fmt"
	"log"
	"math/big"
	"time"

	"github.com/deval2498/Spotmf/codec"
	"github.com/deval2498/Spotmf/core"
	"github.com/deval2498/Spotmf/internal/eth"
	"github.com/deval2498/Spotmf/ports"
	"github.com/google/uuid"
)

// ActionService runs the create-intent / redeem-intent flow for single-use
// action authorizations.
type ActionService struct {
	store     ports.Store
	txBuilder *eth.TxBuilder
	eventPub  ports.EventPublisher

	authorizationTTL time.Duration
}

// NewActionService creates a new action authorization service.
func NewActionService(
	store ports.Store,
	txBuilder *eth.TxBuilder,
	eventPub ports.EventPublisher,
) *ActionService {
	return &ActionService{
		store:            store,
		txBuilder:        txBuilder,
		eventPub:         eventPub,
		authorizationTTL: time.Hour,
	}
}

// CreateActionResult carries the new record's id and the message the wallet
// must sign to redeem it.
type CreateActionResult struct {
	ID      string
	Message string
}

// RedeemActionResult carries the redeemed record's id and the transaction
// payload it produced.
type RedeemActionResult struct {
	ID          string
	Transaction *eth.TxPayload
}

// Create records a new action authorization for the wallet and returns the
// canonical message to sign. The wallet identity comes from the verified
// credential, never from the request body.
func (s *ActionService) Create(ctx context.Context, walletAddress string, payload core.ActionPayload) (*CreateActionResult, error) {
	if !core.ValidAddress(walletAddress) {
		return nil, core.ErrInvalidAddress
	}
	if payload == nil {
		return nil, core.ErrInvalidPayload
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	nonce, err := generateNonce()
	if err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	intent := core.ActionIntent{Nonce: nonce, Payload: payload}

	record := core.NewActionAuthorization(uuid.New().String(), walletAddress, intent, time.Now(), s.authorizationTTL)
	if err := s.store.PutAuthorization(ctx, record); err != nil {
		return nil, err
	}

	return &CreateActionResult{
		ID:      record.ID,
		Message: codec.EncodeAction(intent),
	}, nil
}

// Redeem consumes a signed action message exactly once and constructs the
// downstream transaction payload. The composite lookup re-derives every
// payload field from the message, so a message with even one field altered
// after issuance matches no stored record.
func (s *ActionService) Redeem(ctx context.Context, walletAddress, message, signature string) (*RedeemActionResult, error) {
	if !core.ValidSignatureHex(signature) {
		return nil, core.ErrInvalidSignature
	}

	intent, err := codec.DecodeAction(message)
	if err != nil {
		return nil, err
	}

	record, err := s.store.FindAuthorization(ctx, walletAddress, intent)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, core.ErrNoMatchingAuthorization
	}

	signer, err := eth.RecoverPersonalSigner(message, signature)
	if err != nil {
		return nil, err
	}
	if core.NormalizeAddress(signer.Hex()) != record.WalletAddress {
		return nil, core.ErrSignatureMismatch
	}

	// Compare-and-set: the loser of a concurrent redemption race gets
	// ErrAlreadyRedeemed here rather than double-processing.
	if err := s.store.MarkAuthorizationUsed(ctx, record.ID); err != nil {
		return nil, err
	}

	tx, err := s.buildTransaction(record)
	if err != nil {
		return nil, err
	}

	if s.eventPub != nil {
		if err := s.eventPub.PublishRedemption(ctx, record.WalletAddress, record.ID, record.Action); err != nil {
			log.Printf("warning: failed to publish redemption event: %v", err)
		}
	}
	return &RedeemActionResult{ID: record.ID, Transaction: tx}, nil
}

// buildTransaction maps a redeemed record to its ERC-20 approve call.
// Deletion revokes the allowance by approving zero.
func (s *ActionService) buildTransaction(record *core.ActionAuthorization) (*eth.TxPayload, error) {
	amount := big.NewInt(0)
	if record.Action == core.ActionCreateStrategy || record.Action == core.ActionUpdateStrategy {
		parsed, ok := new(big.Int).SetString(record.TotalAmount, 10)
		if !ok {
			return nil, fmt.Errorf("authorization %s has a corrupt total amount", record.ID)
		}
		amount = parsed
	}
	return s.txBuilder.ApprovePayload(record.Asset, amount)
}
