package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/deval2498/Spotmf/core"
	"github.com/deval2498/Spotmf/ports"
	"github.com/google/uuid"
)

// LoginEvent announces a successful wallet login.
type LoginEvent struct {
	WalletAddress string `json:"wallet_address"`
}

// RedemptionEvent announces a redeemed action authorization; downstream
// strategy bookkeeping consumes it by authorization id.
type RedemptionEvent struct {
	WalletAddress   string          `json:"wallet_address"`
	AuthorizationID string          `json:"authorization_id"`
	Action          core.ActionKind `json:"action"`
}

// WatermillPublisher implements the EventPublisher interface using Watermill.
type WatermillPublisher struct {
	publisher       message.Publisher
	loginTopic      string
	redemptionTopic string
}

// NewWatermillPublisher creates a new Watermill publisher.
func NewWatermillPublisher(publisher message.Publisher) ports.EventPublisher {
	return &WatermillPublisher{
		publisher:       publisher,
		loginTopic:      "spotmf.auth.login",
		redemptionTopic: "spotmf.action.redeemed",
	}
}

// PublishLogin publishes a login event.
func (p *WatermillPublisher) PublishLogin(ctx context.Context, wallet string) error {
	return p.publish(ctx, p.loginTopic, LoginEvent{WalletAddress: wallet})
}

// PublishRedemption publishes a redemption event.
func (p *WatermillPublisher) PublishRedemption(ctx context.Context, wallet, authorizationID string, kind core.ActionKind) error {
	return p.publish(ctx, p.redemptionTopic, RedemptionEvent{
		WalletAddress:   wallet,
		AuthorizationID: authorizationID,
		Action:          kind,
	})
}

func (p *WatermillPublisher) publish(ctx context.Context, topic string, event any) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(uuid.New().String(), payload)
	msg.SetContext(ctx)
	if err := p.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}
