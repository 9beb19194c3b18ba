package ports

import (
	"context"

	"github.com/deval2498/Spotmf/core"
)

// EventPublisher notifies other components about protocol milestones.
type EventPublisher interface {
	PublishLogin(ctx context.Context, wallet string) error
	PublishRedemption(ctx context.Context, wallet, authorizationID string, kind core.ActionKind) error
}
