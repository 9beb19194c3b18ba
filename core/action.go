package core

import (
	"fmt"
	"math/big"

	"github.com/shopspring/decimal"
)

// ActionKind identifies what an off-chain intent authorizes.
type ActionKind string

const (
	ActionCreateStrategy ActionKind = "CREATE_STRATEGY"
	ActionUpdateStrategy ActionKind = "UPDATE_STRATEGY"
	ActionDeleteStrategy ActionKind = "DELETE_STRATEGY"
)

// KnownActionKind reports whether kind is one of the supported action kinds.
func KnownActionKind(kind ActionKind) bool {
	switch kind {
	case ActionCreateStrategy, ActionUpdateStrategy, ActionDeleteStrategy:
		return true
	}
	return false
}

// AssetType is the purchased asset of a strategy.
type AssetType string

const (
	AssetBTC  AssetType = "BTC"
	AssetETH  AssetType = "ETH"
	AssetHYPE AssetType = "HYPE"
)

// StrategyType is the buying strategy applied to an asset.
type StrategyType string

const (
	StrategyDCA        StrategyType = "DCA"
	StrategyDCAWithDMA StrategyType = "DCA_WITH_DMA"
)

func knownAsset(a AssetType) bool {
	switch a {
	case AssetBTC, AssetETH, AssetHYPE:
		return true
	}
	return false
}

func knownStrategy(s StrategyType) bool {
	switch s {
	case StrategyDCA, StrategyDCAWithDMA:
		return true
	}
	return false
}

// ActionPayload is the tagged union of per-kind payloads. Each variant carries
// exactly the fields its kind requires, so a field that does not apply to a
// kind can never be compared or persisted for it.
type ActionPayload interface {
	Kind() ActionKind
	Validate() error
}

// StrategyParams is the payload for CREATE_STRATEGY and UPDATE_STRATEGY.
// Amount fields are decimal-digit strings holding base-unit token quantities;
// they are never parsed into floats.
type StrategyParams struct {
	Action           ActionKind
	Asset            AssetType
	Strategy         StrategyType
	IntervalAmount   string
	IntervalDays     int
	AcceptedSlippage decimal.Decimal
	TotalAmount      string
}

func (p StrategyParams) Kind() ActionKind { return p.Action }

func (p StrategyParams) Validate() error {
	if p.Action != ActionCreateStrategy && p.Action != ActionUpdateStrategy {
		return fmt.Errorf("%w: kind %q does not take strategy params", ErrInvalidPayload, p.Action)
	}
	if !knownAsset(p.Asset) {
		return fmt.Errorf("%w: unknown asset %q", ErrInvalidPayload, p.Asset)
	}
	if !knownStrategy(p.Strategy) {
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidPayload, p.Strategy)
	}
	if err := validateBaseUnits("interval amount", p.IntervalAmount); err != nil {
		return err
	}
	if err := validateBaseUnits("total amount", p.TotalAmount); err != nil {
		return err
	}
	if p.IntervalDays < 1 {
		return fmt.Errorf("%w: interval days must be a positive integer", ErrInvalidPayload)
	}
	if p.AcceptedSlippage.IsNegative() || p.AcceptedSlippage.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: accepted slippage must be between 0 and 100", ErrInvalidPayload)
	}
	return nil
}

// DeleteStrategyParams is the payload for DELETE_STRATEGY. It references the
// existing strategy by its (asset, strategy) pair; no amounts are involved
// because redemption revokes the allowance.
type DeleteStrategyParams struct {
	Asset    AssetType
	Strategy StrategyType
}

func (p DeleteStrategyParams) Kind() ActionKind { return ActionDeleteStrategy }

func (p DeleteStrategyParams) Validate() error {
	if !knownAsset(p.Asset) {
		return fmt.Errorf("%w: unknown asset %q", ErrInvalidPayload, p.Asset)
	}
	if !knownStrategy(p.Strategy) {
		return fmt.Errorf("%w: unknown strategy %q", ErrInvalidPayload, p.Strategy)
	}
	return nil
}

// ActionIntent couples a payload with the nonce that makes its message unique.
type ActionIntent struct {
	Nonce   string
	Payload ActionPayload
}

func (i ActionIntent) Kind() ActionKind { return i.Payload.Kind() }

// validateBaseUnits checks that s is a positive integer written in decimal
// digits, the only form a base-unit token quantity may take.
func validateBaseUnits(field, s string) error {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok || n.Sign() <= 0 {
		return fmt.Errorf("%w: %s must be a positive base-unit integer", ErrInvalidPayload, field)
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return fmt.Errorf("%w: %s must be a positive base-unit integer", ErrInvalidPayload, field)
		}
	}
	return nil
}
