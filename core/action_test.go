package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validStrategyParams() StrategyParams {
	return StrategyParams{
		Action:           ActionCreateStrategy,
		Asset:            AssetBTC,
		Strategy:         StrategyDCA,
		IntervalAmount:   "100000",
		IntervalDays:     7,
		AcceptedSlippage: decimal.RequireFromString("0.5"),
		TotalAmount:      "1000000",
	}
}

func TestStrategyParamsValidate(t *testing.T) {
	assert.NoError(t, validStrategyParams().Validate())

	tests := []struct {
		name   string
		mutate func(*StrategyParams)
	}{
		{"delete kind", func(p *StrategyParams) { p.Action = ActionDeleteStrategy }},
		{"unknown kind", func(p *StrategyParams) { p.Action = "SOMETHING" }},
		{"unknown asset", func(p *StrategyParams) { p.Asset = "DOGE" }},
		{"unknown strategy", func(p *StrategyParams) { p.Strategy = "YOLO" }},
		{"empty amount", func(p *StrategyParams) { p.IntervalAmount = "" }},
		{"zero amount", func(p *StrategyParams) { p.TotalAmount = "0" }},
		{"negative amount", func(p *StrategyParams) { p.TotalAmount = "-5" }},
		{"fractional amount", func(p *StrategyParams) { p.TotalAmount = "1.5" }},
		{"signed amount", func(p *StrategyParams) { p.TotalAmount = "+5" }},
		{"zero days", func(p *StrategyParams) { p.IntervalDays = 0 }},
		{"negative slippage", func(p *StrategyParams) { p.AcceptedSlippage = decimal.RequireFromString("-1") }},
		{"slippage above 100", func(p *StrategyParams) { p.AcceptedSlippage = decimal.RequireFromString("101") }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := validStrategyParams()
			tc.mutate(&p)
			assert.ErrorIs(t, p.Validate(), ErrInvalidPayload)
		})
	}
}

func TestDeleteStrategyParamsValidate(t *testing.T) {
	assert.NoError(t, DeleteStrategyParams{Asset: AssetETH, Strategy: StrategyDCA}.Validate())
	assert.ErrorIs(t, DeleteStrategyParams{Asset: "DOGE", Strategy: StrategyDCA}.Validate(), ErrInvalidPayload)
	assert.ErrorIs(t, DeleteStrategyParams{Asset: AssetETH, Strategy: "YOLO"}.Validate(), ErrInvalidPayload)
}

func TestAuthorizationMatches(t *testing.T) {
	intent := ActionIntent{Nonce: "n1", Payload: validStrategyParams()}
	rec := NewActionAuthorization("id1", "0xAbC", intent, time.Now(), time.Hour)

	assert.True(t, rec.Matches("0xABC", intent))

	other := intent
	p := other.Payload.(StrategyParams)
	p.IntervalDays = 8
	other.Payload = p
	assert.False(t, rec.Matches("0xabc", other))

	other = intent
	other.Nonce = "n2"
	assert.False(t, rec.Matches("0xabc", other))

	// A delete intent never matches a create record, even with equal
	// asset and strategy.
	del := ActionIntent{Nonce: "n1", Payload: DeleteStrategyParams{Asset: AssetBTC, Strategy: StrategyDCA}}
	assert.False(t, rec.Matches("0xabc", del))
}

func TestSlippageComparisonIgnoresRepresentation(t *testing.T) {
	intent := ActionIntent{Nonce: "n1", Payload: validStrategyParams()}
	rec := NewActionAuthorization("id1", "0xabc", intent, time.Now(), time.Hour)

	p := intent.Payload.(StrategyParams)
	p.AcceptedSlippage = decimal.RequireFromString("0.50")
	intent.Payload = p
	assert.True(t, rec.Matches("0xabc", intent))
}

func TestAddressAndSignatureFormats(t *testing.T) {
	require.True(t, ValidAddress("0xAbCdef1234567890abcdef1234567890ABCDEF12"))
	assert.False(t, ValidAddress("0xabc"))
	assert.False(t, ValidAddress("abcdef1234567890abcdef1234567890abcdef12"))
	assert.False(t, ValidAddress("0xgg34567890123456789012345678901234567890"))

	valid := "0x" + repeat('a', 130)
	require.True(t, ValidSignatureHex(valid))
	assert.False(t, ValidSignatureHex("0x"+repeat('a', 128)))
	assert.False(t, ValidSignatureHex(repeat('a', 130)))
}

func repeat(c byte, n int) string {
	out := make([]byte, n)
	for i := range out {
		out[i] = c
	}
	return string(out)
}
