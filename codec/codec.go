// Package codec renders structured intents into the canonical human-readable
// messages a wallet signs, and parses those messages back. Encoding and
// decoding are exact inverses for every supported kind; the line-labeled
// format is deliberate so a signer can read what they are signing.
package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/deval2498/Spotmf/core"
	"github.com/shopspring/decimal"
)

const (
	challengePrefix = "Sign this message to authenticate "
	actionPreamble  = "Sign this message to authorize the following action:"

	labelAction         = "Action: "
	labelAsset          = "Asset: "
	labelStrategy       = "Strategy: "
	labelIntervalAmount = "Interval Amount: "
	labelIntervalDays   = "Interval Days: "
	labelSlippage       = "Accepted Slippage: "
	labelTotalAmount    = "Total Amount: "
	labelNonce          = "Nonce: "
)

// EncodeChallenge renders the login challenge message for a nonce.
func EncodeChallenge(nonce string) string {
	return challengePrefix + nonce
}

// DecodeChallenge recovers the nonce from a login challenge message.
func DecodeChallenge(message string) (string, error) {
	nonce, ok := strings.CutPrefix(message, challengePrefix)
	if !ok || nonce == "" || strings.ContainsAny(nonce, " \n") {
		return "", core.ErrInvalidMessage
	}
	return nonce, nil
}

// EncodeAction renders the canonical message for an action intent. Every
// payload field of the intent's kind appears as its own labeled line, with
// the nonce last. Unrecognized payload kinds fall back to a minimal template
// carrying only the action keyword and the nonce.
func EncodeAction(intent core.ActionIntent) string {
	var b strings.Builder
	b.WriteString(actionPreamble)
	line(&b, labelAction, string(intent.Kind()))

	switch p := intent.Payload.(type) {
	case core.StrategyParams:
		line(&b, labelAsset, string(p.Asset))
		line(&b, labelStrategy, string(p.Strategy))
		line(&b, labelIntervalAmount, p.IntervalAmount)
		line(&b, labelIntervalDays, strconv.Itoa(p.IntervalDays))
		line(&b, labelSlippage, p.AcceptedSlippage.String()+"%")
		line(&b, labelTotalAmount, p.TotalAmount)
	case core.DeleteStrategyParams:
		line(&b, labelAsset, string(p.Asset))
		line(&b, labelStrategy, string(p.Strategy))
	}

	line(&b, labelNonce, intent.Nonce)
	return b.String()
}

// DecodeAction parses a canonical action message back into the intent that
// produced it. The grammar is strict per kind: lines must appear in encoding
// order, every required label must be present exactly once, and nothing may
// follow the nonce. Unknown action keywords fail decoding rather than
// degrading to a best-effort result.
func DecodeAction(message string) (core.ActionIntent, error) {
	lines := strings.Split(message, "\n")
	if len(lines) < 3 || lines[0] != actionPreamble {
		return core.ActionIntent{}, core.ErrInvalidMessage
	}
	p := &parser{lines: lines[1:]}

	kind := core.ActionKind(p.take(labelAction))

	var payload core.ActionPayload
	switch kind {
	case core.ActionCreateStrategy, core.ActionUpdateStrategy:
		payload = core.StrategyParams{
			Action:           kind,
			Asset:            core.AssetType(p.take(labelAsset)),
			Strategy:         core.StrategyType(p.take(labelStrategy)),
			IntervalAmount:   p.takeBaseUnits(labelIntervalAmount),
			IntervalDays:     p.takeInt(labelIntervalDays),
			AcceptedSlippage: p.takePercent(labelSlippage),
			TotalAmount:      p.takeBaseUnits(labelTotalAmount),
		}
	case core.ActionDeleteStrategy:
		payload = core.DeleteStrategyParams{
			Asset:    core.AssetType(p.take(labelAsset)),
			Strategy: core.StrategyType(p.take(labelStrategy)),
		}
	default:
		return core.ActionIntent{}, fmt.Errorf("%w: unknown action kind", core.ErrInvalidMessage)
	}

	nonce := p.take(labelNonce)
	if p.failed || len(p.lines) != 0 {
		return core.ActionIntent{}, core.ErrInvalidMessage
	}
	if err := payload.Validate(); err != nil {
		return core.ActionIntent{}, fmt.Errorf("%w: %v", core.ErrInvalidMessage, err)
	}
	return core.ActionIntent{Nonce: nonce, Payload: payload}, nil
}

func line(b *strings.Builder, label, value string) {
	b.WriteByte('\n')
	b.WriteString(label)
	b.WriteString(value)
}

// parser consumes labeled lines in order, latching the first failure.
type parser struct {
	lines  []string
	failed bool
}

func (p *parser) take(label string) string {
	if p.failed || len(p.lines) == 0 {
		p.failed = true
		return ""
	}
	value, ok := strings.CutPrefix(p.lines[0], label)
	if !ok || value == "" {
		p.failed = true
		return ""
	}
	p.lines = p.lines[1:]
	return value
}

func (p *parser) takeInt(label string) int {
	s := p.take(label)
	n, err := strconv.Atoi(s)
	if err != nil || strconv.Itoa(n) != s {
		p.failed = true
		return 0
	}
	return n
}

func (p *parser) takeBaseUnits(label string) string {
	s := p.take(label)
	for _, c := range s {
		if c < '0' || c > '9' {
			p.failed = true
			return ""
		}
	}
	return s
}

func (p *parser) takePercent(label string) decimal.Decimal {
	s, ok := strings.CutSuffix(p.take(label), "%")
	if !ok {
		p.failed = true
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		p.failed = true
		return decimal.Zero
	}
	return d
}
