package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/deval2498/Spotmf/core"
	"github.com/deval2498/Spotmf/service"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Handlers contains the HTTP handlers for the auth and action endpoints.
type Handlers struct {
	auth    *service.AuthService
	actions *service.ActionService
}

// NewHandlers creates new handlers.
func NewHandlers(auth *service.AuthService, actions *service.ActionService) *Handlers {
	return &Handlers{auth: auth, actions: actions}
}

// Challenge handles the login challenge request.
func (h *Handlers) Challenge(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"walletAddress" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	message, err := h.auth.CreateChallenge(c.Request.Context(), req.WalletAddress)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": message})
}

// Verify handles the signed-challenge login request.
func (h *Handlers) Verify(c *gin.Context) {
	var req struct {
		WalletAddress string `json:"walletAddress" binding:"required"`
		Signature     string `json:"signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.WalletAddress, req.Signature)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jwt": token})
}

type createActionRequest struct {
	Action           string `json:"action" binding:"required"`
	Asset            string `json:"asset" binding:"required"`
	Strategy         string `json:"strategyType" binding:"required"`
	IntervalAmount   string `json:"intervalAmount"`
	IntervalDays     int    `json:"intervalDays"`
	AcceptedSlippage string `json:"acceptedSlippage"`
	TotalAmount      string `json:"totalAmount"`
}

func (r createActionRequest) payload() (core.ActionPayload, error) {
	kind := core.ActionKind(r.Action)
	switch kind {
	case core.ActionCreateStrategy, core.ActionUpdateStrategy:
		slippage, err := decimal.NewFromString(r.AcceptedSlippage)
		if err != nil {
			return nil, core.ErrInvalidPayload
		}
		return core.StrategyParams{
			Action:           kind,
			Asset:            core.AssetType(r.Asset),
			Strategy:         core.StrategyType(r.Strategy),
			IntervalAmount:   r.IntervalAmount,
			IntervalDays:     r.IntervalDays,
			AcceptedSlippage: slippage,
			TotalAmount:      r.TotalAmount,
		}, nil
	case core.ActionDeleteStrategy:
		return core.DeleteStrategyParams{
			Asset:    core.AssetType(r.Asset),
			Strategy: core.StrategyType(r.Strategy),
		}, nil
	default:
		return nil, core.ErrInvalidPayload
	}
}

// CreateAction handles the create-intent request. The wallet comes from the
// verified credential set by the auth middleware, never from the body.
func (h *Handlers) CreateAction(c *gin.Context) {
	wallet := c.GetString(ContextWalletKey)

	var req createActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	payload, err := req.payload()
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.actions.Create(c.Request.Context(), wallet, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actionId": result.ID, "message": result.Message})
}

// RedeemAction handles the redeem-intent request.
func (h *Handlers) RedeemAction(c *gin.Context) {
	wallet := c.GetString(ContextWalletKey)

	var req struct {
		Message   string `json:"message" binding:"required"`
		Signature string `json:"signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	result, err := h.actions.Redeem(c.Request.Context(), wallet, req.Message, req.Signature)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"actionId": result.ID, "transaction": result.Transaction})
}

// Me returns the authenticated wallet.
func (h *Handlers) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"walletAddress": c.GetString(ContextWalletKey)})
}

// respondError maps protocol failures to HTTP outcomes. Everything is a
// client error except an unconfigured asset, which is an operator fault, and
// store unavailability, which is retryable.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrInvalidAddress):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ethereum address"})
	case errors.Is(err, core.ErrInvalidSignature):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ethereum signature"})
	case errors.Is(err, core.ErrInvalidMessage), errors.Is(err, core.ErrInvalidPayload):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid action request"})
	case errors.Is(err, core.ErrNoValidChallenge):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No valid nonce found"})
	case errors.Is(err, core.ErrSignatureMismatch):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid address, use the correct wallet to sign from"})
	case errors.Is(err, core.ErrNoMatchingAuthorization):
		c.JSON(http.StatusNotFound, gin.H{"error": "No matching authorization"})
	case errors.Is(err, core.ErrAlreadyRedeemed):
		c.JSON(http.StatusConflict, gin.H{"error": "Authorization already redeemed"})
	case errors.Is(err, core.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable"})
	case errors.Is(err, core.ErrUnknownAsset):
		// Configuration fault: alert operators, tell the caller nothing.
		log.Printf("ALERT: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
