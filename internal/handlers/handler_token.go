package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/HireDeck/hiredeck_backend/internal/apperrors"
	portssvc "github.com/HireDeck/hiredeck_backend/internal/core/ports/services"
	"github.com/HireDeck/hiredeck_backend/internal/dto"
	"github.com/HireDeck/hiredeck_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// tokenHandler handles HTTP requests related to token accounts.
type tokenHandler struct {
	ledger portssvc.TokenLedgerSvcFacade
}

func newTokenHandler(ledger portssvc.TokenLedgerSvcFacade) *tokenHandler {
	return &tokenHandler{ledger: ledger}
}

// createAccount godoc
// @Summary Create a token account
// @Description Opens an empty publication-token account for a company
// @Tags tokens
// @Accept json
// @Produce json
// @Param account body dto.CreateTokenAccountRequest true "Account details"
// @Success 201 {object} dto.TokenAccountResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /accounts [post]
func (h *tokenHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)

	var req dto.CreateTokenAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	account, err := h.ledger.CreateAccount(c.Request.Context(), req, requestUserID(c))
	if err != nil {
		logger.Error("Failed to create token account", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToTokenAccountResponse(account))
}

// getAccount godoc
// @Summary Get a token account
// @Description Retrieves a token account with its current balance
// @Tags tokens
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.TokenAccountResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID} [get]
func (h *tokenHandler) getAccount(c *gin.Context) {
	accountID := c.Param("accountID")

	account, err := h.ledger.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		respondLedgerError(c, err, "Failed to retrieve account")
		return
	}

	c.JSON(http.StatusOK, dto.ToTokenAccountResponse(account))
}

// listEntries godoc
// @Summary List ledger entries
// @Description Returns the most recent ledger entries for an account, newest first
// @Tags tokens
// @Produce json
// @Param accountID path string true "Account ID"
// @Param limit query int false "Maximum entries to return"
// @Success 200 {array} dto.TokenEntryResponse
// @Failure 404 {object} map[string]string "Account not found"
// @Router /accounts/{accountID}/entries [get]
func (h *tokenHandler) listEntries(c *gin.Context) {
	accountID := c.Param("accountID")

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	entries, err := h.ledger.ListEntries(c.Request.Context(), accountID, limit)
	if err != nil {
		respondLedgerError(c, err, "Failed to list ledger entries")
		return
	}

	c.JSON(http.StatusOK, dto.ToTokenEntryResponses(entries))
}

// purchaseTokens godoc
// @Summary Purchase a token pack
// @Description Credits bought tokens to the account and records the price paid
// @Tags tokens
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID"
// @Param purchase body dto.PurchaseTokensRequest true "Purchase details"
// @Success 201 {object} dto.PurchaseResponse
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 503 {object} map[string]string "Ledger unavailable"
// @Router /accounts/{accountID}/purchases [post]
func (h *tokenHandler) purchaseTokens(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	accountID := c.Param("accountID")

	var req dto.PurchaseTokensRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for purchaseTokens", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	purchase, err := h.ledger.Purchase(c.Request.Context(), accountID, req, requestUserID(c))
	if err != nil {
		respondLedgerError(c, err, "Failed to purchase tokens")
		return
	}

	c.JSON(http.StatusCreated, dto.ToPurchaseResponse(purchase))
}

// respondLedgerError maps ledger errors onto HTTP statuses.
func respondLedgerError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrLedgerUnavailable):
		logger.Error("Token ledger unavailable", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Token ledger temporarily unavailable, retry later"})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
