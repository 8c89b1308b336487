package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/courierhq/ledger_backend/internal/apperrors"
	portssvc "github.com/courierhq/ledger_backend/internal/core/ports/services"
	"github.com/courierhq/ledger_backend/internal/dto"
	"github.com/courierhq/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ledgerHandler serves derived balances and per-account ledgers.
type ledgerHandler struct {
	balanceService portssvc.BalanceService
}

func newLedgerHandler(bs portssvc.BalanceService) *ledgerHandler {
	return &ledgerHandler{
		balanceService: bs,
	}
}

// registerLedgerRoutes registers balance and ledger routes under accounts.
func registerLedgerRoutes(rg *gin.RouterGroup, balanceService portssvc.BalanceService) {
	h := newLedgerHandler(balanceService)

	accounts := rg.Group("/accounts")
	{
		accounts.GET("/:id/balance", h.getAccountBalance)
		accounts.GET("/:id/ledger", h.getAccountLedger)
	}
}

// getAccountBalance godoc
// @Summary Get an account balance
// @Description Derives the account balance from posted entries, optionally as of a date
// @Tags ledger
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   asOf query string false "Balance as of this date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{} "accountID, balance, asOf"
// @Failure 400 {object} map[string]string "Invalid date format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to compute balance"
// @Router /accounts/{id}/balance [get]
func (h *ledgerHandler) getAccountBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	asOf, err := parseEndDateParam(c.Query("asOf"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf format. Use YYYY-MM-DD."})
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID))

	balance, err := h.balanceService.ComputeBalance(c.Request.Context(), accountID, asOf)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found for balance")
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to compute balance", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute balance"})
		}
		return
	}

	resp := gin.H{
		"accountID": accountID,
		"balance":   balance,
	}
	if asOf != nil {
		resp["asOf"] = asOf.Format("2006-01-02")
	}
	c.JSON(http.StatusOK, resp)
}

// getAccountLedger godoc
// @Summary Get an account ledger
// @Description Returns the account's entries in chronological order with running balances
// @Tags ledger
// @Produce  json
// @Param   id path string true "Account ID"
// @Param   dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param   dateTo query string false "End date (YYYY-MM-DD)"
// @Success 200 {object} dto.LedgerResponse
// @Failure 400 {object} map[string]string "Invalid date range"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 500 {object} map[string]string "Failed to build ledger"
// @Router /accounts/{id}/ledger [get]
func (h *ledgerHandler) getAccountLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("id")

	dateFrom, err := parseDateParam(c.Query("dateFrom"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dateFrom format. Use YYYY-MM-DD."})
		return
	}
	dateTo, err := parseEndDateParam(c.Query("dateTo"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dateTo format. Use YYYY-MM-DD."})
		return
	}
	if dateFrom != nil && dateTo != nil && dateFrom.After(*dateTo) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dateFrom cannot be after dateTo"})
		return
	}

	logger = logger.With(slog.String("target_account_id", accountID))

	rows, err := h.balanceService.GetAccountLedger(c.Request.Context(), accountID, dateFrom, dateTo)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Account not found for ledger")
			c.JSON(http.StatusNotFound, gin.H{"error": "Account not found"})
		} else {
			logger.Error("Failed to build account ledger", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build ledger"})
		}
		return
	}

	logger.Info("Account ledger built successfully", slog.Int("row_count", len(rows)))
	c.JSON(http.StatusOK, dto.ToLedgerResponse(accountID, rows))
}
