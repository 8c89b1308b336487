package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/courierhq/ledger_backend/internal/apperrors"
	portssvc "github.com/courierhq/ledger_backend/internal/core/ports/services"
	"github.com/courierhq/ledger_backend/internal/dto"
	"github.com/courierhq/ledger_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to journal transactions.
type transactionHandler struct {
	postingService portssvc.PostingService
}

func newTransactionHandler(ps portssvc.PostingService) *transactionHandler {
	return &transactionHandler{
		postingService: ps,
	}
}

// registerTransactionRoutes registers routes related to transactions.
func registerTransactionRoutes(rg *gin.RouterGroup, postingService portssvc.PostingService) {
	h := newTransactionHandler(postingService)

	transactions := rg.Group("/transactions")
	{
		transactions.POST("", h.postTransaction)
		transactions.GET("", h.listTransactions)
		transactions.GET("/:id", h.getTransaction)
	}
}

// postTransaction godoc
// @Summary Post a transaction
// @Description Validates and atomically records a balanced transaction with its entries
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.PostTransactionRequest true "Transaction details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input, imbalanced entries, or inactive account"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Referenced account not found"
// @Failure 500 {object} map[string]string "Failed to post transaction"
// @Router /transactions [post]
func (h *transactionHandler) postTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.PostTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for PostTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		logger.Error("Creator user ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	logger = logger.With(slog.String("creator_user_id", creatorUserID))
	logger.Info("Received request to post transaction",
		slog.String("transaction_type", req.TransactionType),
		slog.Int("entry_count", len(req.Entries)))

	txn, err := h.postingService.PostTransaction(c.Request.Context(), req, creatorUserID)
	if err != nil {
		var imbalance *apperrors.ImbalanceError
		if errors.As(err, &imbalance) {
			logger.Warn("Imbalanced transaction rejected",
				slog.String("total_debits", imbalance.TotalDebits.String()),
				slog.String("total_credits", imbalance.TotalCredits.String()))
			c.JSON(http.StatusBadRequest, gin.H{
				"error":        imbalance.Error(),
				"totalDebits":  imbalance.TotalDebits,
				"totalCredits": imbalance.TotalCredits,
			})
		} else if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Referenced account not found", slog.String("error", err.Error()))
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error posting transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrConflict) {
			logger.Warn("Conflict posting transaction", slog.String("error", err.Error()))
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to post transaction in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post transaction"})
		}
		return
	}

	logger.Info("Transaction posted successfully",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("transaction_number", txn.TransactionNumber))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction
// @Description Retrieves a transaction with its entries by ID or transaction number
// @Tags transactions
// @Produce  json
// @Param   id path string true "Transaction ID or number"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Router /transactions/{id} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	logger = logger.With(slog.String("target_transaction_id", transactionID))

	txn, err := h.postingService.GetTransaction(c.Request.Context(), transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Transaction not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to get transaction from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Retrieves transactions newest first with cursor pagination and optional filters
// @Tags transactions
// @Produce  json
// @Param   limit query int false "Limit number of results" default(20)
// @Param   nextToken query string false "Pagination token from a previous response"
// @Param   dateFrom query string false "Start date (YYYY-MM-DD)"
// @Param   dateTo query string false "End date (YYYY-MM-DD)"
// @Param   accountID query string false "Only transactions touching this account"
// @Param   type query string false "Transaction type (CRV, CPV, BPV, BRV, JV)"
// @Param   status query string false "Transaction status (POSTED, CANCELLED)"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Router /transactions [get]
func (h *transactionHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var query struct {
		Limit     int    `form:"limit,default=20"`
		NextToken string `form:"nextToken"`
		DateFrom  string `form:"dateFrom"`
		DateTo    string `form:"dateTo"`
		AccountID string `form:"accountID"`
		Type      string `form:"type"`
		Status    string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	params := dto.ListTransactionsParams{Limit: query.Limit}
	if query.NextToken != "" {
		params.NextToken = &query.NextToken
	}
	if query.AccountID != "" {
		params.AccountID = &query.AccountID
	}
	if query.Type != "" {
		params.Type = &query.Type
	}
	if query.Status != "" {
		params.Status = &query.Status
	}

	var err error
	if params.DateFrom, err = parseDateParam(query.DateFrom); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dateFrom format. Use YYYY-MM-DD."})
		return
	}
	if params.DateTo, err = parseEndDateParam(query.DateTo); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dateTo format. Use YYYY-MM-DD."})
		return
	}
	if params.DateFrom != nil && params.DateTo != nil && params.DateFrom.After(*params.DateTo) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dateFrom cannot be after dateTo"})
		return
	}

	resp, err := h.postingService.ListTransactions(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error listing transactions", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list transactions from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		}
		return
	}

	logger.Info("Transactions listed successfully", slog.Int("count", len(resp.Transactions)))
	c.JSON(http.StatusOK, resp)
}

// parseDateParam parses an optional YYYY-MM-DD query parameter.
func parseDateParam(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parseEndDateParam parses an optional YYYY-MM-DD query parameter that bounds
// a range inclusively. Transactions carry full timestamps, so the bound is
// extended to the end of the named day.
func parseEndDateParam(value string) (*time.Time, error) {
	t, err := parseDateParam(value)
	if err != nil || t == nil {
		return t, err
	}
	end := t.AddDate(0, 0, 1).Add(-time.Microsecond)
	return &end, nil
}
