package handlers

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/courierhq/ledger_backend/internal/core/domain"
	portssvc "github.com/courierhq/ledger_backend/internal/core/ports/services"
	"github.com/courierhq/ledger_backend/internal/dto"
	"github.com/courierhq/ledger_backend/internal/middleware"
	"github.com/courierhq/ledger_backend/internal/utils/export"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportingHandler serves the financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingService
}

func newReportingHandler(rs portssvc.ReportingService) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
	}
}

// registerReportingRoutes registers routes related to reports.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService) {
	h := newReportingHandler(reportingService)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.getTrialBalance)
		reports.GET("/income-statement", h.getIncomeStatement)
		reports.GET("/balance-sheet", h.getBalanceSheet)
	}
}

// getTrialBalance godoc
// @Summary Get the trial balance
// @Description Aggregates per-account debit and credit totals over posted entries
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Include entries up to this date (YYYY-MM-DD)"
// @Param   accountID query string false "Restrict to one account"
// @Param   format query string false "Set to xlsx to download a spreadsheet"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} map[string]string "Invalid date format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate trial balance"
// @Router /reports/trial-balance [get]
func (h *reportingHandler) getTrialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, err := parseEndDateParam(c.Query("asOf"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf format. Use YYYY-MM-DD."})
		return
	}

	filter := domain.EntryFilter{DateTo: asOf}
	if accountID := c.Query("accountID"); accountID != "" {
		filter.AccountID = &accountID
	}

	report, err := h.reportingService.TrialBalance(c.Request.Context(), filter)
	if err != nil {
		logger.Error("Failed to generate trial balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate trial balance"})
		return
	}

	if c.Query("format") == "xlsx" {
		var buf bytes.Buffer
		if err := export.WriteTrialBalanceXLSX(&buf, report); err != nil {
			logger.Error("Failed to render trial balance workbook", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate trial balance export"})
			return
		}
		filename := "trial_balance_" + time.Now().Format("20060102") + ".xlsx"
		c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
		c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
		return
	}

	if !report.Balanced {
		logger.Warn("Trial balance is out of balance",
			slog.String("total_debits", report.TotalDebits.String()),
			slog.String("total_credits", report.TotalCredits.String()))
	}
	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report, asOf))
}

// getIncomeStatement godoc
// @Summary Get the income statement
// @Description Aggregates revenue and expense accounts over a period; defaults to the current month
// @Tags reports
// @Produce  json
// @Param   fromDate query string false "Start date (YYYY-MM-DD), defaults to the first of the current month"
// @Param   toDate query string false "End date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} dto.IncomeStatementResponse
// @Failure 400 {object} map[string]string "Invalid date range"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate income statement"
// @Router /reports/income-statement [get]
func (h *reportingHandler) getIncomeStatement(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := now
	if v := c.Query("fromDate"); v != "" {
		parsed, err := time.Parse("2006-01-02", v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid fromDate format. Use YYYY-MM-DD."})
			return
		}
		from = parsed
	}
	if v := c.Query("toDate"); v != "" {
		parsed, err := parseEndDateParam(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid toDate format. Use YYYY-MM-DD."})
			return
		}
		to = *parsed
	}
	if from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "fromDate cannot be after toDate"})
		return
	}

	report, err := h.reportingService.IncomeStatement(c.Request.Context(), from, to)
	if err != nil {
		logger.Error("Failed to generate income statement", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate income statement"})
		return
	}

	c.JSON(http.StatusOK, dto.ToIncomeStatementResponse(report, from, to))
}

// getBalanceSheet godoc
// @Summary Get the balance sheet
// @Description Aggregates asset, liability and equity accounts as of a date
// @Tags reports
// @Produce  json
// @Param   asOf query string false "Include entries up to this date (YYYY-MM-DD)"
// @Success 200 {object} dto.BalanceSheetResponse
// @Failure 400 {object} map[string]string "Invalid date format"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to generate balance sheet"
// @Router /reports/balance-sheet [get]
func (h *reportingHandler) getBalanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, err := parseEndDateParam(c.Query("asOf"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid asOf format. Use YYYY-MM-DD."})
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), asOf)
	if err != nil {
		logger.Error("Failed to generate balance sheet", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate balance sheet"})
		return
	}

	if !report.Balanced {
		logger.Warn("Accounting equation violated in balance sheet",
			slog.String("total_assets", report.TotalAssets.String()),
			slog.String("total_liabilities", report.TotalLiabilities.String()),
			slog.String("total_equity", report.TotalEquity.String()))
	}
	c.JSON(http.StatusOK, dto.ToBalanceSheetResponse(report, asOf))
}
