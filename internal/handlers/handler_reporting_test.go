package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/courierhq/ledger_backend/internal/core/domain"
	portssvc "github.com/courierhq/ledger_backend/internal/core/ports/services"
	"github.com/courierhq/ledger_backend/internal/dto"
	"github.com/courierhq/ledger_backend/internal/handlers"
	"github.com/courierhq/ledger_backend/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type ReportingHandlerTestSuite struct {
	suite.Suite
	router               *gin.Engine
	mockReportingService *MockReportingService
}

func (suite *ReportingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockReportingService = new(MockReportingService)

	cfg := &config.Config{IsProduction: true}
	container := &portssvc.ServiceContainer{
		Account:   new(MockAccountService),
		Posting:   new(MockPostingService),
		Balance:   new(MockBalanceService),
		Reporting: suite.mockReportingService,
	}
	handlers.RegisterRoutes(suite.router, cfg, container, nil)
}

func (suite *ReportingHandlerTestSuite) serve(method, url string) *httptest.ResponseRecorder {
	return performRequest(suite.T(), suite.router, method, url, nil, uuid.NewString())
}

func (suite *ReportingHandlerTestSuite) TestGetTrialBalance_Success() {
	report := &domain.TrialBalanceReport{
		Rows: []domain.TrialBalanceRow{
			{AccountNumber: "1000", AccountName: "Cash", AccountType: domain.Asset, TotalDebits: decimal.NewFromInt(800), TotalCredits: decimal.NewFromInt(0)},
			{AccountNumber: "4000", AccountName: "Sales", AccountType: domain.Revenue, TotalDebits: decimal.NewFromInt(0), TotalCredits: decimal.NewFromInt(800)},
		},
		TotalDebits:  decimal.NewFromInt(800),
		TotalCredits: decimal.NewFromInt(800),
		Balanced:     true,
	}

	suite.mockReportingService.On("TrialBalance", mock.Anything, mock.Anything).
		Return(report, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/reports/trial-balance")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TrialBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balanced)
	suite.Len(resp.Rows, 2)
	suite.mockReportingService.AssertExpectations(suite.T())
}

func (suite *ReportingHandlerTestSuite) TestGetTrialBalance_AsOfCoversWholeDay() {
	report := &domain.TrialBalanceReport{Rows: []domain.TrialBalanceRow{}, Balanced: true}

	// An entry posted at 2026-06-30T10:00Z must be inside asOf=2026-06-30.
	suite.mockReportingService.On("TrialBalance", mock.Anything,
		mock.MatchedBy(func(f domain.EntryFilter) bool {
			midMorning := time.Date(2026, 6, 30, 10, 0, 0, 0, time.UTC)
			nextDay := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
			return f.DateTo != nil && f.DateTo.After(midMorning) && f.DateTo.Before(nextDay)
		}),
	).Return(report, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/reports/trial-balance?asOf=2026-06-30")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.TrialBalanceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("2026-06-30", resp.AsOf)
	suite.mockReportingService.AssertExpectations(suite.T())
}

func (suite *ReportingHandlerTestSuite) TestGetIncomeStatement_ToDateCoversWholeDay() {
	report := &domain.IncomeStatementReport{
		Revenue:  []domain.AccountAmount{},
		Expenses: []domain.AccountAmount{},
	}

	suite.mockReportingService.On("IncomeStatement", mock.Anything,
		time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		mock.MatchedBy(func(to time.Time) bool {
			midMorning := time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC)
			nextDay := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
			return to.After(midMorning) && to.Before(nextDay)
		}),
	).Return(report, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/reports/income-statement?fromDate=2026-03-01&toDate=2026-03-31")

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.IncomeStatementResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("2026-03-01", resp.FromDate)
	suite.Equal("2026-03-31", resp.ToDate)
	suite.mockReportingService.AssertExpectations(suite.T())
}

func (suite *ReportingHandlerTestSuite) TestGetIncomeStatement_InvertedRange() {
	w := suite.serve(http.MethodGet, "/api/v1/reports/income-statement?fromDate=2026-04-01&toDate=2026-03-31")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReportingService.AssertNotCalled(suite.T(), "IncomeStatement", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *ReportingHandlerTestSuite) TestGetBalanceSheet_AsOfCoversWholeDay() {
	report := &domain.BalanceSheetReport{
		Assets:      []domain.AccountAmount{},
		Liabilities: []domain.AccountAmount{},
		Equity:      []domain.AccountAmount{},
		Balanced:    true,
	}

	suite.mockReportingService.On("BalanceSheet", mock.Anything,
		mock.MatchedBy(func(asOf *time.Time) bool {
			midMorning := time.Date(2026, 6, 30, 10, 0, 0, 0, time.UTC)
			nextDay := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
			return asOf != nil && asOf.After(midMorning) && asOf.Before(nextDay)
		}),
	).Return(report, nil).Once()

	w := suite.serve(http.MethodGet, "/api/v1/reports/balance-sheet?asOf=2026-06-30")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockReportingService.AssertExpectations(suite.T())
}

func TestReportingHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(ReportingHandlerTestSuite))
}
