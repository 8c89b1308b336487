package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/courierhq/ledger_backend/internal/core/domain"
	portssvc "github.com/courierhq/ledger_backend/internal/core/ports/services"
	"github.com/courierhq/ledger_backend/internal/core/services"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockReportingRepository is a mock type for the ReportingRepository interface
type MockReportingRepository struct {
	mock.Mock
}

func (m *MockReportingRepository) GetAccountSums(ctx context.Context, filter domain.EntryFilter, types []domain.AccountType) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, filter, types)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

type ReportingServiceTestSuite struct {
	suite.Suite
	mockRepo *MockReportingRepository
	service  portssvc.ReportingService
}

func (suite *ReportingServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockReportingRepository)
	suite.service = services.NewReportingService(suite.mockRepo)
}

func row(number, name string, accountType domain.AccountType, debits, credits int64) domain.TrialBalanceRow {
	return domain.TrialBalanceRow{
		AccountID:     uuid.NewString(),
		AccountNumber: number,
		AccountName:   name,
		AccountType:   accountType,
		TotalDebits:   decimal.NewFromInt(debits),
		TotalCredits:  decimal.NewFromInt(credits),
	}
}

// --- Trial Balance ---

func (suite *ReportingServiceTestSuite) TestTrialBalance_Balanced() {
	ctx := context.Background()
	rows := []domain.TrialBalanceRow{
		row("1000", "Cash", domain.Asset, 800, 300),
		row("4000", "Sales Revenue", domain.Revenue, 0, 500),
	}

	suite.mockRepo.On("GetAccountSums", ctx, mock.AnythingOfType("domain.EntryFilter"), []domain.AccountType(nil)).Return(rows, nil).Once()

	report, err := suite.service.TrialBalance(ctx, domain.EntryFilter{})

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.Len(report.Rows, 2)
	suite.True(report.TotalDebits.Equal(decimal.NewFromInt(800)))
	suite.True(report.TotalCredits.Equal(decimal.NewFromInt(800)))
	suite.True(report.Balanced)

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_ImbalanceFlagged() {
	ctx := context.Background()
	rows := []domain.TrialBalanceRow{
		row("1000", "Cash", domain.Asset, 800, 0),
		row("4000", "Sales Revenue", domain.Revenue, 0, 700),
	}

	suite.mockRepo.On("GetAccountSums", ctx, mock.AnythingOfType("domain.EntryFilter"), []domain.AccountType(nil)).Return(rows, nil).Once()

	report, err := suite.service.TrialBalance(ctx, domain.EntryFilter{})

	// Bad books are a finding, not a failure
	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.False(report.Balanced)
	suite.True(report.TotalDebits.Equal(decimal.NewFromInt(800)))
	suite.True(report.TotalCredits.Equal(decimal.NewFromInt(700)))
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_Empty() {
	ctx := context.Background()

	suite.mockRepo.On("GetAccountSums", ctx, mock.AnythingOfType("domain.EntryFilter"), []domain.AccountType(nil)).Return([]domain.TrialBalanceRow{}, nil).Once()

	report, err := suite.service.TrialBalance(ctx, domain.EntryFilter{})

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.Empty(report.Rows)
	suite.True(report.TotalDebits.IsZero())
	suite.True(report.TotalCredits.IsZero())
	suite.True(report.Balanced)
}

func (suite *ReportingServiceTestSuite) TestTrialBalance_RepoError() {
	ctx := context.Background()
	expectedErr := assert.AnError

	suite.mockRepo.On("GetAccountSums", ctx, mock.AnythingOfType("domain.EntryFilter"), []domain.AccountType(nil)).Return(nil, expectedErr).Once()

	report, err := suite.service.TrialBalance(ctx, domain.EntryFilter{})

	suite.Require().Error(err)
	suite.Nil(report)
	suite.ErrorIs(err, expectedErr)
}

// --- Income Statement ---

func (suite *ReportingServiceTestSuite) TestIncomeStatement_NetIncome() {
	ctx := context.Background()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC)

	rows := []domain.TrialBalanceRow{
		row("4000", "Sales Revenue", domain.Revenue, 50, 1050),
		row("5000", "Rent Expense", domain.Expense, 400, 0),
		row("5100", "Salaries Expense", domain.Expense, 250, 50),
	}

	suite.mockRepo.On("GetAccountSums", ctx, mock.MatchedBy(func(f domain.EntryFilter) bool {
		return f.DateFrom != nil && f.DateFrom.Equal(from) && f.DateTo != nil && f.DateTo.Equal(to)
	}), []domain.AccountType{domain.Revenue, domain.Expense}).Return(rows, nil).Once()

	report, err := suite.service.IncomeStatement(ctx, from, to)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.Len(report.Revenue, 1)
	suite.Len(report.Expenses, 2)
	// Revenue 1050-50=1000, expenses 400 + (250-50)=600
	suite.True(report.TotalRevenue.Equal(decimal.NewFromInt(1000)))
	suite.True(report.TotalExpenses.Equal(decimal.NewFromInt(600)))
	suite.True(report.NetIncome.Equal(decimal.NewFromInt(400)))

	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *ReportingServiceTestSuite) TestIncomeStatement_NetLoss() {
	ctx := context.Background()
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)

	rows := []domain.TrialBalanceRow{
		row("4000", "Sales Revenue", domain.Revenue, 0, 100),
		row("5000", "Rent Expense", domain.Expense, 300, 0),
	}

	suite.mockRepo.On("GetAccountSums", ctx, mock.AnythingOfType("domain.EntryFilter"), []domain.AccountType{domain.Revenue, domain.Expense}).Return(rows, nil).Once()

	report, err := suite.service.IncomeStatement(ctx, from, to)

	suite.Require().NoError(err)
	suite.True(report.NetIncome.Equal(decimal.NewFromInt(-200)))
}

// --- Balance Sheet ---

func (suite *ReportingServiceTestSuite) TestBalanceSheet_Balanced() {
	ctx := context.Background()
	rows := []domain.TrialBalanceRow{
		row("1000", "Cash", domain.Asset, 1000, 200),
		row("2000", "Accounts Payable", domain.Liability, 100, 400),
		row("3000", "Owner Equity", domain.Equity, 0, 500),
	}

	suite.mockRepo.On("GetAccountSums", ctx, mock.AnythingOfType("domain.EntryFilter"), []domain.AccountType{domain.Asset, domain.Liability, domain.Equity}).Return(rows, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, nil)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.True(report.TotalAssets.Equal(decimal.NewFromInt(800)))
	suite.True(report.TotalLiabilities.Equal(decimal.NewFromInt(300)))
	suite.True(report.TotalEquity.Equal(decimal.NewFromInt(500)))
	suite.True(report.Balanced)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_EquationViolationFlagged() {
	ctx := context.Background()
	rows := []domain.TrialBalanceRow{
		row("1000", "Cash", domain.Asset, 1000, 0),
		row("3000", "Owner Equity", domain.Equity, 0, 500),
	}

	suite.mockRepo.On("GetAccountSums", ctx, mock.AnythingOfType("domain.EntryFilter"), []domain.AccountType{domain.Asset, domain.Liability, domain.Equity}).Return(rows, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, nil)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.False(report.Balanced)
}

func (suite *ReportingServiceTestSuite) TestBalanceSheet_AsOfPassedToRepo() {
	ctx := context.Background()
	asOf := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)

	suite.mockRepo.On("GetAccountSums", ctx, mock.MatchedBy(func(f domain.EntryFilter) bool {
		return f.DateTo != nil && f.DateTo.Equal(asOf) && f.DateFrom == nil
	}), []domain.AccountType{domain.Asset, domain.Liability, domain.Equity}).Return([]domain.TrialBalanceRow{}, nil).Once()

	report, err := suite.service.BalanceSheet(ctx, &asOf)

	suite.Require().NoError(err)
	suite.Require().NotNil(report)
	suite.True(report.Balanced)

	suite.mockRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---

func TestReportingService(t *testing.T) {
	suite.Run(t, new(ReportingServiceTestSuite))
}
