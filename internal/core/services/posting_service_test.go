package services_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/courierhq/ledger_backend/internal/apperrors"
	"github.com/courierhq/ledger_backend/internal/core/domain"
	portssvc "github.com/courierhq/ledger_backend/internal/core/ports/services"
	"github.com/courierhq/ledger_backend/internal/core/services"
	"github.com/courierhq/ledger_backend/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MockTransactionRepository is a mock type for the TransactionRepositoryFacade interface
type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) FindTransactionByNumber(ctx context.Context, transactionNumber string) (*domain.Transaction, error) {
	args := m.Called(ctx, transactionNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockTransactionRepository) ListTransactions(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

func (m *MockTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction, entries []domain.Entry) error {
	args := m.Called(ctx, txn, entries)
	return args.Error(0)
}

func (m *MockTransactionRepository) SumEntriesForAccount(ctx context.Context, accountID string, filter domain.EntryFilter) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID, filter)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockTransactionRepository) FindEntriesForAccount(ctx context.Context, accountID string, filter domain.EntryFilter) ([]domain.LedgerRow, decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, accountID, filter)
	var rows []domain.LedgerRow
	if args.Get(0) != nil {
		rows = args.Get(0).([]domain.LedgerRow)
	}
	return rows, args.Get(1).(decimal.Decimal), args.Get(2).(decimal.Decimal), args.Error(3)
}

// MockAccountService is a mock type for the AccountService interface
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccount(ctx context.Context, idOrNumber string) (*domain.Account, error) {
	args := m.Called(ctx, idOrNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) DeleteAccount(ctx context.Context, accountID string, userID string) error {
	args := m.Called(ctx, accountID, userID)
	return args.Error(0)
}

// --- Test Suite Setup ---

type PostingServiceTestSuite struct {
	suite.Suite
	mockTxnRepo    *MockTransactionRepository
	mockAccountSvc *MockAccountService
	service        portssvc.PostingService

	cashAccount    *domain.Account
	revenueAccount *domain.Account
}

func (suite *PostingServiceTestSuite) SetupTest() {
	suite.mockTxnRepo = new(MockTransactionRepository)
	suite.mockAccountSvc = new(MockAccountService)
	suite.service = services.NewPostingService(suite.mockTxnRepo, suite.mockAccountSvc)

	suite.cashAccount = &domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: "1000",
		Name:          "Cash",
		AccountType:   domain.Asset,
		IsActive:      true,
	}
	suite.revenueAccount = &domain.Account{
		AccountID:     uuid.NewString(),
		AccountNumber: "4000",
		Name:          "Sales Revenue",
		AccountType:   domain.Revenue,
		IsActive:      true,
	}
}

func (suite *PostingServiceTestSuite) balancedRequest() dto.PostTransactionRequest {
	return dto.PostTransactionRequest{
		TransactionType: "CRV",
		Description:     "Cash sale",
		Date:            time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Entries: []dto.CreateEntryRequest{
			{Account: "1000", DebitAmount: decimal.NewFromInt(500)},
			{Account: "4000", CreditAmount: decimal.NewFromInt(500)},
		},
	}
}

// --- Test Cases ---

func (suite *PostingServiceTestSuite) TestPostTransaction_Success() {
	ctx := context.Background()
	creatorUserID := uuid.NewString()
	req := suite.balancedRequest()

	suite.mockAccountSvc.On("GetAccount", ctx, "1000").Return(suite.cashAccount, nil).Once()
	suite.mockAccountSvc.On("GetAccount", ctx, "4000").Return(suite.revenueAccount, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("[]domain.Entry")).Return(nil).Once()

	txn, err := suite.service.PostTransaction(ctx, req, creatorUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal(domain.CashReceipt, txn.TransactionType)
	suite.Equal(domain.Posted, txn.Status)
	suite.Equal(creatorUserID, txn.CreatedBy)
	// CRV + 13-digit millisecond timestamp + 4-digit random suffix
	suite.Regexp(regexp.MustCompile(`^CRV\d{17}$`), txn.TransactionNumber)

	suite.Require().Len(txn.Entries, 2)
	suite.Equal(suite.cashAccount.AccountID, txn.Entries[0].AccountID)
	suite.Equal(suite.revenueAccount.AccountID, txn.Entries[1].AccountID)
	suite.Equal(0, txn.Entries[0].LineNo)
	suite.Equal(1, txn.Entries[1].LineNo)
	suite.Equal(txn.TransactionID, txn.Entries[0].TransactionID)

	suite.mockTxnRepo.AssertExpectations(suite.T())
	suite.mockAccountSvc.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestPostTransaction_Imbalanced() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Entries[1].CreditAmount = decimal.NewFromInt(400)

	suite.mockAccountSvc.On("GetAccount", ctx, "1000").Return(suite.cashAccount, nil).Once()
	suite.mockAccountSvc.On("GetAccount", ctx, "4000").Return(suite.revenueAccount, nil).Once()

	txn, err := suite.service.PostTransaction(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)

	var imbalance *apperrors.ImbalanceError
	suite.Require().ErrorAs(err, &imbalance)
	suite.True(imbalance.TotalDebits.Equal(decimal.NewFromInt(500)))
	suite.True(imbalance.TotalCredits.Equal(decimal.NewFromInt(400)))

	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_WithinTolerance() {
	ctx := context.Background()
	req := suite.balancedRequest()
	// 500.00 vs 499.995 differs by half a cent, inside the rounding tolerance
	req.Entries[1].CreditAmount = decimal.RequireFromString("499.995")

	suite.mockAccountSvc.On("GetAccount", ctx, "1000").Return(suite.cashAccount, nil).Once()
	suite.mockAccountSvc.On("GetAccount", ctx, "4000").Return(suite.revenueAccount, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("[]domain.Entry")).Return(nil).Once()

	txn, err := suite.service.PostTransaction(ctx, req, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_SingleEntry() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Entries = req.Entries[:1]

	txn, err := suite.service.PostTransaction(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.ErrorIs(err, services.ErrTooFewEntries)

	suite.mockAccountSvc.AssertNotCalled(suite.T(), "GetAccount", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_EntryWithBothSides() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Entries[0].CreditAmount = decimal.NewFromInt(100)

	suite.mockAccountSvc.On("GetAccount", ctx, "1000").Return(suite.cashAccount, nil).Once()
	suite.mockAccountSvc.On("GetAccount", ctx, "4000").Return(suite.revenueAccount, nil).Once()

	txn, err := suite.service.PostTransaction(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_EntryWithNeitherSide() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Entries[0].DebitAmount = decimal.Zero

	suite.mockAccountSvc.On("GetAccount", ctx, "1000").Return(suite.cashAccount, nil).Once()
	suite.mockAccountSvc.On("GetAccount", ctx, "4000").Return(suite.revenueAccount, nil).Once()

	txn, err := suite.service.PostTransaction(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_NegativeAmount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Entries[0].DebitAmount = decimal.NewFromInt(-500)

	suite.mockAccountSvc.On("GetAccount", ctx, "1000").Return(suite.cashAccount, nil).Once()
	suite.mockAccountSvc.On("GetAccount", ctx, "4000").Return(suite.revenueAccount, nil).Once()

	txn, err := suite.service.PostTransaction(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_UnknownAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.Entries[1].Account = "9999"

	suite.mockAccountSvc.On("GetAccount", ctx, "1000").Return(suite.cashAccount, nil).Once()
	suite.mockAccountSvc.On("GetAccount", ctx, "9999").Return(nil, apperrors.ErrNotFound).Once()

	txn, err := suite.service.PostTransaction(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	suite.mockTxnRepo.AssertNotCalled(suite.T(), "SaveTransaction", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_InactiveAccount() {
	ctx := context.Background()
	req := suite.balancedRequest()
	inactive := *suite.revenueAccount
	inactive.IsActive = false

	suite.mockAccountSvc.On("GetAccount", ctx, "1000").Return(suite.cashAccount, nil).Once()
	suite.mockAccountSvc.On("GetAccount", ctx, "4000").Return(&inactive, nil).Once()

	txn, err := suite.service.PostTransaction(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_InvalidType() {
	ctx := context.Background()
	req := suite.balancedRequest()
	req.TransactionType = "XYZ"

	txn, err := suite.service.PostTransaction(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *PostingServiceTestSuite) TestPostTransaction_SaveError() {
	ctx := context.Background()
	req := suite.balancedRequest()
	expectedErr := apperrors.ErrConflict

	suite.mockAccountSvc.On("GetAccount", ctx, "1000").Return(suite.cashAccount, nil).Once()
	suite.mockAccountSvc.On("GetAccount", ctx, "4000").Return(suite.revenueAccount, nil).Once()
	suite.mockTxnRepo.On("SaveTransaction", ctx, mock.AnythingOfType("domain.Transaction"), mock.AnythingOfType("[]domain.Entry")).Return(expectedErr).Once()

	txn, err := suite.service.PostTransaction(ctx, req, uuid.NewString())

	suite.Require().Error(err)
	suite.Nil(txn)
	suite.ErrorIs(err, expectedErr)
}

func (suite *PostingServiceTestSuite) TestGetTransaction_ByID() {
	ctx := context.Background()
	testID := uuid.NewString()
	expected := &domain.Transaction{TransactionID: testID, TransactionNumber: "JV17000000000001234", Status: domain.Posted}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, testID).Return(expected, nil).Once()

	txn, err := suite.service.GetTransaction(ctx, testID)

	suite.Require().NoError(err)
	suite.Equal(expected, txn)
	suite.mockTxnRepo.AssertNotCalled(suite.T(), "FindTransactionByNumber", mock.Anything, mock.Anything)
}

func (suite *PostingServiceTestSuite) TestGetTransaction_FallsBackToNumber() {
	ctx := context.Background()
	number := "CPV17000000000009876"
	expected := &domain.Transaction{TransactionID: uuid.NewString(), TransactionNumber: number, Status: domain.Posted}

	suite.mockTxnRepo.On("FindTransactionByID", ctx, number).Return(nil, apperrors.ErrNotFound).Once()
	suite.mockTxnRepo.On("FindTransactionByNumber", ctx, number).Return(expected, nil).Once()

	txn, err := suite.service.GetTransaction(ctx, number)

	suite.Require().NoError(err)
	suite.Equal(expected, txn)
	suite.mockTxnRepo.AssertExpectations(suite.T())
}

func (suite *PostingServiceTestSuite) TestListTransactions_DefaultLimit() {
	ctx := context.Background()
	txns := []domain.Transaction{
		{TransactionID: uuid.NewString(), TransactionNumber: "JV17000000000000001", Status: domain.Posted},
	}

	suite.mockTxnRepo.On("ListTransactions", ctx, mock.AnythingOfType("domain.EntryFilter"), 20, (*string)(nil)).Return(txns, nil, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, dto.ListTransactionsParams{})

	suite.Require().NoError(err)
	suite.Require().NotNil(resp)
	suite.Len(resp.Transactions, 1)
	suite.Nil(resp.NextToken)

	suite.mockTxnRepo.AssertExpectations(suite.T())
}

// --- Run Test Suite ---

func TestPostingService(t *testing.T) {
	suite.Run(t, new(PostingServiceTestSuite))
}
