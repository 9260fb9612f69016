package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/ledger_backend/internal/apperrors"
	"github.com/SscSPs/ledger_backend/internal/core/domain"
	portsrepo "github.com/SscSPs/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/ledger_backend/internal/core/ports/services"
	"github.com/SscSPs/ledger_backend/internal/core/services"
	"github.com/SscSPs/ledger_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, accountCode string) (*domain.Account, error) {
	args := m.Called(ctx, accountCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	return m.Called(ctx, account).Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error {
	return m.Called(ctx, accountID, userID, now).Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdateAccountBalances(ctx context.Context, balances map[string]decimal.Decimal, userID string, now time.Time) error {
	return m.Called(ctx, balances, userID, now).Error(0)
}

// --- Test Suite ---
type AccountServiceTestSuite struct {
	suite.Suite
	mockRepo *MockAccountRepository
	service  portssvc.AccountSvcFacade
	ctx      context.Context
}

func (s *AccountServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockAccountRepository)
	s.service = services.NewAccountService(s.mockRepo)
	s.ctx = context.Background()
}

func (s *AccountServiceTestSuite) TestCreateAccount_Success() {
	req := dto.CreateAccountRequest{
		AccountCode:    " 1000 ",
		Name:           "Cash",
		AccountType:    domain.Asset,
		OpeningBalance: decimal.NewFromInt(250),
	}
	s.mockRepo.On("FindAccountByCode", s.ctx, "1000").Return(nil, apperrors.NewNotFoundError("account", "1000")).Once()
	s.mockRepo.On("SaveAccount", s.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.AccountCode == "1000" && a.Level == 1 && a.IsActive &&
			a.CurrentBalance.Equal(a.OpeningBalance) && a.CreatedBy == "user-1"
	})).Return(nil).Once()

	account, err := s.service.CreateAccount(s.ctx, req, "user-1")

	s.Require().NoError(err)
	s.NotEmpty(account.AccountID)
	s.True(account.CurrentBalance.Equal(decimal.NewFromInt(250)))
	s.mockRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestCreateAccount_DuplicateCode() {
	s.mockRepo.On("FindAccountByCode", s.ctx, "1000").Return(&domain.Account{AccountID: "existing"}, nil).Once()

	_, err := s.service.CreateAccount(s.ctx, dto.CreateAccountRequest{AccountCode: "1000", Name: "Cash", AccountType: domain.Asset}, "user-1")

	s.ErrorIs(err, services.ErrDuplicateAccountCode)
	s.ErrorIs(err, apperrors.ErrDuplicate)
	s.mockRepo.AssertNotCalled(s.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestCreateAccount_DuplicateOnInsertRace() {
	s.mockRepo.On("FindAccountByCode", s.ctx, "1000").Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepo.On("SaveAccount", s.ctx, mock.Anything).Return(apperrors.ErrDuplicate).Once()

	_, err := s.service.CreateAccount(s.ctx, dto.CreateAccountRequest{AccountCode: "1000", Name: "Cash", AccountType: domain.Asset}, "user-1")

	s.ErrorIs(err, services.ErrDuplicateAccountCode)
}

func (s *AccountServiceTestSuite) TestCreateAccount_ChildLevel() {
	parentID := "parent-1"
	s.mockRepo.On("FindAccountByCode", s.ctx, "1010").Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepo.On("FindAccountByID", s.ctx, parentID).Return(&domain.Account{AccountID: parentID, Level: 2}, nil).Once()
	s.mockRepo.On("SaveAccount", s.ctx, mock.MatchedBy(func(a domain.Account) bool {
		return a.Level == 3 && a.ParentAccountID == parentID
	})).Return(nil).Once()

	account, err := s.service.CreateAccount(s.ctx, dto.CreateAccountRequest{
		AccountCode: "1010", Name: "Petty cash", AccountType: domain.Asset, ParentAccountID: &parentID,
	}, "user-1")

	s.Require().NoError(err)
	s.Equal(3, account.Level)
}

func (s *AccountServiceTestSuite) TestCreateAccount_UnknownParent() {
	parentID := "ghost"
	s.mockRepo.On("FindAccountByCode", s.ctx, "1010").Return(nil, apperrors.ErrNotFound).Once()
	s.mockRepo.On("FindAccountByID", s.ctx, parentID).Return(nil, apperrors.NewNotFoundError("account", parentID)).Once()

	_, err := s.service.CreateAccount(s.ctx, dto.CreateAccountRequest{
		AccountCode: "1010", Name: "Petty cash", AccountType: domain.Asset, ParentAccountID: &parentID,
	}, "user-1")

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AccountServiceTestSuite) TestCreateAccount_InvalidType() {
	_, err := s.service.CreateAccount(s.ctx, dto.CreateAccountRequest{AccountCode: "1", Name: "x", AccountType: "cash"}, "user-1")
	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRepo.AssertNotCalled(s.T(), "FindAccountByCode", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestDeactivateAccount_AlreadyInactive() {
	s.mockRepo.On("FindAccountByID", s.ctx, "a").Return(&domain.Account{AccountID: "a", IsActive: false}, nil).Once()

	err := s.service.DeactivateAccount(s.ctx, "a", "user-1")

	s.ErrorIs(err, services.ErrAccountInactive)
}

func (s *AccountServiceTestSuite) TestDeactivateAccount_HasBalance() {
	s.mockRepo.On("FindAccountByID", s.ctx, "sales").Return(&domain.Account{
		AccountID: "sales", AccountCode: "4000", IsActive: true, CurrentBalance: decimal.NewFromInt(500),
	}, nil).Once()

	err := s.service.DeactivateAccount(s.ctx, "sales", "user-1")

	s.ErrorIs(err, services.ErrAccountHasBalance)
	s.ErrorIs(err, apperrors.ErrConflict)
	s.mockRepo.AssertNotCalled(s.T(), "DeactivateAccount", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestCreateAccount_OpeningBalanceScale() {
	_, err := s.service.CreateAccount(s.ctx, dto.CreateAccountRequest{
		AccountCode: "1000", Name: "Cash", AccountType: domain.Asset, OpeningBalance: decimal.RequireFromString("1.00001"),
	}, "user-1")

	s.ErrorIs(err, services.ErrAmountScale)
	s.mockRepo.AssertNotCalled(s.T(), "SaveAccount", mock.Anything, mock.Anything)
}

func (s *AccountServiceTestSuite) TestApplyDeltas_NormalBalanceRule() {
	accounts := map[string]domain.Account{
		"cash":  {AccountID: "cash", AccountType: domain.Asset, CurrentBalance: decimal.NewFromInt(100)},
		"sales": {AccountID: "sales", AccountType: domain.Revenue, CurrentBalance: decimal.NewFromInt(40)},
	}
	s.mockRepo.On("FindAccountsByIDsForUpdate", s.ctx, []string{"cash", "sales"}).Return(accounts, nil).Once()
	s.mockRepo.On("UpdateAccountBalances", s.ctx, mock.MatchedBy(func(b map[string]decimal.Decimal) bool {
		return len(b) == 2 && b["cash"].Equal(decimal.NewFromInt(150)) && b["sales"].Equal(decimal.NewFromInt(90))
	}), "user-1", mock.AnythingOfType("time.Time")).Return(nil).Once()

	err := s.service.ApplyDeltas(s.ctx, []domain.BalanceDelta{
		{AccountID: "cash", Debit: decimal.NewFromInt(50), Credit: decimal.Zero},
		{AccountID: "sales", Debit: decimal.Zero, Credit: decimal.NewFromInt(50)},
	}, "user-1")

	s.Require().NoError(err)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *AccountServiceTestSuite) TestApplyDeltas_MissingAccount() {
	s.mockRepo.On("FindAccountsByIDsForUpdate", s.ctx, []string{"ghost"}).Return(map[string]domain.Account{}, nil).Once()

	err := s.service.ApplyDeltas(s.ctx, []domain.BalanceDelta{{AccountID: "ghost", Debit: decimal.NewFromInt(1)}}, "user-1")

	s.True(errors.Is(err, apperrors.ErrNotFound))
	s.mockRepo.AssertNotCalled(s.T(), "UpdateAccountBalances", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// --- Run Test Suite ---
func TestAccountService(t *testing.T) {
	suite.Run(t, new(AccountServiceTestSuite))
}
