package handlers_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/ledger_backend/internal/apperrors"
	"github.com/SscSPs/ledger_backend/internal/core/domain"
	"github.com/SscSPs/ledger_backend/internal/core/services"
	"github.com/SscSPs/ledger_backend/internal/dto"
	"github.com/SscSPs/ledger_backend/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router        *gin.Engine
	mockAccount   *MockAccountService
	mockJournal   *MockJournalService
	mockPosting   *MockPostingService
	mockReporting *MockReportingService
	mockVoucher   *MockVoucherService
	mockInvoice   *MockInvoiceService
	userID        string
}

func generateTestToken(userID string) (string, error) {
	claims := jwt.RegisteredClaims{
		Issuer:    "ledger-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.userID = uuid.NewString()
	suite.mockAccount = new(MockAccountService)
	suite.mockJournal = new(MockJournalService)
	suite.mockPosting = new(MockPostingService)
	suite.mockReporting = new(MockReportingService)
	suite.mockVoucher = new(MockVoucherService)
	suite.mockInvoice = new(MockInvoiceService)

	suite.router = handlers.NewRouter(handlers.RouterConfig{JWTSecret: testJWTSecret}, &services.ServiceContainer{
		Account:   suite.mockAccount,
		Journal:   suite.mockJournal,
		Posting:   suite.mockPosting,
		Reporting: suite.mockReporting,
		Voucher:   suite.mockVoucher,
		Invoice:   suite.mockInvoice,
	})
}

func (suite *HandlerTestSuite) do(method, url, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, url, nil)
	}
	token, err := generateTestToken(suite.userID)
	suite.Require().NoError(err)
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestHealth_NoAuth() {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *HandlerTestSuite) TestProtectedRoute_RequiresToken() {
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/accounts", nil))
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockAccount.AssertNotCalled(suite.T(), "ListAccounts")
}

func (suite *HandlerTestSuite) TestCreateAccount_Success() {
	expected := &domain.Account{
		AccountID:      uuid.NewString(),
		AccountCode:    "1000",
		Name:           "Cash",
		AccountType:    domain.Asset,
		Level:          1,
		OpeningBalance: decimal.NewFromInt(1000),
		CurrentBalance: decimal.NewFromInt(1000),
		IsActive:       true,
	}
	suite.mockAccount.On("CreateAccount", mock.Anything,
		mock.MatchedBy(func(r dto.CreateAccountRequest) bool {
			return r.AccountCode == "1000" && r.OpeningBalance.Equal(decimal.NewFromInt(1000))
		}),
		suite.userID,
	).Return(expected, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts",
		`{"accountCode":"1000","name":"Cash","accountType":"asset","openingBalance":"1000"}`)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(expected.AccountID, resp.AccountID)
	suite.True(resp.CurrentBalance.Equal(decimal.NewFromInt(1000)))
	suite.mockAccount.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateAccount_InvalidType() {
	w := suite.do(http.MethodPost, "/api/v1/accounts",
		`{"accountCode":"1000","name":"Cash","accountType":"cash"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockAccount.AssertNotCalled(suite.T(), "CreateAccount")
}

func (suite *HandlerTestSuite) TestCreateAccount_UnknownField() {
	w := suite.do(http.MethodPost, "/api/v1/accounts",
		`{"accountCode":"1000","name":"Cash","accountType":"asset","colour":"red"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestCreateAccount_DuplicateCode() {
	suite.mockAccount.On("CreateAccount", mock.Anything, mock.Anything, suite.userID).
		Return(nil, services.ErrDuplicateAccountCode).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts",
		`{"accountCode":"1000","name":"Cash","accountType":"asset"}`)
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestGetAccount_NotFound() {
	accountID := uuid.NewString()
	suite.mockAccount.On("GetAccountByID", mock.Anything, accountID).
		Return(nil, apperrors.NewNotFoundError("account", accountID)).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/"+accountID, "")
	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *HandlerTestSuite) TestListAccounts_ActiveOnly() {
	suite.mockAccount.On("ListAccounts", mock.Anything, true).
		Return([]domain.Account{{AccountID: "a", AccountCode: "1000", IsActive: true}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts?activeOnly=true", "")
	suite.Equal(http.StatusOK, w.Code)
	var resp dto.ListAccountsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Accounts, 1)
	suite.mockAccount.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestDeactivateAccount() {
	suite.mockAccount.On("DeactivateAccount", mock.Anything, "acc-1", suite.userID).Return(nil).Once()
	w := suite.do(http.MethodDelete, "/api/v1/accounts/acc-1", "")
	suite.Equal(http.StatusNoContent, w.Code)

	suite.mockAccount.On("DeactivateAccount", mock.Anything, "acc-2", suite.userID).Return(services.ErrAccountInactive).Once()
	w = suite.do(http.MethodDelete, "/api/v1/accounts/acc-2", "")
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *HandlerTestSuite) TestCreateEntry_NegativeAmountRejectedByBinding() {
	body := `{"entryDate":"2024-01-15","description":"x","lines":[
		{"accountID":"a","debitAmount":"-5","creditAmount":"0"},
		{"accountID":"b","debitAmount":"0","creditAmount":"-5"}]}`
	w := suite.do(http.MethodPost, "/api/v1/journal-entries", body)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockJournal.AssertNotCalled(suite.T(), "CreateEntry")
}

func (suite *HandlerTestSuite) TestCreateEntry_Unbalanced() {
	suite.mockJournal.On("CreateEntry", mock.Anything, mock.Anything, suite.userID).
		Return(nil, services.ErrEntryUnbalanced).Once()

	body := `{"entryDate":"2024-01-15","description":"x","lines":[
		{"accountID":"a","debitAmount":"100","creditAmount":"0"},
		{"accountID":"b","debitAmount":"0","creditAmount":"90"}]}`
	w := suite.do(http.MethodPost, "/api/v1/journal-entries", body)
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(w.Body.String(), "differ")
}

func (suite *HandlerTestSuite) TestCreateEntry_Success() {
	entry := &domain.JournalEntry{
		EntryID:     uuid.NewString(),
		EntryNumber: "JE-000001",
		EntryDate:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Status:      domain.EntryDraft,
		TotalDebit:  decimal.NewFromInt(100),
		TotalCredit: decimal.NewFromInt(100),
	}
	suite.mockJournal.On("CreateEntry", mock.Anything,
		mock.MatchedBy(func(r dto.CreateJournalEntryRequest) bool { return len(r.Lines) == 2 }),
		suite.userID,
	).Return(entry, nil).Once()

	body := `{"entryDate":"2024-01-15","description":"x","lines":[
		{"accountID":"a","debitAmount":100,"creditAmount":0},
		{"accountID":"b","debitAmount":0,"creditAmount":100}]}`
	w := suite.do(http.MethodPost, "/api/v1/journal-entries", body)

	suite.Equal(http.StatusCreated, w.Code)
	var resp dto.JournalEntryResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("JE-000001", resp.EntryNumber)
	suite.Equal("2024-01-15", resp.EntryDate)
	suite.Equal(domain.EntryDraft, resp.Status)
}

func (suite *HandlerTestSuite) TestListEntries_InvalidStatus() {
	w := suite.do(http.MethodGet, "/api/v1/journal-entries?status=open", "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestListEntries_PassesParams() {
	suite.mockJournal.On("ListEntries", mock.Anything,
		mock.MatchedBy(func(p dto.ListJournalEntriesParams) bool { return p.Status == "posted" && p.Limit == 5 }),
	).Return(&dto.ListJournalEntriesResponse{Entries: []dto.JournalEntryResponse{}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/journal-entries?status=posted&limit=5", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.mockJournal.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestPostEntry_StatusMapping() {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{services.ErrEntryAlreadyPosted, http.StatusConflict},
		{services.ErrEntryCancelled, http.StatusConflict},
		{apperrors.NewNotFoundError("journal entry", "e"), http.StatusNotFound},
		{fmt.Errorf("%w: account x", services.ErrInvalidAccountReference), http.StatusBadRequest},
		{fmt.Errorf("connection reset"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		call := suite.mockPosting.On("PostEntry", mock.Anything, "e", suite.userID)
		if tt.err == nil {
			call.Return(&domain.JournalEntry{EntryID: "e", Status: domain.EntryPosted}, nil).Once()
		} else {
			call.Return(nil, tt.err).Once()
		}
		w := suite.do(http.MethodPut, "/api/v1/journal-entries/e/post", "")
		suite.Equal(tt.want, w.Code, "error %v", tt.err)
	}
	suite.mockPosting.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestInternalErrorHidesDetail() {
	suite.mockPosting.On("CancelEntry", mock.Anything, "e", suite.userID).
		Return(nil, fmt.Errorf("pq: secret detail")).Once()

	w := suite.do(http.MethodPut, "/api/v1/journal-entries/e/cancel", "")
	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.NotContains(w.Body.String(), "secret detail")
}

func (suite *HandlerTestSuite) TestTrialBalance_ParsesPeriod() {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	suite.mockReporting.On("TrialBalance", mock.Anything, from, to).
		Return(&domain.TrialBalance{FromDate: from, ToDate: to, Rows: []domain.TrialBalanceRow{}}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/reports/trial-balance?fromDate=2024-01-01&toDate=2024-12-31", "")
	suite.Equal(http.StatusOK, w.Code)
	suite.mockReporting.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestReports_InvalidPeriod() {
	w := suite.do(http.MethodGet, "/api/v1/reports/income-statement?fromDate=2024-12-31&toDate=2024-01-01", "")
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/reports/trial-balance?fromDate=yesterday&toDate=2024-01-01", "")
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/reports/balance-sheet", "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockReporting.AssertNotCalled(suite.T(), "IncomeStatement")
}

func (suite *HandlerTestSuite) TestCreatePaymentVoucher() {
	voucher := &domain.Voucher{VoucherID: "v1", VoucherNumber: "PV-000001", Kind: domain.PaymentVoucher, Amount: decimal.NewFromInt(50)}
	suite.mockVoucher.On("CreateVoucher", mock.Anything, domain.PaymentVoucher, mock.Anything, suite.userID).
		Return(voucher, nil).Once()

	body := `{"voucherDate":"2024-02-01","counterparty":"Supplier","amount":"50","paymentMethod":"cash",
		"cashAccountID":"cash","counterAccountID":"rent"}`
	w := suite.do(http.MethodPost, "/api/v1/vouchers/payments", body)
	suite.Equal(http.StatusCreated, w.Code)
	suite.Contains(w.Body.String(), "PV-000001")
}

func (suite *HandlerTestSuite) TestCreateVoucher_BindingRules() {
	tests := map[string]string{
		"zero amount": `{"voucherDate":"2024-02-01","counterparty":"S","amount":"0","paymentMethod":"cash","cashAccountID":"a","counterAccountID":"b"}`,
		"same accounts": `{"voucherDate":"2024-02-01","counterparty":"S","amount":"1","paymentMethod":"cash","cashAccountID":"a","counterAccountID":"a"}`,
		"check without number": `{"voucherDate":"2024-02-01","counterparty":"S","amount":"1","paymentMethod":"check","cashAccountID":"a","counterAccountID":"b"}`,
	}
	for name, body := range tests {
		w := suite.do(http.MethodPost, "/api/v1/vouchers/receipts", body)
		suite.Equal(http.StatusBadRequest, w.Code, name)
	}
	suite.mockVoucher.AssertNotCalled(suite.T(), "CreateVoucher")
}

func (suite *HandlerTestSuite) TestCreateSalesInvoice() {
	invoice := &domain.Invoice{
		InvoiceID:     "i1",
		InvoiceNumber: "SI-000001",
		Kind:          domain.SalesInvoice,
		TotalAmount:   decimal.NewFromInt(115),
		PostingState:  domain.NewPostingState("e1", domain.EntryDraft),
	}
	suite.mockInvoice.On("CreateInvoice", mock.Anything, domain.SalesInvoice, mock.MatchedBy(func(req dto.CreateInvoiceRequest) bool {
		return len(req.Items) == 1 && req.Items[0].Quantity.Equal(decimal.NewFromInt(2)) && req.TaxAmount.Equal(decimal.NewFromInt(15))
	}), suite.userID).Return(invoice, nil).Once()

	body := `{"invoiceDate":"2024-02-01","partyName":"ACME","partyAccountID":"ar","itemsAccountID":"sales",
		"taxAccountID":"vat","taxAmount":"15","items":[{"description":"Widget","quantity":"2","unitPrice":"50"}]}`
	w := suite.do(http.MethodPost, "/api/v1/invoices/sales", body)
	suite.Equal(http.StatusCreated, w.Code)

	var resp dto.InvoiceResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("SI-000001", resp.InvoiceNumber)
	suite.Equal("e1", resp.JournalEntryID)
	suite.Equal(domain.EntryDraft, resp.EntryStatus)
	suite.False(resp.IsPosted)
	suite.mockInvoice.AssertExpectations(suite.T())
}

func (suite *HandlerTestSuite) TestCreateInvoice_BindingRules() {
	tests := map[string]string{
		"no items":          `{"invoiceDate":"2024-02-01","partyName":"S","partyAccountID":"ap","itemsAccountID":"exp","items":[]}`,
		"zero quantity":     `{"invoiceDate":"2024-02-01","partyName":"S","partyAccountID":"ap","itemsAccountID":"exp","items":[{"description":"x","quantity":"0","unitPrice":"1"}]}`,
		"negative price":    `{"invoiceDate":"2024-02-01","partyName":"S","partyAccountID":"ap","itemsAccountID":"exp","items":[{"description":"x","quantity":"1","unitPrice":"-1"}]}`,
		"same accounts":     `{"invoiceDate":"2024-02-01","partyName":"S","partyAccountID":"ap","itemsAccountID":"ap","items":[{"description":"x","quantity":"1","unitPrice":"1"}]}`,
		"item without text": `{"invoiceDate":"2024-02-01","partyName":"S","partyAccountID":"ap","itemsAccountID":"exp","items":[{"quantity":"1","unitPrice":"1"}]}`,
	}
	for name, body := range tests {
		w := suite.do(http.MethodPost, "/api/v1/invoices/purchases", body)
		suite.Equal(http.StatusBadRequest, w.Code, name)
	}
	suite.mockInvoice.AssertNotCalled(suite.T(), "CreateInvoice")
}

func (suite *HandlerTestSuite) TestListInvoices_InvalidKind() {
	w := suite.do(http.MethodGet, "/api/v1/invoices?kind=credit", "")
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.mockInvoice.AssertNotCalled(suite.T(), "ListInvoices")
}

func (suite *HandlerTestSuite) TestPostInvoice_AlreadyPosted() {
	suite.mockInvoice.On("PostInvoice", mock.Anything, "i1", suite.userID).
		Return(nil, fmt.Errorf("%w: JE-000004", services.ErrEntryAlreadyPosted)).Once()

	w := suite.do(http.MethodPut, "/api/v1/invoices/i1/post", "")
	suite.Equal(http.StatusConflict, w.Code)
}

// --- Run Test Suite ---
func TestHandlers(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
