package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eaglebank/internal/model"
	"eaglebank/internal/service"
	"eaglebank/pkg/apierror"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ---- mock implementations ----

type mockTransactions struct {
	postFn func(ctx context.Context, accountNumber, userID string, req service.CreateTransactionRequest) (*model.Transaction, error)
	getFn  func(ctx context.Context, accountNumber, userID, transactionID string) (*model.Transaction, error)
	listFn func(ctx context.Context, accountNumber, userID string) ([]*model.Transaction, error)
}

func (m *mockTransactions) Post(ctx context.Context, accountNumber, userID string, req service.CreateTransactionRequest) (*model.Transaction, error) {
	if m.postFn != nil {
		return m.postFn(ctx, accountNumber, userID, req)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransactions) Get(ctx context.Context, accountNumber, userID, transactionID string) (*model.Transaction, error) {
	if m.getFn != nil {
		return m.getFn(ctx, accountNumber, userID, transactionID)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockTransactions) List(ctx context.Context, accountNumber, userID string) ([]*model.Transaction, error) {
	if m.listFn != nil {
		return m.listFn(ctx, accountNumber, userID)
	}
	return nil, fmt.Errorf("not configured")
}

type mockAccounts struct {
	createFn func(ctx context.Context, userID string, req service.CreateAccountRequest) (*model.Account, error)
	getFn    func(ctx context.Context, accountNumber, userID string) (*model.Account, error)
	listFn   func(ctx context.Context, userID string) ([]*model.Account, error)
	updateFn func(ctx context.Context, accountNumber, userID string, req service.UpdateAccountRequest) (*model.Account, error)
	deleteFn func(ctx context.Context, accountNumber, userID string) error
}

func (m *mockAccounts) Create(ctx context.Context, userID string, req service.CreateAccountRequest) (*model.Account, error) {
	if m.createFn != nil {
		return m.createFn(ctx, userID, req)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAccounts) Get(ctx context.Context, accountNumber, userID string) (*model.Account, error) {
	if m.getFn != nil {
		return m.getFn(ctx, accountNumber, userID)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAccounts) List(ctx context.Context, userID string) ([]*model.Account, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAccounts) Update(ctx context.Context, accountNumber, userID string, req service.UpdateAccountRequest) (*model.Account, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, accountNumber, userID, req)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockAccounts) Delete(ctx context.Context, accountNumber, userID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, accountNumber, userID)
	}
	return fmt.Errorf("not configured")
}

type mockUsers struct {
	createFn func(ctx context.Context, req service.CreateUserRequest) (*model.User, error)
	getFn    func(ctx context.Context, userID string) (*model.User, error)
	updateFn func(ctx context.Context, userID string, req service.UpdateUserRequest) (*model.User, error)
	deleteFn func(ctx context.Context, userID string) error
}

func (m *mockUsers) Create(ctx context.Context, req service.CreateUserRequest) (*model.User, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockUsers) Get(ctx context.Context, userID string) (*model.User, error) {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockUsers) Update(ctx context.Context, userID string, req service.UpdateUserRequest) (*model.User, error) {
	if m.updateFn != nil {
		return m.updateFn(ctx, userID, req)
	}
	return nil, fmt.Errorf("not configured")
}

func (m *mockUsers) Delete(ctx context.Context, userID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, userID)
	}
	return fmt.Errorf("not configured")
}

type mockAuth struct {
	loginFn func(ctx context.Context, email string) (string, error)
}

func (m *mockAuth) Login(ctx context.Context, email string) (string, error) {
	if m.loginFn != nil {
		return m.loginFn(ctx, email)
	}
	return "", fmt.Errorf("not configured")
}

// ---- helpers ----

func fakeAuth(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(userIDKey, userID)
		c.Next()
	}
}

func newTestRouter(h *Handler, authUserID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(fakeAuth(authUserID))

	v1 := r.Group("/v1")
	v1.POST("/users", h.CreateUser)
	v1.POST("/auth", h.Login)
	v1.GET("/users/:userId", h.GetUser)
	v1.PATCH("/users/:userId", h.UpdateUser)
	v1.DELETE("/users/:userId", h.DeleteUser)
	v1.POST("/accounts", h.CreateAccount)
	v1.GET("/accounts", h.ListAccounts)
	v1.GET("/accounts/:accountNumber", h.GetAccount)
	v1.PATCH("/accounts/:accountNumber", h.UpdateAccount)
	v1.DELETE("/accounts/:accountNumber", h.DeleteAccount)
	v1.POST("/accounts/:accountNumber/transactions", h.CreateTransaction)
	v1.GET("/accounts/:accountNumber/transactions", h.ListTransactions)
	v1.GET("/accounts/:accountNumber/transactions/:transactionId", h.GetTransaction)
	return r
}

func newTestHandler(txns TransactionPoster, accts AccountManager, users UserManager, auth Authenticator) *Handler {
	if txns == nil {
		txns = &mockTransactions{}
	}
	if accts == nil {
		accts = &mockAccounts{}
	}
	if users == nil {
		users = &mockUsers{}
	}
	if auth == nil {
		auth = &mockAuth{}
	}
	return NewHandler(txns, accts, users, auth, zap.NewNop())
}

func doRequest(router *gin.Engine, method, url string, body interface{}) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, url, nil)
	if body != nil {
		b, _ := json.Marshal(body)
		req, _ = http.NewRequest(method, url, strings.NewReader(string(b)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ---- test data ----

var testTransaction = &model.Transaction{
	ID:            "tan-0123456789abcdef",
	AccountNumber: "01234567",
	UserID:        "usr-alice",
	Amount:        2550,
	Currency:      "GBP",
	Type:          "deposit",
	Reference:     "birthday money",
	CreatedAt:     time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
}

func depositBody() map[string]interface{} {
	return map[string]interface{}{"amount": 25.50, "currency": "GBP", "type": "deposit", "reference": "birthday money"}
}

// ---- tests ----

func TestCreateTransactionEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		accountNum     string
		body           interface{}
		postFn         func(ctx context.Context, accountNumber, userID string, req service.CreateTransactionRequest) (*model.Transaction, error)
		expectedStatus int
	}{
		{
			name:       "created - deposit into own account",
			accountNum: "01234567",
			body:       depositBody(),
			postFn: func(_ context.Context, _, _ string, _ service.CreateTransactionRequest) (*model.Transaction, error) {
				return testTransaction, nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:       "unprocessable - insufficient funds",
			accountNum: "01234567",
			body:       map[string]interface{}{"amount": 10.0, "currency": "GBP", "type": "withdrawal"},
			postFn: func(_ context.Context, _, _ string, _ service.CreateTransactionRequest) (*model.Transaction, error) {
				return nil, apierror.InsufficientFunds()
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:       "forbidden - account owned by another user",
			accountNum: "01999999",
			body:       depositBody(),
			postFn: func(_ context.Context, _, _ string, _ service.CreateTransactionRequest) (*model.Transaction, error) {
				return nil, apierror.Forbidden("Access forbidden")
			},
			expectedStatus: http.StatusForbidden,
		},
		{
			name:       "not found - account does not exist",
			accountNum: "01888888",
			body:       depositBody(),
			postFn: func(_ context.Context, _, _ string, _ service.CreateTransactionRequest) (*model.Transaction, error) {
				return nil, apierror.NotFound("Bank account was not found")
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "bad request - malformed account number",
			accountNum:     "99234567",
			body:           depositBody(),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - missing required fields",
			accountNum:     "01234567",
			body:           map[string]interface{}{},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - unsupported currency",
			accountNum:     "01234567",
			body:           map[string]interface{}{"amount": 10.0, "currency": "USD", "type": "deposit"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "bad request - unknown type",
			accountNum:     "01234567",
			body:           map[string]interface{}{"amount": 10.0, "currency": "GBP", "type": "transfer"},
			expectedStatus: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockTransactions{postFn: tt.postFn}, nil, nil, nil)
			router := newTestRouter(h, "usr-alice")
			url := "/v1/accounts/" + tt.accountNum + "/transactions"
			w := doRequest(router, http.MethodPost, url, tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected %d got %d; body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestCreateTransactionResponseProjection(t *testing.T) {
	h := newTestHandler(&mockTransactions{
		postFn: func(_ context.Context, _, _ string, _ service.CreateTransactionRequest) (*model.Transaction, error) {
			return testTransaction, nil
		},
	}, nil, nil, nil)
	router := newTestRouter(h, "usr-alice")

	w := doRequest(router, http.MethodPost, "/v1/accounts/01234567/transactions", depositBody())
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}

	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}

	// The request took pounds; the response reports pence.
	if got := resp["amount"].(float64); got != 2550 {
		t.Errorf("response amount = %v, want 2550 pence", got)
	}
	if resp["id"] != "tan-0123456789abcdef" {
		t.Errorf("response id = %v", resp["id"])
	}
	if resp["userId"] != "usr-alice" {
		t.Errorf("response userId = %v", resp["userId"])
	}
	if resp["reference"] != "birthday money" {
		t.Errorf("response reference = %v", resp["reference"])
	}
	if _, ok := resp["createdTimestamp"]; !ok {
		t.Error("response missing createdTimestamp")
	}
	if _, ok := resp["accountNumber"]; ok {
		t.Error("response leaks accountNumber")
	}
}

func TestCreateTransactionValidationDetails(t *testing.T) {
	h := newTestHandler(nil, nil, nil, nil)
	router := newTestRouter(h, "usr-alice")

	body := map[string]interface{}{"amount": 10.0, "currency": "USD", "type": "deposit"}
	w := doRequest(router, http.MethodPost, "/v1/accounts/01234567/transactions", body)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		Details []struct {
			Field string `json:"field"`
			Type  string `json:"type"`
		} `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if len(resp.Details) != 1 || resp.Details[0].Field != "currency" || resp.Details[0].Type != "oneof" {
		t.Errorf("unexpected details: %+v", resp.Details)
	}
}

func TestListTransactionsEndpoint(t *testing.T) {
	h := newTestHandler(&mockTransactions{
		listFn: func(_ context.Context, accountNumber, userID string) ([]*model.Transaction, error) {
			return []*model.Transaction{testTransaction}, nil
		},
	}, nil, nil, nil)
	router := newTestRouter(h, "usr-alice")

	w := doRequest(router, http.MethodGet, "/v1/accounts/01234567/transactions", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Transactions []transactionResponse `json:"transactions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	if len(resp.Transactions) != 1 || resp.Transactions[0].Amount != 2550 {
		t.Errorf("unexpected list payload: %+v", resp.Transactions)
	}
}

func TestGetTransactionEndpoint(t *testing.T) {
	tests := []struct {
		name           string
		getFn          func(ctx context.Context, accountNumber, userID, transactionID string) (*model.Transaction, error)
		expectedStatus int
	}{
		{
			name: "ok",
			getFn: func(_ context.Context, _, _, _ string) (*model.Transaction, error) {
				return testTransaction, nil
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "not found",
			getFn: func(_ context.Context, _, _, _ string) (*model.Transaction, error) {
				return nil, apierror.NotFound("Transaction not found")
			},
			expectedStatus: http.StatusNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(&mockTransactions{getFn: tt.getFn}, nil, nil, nil)
			router := newTestRouter(h, "usr-alice")
			w := doRequest(router, http.MethodGet, "/v1/accounts/01234567/transactions/tan-0123456789abcdef", nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected %d got %d; body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestGetAccountEndpoint(t *testing.T) {
	account := &model.Account{
		AccountNumber: "01234567",
		UserID:        "usr-alice",
		SortCode:      "10-10-10",
		Name:          "Main",
		AccountType:   "personal",
		Balance:       7550,
		Currency:      "GBP",
	}
	h := newTestHandler(nil, &mockAccounts{
		getFn: func(_ context.Context, _, _ string) (*model.Account, error) {
			return account, nil
		},
	}, nil, nil)
	router := newTestRouter(h, "usr-alice")

	w := doRequest(router, http.MethodGet, "/v1/accounts/01234567", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	var resp map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response json: %v", err)
	}
	// Account projections report pounds, unlike transaction projections.
	if got := resp["balance"].(float64); got != 75.50 {
		t.Errorf("balance = %v, want 75.50", got)
	}
}

func TestUserAccessGuard(t *testing.T) {
	tests := []struct {
		name           string
		userID         string
		expectedStatus int
	}{
		{"own profile", "usr-alice", http.StatusOK},
		{"another user's profile", "usr-bob", http.StatusForbidden},
		{"malformed user id", "alice!", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(nil, nil, &mockUsers{
				getFn: func(_ context.Context, userID string) (*model.User, error) {
					return &model.User{ID: userID, Name: "Alice"}, nil
				},
			}, nil)
			router := newTestRouter(h, "usr-alice")
			w := doRequest(router, http.MethodGet, "/v1/users/"+tt.userID, nil)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected %d got %d; body: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestDeleteUserConflict(t *testing.T) {
	h := newTestHandler(nil, nil, &mockUsers{
		deleteFn: func(_ context.Context, _ string) error {
			return apierror.Conflict("A user cannot be deleted when they are associated with a bank account")
		},
	}, nil)
	router := newTestRouter(h, "usr-alice")

	w := doRequest(router, http.MethodDelete, "/v1/users/usr-alice", nil)
	if w.Code != http.StatusConflict {
		t.Errorf("expected 409 got %d; body: %s", w.Code, w.Body.String())
	}
}

func TestLoginEndpoint(t *testing.T) {
	h := newTestHandler(nil, nil, nil, &mockAuth{
		loginFn: func(_ context.Context, email string) (string, error) {
			if email == "alice@example.com" {
				return "signed-token", nil
			}
			return "", apierror.Unauthorised("User not found")
		},
	})
	router := newTestRouter(h, "")

	w := doRequest(router, http.MethodPost, "/v1/auth", map[string]interface{}{"email": "alice@example.com"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d; body: %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Authorization"); got != "Bearer signed-token" {
		t.Errorf("Authorization header = %q", got)
	}

	w = doRequest(router, http.MethodPost, "/v1/auth", map[string]interface{}{"email": "nobody@example.com"})
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401 got %d", w.Code)
	}
}
