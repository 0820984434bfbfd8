package handler

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"eaglebank/internal/model"
	"eaglebank/internal/service"
	"eaglebank/pkg/money"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	accountNumberPattern = regexp.MustCompile(`^01\d{6}$`)
	userIDPattern        = regexp.MustCompile(`^usr-[A-Za-z0-9]+$`)
)

// TransactionPoster is the write+read surface of the transaction core used
// by the handlers.
type TransactionPoster interface {
	Post(ctx context.Context, accountNumber, userID string, req service.CreateTransactionRequest) (*model.Transaction, error)
	Get(ctx context.Context, accountNumber, userID, transactionID string) (*model.Transaction, error)
	List(ctx context.Context, accountNumber, userID string) ([]*model.Transaction, error)
}

type AccountManager interface {
	Create(ctx context.Context, userID string, req service.CreateAccountRequest) (*model.Account, error)
	List(ctx context.Context, userID string) ([]*model.Account, error)
	Get(ctx context.Context, accountNumber, userID string) (*model.Account, error)
	Update(ctx context.Context, accountNumber, userID string, req service.UpdateAccountRequest) (*model.Account, error)
	Delete(ctx context.Context, accountNumber, userID string) error
}

type UserManager interface {
	Create(ctx context.Context, req service.CreateUserRequest) (*model.User, error)
	Get(ctx context.Context, userID string) (*model.User, error)
	Update(ctx context.Context, userID string, req service.UpdateUserRequest) (*model.User, error)
	Delete(ctx context.Context, userID string) error
}

type Authenticator interface {
	Login(ctx context.Context, email string) (string, error)
}

type Handler struct {
	transactions TransactionPoster
	accounts     AccountManager
	users        UserManager
	auth         Authenticator
	logger       *zap.Logger
}

func NewHandler(transactions TransactionPoster, accounts AccountManager, users UserManager, auth Authenticator, logger *zap.Logger) *Handler {
	return &Handler{
		transactions: transactions,
		accounts:     accounts,
		users:        users,
		auth:         auth,
		logger:       logger,
	}
}

// ============================================================
// Response projections
// ============================================================

type addressResponse struct {
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	Line3    string `json:"line3"`
	Town     string `json:"town"`
	County   string `json:"county"`
	Postcode string `json:"postcode"`
}

type userResponse struct {
	ID               string          `json:"id"`
	Name             string          `json:"name"`
	Email            string          `json:"email"`
	PhoneNumber      string          `json:"phoneNumber"`
	Address          addressResponse `json:"address"`
	CreatedTimestamp time.Time       `json:"createdTimestamp"`
	UpdatedTimestamp time.Time       `json:"updatedTimestamp"`
}

type accountResponse struct {
	AccountNumber    string    `json:"accountNumber"`
	SortCode         string    `json:"sortCode"`
	Name             string    `json:"name"`
	AccountType      string    `json:"accountType"`
	Balance          float64   `json:"balance"`
	Currency         string    `json:"currency"`
	CreatedTimestamp time.Time `json:"createdTimestamp"`
	UpdatedTimestamp time.Time `json:"updatedTimestamp"`
}

// transactionResponse intentionally emits amount in pence while the request
// accepted pounds; clients depend on the asymmetry.
type transactionResponse struct {
	ID               string    `json:"id"`
	Amount           int64     `json:"amount"`
	Currency         string    `json:"currency"`
	Type             string    `json:"type"`
	Reference        string    `json:"reference"`
	UserID           string    `json:"userId"`
	CreatedTimestamp time.Time `json:"createdTimestamp"`
}

func toUserResponse(u *model.User) userResponse {
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Address: addressResponse{
			Line1:    u.AddressLine1,
			Line2:    u.AddressLine2,
			Line3:    u.AddressLine3,
			Town:     u.Town,
			County:   u.County,
			Postcode: u.Postcode,
		},
		CreatedTimestamp: u.CreatedAt,
		UpdatedTimestamp: u.UpdatedAt,
	}
}

func toAccountResponse(a *model.Account) accountResponse {
	return accountResponse{
		AccountNumber:    a.AccountNumber,
		SortCode:         a.SortCode,
		Name:             a.Name,
		AccountType:      a.AccountType,
		Balance:          money.Pounds(a.Balance),
		Currency:         a.Currency,
		CreatedTimestamp: a.CreatedAt,
		UpdatedTimestamp: a.UpdatedAt,
	}
}

func toTransactionResponse(t *model.Transaction) transactionResponse {
	return transactionResponse{
		ID:               t.ID,
		Amount:           t.Amount,
		Currency:         t.Currency,
		Type:             t.Type,
		Reference:        t.Reference,
		UserID:           t.UserID,
		CreatedTimestamp: t.CreatedAt,
	}
}

// ============================================================
// Transactions
// ============================================================

// CreateTransaction posts a deposit or withdrawal against an account.
// POST /v1/accounts/:accountNumber/transactions
func (h *Handler) CreateTransaction(c *gin.Context) {
	accountNumber, ok := h.accountNumberParam(c)
	if !ok {
		return
	}
	userID, _ := GetUserID(c)

	var req service.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body", nil)
		return
	}
	if details := validateRequest(req); details != nil {
		respondValidation(c, "Validation failed", details)
		return
	}

	txn, err := h.transactions.Post(c.Request.Context(), accountNumber, userID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toTransactionResponse(txn))
}

// ListTransactions returns every transaction on an owned account.
// GET /v1/accounts/:accountNumber/transactions
func (h *Handler) ListTransactions(c *gin.Context) {
	accountNumber, ok := h.accountNumberParam(c)
	if !ok {
		return
	}
	userID, _ := GetUserID(c)

	transactions, err := h.transactions.List(c.Request.Context(), accountNumber, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]transactionResponse, len(transactions))
	for i, txn := range transactions {
		responses[i] = toTransactionResponse(txn)
	}
	c.JSON(http.StatusOK, gin.H{"transactions": responses})
}

// GetTransaction returns one transaction on an owned account.
// GET /v1/accounts/:accountNumber/transactions/:transactionId
func (h *Handler) GetTransaction(c *gin.Context) {
	accountNumber, ok := h.accountNumberParam(c)
	if !ok {
		return
	}
	userID, _ := GetUserID(c)

	txn, err := h.transactions.Get(c.Request.Context(), accountNumber, userID, c.Param("transactionId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toTransactionResponse(txn))
}

// ============================================================
// Accounts
// ============================================================

// CreateAccount opens a new account for the caller.
// POST /v1/accounts
func (h *Handler) CreateAccount(c *gin.Context) {
	userID, _ := GetUserID(c)

	var req service.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body", nil)
		return
	}
	if details := validateRequest(req); details != nil {
		respondValidation(c, "Validation failed", details)
		return
	}

	account, err := h.accounts.Create(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toAccountResponse(account))
}

// ListAccounts returns the caller's accounts.
// GET /v1/accounts
func (h *Handler) ListAccounts(c *gin.Context) {
	userID, _ := GetUserID(c)

	accounts, err := h.accounts.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	responses := make([]accountResponse, len(accounts))
	for i, account := range accounts {
		responses[i] = toAccountResponse(account)
	}
	c.JSON(http.StatusOK, gin.H{"accounts": responses})
}

// GetAccount returns one owned account.
// GET /v1/accounts/:accountNumber
func (h *Handler) GetAccount(c *gin.Context) {
	accountNumber, ok := h.accountNumberParam(c)
	if !ok {
		return
	}
	userID, _ := GetUserID(c)

	account, err := h.accounts.Get(c.Request.Context(), accountNumber, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toAccountResponse(account))
}

// UpdateAccount changes name and/or type of an owned account.
// PATCH /v1/accounts/:accountNumber
func (h *Handler) UpdateAccount(c *gin.Context) {
	accountNumber, ok := h.accountNumberParam(c)
	if !ok {
		return
	}
	userID, _ := GetUserID(c)

	var req service.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body", nil)
		return
	}
	if details := validateRequest(req); details != nil {
		respondValidation(c, "Validation failed", details)
		return
	}

	account, err := h.accounts.Update(c.Request.Context(), accountNumber, userID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toAccountResponse(account))
}

// DeleteAccount removes an owned account.
// DELETE /v1/accounts/:accountNumber
func (h *Handler) DeleteAccount(c *gin.Context) {
	accountNumber, ok := h.accountNumberParam(c)
	if !ok {
		return
	}
	userID, _ := GetUserID(c)

	if err := h.accounts.Delete(c.Request.Context(), accountNumber, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ============================================================
// Users
// ============================================================

// CreateUser registers a new user. This endpoint takes no bearer token;
// it is where a caller obtains an identity in the first place.
// POST /v1/users
func (h *Handler) CreateUser(c *gin.Context) {
	var req service.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body", nil)
		return
	}
	if details := validateRequest(req); details != nil {
		respondValidation(c, "Validation failed", details)
		return
	}

	user, err := h.users.Create(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, toUserResponse(user))
}

// GetUser returns the caller's own profile.
// GET /v1/users/:userId
func (h *Handler) GetUser(c *gin.Context) {
	userID, ok := h.userIDParam(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// UpdateUser updates the caller's own profile.
// PATCH /v1/users/:userId
func (h *Handler) UpdateUser(c *gin.Context) {
	userID, ok := h.userIDParam(c)
	if !ok {
		return
	}

	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body", nil)
		return
	}
	if details := validateRequest(req); details != nil {
		respondValidation(c, "Validation failed", details)
		return
	}

	user, err := h.users.Update(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// DeleteUser removes the caller's own profile.
// DELETE /v1/users/:userId
func (h *Handler) DeleteUser(c *gin.Context) {
	userID, ok := h.userIDParam(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ============================================================
// Auth
// ============================================================

type loginRequest struct {
	Email string `json:"email"`
}

// Login exchanges a known email for a bearer token.
// POST /v1/auth
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidation(c, "Invalid request body", nil)
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.Header("Authorization", "Bearer "+token)
	c.JSON(http.StatusOK, gin.H{"token": token})
}

// ============================================================
// Path parameter guards
// ============================================================

func (h *Handler) accountNumberParam(c *gin.Context) (string, bool) {
	accountNumber := c.Param("accountNumber")
	if !accountNumberPattern.MatchString(accountNumber) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid account number format"})
		return "", false
	}
	return accountNumber, true
}

// userIDParam validates the path parameter format and binds it to the
// authenticated caller: users may only act on themselves.
func (h *Handler) userIDParam(c *gin.Context) (string, bool) {
	userID := c.Param("userId")
	if !userIDPattern.MatchString(userID) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Invalid user ID format. Expected usr-<alphanumeric>",
		})
		return "", false
	}
	callerID, _ := GetUserID(c)
	if userID != callerID {
		c.JSON(http.StatusForbidden, gin.H{
			"message": "Access to requested user is forbidden",
		})
		return "", false
	}
	return userID, true
}
