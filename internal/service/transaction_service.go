package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"eaglebank/internal/model"
	"eaglebank/internal/repository"
	"eaglebank/pkg/apierror"
	"eaglebank/pkg/idgen"
	"eaglebank/pkg/money"

	"go.uber.org/zap"
)

// TransactionStore is the persistence contract for transaction posting.
// CommitTransaction must apply the balance update and the ledger insert (and
// the outbox row, when given) all-or-nothing, and must refuse the balance
// write if the account row changed since it was read. repository.Store is the
// production implementation.
type TransactionStore interface {
	FindAccountByNumber(ctx context.Context, accountNumber string) (*model.Account, error)
	CommitTransaction(ctx context.Context, account *model.Account, newBalance int64, txn *model.Transaction, msg *model.OutboxMessage) error
	FindTransaction(ctx context.Context, accountNumber, transactionID string) (*model.Transaction, error)
	ListTransactions(ctx context.Context, accountNumber string) ([]*model.Transaction, error)
}

// AccountInvalidator drops a cached account projection after its balance
// changed.
type AccountInvalidator interface {
	Invalidate(ctx context.Context, accountNumber string) error
}

type TransactionService struct {
	store  TransactionStore
	cache  AccountInvalidator
	ids    *idgen.Generator
	topic  string
	logger *zap.Logger
}

// NewTransactionService wires the posting pipeline. cache may be nil; topic
// is the Kafka topic the outbox sender publishes posted transactions to.
func NewTransactionService(store TransactionStore, cache AccountInvalidator, ids *idgen.Generator, topic string, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		store:  store,
		cache:  cache,
		ids:    ids,
		topic:  topic,
		logger: logger,
	}
}

// CreateTransactionRequest carries the request body of a posting. Amount is
// in major units (pounds); everything past validation works in pence.
type CreateTransactionRequest struct {
	Amount    float64 `json:"amount" validate:"required,gt=0"`
	Currency  string  `json:"currency" validate:"required,oneof=GBP"`
	Type      string  `json:"type" validate:"required,oneof=deposit withdrawal"`
	Reference string  `json:"reference" validate:"omitempty"`
}

// validate normalises the request into pence and checks the monetary rules in
// order: amount, currency, type. The minimum accepted amount is one penny
// after conversion; anything that rounds below it is rejected.
func (r *CreateTransactionRequest) validate() (int64, *apierror.Error) {
	pence := money.Pence(r.Amount)
	if pence < 1 {
		return 0, apierror.Validation("Amount must be at least 1 penny", apierror.FieldError{
			Field:   "amount",
			Message: "Amount must be at least 1 penny",
			Type:    "min",
		})
	}
	if r.Currency != model.CurrencyGBP {
		return 0, apierror.Validation("Validation failed", apierror.FieldError{
			Field:   "currency",
			Message: "Currency must be GBP",
			Type:    "oneof",
		})
	}
	if r.Type != model.TransactionTypeDeposit && r.Type != model.TransactionTypeWithdrawal {
		return 0, apierror.Validation("Validation failed", apierror.FieldError{
			Field:   "type",
			Message: "Type must be deposit or withdrawal",
			Type:    "oneof",
		})
	}
	return pence, nil
}

// Post runs the full posting pipeline against one account: validation,
// ownership guard, funds check, then the atomic commit of balance update plus
// ledger row. On success it returns the created ledger row for response
// projection; the account is never returned.
func (s *TransactionService) Post(ctx context.Context, accountNumber, userID string, req CreateTransactionRequest) (*model.Transaction, error) {
	pence, verr := req.validate()
	if verr != nil {
		return nil, verr
	}

	account, err := s.store.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, apierror.NotFound("Bank account was not found")
		}
		s.logger.Error("account lookup failed",
			zap.String("account_number", accountNumber), zap.Error(err))
		return nil, apierror.Internal()
	}
	if account.UserID != userID {
		return nil, apierror.Forbidden("Access forbidden")
	}

	if req.Type == model.TransactionTypeWithdrawal && account.Balance < pence {
		return nil, apierror.InsufficientFunds()
	}

	newBalance := account.Balance + pence
	if req.Type == model.TransactionTypeWithdrawal {
		newBalance = account.Balance - pence
	}

	txn := &model.Transaction{
		ID:            s.ids.TransactionID(),
		AccountID:     account.ID,
		AccountNumber: account.AccountNumber,
		UserID:        userID,
		Amount:        pence,
		Currency:      req.Currency,
		Type:          req.Type,
		Reference:     req.Reference,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.store.CommitTransaction(ctx, account, newBalance, txn, s.outboxMessage(txn)); err != nil {
		s.logger.Error("transaction commit failed",
			zap.String("account_number", accountNumber),
			zap.String("transaction_id", txn.ID),
			zap.Error(err))
		return nil, apierror.Internal()
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, accountNumber); err != nil {
			s.logger.Warn("account cache invalidation failed",
				zap.String("account_number", accountNumber), zap.Error(err))
		}
	}

	return txn, nil
}

// Get returns one transaction on an account the caller owns.
func (s *TransactionService) Get(ctx context.Context, accountNumber, userID, transactionID string) (*model.Transaction, error) {
	if _, err := s.guardOwnership(ctx, accountNumber, userID); err != nil {
		return nil, err
	}

	txn, err := s.store.FindTransaction(ctx, accountNumber, transactionID)
	if err != nil {
		if errors.Is(err, repository.ErrTransactionNotFound) {
			return nil, apierror.NotFound("Transaction not found")
		}
		s.logger.Error("transaction lookup failed",
			zap.String("transaction_id", transactionID), zap.Error(err))
		return nil, apierror.Internal()
	}
	return txn, nil
}

// List returns all transactions on an account the caller owns, newest first.
func (s *TransactionService) List(ctx context.Context, accountNumber, userID string) ([]*model.Transaction, error) {
	if _, err := s.guardOwnership(ctx, accountNumber, userID); err != nil {
		return nil, err
	}

	transactions, err := s.store.ListTransactions(ctx, accountNumber)
	if err != nil {
		s.logger.Error("transaction list failed",
			zap.String("account_number", accountNumber), zap.Error(err))
		return nil, apierror.Internal()
	}
	return transactions, nil
}

// guardOwnership loads the account and confirms the caller owns it. The
// loaded account is passed back so callers avoid a second lookup.
func (s *TransactionService) guardOwnership(ctx context.Context, accountNumber, userID string) (*model.Account, error) {
	account, err := s.store.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, apierror.NotFound("Bank account was not found")
		}
		s.logger.Error("account lookup failed",
			zap.String("account_number", accountNumber), zap.Error(err))
		return nil, apierror.Internal()
	}
	if account.UserID != userID {
		return nil, apierror.Forbidden("Access forbidden")
	}
	return account, nil
}

func (s *TransactionService) outboxMessage(txn *model.Transaction) *model.OutboxMessage {
	if s.topic == "" {
		return nil
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"transaction_id": txn.ID,
		"account_number": txn.AccountNumber,
		"user_id":        txn.UserID,
		"amount":         txn.Amount,
		"currency":       txn.Currency,
		"type":           txn.Type,
		"posted_at":      txn.CreatedAt.Format(time.RFC3339),
	})
	return &model.OutboxMessage{
		MessageKey: txn.ID,
		Topic:      s.topic,
		Payload:    string(payload),
		Status:     model.OutboxStatusPending,
	}
}
