package repository

import (
	"context"
	"time"

	"eaglebank/internal/model"

	"gorm.io/gorm"
)

// Store is the persistence collaborator for transaction posting. It owns the
// one place where an account balance is written.
type Store struct {
	db              *gorm.DB
	accountRepo     *AccountRepository
	transactionRepo *TransactionRepository
	outboxRepo      *OutboxRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:              db,
		accountRepo:     NewAccountRepository(db),
		transactionRepo: NewTransactionRepository(db),
		outboxRepo:      NewOutboxRepository(db),
	}
}

func (s *Store) FindAccountByNumber(ctx context.Context, accountNumber string) (*model.Account, error) {
	return s.accountRepo.GetByNumber(ctx, accountNumber)
}

func (s *Store) FindTransaction(ctx context.Context, accountNumber, transactionID string) (*model.Transaction, error) {
	return s.transactionRepo.GetByID(ctx, accountNumber, transactionID)
}

func (s *Store) ListTransactions(ctx context.Context, accountNumber string) ([]*model.Transaction, error) {
	return s.transactionRepo.ListByAccountNumber(ctx, accountNumber)
}

// CommitTransaction applies the balance change and inserts the ledger row
// (plus the optional outbox row) as one database transaction: either all
// writes land or none do.
//
// Concurrent postings against the same account are resolved by an atomic
// conditional update: the balance is written only where the version still
// matches the one the account was read at. A second posting that raced past
// the funds check therefore finds a bumped version, affects zero rows, and
// the whole unit rolls back with ErrStaleAccount. The naive read-then-write
// sequence is never trusted on its own.
func (s *Store) CommitTransaction(ctx context.Context, account *model.Account, newBalance int64, txn *model.Transaction, msg *model.OutboxMessage) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.WithContext(ctx).
			Model(&model.Account{}).
			Where("account_number = ? AND version = ?", account.AccountNumber, account.Version).
			Updates(map[string]interface{}{
				"balance":    newBalance,
				"version":    gorm.Expr("version + 1"),
				"updated_at": time.Now().UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStaleAccount
		}

		if err := s.transactionRepo.Create(ctx, tx, txn); err != nil {
			return err
		}

		if msg != nil {
			if err := s.outboxRepo.Create(ctx, tx, msg); err != nil {
				return err
			}
		}

		return nil
	})
}
