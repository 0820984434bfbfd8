package repository

import (
	"context"
	"errors"

	"eaglebank/internal/model"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

// Create inserts one ledger row. When tx is non-nil the insert joins that
// transaction; the ledger is append-only so there is no update counterpart.
func (r *TransactionRepository) Create(ctx context.Context, tx *gorm.DB, txn *model.Transaction) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(txn).Error
}

func (r *TransactionRepository) GetByID(ctx context.Context, accountNumber, transactionID string) (*model.Transaction, error) {
	var txn model.Transaction
	err := r.db.WithContext(ctx).
		Where("account_number = ? AND id = ?", accountNumber, transactionID).
		First(&txn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return &txn, nil
}

func (r *TransactionRepository) ListByAccountNumber(ctx context.Context, accountNumber string) ([]*model.Transaction, error) {
	var transactions []*model.Transaction
	err := r.db.WithContext(ctx).
		Where("account_number = ?", accountNumber).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}
