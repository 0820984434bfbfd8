package repository

import (
	"context"
	"errors"

	"eaglebank/internal/model"

	"gorm.io/gorm"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateEmail      = errors.New("email already registered")

	// ErrStaleAccount means the account row changed between the read and the
	// conditional balance update. The whole commit aborts; nothing retries.
	ErrStaleAccount = errors.New("account version conflict")
)

type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, account *model.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *AccountRepository) GetByNumber(ctx context.Context, accountNumber string) (*model.Account, error) {
	var account model.Account
	err := r.db.WithContext(ctx).Where("account_number = ?", accountNumber).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *AccountRepository) ListByUserID(ctx context.Context, userID string) ([]*model.Account, error) {
	var accounts []*model.Account
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&accounts).Error
	return accounts, err
}

func (r *AccountRepository) CountByUserID(ctx context.Context, userID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

// Update persists profile fields only. Balance is off limits here; it is
// written solely through Store.CommitTransaction.
func (r *AccountRepository) Update(ctx context.Context, account *model.Account) error {
	result := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("account_number = ?", account.AccountNumber).
		Updates(map[string]interface{}{
			"name":         account.Name,
			"account_type": account.AccountType,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, accountNumber string) error {
	result := r.db.WithContext(ctx).
		Where("account_number = ?", accountNumber).
		Delete(&model.Account{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrAccountNotFound
	}
	return nil
}
