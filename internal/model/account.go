package model

import (
	"time"
)

const (
	// CurrencyGBP is the only currency the system supports.
	CurrencyGBP = "GBP"

	// AccountTypePersonal is the only account type that can be opened.
	AccountTypePersonal = "personal"

	// DefaultSortCode is assigned to every new account.
	DefaultSortCode = "10-10-10"
)

// Account is the owner of the mutable balance. Balance is held in pence and
// must never be observed below zero; it is written only through the atomic
// transaction commit. Version is the optimistic-lock counter guarding the
// read-check-write sequence against concurrent postings.
type Account struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AccountNumber string    `gorm:"type:varchar(8);uniqueIndex;not null" json:"account_number"`
	UserID        string    `gorm:"type:varchar(64);index;not null" json:"user_id"`
	SortCode      string    `gorm:"type:varchar(8);not null" json:"sort_code"`
	Name          string    `gorm:"type:varchar(128);not null" json:"name"`
	AccountType   string    `gorm:"type:varchar(32);not null" json:"account_type"`
	Balance       int64     `gorm:"not null;default:0" json:"balance"`
	Currency      string    `gorm:"type:varchar(3);not null" json:"currency"`
	Version       int       `gorm:"not null;default:0" json:"version"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Account) TableName() string {
	return "account"
}
