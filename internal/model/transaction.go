package model

import (
	"time"
)

const (
	TransactionTypeDeposit    = "deposit"
	TransactionTypeWithdrawal = "withdrawal"
)

// Transaction is one row of the append-only ledger. Rows are created exactly
// once per successful balance mutation and are never updated or deleted, so
// for every account the balance equals the net of its deposits minus its
// withdrawals. Amount is always positive pence; Type carries the direction.
type Transaction struct {
	ID            string    `gorm:"type:varchar(32);primaryKey" json:"id"`
	AccountID     int64     `gorm:"index;not null" json:"account_id"`
	AccountNumber string    `gorm:"type:varchar(8);index;not null" json:"account_number"`
	UserID        string    `gorm:"type:varchar(64);index;not null" json:"user_id"`
	Amount        int64     `gorm:"not null" json:"amount"`
	Currency      string    `gorm:"type:varchar(3);not null" json:"currency"`
	Type          string    `gorm:"type:varchar(16);not null" json:"type"`
	Reference     string    `gorm:"type:varchar(256)" json:"reference"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Transaction) TableName() string {
	return "transaction"
}
