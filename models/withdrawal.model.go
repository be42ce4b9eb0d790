package models

import (
	"time"

	"gorm.io/gorm"
)

type WithdrawalStatus string

const (
	WithdrawalPending WithdrawalStatus = "pending"
	WithdrawalPaid    WithdrawalStatus = "paid"
)

func (s WithdrawalStatus) Valid() bool {
	return s == WithdrawalPending || s == WithdrawalPaid
}

// Withdrawal is a cash-out request. The wallet is debited when the request is
// created, so approval only flips the status.
type Withdrawal struct {
	gorm.Model
	UserID        uint             `gorm:"not null;index" json:"userId"`
	UserName      string           `gorm:"default:''" json:"userName"`
	Amount        float64          `gorm:"not null" json:"amount"`
	BankName      string           `gorm:"type:varchar(100);not null" json:"bankName"`
	AccountNumber string           `gorm:"type:varchar(50);not null" json:"accountNumber"`
	AccountName   string           `gorm:"type:varchar(150);not null" json:"accountName"`
	Status        WithdrawalStatus `gorm:"type:varchar(20);not null;index;default:'pending'" json:"status"`
	PaidAt        *time.Time       `json:"paidAt,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
