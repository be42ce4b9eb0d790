package models

import (
	"time"

	"gorm.io/gorm"
)

// User owns every balance the ledger mutates. Balances only move through
// delta updates (see services.Ledger), never through Save on a loaded row.
type User struct {
	gorm.Model
	FullName          string `gorm:"not null" json:"fullName"`
	Email             string `gorm:"uniqueIndex;not null" json:"email"`
	Phone             string `gorm:"default:''" json:"phone"`
	Password          string `gorm:"not null" json:"-"`
	ReferralCode      string `gorm:"uniqueIndex;size:16;not null" json:"referralCode"`
	ReferredBy        *uint  `gorm:"index" json:"referredBy,omitempty"`
	ReferralBonusPaid bool   `gorm:"default:false" json:"referralBonusPaid"`
	IsBlocked         bool   `gorm:"default:false" json:"isBlocked"`
	IsAdmin           bool   `gorm:"default:false" json:"isAdmin"`

	WalletBalance       float64 `gorm:"not null;default:0" json:"walletBalance"`
	WithdrawableBalance float64 `gorm:"not null;default:0" json:"withdrawableBalance"`
	TotalInvested       float64 `gorm:"not null;default:0" json:"totalInvested"`
	ActiveInvestments   int64   `gorm:"not null;default:0" json:"activeInvestments"`
	ReferralEarnings    float64 `gorm:"not null;default:0" json:"referralEarnings"`

	LastLogin *time.Time `json:"lastLogin,omitempty"`
}

// UserProjection is the password-free view returned to clients.
type UserProjection struct {
	ID           uint   `json:"id"`
	FullName     string `json:"fullName"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	ReferralCode string `json:"referralCode"`
}

func (u User) SafeProjection() UserProjection {
	return UserProjection{
		ID:           u.ID,
		FullName:     u.FullName,
		Email:        u.Email,
		Phone:        u.Phone,
		ReferralCode: u.ReferralCode,
	}
}

// BalanceField names a user column the ledger is allowed to move.
type BalanceField string

const (
	FieldWalletBalance       BalanceField = "wallet_balance"
	FieldWithdrawableBalance BalanceField = "withdrawable_balance"
	FieldTotalInvested       BalanceField = "total_invested"
	FieldActiveInvestments   BalanceField = "active_investments"
	FieldReferralEarnings    BalanceField = "referral_earnings"
)

func (f BalanceField) Valid() bool {
	switch f {
	case FieldWalletBalance, FieldWithdrawableBalance, FieldTotalInvested,
		FieldActiveInvestments, FieldReferralEarnings:
		return true
	}
	return false
}
