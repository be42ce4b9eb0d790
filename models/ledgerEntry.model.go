package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// LedgerEntryType defines why a balance moved
type LedgerEntryType string

const (
	EntryWelcomeCredit       LedgerEntryType = "WELCOME_CREDIT"
	EntryPaymentConfirmed    LedgerEntryType = "PAYMENT_CONFIRMED"
	EntryInvestmentCommitted LedgerEntryType = "INVESTMENT_COMMITTED"
	EntryInvestmentRejected  LedgerEntryType = "INVESTMENT_REJECTED"
	EntryReferralBonus       LedgerEntryType = "REFERRAL_BONUS"
	EntryROIAccrual          LedgerEntryType = "ROI_ACCRUAL"
	EntryInvestmentCompleted LedgerEntryType = "INVESTMENT_COMPLETED"
	EntryWithdrawalRequested LedgerEntryType = "WITHDRAWAL_REQUESTED"
)

// LedgerEntry records one delta applied to one balance field of a user.
// Amount is signed: credits are positive, debits negative.
type LedgerEntry struct {
	gorm.Model
	UserID        uint              `gorm:"not null;index" json:"userId"`
	Field         BalanceField      `gorm:"type:varchar(50);not null" json:"field"`
	Amount        float64           `gorm:"not null" json:"amount"`
	EntryType     LedgerEntryType   `gorm:"type:varchar(50);not null;index" json:"entryType"`
	ReferenceType string            `gorm:"type:varchar(50)" json:"referenceType,omitempty"` // investment, payment, withdrawal, user
	ReferenceID   uint              `gorm:"default:0" json:"referenceId,omitempty"`
	BatchID       string            `gorm:"type:varchar(64);index" json:"batchId,omitempty"`
	Meta          datatypes.JSONMap `json:"meta,omitempty"`
	EntryDate     time.Time         `gorm:"not null" json:"entryDate"`
}

func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
