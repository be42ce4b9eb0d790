package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"vaultgrow/metrics"
	"vaultgrow/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Memo describes why a balance moves. It is persisted as a LedgerEntry next
// to the balance update.
type Memo struct {
	Type          models.LedgerEntryType
	ReferenceType string
	ReferenceID   uint
	BatchID       string
	Meta          map[string]interface{}
}

// Ledger applies deltas to user balances. Every mutation is one conditional
// UPDATE, so concurrent writers never lose an update and a debit can never
// drive a field negative.
type Ledger struct {
	db  *gorm.DB
	now func() time.Time
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db, now: time.Now}
}

// WithTx binds the ledger to an open transaction.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx, now: l.now}
}

// Credit adds amount to field. amount must be positive.
func (l *Ledger) Credit(ctx context.Context, userID uint, field models.BalanceField, amount float64, memo Memo) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	return l.apply(ctx, userID, field, amount, memo)
}

// Debit subtracts amount from field, refusing with ErrInsufficientFunds when
// the field holds less than amount.
func (l *Ledger) Debit(ctx context.Context, userID uint, field models.BalanceField, amount float64, memo Memo) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	return l.apply(ctx, userID, field, -amount, memo)
}

// checkAmount rejects anything that would flip the direction of a mutation.
func checkAmount(amount float64) error {
	if !(amount > 0) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
	}
	return nil
}

func (l *Ledger) apply(ctx context.Context, userID uint, field models.BalanceField, delta float64, memo Memo) error {
	if !field.Valid() {
		return fmt.Errorf("%w: unknown balance field %q", ErrValidation, field)
	}
	col := string(field)
	var arg interface{} = delta
	var floor interface{} = -delta
	if field == models.FieldActiveInvestments {
		arg, floor = int64(delta), int64(-delta)
	}

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Model(&models.User{}).Where("id = ?", userID)
		if delta < 0 {
			q = q.Where(col+" >= ?", floor)
		}
		res := q.Update(col, gorm.Expr(col+" + ?", arg))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("user %d: %w", userID, ErrNotFound)
			}
			return ErrInsufficientFunds
		}

		entry := models.LedgerEntry{
			UserID:        userID,
			Field:         field,
			Amount:        delta,
			EntryType:     memo.Type,
			ReferenceType: memo.ReferenceType,
			ReferenceID:   memo.ReferenceID,
			BatchID:       memo.BatchID,
			EntryDate:     l.now().UTC(),
		}
		if memo.Meta != nil {
			entry.Meta = datatypes.JSONMap(memo.Meta)
		}
		return tx.Create(&entry).Error
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			metrics.LedgerRejections.WithLabelValues(col).Inc()
		}
		return err
	}

	direction := "credit"
	if delta < 0 {
		direction = "debit"
	}
	metrics.LedgerMutations.WithLabelValues(col, direction).Inc()
	return nil
}

// Dashboard is the read-only balance aggregate shown to a user.
type Dashboard struct {
	WalletBalance       float64 `json:"walletBalance"`
	WithdrawableBalance float64 `json:"withdrawableBalance"`
	TotalInvested       float64 `json:"totalInvested"`
	ActiveInvestments   int64   `json:"activeInvestments"`
	ReferralEarnings    float64 `json:"referralEarnings"`
	ReferralCode        string  `json:"referralCode"`
	TotalRoiEarned      float64 `json:"totalRoiEarned"`
}

// ProjectDashboard returns current balances plus the ROI earned so far,
// derived from confirmed and completed investments on every read.
func (l *Ledger) ProjectDashboard(ctx context.Context, userID uint) (*Dashboard, error) {
	db := l.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}

	var investments []models.Investment
	if err := db.Select("amount", "daily_roi", "roi_days_completed").
		Where("user_id = ? AND status IN ?", userID,
			[]models.InvestmentStatus{models.InvestmentConfirmed, models.InvestmentCompleted}).
		Find(&investments).Error; err != nil {
		return nil, err
	}

	var roi float64
	for _, inv := range investments {
		roi += inv.DailyReturn() * float64(inv.RoiDaysCompleted)
	}

	return &Dashboard{
		WalletBalance:       user.WalletBalance,
		WithdrawableBalance: user.WithdrawableBalance,
		TotalInvested:       user.TotalInvested,
		ActiveInvestments:   user.ActiveInvestments,
		ReferralEarnings:    user.ReferralEarnings,
		ReferralCode:        user.ReferralCode,
		TotalRoiEarned:      roi,
	}, nil
}

type ReferralSummary struct {
	TotalReferrals   int64   `json:"totalReferrals"`
	ReferralEarnings float64 `json:"referralEarnings"`
	ReferralCode     string  `json:"referralCode"`
}

func (l *Ledger) ProjectReferralSummary(ctx context.Context, userID uint) (*ReferralSummary, error) {
	db := l.db.WithContext(ctx)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}

	var total int64
	if err := db.Model(&models.User{}).Where("referred_by = ?", userID).Count(&total).Error; err != nil {
		return nil, err
	}

	return &ReferralSummary{
		TotalReferrals:   total,
		ReferralEarnings: user.ReferralEarnings,
		ReferralCode:     user.ReferralCode,
	}, nil
}

// Entries returns a page of the user's audit trail, newest first.
func (l *Ledger) Entries(ctx context.Context, userID uint, page, limit int) ([]models.LedgerEntry, int64, error) {
	offset, size := paginate(page, limit)
	query := l.db.WithContext(ctx).Model(&models.LedgerEntry{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.LedgerEntry
	if err := query.Order("entry_date DESC, id DESC").Offset(offset).Limit(size).Find(&entries).Error; err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
