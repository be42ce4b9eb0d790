package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"vaultgrow/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// WithdrawalService handles cash-out requests. The wallet is debited when the
// request is made; approval only marks the request paid.
type WithdrawalService struct {
	DB     *gorm.DB
	Ledger *Ledger
	Rules  Rules
	Log    logrus.FieldLogger
	Now    func() time.Time
}

type WithdrawalInput struct {
	Amount        float64
	BankName      string
	AccountNumber string
	AccountName   string
}

func (s *WithdrawalService) Request(ctx context.Context, userID uint, in WithdrawalInput) (*models.Withdrawal, error) {
	in.BankName = strings.TrimSpace(in.BankName)
	in.AccountNumber = strings.TrimSpace(in.AccountNumber)
	in.AccountName = strings.TrimSpace(in.AccountName)

	if in.Amount <= 0 || math.IsNaN(in.Amount) || math.IsInf(in.Amount, 0) {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
	}
	if in.BankName == "" || in.AccountNumber == "" || in.AccountName == "" {
		return nil, fmt.Errorf("%w: bank details are required", ErrValidation)
	}
	if in.Amount < s.Rules.MinWithdrawal {
		return nil, fmt.Errorf("%w (minimum %.0f)", ErrBelowMinimum, s.Rules.MinWithdrawal)
	}

	var withdrawal models.Withdrawal
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Select("id", "full_name").First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("user %d: %w", userID, ErrNotFound)
			}
			return err
		}

		withdrawal = models.Withdrawal{
			UserID:        userID,
			UserName:      user.FullName,
			Amount:        in.Amount,
			BankName:      in.BankName,
			AccountNumber: in.AccountNumber,
			AccountName:   in.AccountName,
			Status:        models.WithdrawalPending,
		}
		if err := tx.Create(&withdrawal).Error; err != nil {
			return err
		}

		ledger := s.Ledger.WithTx(tx)
		memo := Memo{
			Type:          models.EntryWithdrawalRequested,
			ReferenceType: "withdrawal",
			ReferenceID:   withdrawal.ID,
		}
		// the balance check and the debit are the same conditional UPDATE
		if err := ledger.Debit(ctx, userID, models.FieldWalletBalance, in.Amount, memo); err != nil {
			return err
		}

		// Withdrawable earnings also shrink by the part of the request they can
		// cover. A wallet-only debit would leave these earnings withdrawable a
		// second time, so both debits stay.
		var current models.User
		if err := tx.Select("withdrawable_balance").First(&current, userID).Error; err != nil {
			return err
		}
		if cut := math.Min(in.Amount, current.WithdrawableBalance); cut > 0 {
			err := ledger.Debit(ctx, userID, models.FieldWithdrawableBalance, cut, memo)
			if err != nil && !errors.Is(err, ErrInsufficientFunds) {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Log.WithFields(logrus.Fields{"userId": userID, "withdrawalId": withdrawal.ID, "amount": in.Amount}).Info("withdrawal requested")
	return &withdrawal, nil
}

// Approve marks a pending withdrawal paid. Anything else reports ErrNotFound.
func (s *WithdrawalService) Approve(ctx context.Context, withdrawalID uint) (*models.Withdrawal, error) {
	now := s.Now().UTC()
	db := s.DB.WithContext(ctx)

	res := db.Model(&models.Withdrawal{}).
		Where("id = ? AND status = ?", withdrawalID, models.WithdrawalPending).
		Updates(map[string]interface{}{
			"status":  models.WithdrawalPaid,
			"paid_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("pending withdrawal %d: %w", withdrawalID, ErrNotFound)
	}

	var withdrawal models.Withdrawal
	if err := db.First(&withdrawal, withdrawalID).Error; err != nil {
		return nil, err
	}
	s.Log.WithFields(logrus.Fields{"withdrawalId": withdrawalID, "userId": withdrawal.UserID}).Info("withdrawal paid")
	return &withdrawal, nil
}

func (s *WithdrawalService) ListForUser(ctx context.Context, userID uint) ([]models.Withdrawal, error) {
	var list []models.Withdrawal
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

// ListAll returns withdrawals for the admin queue. UserName is the snapshot
// taken at request time.
func (s *WithdrawalService) ListAll(ctx context.Context, status string, page, limit int) ([]models.Withdrawal, int64, error) {
	offset, size := paginate(page, limit)
	query := s.DB.WithContext(ctx).Model(&models.Withdrawal{})
	if status != "" {
		if !models.WithdrawalStatus(status).Valid() {
			return nil, 0, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
		}
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Withdrawal
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(size).Find(&list).Error; err != nil {
		return nil, 0, err
	}
	for i := range list {
		if list[i].UserName == "" {
			list[i].UserName = "Unknown"
		}
	}
	return list, total, nil
}
