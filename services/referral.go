package services

import (
	"context"
	"errors"

	"vaultgrow/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ReferralTrigger pays the referrer of a user the first time that user invests.
type ReferralTrigger struct {
	Bonus float64
	Log   logrus.FieldLogger
}

// Fire runs inside the caller's transaction. The bonus flag is flipped with a
// conditional UPDATE, so among concurrent first investments exactly one caller
// sees a row affected and pays. It reports whether the bonus was paid.
func (r *ReferralTrigger) Fire(ctx context.Context, tx *gorm.DB, ledger *Ledger, investorID uint) (bool, error) {
	if r.Bonus <= 0 {
		return false, nil
	}

	var investor models.User
	if err := tx.WithContext(ctx).Select("id", "referred_by", "referral_bonus_paid").First(&investor, investorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}
		return false, err
	}
	if investor.ReferredBy == nil || investor.ReferralBonusPaid {
		return false, nil
	}

	res := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND referred_by IS NOT NULL AND referral_bonus_paid = ?", investorID, false).
		Update("referral_bonus_paid", true)
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}

	referrerID := *investor.ReferredBy
	memo := Memo{
		Type:          models.EntryReferralBonus,
		ReferenceType: "user",
		ReferenceID:   investorID,
	}
	if err := ledger.Credit(ctx, referrerID, models.FieldWalletBalance, r.Bonus, memo); err != nil {
		if errors.Is(err, ErrNotFound) {
			// referrer is gone, the flag stays set so nobody is paid later
			r.Log.WithFields(logrus.Fields{"investorId": investorID, "referrerId": referrerID}).Warn("referrer not found, bonus skipped")
			return false, nil
		}
		return false, err
	}
	if err := ledger.Credit(ctx, referrerID, models.FieldReferralEarnings, r.Bonus, memo); err != nil {
		return false, err
	}

	r.Log.WithFields(logrus.Fields{"investorId": investorID, "referrerId": referrerID, "bonus": r.Bonus}).Info("referral bonus paid")
	return true, nil
}
