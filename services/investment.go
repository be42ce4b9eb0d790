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

// InvestmentService drives the pending -> confirmed -> completed lifecycle.
type InvestmentService struct {
	DB       *gorm.DB
	Ledger   *Ledger
	Referral *ReferralTrigger
	Rules    Rules
	Log      logrus.FieldLogger
	Now      func() time.Time
}

// Create records a pending investment and bumps the investor's totals in the
// same transaction. The referral bonus is fired here, not at confirmation.
func (s *InvestmentService) Create(ctx context.Context, userID uint, planID string, amount float64) (*models.Investment, error) {
	planID = strings.TrimSpace(planID)
	if planID == "" {
		return nil, fmt.Errorf("%w: planId is required", ErrValidation)
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
	}

	inv := models.Investment{
		UserID:   userID,
		PlanID:   planID,
		PlanName: models.PlanName(planID),
		Amount:   amount,
		DailyROI: s.Rules.DailyROIPercent,
		Status:   models.InvestmentPending,
	}

	var bonusPaid bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inv).Error; err != nil {
			return err
		}

		ledger := s.Ledger.WithTx(tx)
		memo := Memo{
			Type:          models.EntryInvestmentCommitted,
			ReferenceType: "investment",
			ReferenceID:   inv.ID,
		}
		if err := ledger.Credit(ctx, userID, models.FieldTotalInvested, amount, memo); err != nil {
			return err
		}
		if err := ledger.Credit(ctx, userID, models.FieldActiveInvestments, 1, memo); err != nil {
			return err
		}

		paid, err := s.Referral.Fire(ctx, tx, ledger, userID)
		if err != nil {
			return fmt.Errorf("referral bonus: %w", err)
		}
		bonusPaid = paid
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Log.WithFields(logrus.Fields{
		"userId":       userID,
		"investmentId": inv.ID,
		"planId":       planID,
		"amount":       amount,
		"referralPaid": bonusPaid,
	}).Info("investment created")
	return &inv, nil
}

// Confirm moves a pending investment to confirmed and resets its accrual
// counter. Anything not pending reports ErrNotFound.
func (s *InvestmentService) Confirm(ctx context.Context, investmentID uint) (*models.Investment, error) {
	now := s.Now().UTC()
	res := s.DB.WithContext(ctx).Model(&models.Investment{}).
		Where("id = ? AND status = ?", investmentID, models.InvestmentPending).
		Updates(map[string]interface{}{
			"status":             models.InvestmentConfirmed,
			"roi_days_completed": 0,
			"confirmed_at":       now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, fmt.Errorf("pending investment %d: %w", investmentID, ErrNotFound)
	}

	s.Log.WithField("investmentId", investmentID).Info("investment confirmed")
	return s.get(ctx, investmentID)
}

// Reject closes a pending investment and reverses the counters Create bumped.
func (s *InvestmentService) Reject(ctx context.Context, investmentID uint) (*models.Investment, error) {
	now := s.Now().UTC()
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inv models.Investment
		if err := tx.First(&inv, investmentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("pending investment %d: %w", investmentID, ErrNotFound)
			}
			return err
		}

		res := tx.Model(&models.Investment{}).
			Where("id = ? AND status = ?", investmentID, models.InvestmentPending).
			Updates(map[string]interface{}{
				"status":      models.InvestmentRejected,
				"rejected_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("pending investment %d: %w", investmentID, ErrNotFound)
		}

		ledger := s.Ledger.WithTx(tx)
		memo := Memo{
			Type:          models.EntryInvestmentRejected,
			ReferenceType: "investment",
			ReferenceID:   inv.ID,
		}
		if err := ledger.Debit(ctx, inv.UserID, models.FieldTotalInvested, inv.Amount, memo); err != nil {
			return err
		}
		return ledger.Debit(ctx, inv.UserID, models.FieldActiveInvestments, 1, memo)
	})
	if err != nil {
		return nil, err
	}

	s.Log.WithField("investmentId", investmentID).Info("investment rejected")
	return s.get(ctx, investmentID)
}

func (s *InvestmentService) get(ctx context.Context, investmentID uint) (*models.Investment, error) {
	var inv models.Investment
	if err := s.DB.WithContext(ctx).First(&inv, investmentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// ListForUser returns the user's investments, newest first.
func (s *InvestmentService) ListForUser(ctx context.Context, userID uint) ([]models.Investment, error) {
	var list []models.Investment
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

// InvestmentView is an investment joined with its owner's name for admin listings.
type InvestmentView struct {
	ID               uint                    `json:"id"`
	UserID           uint                    `json:"userId"`
	UserName         string                  `json:"userName"`
	PlanID           string                  `json:"planId"`
	PlanName         string                  `json:"planName"`
	Amount           float64                 `json:"amount"`
	DailyROI         float64                 `json:"dailyROI"`
	Status           models.InvestmentStatus `json:"status"`
	RoiDaysCompleted int                     `json:"roiDaysCompleted"`
	CreatedAt        time.Time               `json:"createdAt"`
	ConfirmedAt      *time.Time              `json:"confirmedAt,omitempty"`
	CompletedAt      *time.Time              `json:"completedAt,omitempty"`
}

// ListAll returns every investment, optionally filtered by status.
func (s *InvestmentService) ListAll(ctx context.Context, status string, page, limit int) ([]InvestmentView, int64, error) {
	offset, size := paginate(page, limit)
	query := s.DB.WithContext(ctx).Model(&models.Investment{})
	if status != "" {
		if !models.InvestmentStatus(status).Valid() {
			return nil, 0, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
		}
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Investment
	if err := query.Preload("User").Order("created_at DESC, id DESC").Offset(offset).Limit(size).Find(&list).Error; err != nil {
		return nil, 0, err
	}

	views := make([]InvestmentView, 0, len(list))
	for _, inv := range list {
		views = append(views, InvestmentView{
			ID:               inv.ID,
			UserID:           inv.UserID,
			UserName:         displayName(inv.User),
			PlanID:           inv.PlanID,
			PlanName:         inv.PlanName,
			Amount:           inv.Amount,
			DailyROI:         inv.DailyROI,
			Status:           inv.Status,
			RoiDaysCompleted: inv.RoiDaysCompleted,
			CreatedAt:        inv.CreatedAt,
			ConfirmedAt:      inv.ConfirmedAt,
			CompletedAt:      inv.CompletedAt,
		})
	}
	return views, total, nil
}

func displayName(u models.User) string {
	if u.ID == 0 || strings.TrimSpace(u.FullName) == "" {
		return "Unknown"
	}
	return u.FullName
}
