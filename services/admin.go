package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vaultgrow/models"

	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// AdminService serves the back-office read models and account moderation.
type AdminService struct {
	DB  *gorm.DB
	Now func() time.Time
}

type Overview struct {
	TotalUsers           int64   `json:"totalUsers"`
	TotalInvestments     int64   `json:"totalInvestments"`
	PendingInvestments   int64   `json:"pendingInvestments"`
	ConfirmedInvestments int64   `json:"confirmedInvestments"`
	CompletedInvestments int64   `json:"completedInvestments"`
	TotalPlatformIncome  float64 `json:"totalPlatformIncome"`
	PendingPayments      int64   `json:"pendingPayments"`
	PendingWithdrawals   int64   `json:"pendingWithdrawals"`
	NewUsersToday        int64   `json:"newUsersToday"`
}

func (s *AdminService) Overview(ctx context.Context) (*Overview, error) {
	db := s.DB.WithContext(ctx)
	var o Overview

	if err := db.Model(&models.User{}).Where("is_admin = ?", false).Count(&o.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Investment{}).Count(&o.TotalInvestments).Error; err != nil {
		return nil, err
	}

	counts := []struct {
		status models.InvestmentStatus
		dst    *int64
	}{
		{models.InvestmentPending, &o.PendingInvestments},
		{models.InvestmentConfirmed, &o.ConfirmedInvestments},
		{models.InvestmentCompleted, &o.CompletedInvestments},
	}
	for _, c := range counts {
		if err := db.Model(&models.Investment{}).Where("status = ?", c.status).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	if err := db.Model(&models.Investment{}).
		Where("status = ?", models.InvestmentConfirmed).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&o.TotalPlatformIncome).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Payment{}).Where("status = ?", models.PaymentPending).Count(&o.PendingPayments).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Withdrawal{}).Where("status = ?", models.WithdrawalPending).Count(&o.PendingWithdrawals).Error; err != nil {
		return nil, err
	}

	today := now.With(s.Now().UTC()).BeginningOfDay()
	if err := db.Model(&models.User{}).
		Where("is_admin = ? AND created_at >= ?", false, today).
		Count(&o.NewUsersToday).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

// UserView is the admin listing row for a user.
type UserView struct {
	ID                  uint       `json:"id"`
	FullName            string     `json:"fullName"`
	Email               string     `json:"email"`
	Phone               string     `json:"phone"`
	ReferralCode        string     `json:"referralCode"`
	IsBlocked           bool       `json:"isBlocked"`
	WalletBalance       float64    `json:"walletBalance"`
	WithdrawableBalance float64    `json:"withdrawableBalance"`
	TotalInvested       float64    `json:"totalInvested"`
	ActiveInvestments   int64      `json:"activeInvestments"`
	ReferralEarnings    float64    `json:"referralEarnings"`
	LastLogin           *time.Time `json:"lastLogin,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
}

func (s *AdminService) Users(ctx context.Context, page, limit int) ([]UserView, int64, error) {
	offset, size := paginate(page, limit)
	query := s.DB.WithContext(ctx).Model(&models.User{}).Where("is_admin = ?", false).Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []models.User
	if err := query.Order("created_at DESC, id DESC").Offset(offset).Limit(size).Find(&users).Error; err != nil {
		return nil, 0, err
	}

	views := make([]UserView, 0, len(users))
	for _, u := range users {
		views = append(views, UserView{
			ID:                  u.ID,
			FullName:            u.FullName,
			Email:               u.Email,
			Phone:               u.Phone,
			ReferralCode:        u.ReferralCode,
			IsBlocked:           u.IsBlocked,
			WalletBalance:       u.WalletBalance,
			WithdrawableBalance: u.WithdrawableBalance,
			TotalInvested:       u.TotalInvested,
			ActiveInvestments:   u.ActiveInvestments,
			ReferralEarnings:    u.ReferralEarnings,
			LastLogin:           u.LastLogin,
			CreatedAt:           u.CreatedAt,
		})
	}
	return views, total, nil
}

// ToggleBlock flips the blocked flag of a non-admin user and returns the new value.
func (s *AdminService) ToggleBlock(ctx context.Context, userID uint) (bool, error) {
	var blocked bool
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND is_admin = ?", userID, false).
			Update("is_blocked", gorm.Expr("NOT is_blocked"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}

		var user models.User
		if err := tx.Select("is_blocked").First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		blocked = user.IsBlocked
		return nil
	})
	return blocked, err
}

// User loads one account, used for notifications after admin actions.
func (s *AdminService) User(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
		}
		return nil, err
	}
	return &user, nil
}
