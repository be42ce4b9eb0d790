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

// PaymentService records payment proofs and credits them once confirmed.
type PaymentService struct {
	DB     *gorm.DB
	Ledger *Ledger
	Log    logrus.FieldLogger
	Now    func() time.Time
}

// Submit stores a pending payment claim. No balance moves.
func (s *PaymentService) Submit(ctx context.Context, userID uint, amount float64, reference string) (*models.Payment, error) {
	reference = strings.TrimSpace(reference)
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return nil, fmt.Errorf("%w: amount must be greater than 0", ErrValidation)
	}
	if reference == "" {
		return nil, fmt.Errorf("%w: reference is required", ErrValidation)
	}

	db := s.DB.WithContext(ctx)
	var n int64
	if err := db.Model(&models.User{}).Where("id = ?", userID).Count(&n).Error; err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}

	payment := models.Payment{
		UserID:    userID,
		Amount:    amount,
		Reference: reference,
		Status:    models.PaymentPending,
	}
	if err := db.Create(&payment).Error; err != nil {
		return nil, err
	}

	s.Log.WithFields(logrus.Fields{"userId": userID, "paymentId": payment.ID, "amount": amount}).Info("payment proof submitted")
	return &payment, nil
}

// Confirm flips a pending payment to confirmed and credits the wallet in the
// same transaction. A second confirmation finds no pending row.
func (s *PaymentService) Confirm(ctx context.Context, paymentID uint) (*models.Payment, error) {
	now := s.Now().UTC()
	var payment models.Payment

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("pending payment %d: %w", paymentID, ErrNotFound)
			}
			return err
		}

		res := tx.Model(&models.Payment{}).
			Where("id = ? AND status = ?", paymentID, models.PaymentPending).
			Updates(map[string]interface{}{
				"status":       models.PaymentConfirmed,
				"confirmed_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("pending payment %d: %w", paymentID, ErrNotFound)
		}

		return s.Ledger.WithTx(tx).Credit(ctx, payment.UserID, models.FieldWalletBalance, payment.Amount, Memo{
			Type:          models.EntryPaymentConfirmed,
			ReferenceType: "payment",
			ReferenceID:   payment.ID,
			Meta:          map[string]interface{}{"reference": payment.Reference},
		})
	})
	if err != nil {
		return nil, err
	}

	payment.Status = models.PaymentConfirmed
	payment.ConfirmedAt = &now
	s.Log.WithFields(logrus.Fields{"paymentId": paymentID, "userId": payment.UserID, "amount": payment.Amount}).Info("payment confirmed")
	return &payment, nil
}

// ListForUser returns the user's payment proofs, newest first.
func (s *PaymentService) ListForUser(ctx context.Context, userID uint) ([]models.Payment, error) {
	var list []models.Payment
	err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

// PaymentView is a payment with its owner's name for admin listings.
type PaymentView struct {
	ID          uint                 `json:"id"`
	UserID      uint                 `json:"userId"`
	UserName    string               `json:"userName"`
	Amount      float64              `json:"amount"`
	Reference   string               `json:"reference"`
	Status      models.PaymentStatus `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
	ConfirmedAt *time.Time           `json:"confirmedAt,omitempty"`
}

func (s *PaymentService) ListAll(ctx context.Context, status string, page, limit int) ([]PaymentView, int64, error) {
	offset, size := paginate(page, limit)
	query := s.DB.WithContext(ctx).Model(&models.Payment{})
	if status != "" {
		if !models.PaymentStatus(status).Valid() {
			return nil, 0, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
		}
		query = query.Where("status = ?", status)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []models.Payment
	if err := query.Preload("User").Order("created_at DESC, id DESC").Offset(offset).Limit(size).Find(&list).Error; err != nil {
		return nil, 0, err
	}

	views := make([]PaymentView, 0, len(list))
	for _, p := range list {
		views = append(views, PaymentView{
			ID:          p.ID,
			UserID:      p.UserID,
			UserName:    displayName(p.User),
			Amount:      p.Amount,
			Reference:   p.Reference,
			Status:      p.Status,
			CreatedAt:   p.CreatedAt,
			ConfirmedAt: p.ConfirmedAt,
		})
	}
	return views, total, nil
}
