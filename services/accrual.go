package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vaultgrow/metrics"
	"vaultgrow/models"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// AccrualResult summarises one sweep.
type AccrualResult struct {
	BatchID   string    `json:"batchId"`
	Processed int       `json:"processed"`
	Skipped   int       `json:"skipped"`
	Failed    int       `json:"failed"`
	Timestamp time.Time `json:"timestamp"`

	Errors error `json:"-"`
}

// AccrualJob credits the periodic return of confirmed investments.
type AccrualJob struct {
	DB     *gorm.DB
	Ledger *Ledger
	Rules  Rules
	Log    logrus.FieldLogger
	Now    func() time.Time
}

var errAlreadyAccrued = errors.New("investment advanced by a concurrent run")

// Run sweeps every confirmed investment that still has accrual steps left.
// An investment is credited at most once per AccrualInterval. Each one is
// processed in its own transaction, and failures are collected without
// stopping the sweep. Only a failure to load candidates fails the run.
func (j *AccrualJob) Run(ctx context.Context) (*AccrualResult, error) {
	start := time.Now()
	now := j.Now().UTC()
	result := &AccrualResult{BatchID: uuid.NewString(), Timestamp: now}
	log := j.Log.WithField("batchId", result.BatchID)

	var candidates []models.Investment
	err := j.DB.WithContext(ctx).
		Where("status = ? AND roi_days_completed < ?", models.InvestmentConfirmed, j.Rules.ROIDays).
		Order("id").
		Find(&candidates).Error
	if err != nil {
		metrics.AccrualRuns.WithLabelValues("error").Inc()
		log.WithError(err).Error("[ROI] failed to load confirmed investments")
		return result, fmt.Errorf("load accrual candidates: %w", err)
	}

	var errs *multierror.Error
	for i := range candidates {
		inv := candidates[i]
		if !j.due(inv, now) {
			result.Skipped++
			metrics.AccrualInvestments.WithLabelValues("skipped").Inc()
			continue
		}

		err := j.accrue(ctx, inv, now, result.BatchID)
		switch {
		case err == nil:
			result.Processed++
			metrics.AccrualInvestments.WithLabelValues("processed").Inc()
		case errors.Is(err, errAlreadyAccrued):
			result.Skipped++
			metrics.AccrualInvestments.WithLabelValues("skipped").Inc()
		default:
			result.Failed++
			metrics.AccrualInvestments.WithLabelValues("failed").Inc()
			errs = multierror.Append(errs, fmt.Errorf("investment %d: %w", inv.ID, err))
			log.WithError(err).WithField("investmentId", inv.ID).Error("[ROI] accrual failed")
		}
	}

	result.Errors = errs.ErrorOrNil()
	outcome := "ok"
	if result.Errors != nil {
		outcome = "partial"
	}
	metrics.AccrualRuns.WithLabelValues(outcome).Inc()
	metrics.AccrualDuration.Observe(time.Since(start).Seconds())

	log.WithFields(logrus.Fields{
		"processed": result.Processed,
		"skipped":   result.Skipped,
		"failed":    result.Failed,
	}).Info("[ROI] accrual run finished")
	return result, nil
}

// due reports whether a full interval has elapsed since the last credit.
// A freshly confirmed investment is due immediately.
func (j *AccrualJob) due(inv models.Investment, now time.Time) bool {
	if inv.LastAccrualAt == nil {
		return true
	}
	return !now.Before(inv.LastAccrualAt.UTC().Add(j.Rules.AccrualInterval))
}

// accrue advances one investment by a single step. The UPDATE is guarded by
// the step counter the sweep read, so two overlapping sweeps cannot both
// credit the same step.
func (j *AccrualJob) accrue(ctx context.Context, inv models.Investment, now time.Time, batchID string) error {
	step := inv.RoiDaysCompleted + 1
	completed := step >= j.Rules.ROIDays
	amount := inv.DailyReturn()

	return j.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"roi_days_completed": step,
			"last_accrual_at":    now,
		}
		if completed {
			updates["status"] = models.InvestmentCompleted
			updates["completed_at"] = now
		}

		res := tx.Model(&models.Investment{}).
			Where("id = ? AND status = ? AND roi_days_completed = ?", inv.ID, models.InvestmentConfirmed, inv.RoiDaysCompleted).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errAlreadyAccrued
		}

		ledger := j.Ledger.WithTx(tx)
		memo := Memo{
			Type:          models.EntryROIAccrual,
			ReferenceType: "investment",
			ReferenceID:   inv.ID,
			BatchID:       batchID,
			Meta:          map[string]interface{}{"step": step},
		}
		if amount > 0 {
			if err := ledger.Credit(ctx, inv.UserID, models.FieldWalletBalance, amount, memo); err != nil {
				return err
			}
			if err := ledger.Credit(ctx, inv.UserID, models.FieldWithdrawableBalance, amount, memo); err != nil {
				return err
			}
		}

		if completed {
			memo.Type = models.EntryInvestmentCompleted
			err := ledger.Debit(ctx, inv.UserID, models.FieldActiveInvestments, 1, memo)
			if errors.Is(err, ErrInsufficientFunds) {
				j.Log.WithField("investmentId", inv.ID).Warn("[ROI] active investment counter already at zero")
			} else if err != nil {
				return err
			}
		}
		return nil
	})
}
