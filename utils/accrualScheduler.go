package utils

import (
	"context"
	"fmt"
	"time"

	"vaultgrow/services"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// AccrualRunner is the batch job the scheduler triggers.
type AccrualRunner interface {
	Run(ctx context.Context) (*services.AccrualResult, error)
}

// InitializeAccrualScheduler starts the in-process accrual sweep on the given
// cron expression. An empty schedule leaves scheduling to the external trigger and
// returns nil.
//
// Ticks and sweep timestamps drift by a few milliseconds, so a schedule whose
// period equals the accrual interval would find investments just short of due
// on every other tick. The schedule must fire strictly more often than interval.
func InitializeAccrualScheduler(schedule string, interval time.Duration, job AccrualRunner, log logrus.FieldLogger) (*cron.Cron, error) {
	if schedule == "" {
		log.Info("[ROI-SCHEDULER] No schedule configured, waiting for external trigger")
		return nil, nil
	}

	sched, err := cron.ParseStandard(schedule)
	if err != nil {
		return nil, err
	}
	if period := schedulePeriod(sched, time.Now()); interval > 0 && period >= interval {
		return nil, fmt.Errorf("accrual schedule %q fires every %s, must be shorter than the accrual interval %s", schedule, period, interval)
	}

	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))
	c.Schedule(sched, cron.FuncJob(func() { RunAccrual(job, log) }))

	c.Start()
	log.WithFields(logrus.Fields{
		"schedule": schedule,
		"interval": interval.String(),
	}).Info("[ROI-SCHEDULER] Accrual scheduler started")
	return c, nil
}

// schedulePeriod is the longest gap between the next few activations.
func schedulePeriod(sched cron.Schedule, from time.Time) time.Duration {
	var longest time.Duration
	prev := sched.Next(from)
	for i := 0; i < 8; i++ {
		next := sched.Next(prev)
		if gap := next.Sub(prev); gap > longest {
			longest = gap
		}
		prev = next
	}
	return longest
}

// RunAccrual performs one sweep with a bounded deadline and logs the outcome.
func RunAccrual(job AccrualRunner, log logrus.FieldLogger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log.Info("[ROI-SCHEDULER] Running accrual sweep...")
	res, err := job.Run(ctx)
	if err != nil {
		log.WithError(err).Error("[ROI-SCHEDULER] Accrual sweep failed")
		return
	}
	entry := log.WithFields(logrus.Fields{
		"batchId":   res.BatchID,
		"processed": res.Processed,
		"skipped":   res.Skipped,
		"failed":    res.Failed,
	})
	if res.Errors != nil {
		entry.WithError(res.Errors).Warn("[ROI-SCHEDULER] Accrual sweep finished with failures")
		return
	}
	entry.Info("[ROI-SCHEDULER] Accrual sweep finished")
}
