package services

import (
	"context"
	"sync"
	"testing"

	"vaultgrow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateInvestmentBumpsCounters(t *testing.T) {
	svc, db, _ := newTestServices(t)
	user := registerUser(t, svc, "ada@example.com", "")

	inv, err := svc.Investments.Create(context.Background(), user.ID, "gold", 10000)
	require.NoError(t, err)
	assert.Equal(t, models.InvestmentPending, inv.Status)
	assert.Equal(t, "Gold Growth", inv.PlanName)
	assert.InDelta(t, 15, inv.DailyROI, 0.001)

	stored := reloadUser(t, db, user.ID)
	assert.InDelta(t, 10000, stored.TotalInvested, 0.001)
	assert.EqualValues(t, 1, stored.ActiveInvestments)
	// creation does not touch the wallet
	assert.InDelta(t, 700, stored.WalletBalance, 0.001)
}

func TestCreateInvestmentValidation(t *testing.T) {
	svc, _, _ := newTestServices(t)
	user := registerUser(t, svc, "ada@example.com", "")
	ctx := context.Background()

	_, err := svc.Investments.Create(ctx, user.ID, "", 100)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Investments.Create(ctx, user.ID, "gold", 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Investments.Create(ctx, 999, "gold", 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestConfirmInvestmentOnlyOnce(t *testing.T) {
	svc, _, _ := newTestServices(t)
	user := registerUser(t, svc, "ada@example.com", "")
	ctx := context.Background()

	inv, err := svc.Investments.Create(ctx, user.ID, "silver", 5000)
	require.NoError(t, err)

	confirmed, err := svc.Investments.Confirm(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvestmentConfirmed, confirmed.Status)
	assert.Zero(t, confirmed.RoiDaysCompleted)
	assert.NotNil(t, confirmed.ConfirmedAt)

	_, err = svc.Investments.Confirm(ctx, inv.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Investments.Confirm(ctx, 4242)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectInvestmentReversesCounters(t *testing.T) {
	svc, db, _ := newTestServices(t)
	user := registerUser(t, svc, "ada@example.com", "")
	ctx := context.Background()

	inv, err := svc.Investments.Create(ctx, user.ID, "starter", 2000)
	require.NoError(t, err)

	rejected, err := svc.Investments.Reject(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvestmentRejected, rejected.Status)

	stored := reloadUser(t, db, user.ID)
	assert.Zero(t, stored.TotalInvested)
	assert.Zero(t, stored.ActiveInvestments)

	_, err = svc.Investments.Reject(ctx, inv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Investments.Confirm(ctx, inv.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReferralBonusPaidExactlyOnce(t *testing.T) {
	svc, db, _ := newTestServices(t)
	ctx := context.Background()
	referrer := registerUser(t, svc, "ref@example.com", "")
	investor := registerUser(t, svc, "inv@example.com", referrer.ReferralCode)

	_, err := svc.Investments.Create(ctx, investor.ID, "starter", 2000)
	require.NoError(t, err)
	_, err = svc.Investments.Create(ctx, investor.ID, "silver", 5000)
	require.NoError(t, err)

	stored := reloadUser(t, db, referrer.ID)
	assert.InDelta(t, 700+500, stored.WalletBalance, 0.001)
	assert.InDelta(t, 500, stored.ReferralEarnings, 0.001)
	assert.True(t, reloadUser(t, db, investor.ID).ReferralBonusPaid)
}

func TestReferralBonusConcurrentFirstInvestments(t *testing.T) {
	svc, db, _ := newTestServices(t)
	ctx := context.Background()
	referrer := registerUser(t, svc, "ref@example.com", "")
	investor := registerUser(t, svc, "inv@example.com", referrer.ReferralCode)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Investments.Create(ctx, investor.ID, "starter", 2000)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored := reloadUser(t, db, referrer.ID)
	assert.InDelta(t, 500, stored.ReferralEarnings, 0.001)
	assert.InDelta(t, 1200, stored.WalletBalance, 0.001)
	assert.EqualValues(t, 8, reloadUser(t, db, investor.ID).ActiveInvestments)
}

func TestReferralWithoutReferrerPaysNothing(t *testing.T) {
	svc, db, _ := newTestServices(t)
	ctx := context.Background()
	investor := registerUser(t, svc, "solo@example.com", "")

	_, err := svc.Investments.Create(ctx, investor.ID, "gold", 10000)
	require.NoError(t, err)
	assert.False(t, reloadUser(t, db, investor.ID).ReferralBonusPaid)

	var bonuses int64
	require.NoError(t, db.Model(&models.LedgerEntry{}).Where("entry_type = ?", models.EntryReferralBonus).Count(&bonuses).Error)
	assert.Zero(t, bonuses)
}

func TestListInvestments(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()
	user := registerUser(t, svc, "ada@example.com", "")

	first, err := svc.Investments.Create(ctx, user.ID, "starter", 2000)
	require.NoError(t, err)
	_, err = svc.Investments.Create(ctx, user.ID, "gold", 10000)
	require.NoError(t, err)
	_, err = svc.Investments.Confirm(ctx, first.ID)
	require.NoError(t, err)

	mine, err := svc.Investments.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, total, err := svc.Investments.ListAll(ctx, "confirmed", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, all, 1)
	assert.Equal(t, first.ID, all[0].ID)
	assert.Equal(t, user.FullName, all[0].UserName)

	_, _, err = svc.Investments.ListAll(ctx, "bogus", 1, 10)
	assert.ErrorIs(t, err, ErrValidation)
}
