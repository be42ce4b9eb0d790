package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"vaultgrow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bankDetails = WithdrawalInput{
	BankName:      "First Bank",
	AccountNumber: "0123456789",
	AccountName:   "Ada Lovelace",
}

func withdrawal(amount float64) WithdrawalInput {
	in := bankDetails
	in.Amount = amount
	return in
}

func TestWithdrawalBelowMinimum(t *testing.T) {
	svc, db, _ := newTestServices(t)
	user := registerUser(t, svc, "ada@example.com", "")
	fund(t, svc, user.ID, 10000)

	_, err := svc.Withdrawals.Request(context.Background(), user.ID, withdrawal(1000))
	assert.ErrorIs(t, err, ErrBelowMinimum)
	assert.Contains(t, err.Error(), "3700")
	assert.InDelta(t, 10700, reloadUser(t, db, user.ID).WalletBalance, 0.001)
}

func TestWithdrawalInsufficientFunds(t *testing.T) {
	svc, db, _ := newTestServices(t)
	user := registerUser(t, svc, "ada@example.com", "")

	_, err := svc.Withdrawals.Request(context.Background(), user.ID, withdrawal(5000))
	assert.ErrorIs(t, err, ErrInsufficientFunds)
	assert.InDelta(t, 700, reloadUser(t, db, user.ID).WalletBalance, 0.001)

	var n int64
	require.NoError(t, db.Model(&models.Withdrawal{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestWithdrawalDebitsWalletImmediately(t *testing.T) {
	svc, db, _ := newTestServices(t)
	ctx := context.Background()
	user := registerUser(t, svc, "ada@example.com", "")
	fund(t, svc, user.ID, 5000)

	w, err := svc.Withdrawals.Request(ctx, user.ID, withdrawal(4000))
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalPending, w.Status)
	assert.Equal(t, user.FullName, w.UserName)
	assert.InDelta(t, 1700, reloadUser(t, db, user.ID).WalletBalance, 0.001)

	paid, err := svc.Withdrawals.Approve(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, models.WithdrawalPaid, paid.Status)
	assert.NotNil(t, paid.PaidAt)
	// approval moves no money
	assert.InDelta(t, 1700, reloadUser(t, db, user.ID).WalletBalance, 0.001)

	_, err = svc.Withdrawals.Approve(ctx, w.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestWithdrawalReducesWithdrawableUpToItsBalance(t *testing.T) {
	svc, db, _ := newTestServices(t)
	ctx := context.Background()
	user := registerUser(t, svc, "ada@example.com", "")
	fund(t, svc, user.ID, 10000)
	confirmedInvestment(t, svc, user.ID, "starter", 2000)
	_, err := svc.Accrual.Run(ctx)
	require.NoError(t, err)
	require.InDelta(t, 300, reloadUser(t, db, user.ID).WithdrawableBalance, 0.001)

	_, err = svc.Withdrawals.Request(ctx, user.ID, withdrawal(4000))
	require.NoError(t, err)

	u := reloadUser(t, db, user.ID)
	assert.Zero(t, u.WithdrawableBalance)
	assert.InDelta(t, 10700+300-4000, u.WalletBalance, 0.001)
}

func TestWithdrawalValidationAndListing(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()
	user := registerUser(t, svc, "ada@example.com", "")
	fund(t, svc, user.ID, 8000)

	_, err := svc.Withdrawals.Request(ctx, user.ID, WithdrawalInput{Amount: 4000})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Withdrawals.Request(ctx, user.ID, withdrawal(3700))
	require.NoError(t, err)

	mine, err := svc.Withdrawals.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	queue, total, err := svc.Withdrawals.ListAll(ctx, "pending", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, user.FullName, queue[0].UserName)

	_, _, err = svc.Withdrawals.ListAll(ctx, "cancelled", 1, 10)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestConcurrentWithdrawalsCannotOverdraw(t *testing.T) {
	svc, db, _ := newTestServices(t)
	ctx := context.Background()
	user := registerUser(t, svc, "ada@example.com", "")
	fund(t, svc, user.ID, 4000) // wallet 4700 covers exactly one request

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
		refused  int
	)
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Withdrawals.Request(ctx, user.ID, withdrawal(4000))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				accepted++
			case errors.Is(err, ErrInsufficientFunds):
				refused++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	assert.Equal(t, 4, refused)
	assert.InDelta(t, 700, reloadUser(t, db, user.ID).WalletBalance, 0.001)

	var pending int64
	require.NoError(t, db.Model(&models.Withdrawal{}).Where("user_id = ?", user.ID).Count(&pending).Error)
	assert.EqualValues(t, 1, pending, "refused requests leave no withdrawal behind")
}
