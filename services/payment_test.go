package services

import (
	"context"
	"testing"

	"vaultgrow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentConfirmCreditsOnce(t *testing.T) {
	svc, db, _ := newTestServices(t)
	ctx := context.Background()
	user := registerUser(t, svc, "ada@example.com", "")

	p, err := svc.Payments.Submit(ctx, user.ID, 5000, " TXN1 ")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentPending, p.Status)
	assert.Equal(t, "TXN1", p.Reference)
	assert.InDelta(t, 700, reloadUser(t, db, user.ID).WalletBalance, 0.001)

	confirmed, err := svc.Payments.Confirm(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentConfirmed, confirmed.Status)
	assert.InDelta(t, 5700, reloadUser(t, db, user.ID).WalletBalance, 0.001)

	_, err = svc.Payments.Confirm(ctx, p.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.InDelta(t, 5700, reloadUser(t, db, user.ID).WalletBalance, 0.001)
}

func TestPaymentSubmitValidation(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()
	user := registerUser(t, svc, "ada@example.com", "")

	_, err := svc.Payments.Submit(ctx, user.ID, 0, "TXN1")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Payments.Submit(ctx, user.ID, 100, "  ")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.Payments.Submit(ctx, 999, 100, "TXN1")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Payments.Confirm(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPaymentListings(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()
	user := registerUser(t, svc, "ada@example.com", "")

	_, err := svc.Payments.Submit(ctx, user.ID, 100, "A")
	require.NoError(t, err)
	fund(t, svc, user.ID, 200)

	mine, err := svc.Payments.ListForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	pending, total, err := svc.Payments.ListAll(ctx, "pending", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, pending, 1)
	assert.Equal(t, "A", pending[0].Reference)
	assert.Equal(t, user.FullName, pending[0].UserName)
}
