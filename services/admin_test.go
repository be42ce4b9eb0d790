package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminOverview(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()
	_, err := svc.Credentials.EnsureAdmin(ctx, "Root", "root@example.com", "1", "rootpass")
	require.NoError(t, err)

	a := registerUser(t, svc, "a@example.com", "")
	b := registerUser(t, svc, "b@example.com", "")

	confirmedInvestment(t, svc, a.ID, "gold", 10000)
	_, err = svc.Investments.Create(ctx, b.ID, "starter", 2000)
	require.NoError(t, err)
	_, err = svc.Payments.Submit(ctx, b.ID, 500, "TXN9")
	require.NoError(t, err)

	o, err := svc.Admin.Overview(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, o.TotalUsers)
	assert.EqualValues(t, 2, o.TotalInvestments)
	assert.EqualValues(t, 1, o.PendingInvestments)
	assert.EqualValues(t, 1, o.ConfirmedInvestments)
	assert.Zero(t, o.CompletedInvestments)
	assert.InDelta(t, 10000, o.TotalPlatformIncome, 0.001)
	assert.EqualValues(t, 1, o.PendingPayments)
	assert.Zero(t, o.PendingWithdrawals)
}

func TestAdminUsersExcludesAdmins(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()
	_, err := svc.Credentials.EnsureAdmin(ctx, "Root", "root@example.com", "1", "rootpass")
	require.NoError(t, err)
	registerUser(t, svc, "a@example.com", "")

	users, total, err := svc.Admin.Users(ctx, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "a@example.com", users[0].Email)
}

func TestToggleBlock(t *testing.T) {
	svc, _, _ := newTestServices(t)
	ctx := context.Background()
	user := registerUser(t, svc, "a@example.com", "")
	admin, err := svc.Credentials.EnsureAdmin(ctx, "Root", "root@example.com", "1", "rootpass")
	require.NoError(t, err)

	blocked, err := svc.Admin.ToggleBlock(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, blocked)

	blocked, err = svc.Admin.ToggleBlock(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, blocked)

	_, err = svc.Admin.ToggleBlock(ctx, admin.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Admin.ToggleBlock(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
