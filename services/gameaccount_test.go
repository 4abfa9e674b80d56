package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweeparcade/apperrors"
	"sweeparcade/models"
)

func gameAccountFixture(t *testing.T) (*GameAccountService, *models.User, *Ledger) {
	db := setupTestDB(t)
	ledger := NewLedger(db)
	notifier := NewNotificationService(db, &fakePusher{}, testLogger())
	svc := NewGameAccountService(db, ledger, notifier, testLogger())
	user := newTestUser(t, db, "gamer@test.io", 1000, decimal.Zero)
	return svc, &user, ledger
}

func TestGameAccountCreateWithFunding(t *testing.T) {
	svc, user, ledger := gameAccountFixture(t)

	req, err := svc.Create(user.ID, "vegasx", 300)
	require.NoError(t, err)
	assert.Equal(t, models.GameAccountStatusPending, req.Status)
	assert.Equal(t, int64(700), walletBalance(t, ledger.DB(), user.ID))
}

func TestGameAccountCreateWithoutFunding(t *testing.T) {
	svc, user, ledger := gameAccountFixture(t)

	_, err := svc.Create(user.ID, "vegasx", 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), walletBalance(t, ledger.DB(), user.ID))
}

func TestGameAccountApproveCreatesCredentials(t *testing.T) {
	svc, user, ledger := gameAccountFixture(t)

	req, err := svc.Create(user.ID, "vegasx", 100)
	require.NoError(t, err)

	account, err := svc.Approve(req.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, account.UserID)
	assert.Equal(t, "vegasx", account.GameName)
	assert.NotEmpty(t, account.Username)
	assert.NotEmpty(t, account.Password)

	// Approved funding stays spent.
	assert.Equal(t, int64(900), walletBalance(t, ledger.DB(), user.ID))

	_, err = svc.Approve(req.ID)
	require.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestGameAccountRejectRefundsFunding(t *testing.T) {
	svc, user, ledger := gameAccountFixture(t)

	req, err := svc.Create(user.ID, "vegasx", 250)
	require.NoError(t, err)
	require.Equal(t, int64(750), walletBalance(t, ledger.DB(), user.ID))

	rejected, err := svc.Reject(req.ID, "game unavailable")
	require.NoError(t, err)
	assert.Equal(t, models.GameAccountStatusRejected, rejected.Status)
	assert.Equal(t, int64(1000), walletBalance(t, ledger.DB(), user.ID))

	_, err = svc.Reject(req.ID, "again")
	require.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Equal(t, int64(1000), walletBalance(t, ledger.DB(), user.ID))
}

func TestGameAccountCreateInsufficientFunding(t *testing.T) {
	svc, user, ledger := gameAccountFixture(t)

	_, err := svc.Create(user.ID, "vegasx", 5000)
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	assert.Equal(t, int64(1000), walletBalance(t, ledger.DB(), user.ID))

	var count int64
	require.NoError(t, ledger.DB().Model(&models.GameAccountRequest{}).Count(&count).Error)
	assert.Zero(t, count)
}
