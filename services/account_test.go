package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"sweeparcade/apperrors"
	"sweeparcade/models"
)

func accountFixture(t *testing.T) (*AccountService, *gorm.DB) {
	db := setupTestDB(t)
	ledger := NewLedger(db)
	notifier := NewNotificationService(db, &fakePusher{}, testLogger())
	return NewAccountService(db, ledger, notifier, testLogger()), db
}

func TestRegisterCreatesLedgerRows(t *testing.T) {
	svc, db := accountFixture(t)

	user, err := svc.Register("new@test.io", "supersecret", "")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ReferralCode)
	assert.Equal(t, models.RoleUser, user.Role)

	var wallet models.Wallet
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&wallet).Error)
	assert.Zero(t, wallet.Balance)

	var bonus models.Bonus
	require.NoError(t, db.Where("user_id = ?", user.ID).First(&bonus).Error)
	assert.True(t, bonus.SweepCoins.IsZero())
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := accountFixture(t)

	_, err := svc.Register("", "supersecret", "")
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Register("a@test.io", "short", "")
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Register("a@test.io", "supersecret", "bogus!!")
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := accountFixture(t)

	_, err := svc.Register("dup@test.io", "supersecret", "")
	require.NoError(t, err)

	_, err = svc.Register("dup@test.io", "supersecret", "")
	require.ErrorIs(t, err, apperrors.ErrConflict)
}

func TestLoginAndSession(t *testing.T) {
	svc, _ := accountFixture(t)

	user, err := svc.Register("login@test.io", "supersecret", "")
	require.NoError(t, err)

	session, err := svc.Login("login@test.io", "supersecret")
	require.NoError(t, err)
	assert.NotEmpty(t, session.SID)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	resolved, err := svc.ResolveSession(session.SID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, resolved.ID)

	_, err = svc.Login("login@test.io", "wrongpassword")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, err = svc.ResolveSession("no-such-sid")
	require.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLoginStreakCreditsOncePerDay(t *testing.T) {
	svc, db := accountFixture(t)

	_, err := svc.Register("streak@test.io", "supersecret", "")
	require.NoError(t, err)

	session, err := svc.Login("streak@test.io", "supersecret")
	require.NoError(t, err)

	first := sweepBalance(t, db, session.UserID)
	assert.True(t, first.IsPositive(), "first login of the day credits the streak bonus")

	var bonus models.Bonus
	require.NoError(t, db.Where("user_id = ?", session.UserID).First(&bonus).Error)
	assert.Equal(t, 1, bonus.LoginStreak)

	// The streak notification lands with the committed credit.
	var notifications int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND event_type = ?", session.UserID, models.NotifyStreakBonus).
		Count(&notifications).Error)
	assert.Equal(t, int64(1), notifications)

	// Same-day login must not credit again.
	_, err = svc.Login("streak@test.io", "supersecret")
	require.NoError(t, err)
	assert.True(t, sweepBalance(t, db, session.UserID).Equal(first))

	require.NoError(t, db.Model(&models.Notification{}).
		Where("user_id = ? AND event_type = ?", session.UserID, models.NotifyStreakBonus).
		Count(&notifications).Error)
	assert.Equal(t, int64(1), notifications, "a same-day login must not notify again")
}

func TestMarkPhoneVerified(t *testing.T) {
	svc, db := accountFixture(t)

	user, err := svc.Register("phone@test.io", "supersecret", "+15559876543")
	require.NoError(t, err)
	require.NoError(t, svc.MarkPhoneVerified(user.ID))

	var got models.User
	require.NoError(t, db.First(&got, user.ID).Error)
	assert.True(t, got.PhoneVerified)

	require.ErrorIs(t, svc.MarkPhoneVerified(99999), apperrors.ErrNotFound)
}
