package services

import (
	"context"
	"os/exec"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"sweeparcade/database"
	"sweeparcade/helpers"
	"sweeparcade/models"
	"sweeparcade/providers/payout"
)

func checkDockerAvailable() bool {
	cmd := exec.Command("docker", "info")
	return cmd.Run() == nil
}

// setupTestDB starts a throwaway postgres container, migrates the schema
// and returns a connected gorm handle. Skips when docker is unavailable.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	if !checkDockerAvailable() {
		t.Skip("Docker is not available, skipping integration test")
	}

	ctx := context.Background()

	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:15-alpine",
		tcpostgres.WithDatabase("testdb"),
		tcpostgres.WithUsername("testuser"),
		tcpostgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgContainer.Terminate(ctx) })

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	return db
}

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

// newTestUser seeds a user with the given balances and returns it.
func newTestUser(t *testing.T, db *gorm.DB, email string, gold int64, sweep decimal.Decimal) models.User {
	t.Helper()
	user := models.User{Email: email, Password: "x", Role: models.RoleUser, ReferralCode: helpers.GenerateReferralCode()}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Wallet{UserID: user.ID, Balance: gold, Currency: "GC"}).Error)
	require.NoError(t, db.Create(&models.Bonus{UserID: user.ID, SweepCoins: sweep}).Error)
	return user
}

func newTestAdmin(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	admin := models.User{Email: email, Password: "x", Role: models.RoleAdmin, ReferralCode: helpers.GenerateReferralCode()}
	require.NoError(t, db.Create(&admin).Error)
	return admin
}

func walletBalance(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var wallet models.Wallet
	require.NoError(t, db.Where("user_id = ?", userID).First(&wallet).Error)
	return wallet.Balance
}

func sweepBalance(t *testing.T, db *gorm.DB, userID uint) decimal.Decimal {
	t.Helper()
	var bonus models.Bonus
	require.NoError(t, db.Where("user_id = ?", userID).First(&bonus).Error)
	return bonus.SweepCoins
}

// fakePusher records pushes and can be told to fail.
type fakePusher struct {
	mu          sync.Mutex
	userEvents  []string
	adminEvents []string
	failAll     bool
}

func (f *fakePusher) PushToUser(userID uint, event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return assertErr
	}
	f.userEvents = append(f.userEvents, event)
	return nil
}

func (f *fakePusher) PushToAdmins(event string, payload any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failAll {
		return assertErr
	}
	f.adminEvents = append(f.adminEvents, event)
	return nil
}

// fakeSMS records outgoing messages.
type fakeSMS struct {
	mu   sync.Mutex
	sent []string
	fail bool
}

func (f *fakeSMS) Send(phone, body string) SMSResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return SMSResult{Err: assertErr}
	}
	f.sent = append(f.sent, body)
	return SMSResult{Success: true, ProviderMessageID: "msg-1"}
}

// fakeGateway is a payout gateway returning a canned checkout.
type fakeGateway struct {
	result payout.PayoutResult
	err    error
	calls  int
}

func (f *fakeGateway) InitiatePayout(req payout.PayoutRequest) (payout.PayoutResult, error) {
	f.calls++
	if f.err != nil {
		return payout.PayoutResult{}, f.err
	}
	return f.result, nil
}

var assertErr = errSentinel("side channel down")

type errSentinel string

func (e errSentinel) Error() string { return string(e) }
