package services

import (
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sweeparcade/apperrors"
	"sweeparcade/models"
)

func TestLedgerDebitGold(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedger(db)
	user := newTestUser(t, db, "ledger@test.io", 1000, decimal.Zero)

	err := ledger.DebitGold(db, user.ID, 300, models.TrxTypeRechargeDebit, "test", "ref-1")
	require.NoError(t, err)
	assert.Equal(t, int64(700), walletBalance(t, db, user.ID))

	var trx models.CoinTransaction
	require.NoError(t, db.Where("ref_id = ?", "ref-1").First(&trx).Error)
	assert.Equal(t, CoinKindGold, trx.CoinKind)
	assert.True(t, trx.BalanceBefore.Equal(decimal.NewFromInt(1000)))
	assert.True(t, trx.BalanceAfter.Equal(decimal.NewFromInt(700)))
}

func TestLedgerDebitGoldInsufficient(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedger(db)
	user := newTestUser(t, db, "poor@test.io", 50, decimal.Zero)

	err := ledger.DebitGold(db, user.ID, 100, models.TrxTypeRechargeDebit, "test", "ref-2")
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)
	assert.Equal(t, int64(50), walletBalance(t, db, user.ID))

	var count int64
	require.NoError(t, db.Model(&models.CoinTransaction{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Zero(t, count, "failed debit must not write an audit row")
}

func TestLedgerDebitGoldMissingWallet(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedger(db)

	err := ledger.DebitGold(db, 9999, 10, models.TrxTypeRechargeDebit, "test", "ref-3")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestLedgerCreditGold(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedger(db)
	user := newTestUser(t, db, "credit@test.io", 100, decimal.Zero)

	require.NoError(t, ledger.CreditGold(db, user.ID, 250, models.TrxTypeRechargeRefund, "test", "ref-4"))
	assert.Equal(t, int64(350), walletBalance(t, db, user.ID))
}

func TestLedgerSweepDebitCredit(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedger(db)
	user := newTestUser(t, db, "sweep@test.io", 0, decimal.NewFromFloat(10.50))

	amount := decimal.NewFromFloat(4.25)
	require.NoError(t, ledger.DebitSweep(db, user.ID, amount, models.TrxTypeWithdrawDebit, "test", "ref-5"))
	assert.True(t, sweepBalance(t, db, user.ID).Equal(decimal.NewFromFloat(6.25)))

	err := ledger.DebitSweep(db, user.ID, decimal.NewFromInt(100), models.TrxTypeWithdrawDebit, "test", "ref-6")
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	require.NoError(t, ledger.CreditSweep(db, user.ID, amount, models.TrxTypeWithdrawRefund, "test", "ref-5"))
	assert.True(t, sweepBalance(t, db, user.ID).Equal(decimal.NewFromFloat(10.50)))
}

// Concurrent credits must each record the balance window of their own
// statement: distinct post-balances, each before exactly amount below its
// after. A re-read instead of RETURNING can absorb a neighboring mutation
// and duplicate windows.
func TestLedgerConcurrentCreditAuditWindows(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedger(db)
	user := newTestUser(t, db, "audit@test.io", 0, decimal.Zero)

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = ledger.CreditGold(db, user.ID, 25, models.TrxTypeRechargeRefund, "audit", fmt.Sprintf("aud-%d", i))
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		require.NoError(t, err)
	}
	require.Equal(t, int64(100), walletBalance(t, db, user.ID))

	var rows []models.CoinTransaction
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&rows).Error)
	require.Len(t, rows, workers)

	seen := make(map[string]bool, workers)
	for _, trx := range rows {
		assert.True(t, trx.BalanceBefore.Equal(trx.BalanceAfter.Sub(trx.Amount)),
			"audit window must span exactly this credit")
		seen[trx.BalanceAfter.String()] = true
	}
	assert.Len(t, seen, workers, "each credit observes a distinct post-balance")
}

// Two concurrent debits of 60 against a balance of 100 must produce
// exactly one success; the conditional UPDATE serializes them at the
// storage layer.
func TestLedgerConcurrentDebit(t *testing.T) {
	db := setupTestDB(t)
	ledger := NewLedger(db)
	user := newTestUser(t, db, "race@test.io", 100, decimal.Zero)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = ledger.DebitGold(db, user.ID, 60, models.TrxTypeRechargeDebit, "race", "ref-race")
		}(i)
	}
	wg.Wait()

	var ok, insufficient int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case apperrors.Status(err) == 400:
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok, "exactly one debit must succeed")
	assert.Equal(t, 1, insufficient, "exactly one debit must fail")
	assert.Equal(t, int64(40), walletBalance(t, db, user.ID))
}
