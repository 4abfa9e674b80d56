package services

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"sweeparcade/apperrors"
	"sweeparcade/models"
)

const (
	CoinKindGold  = "gold"
	CoinKindSweep = "sweep"
)

// Ledger mutates the per-user gold and sweep coin balances. Every debit is
// a single conditional UPDATE (balance >= amount) so two concurrent debits
// can never both drain the same funds; the losing statement matches zero
// rows and surfaces ErrInsufficientFunds. The RETURNING clause captures
// the exact post-update balance of this statement, so the audit window
// cannot absorb an interleaved mutation. Each mutation writes a
// CoinTransaction audit row in the same gorm transaction as the caller.
type Ledger struct {
	db *gorm.DB
}

func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

func (l *Ledger) DB() *gorm.DB {
	return l.db
}

// DebitGold reserves amount gold coins, failing without touching the row
// when the balance cannot cover it.
func (l *Ledger) DebitGold(tx *gorm.DB, userID uint, amount int64, trxType, note, refID string) error {
	if amount <= 0 {
		return apperrors.Validationf("debit amount must be positive")
	}

	var wallet models.Wallet
	res := tx.Model(&wallet).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "balance"}}}).
		Where("user_id = ? AND balance >= ?", userID, amount).
		UpdateColumn("balance", gorm.Expr("balance - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var probe models.Wallet
		if err := tx.Where("user_id = ?", userID).First(&probe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("wallet for user %d", userID)
			}
			return err
		}
		return apperrors.ErrInsufficientFunds
	}

	after := decimal.NewFromInt(wallet.Balance)
	amt := decimal.NewFromInt(amount)
	return tx.Create(&models.CoinTransaction{
		UserID:        userID,
		CoinKind:      CoinKindGold,
		TrxType:       trxType,
		Amount:        amt,
		BalanceBefore: after.Add(amt),
		BalanceAfter:  after,
		Status:        models.TrxStatusCompleted,
		Note:          note,
		RefID:         refID,
	}).Error
}

// CreditGold adds amount gold coins unconditionally.
func (l *Ledger) CreditGold(tx *gorm.DB, userID uint, amount int64, trxType, note, refID string) error {
	if amount <= 0 {
		return apperrors.Validationf("credit amount must be positive")
	}

	var wallet models.Wallet
	res := tx.Model(&wallet).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "balance"}}}).
		Where("user_id = ?", userID).
		UpdateColumn("balance", gorm.Expr("balance + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("wallet for user %d", userID)
	}

	after := decimal.NewFromInt(wallet.Balance)
	amt := decimal.NewFromInt(amount)
	return tx.Create(&models.CoinTransaction{
		UserID:        userID,
		CoinKind:      CoinKindGold,
		TrxType:       trxType,
		Amount:        amt,
		BalanceBefore: after.Sub(amt),
		BalanceAfter:  after,
		Status:        models.TrxStatusCompleted,
		Note:          note,
		RefID:         refID,
	}).Error
}

// DebitSweep reserves sweep coins against the bonus balance.
func (l *Ledger) DebitSweep(tx *gorm.DB, userID uint, amount decimal.Decimal, trxType, note, refID string) error {
	if !amount.IsPositive() {
		return apperrors.Validationf("debit amount must be positive")
	}

	var bonus models.Bonus
	res := tx.Model(&bonus).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "sweep_coins"}}}).
		Where("user_id = ? AND sweep_coins >= ?", userID, amount).
		UpdateColumn("sweep_coins", gorm.Expr("sweep_coins - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var probe models.Bonus
		if err := tx.Where("user_id = ?", userID).First(&probe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("bonus record for user %d", userID)
			}
			return err
		}
		return apperrors.ErrInsufficientFunds
	}

	return tx.Create(&models.CoinTransaction{
		UserID:        userID,
		CoinKind:      CoinKindSweep,
		TrxType:       trxType,
		Amount:        amount,
		BalanceBefore: bonus.SweepCoins.Add(amount),
		BalanceAfter:  bonus.SweepCoins,
		Status:        models.TrxStatusCompleted,
		Note:          note,
		RefID:         refID,
	}).Error
}

// CreditSweep adds sweep coins unconditionally.
func (l *Ledger) CreditSweep(tx *gorm.DB, userID uint, amount decimal.Decimal, trxType, note, refID string) error {
	if !amount.IsPositive() {
		return apperrors.Validationf("credit amount must be positive")
	}

	var bonus models.Bonus
	res := tx.Model(&bonus).
		Clauses(clause.Returning{Columns: []clause.Column{{Name: "sweep_coins"}}}).
		Where("user_id = ?", userID).
		UpdateColumn("sweep_coins", gorm.Expr("sweep_coins + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("bonus record for user %d", userID)
	}

	return tx.Create(&models.CoinTransaction{
		UserID:        userID,
		CoinKind:      CoinKindSweep,
		TrxType:       trxType,
		Amount:        amount,
		BalanceBefore: bonus.SweepCoins.Sub(amount),
		BalanceAfter:  bonus.SweepCoins,
		Status:        models.TrxStatusCompleted,
		Note:          note,
		RefID:         refID,
	}).Error
}
