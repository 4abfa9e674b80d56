package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet holds the play-only gold coin balance, one row per user.
// Balance is mutated only through conditional single-statement updates,
// never load-mutate-save.
type Wallet struct {
	gorm.Model

	UserID   uint   `gorm:"uniqueIndex" json:"user_id"`
	Balance  int64  `gorm:"not null;default:0" json:"balance"`
	Currency string `gorm:"size:8;default:GC" json:"currency"`
}

// Bonus holds the redeemable sweep coin balance and login streak state.
type Bonus struct {
	gorm.Model

	UserID      uint            `gorm:"uniqueIndex" json:"user_id"`
	SweepCoins  decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"sweep_coins"`
	LoginStreak int             `gorm:"default:0" json:"login_streak"`
	LastLoginAt *time.Time      `json:"last_login_at"`
}

const (
	TrxTypeRechargeDebit  = "recharge_debit"
	TrxTypeRechargeRefund = "recharge_refund"
	TrxTypeWithdrawDebit  = "withdraw_debit"
	TrxTypeWithdrawRefund = "withdraw_refund"
	TrxTypeGameFundDebit  = "game_fund_debit"
	TrxTypeGameFundRefund = "game_fund_refund"
	TrxTypeStreakBonus    = "streak_bonus"
	TrxTypeDepositCredit  = "deposit_credit"
)

const (
	TrxStatusPending   = "pending"
	TrxStatusCompleted = "completed"
)

// CoinTransaction is the audit row written alongside every balance mutation.
type CoinTransaction struct {
	gorm.Model

	UserID        uint            `gorm:"index"`
	CoinKind      string          `gorm:"size:8"` // "gold" or "sweep"
	TrxType       string          `gorm:"size:24;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2)" json:"amount"`
	BalanceBefore decimal.Decimal `gorm:"type:numeric(20,2)" json:"balance_before"`
	BalanceAfter  decimal.Decimal `gorm:"type:numeric(20,2)" json:"balance_after"`
	Status        string          `gorm:"size:16;index;default:completed"`
	Note          string          `gorm:"size:255"`
	RefID         string          `gorm:"size:64;index"`
}
