package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	WithdrawalStatusPending    = "pending"
	WithdrawalStatusApproved   = "approved"
	WithdrawalStatusRejected   = "rejected"
	WithdrawalStatusProcessed  = "processed"
	WithdrawalStatusFailed     = "failed"
	WithdrawalStatusRefunded   = "refunded"
	WithdrawalStatusReturned   = "returned"
	WithdrawalStatusExpired    = "expired"
	WithdrawalStatusTerminated = "terminated"
)

const (
	GatewaySoap    = "soap"
	GatewayPlisio  = "plisio"
	GatewayPayouts = "payouts"
	GatewayGoat    = "goat"
)

// FeaturedGames is the in-house redemption path. Only withdrawals against
// it debit the sweep coin balance; third-party game redemptions hold their
// funds in the external game.
const FeaturedGames = "featuredGames"

type WithdrawalRequest struct {
	gorm.Model

	UserID       uint   `gorm:"index" json:"user_id"`
	User         User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	GameName     string `gorm:"size:64;index" json:"game_name"`
	GameUsername string `gorm:"size:64" json:"game_username"`

	Amount decimal.Decimal `gorm:"type:numeric(20,2)" json:"amount"`

	// LedgerDebited records whether sweep coins were reserved at creation,
	// which decides whether a rejection refunds.
	LedgerDebited bool `gorm:"default:false" json:"ledger_debited"`

	PaymentGateway string `gorm:"size:16;index" json:"payment_gateway"`
	WalletAddress  string `gorm:"size:128" json:"wallet_address"`
	WalletCurrency string `gorm:"size:16" json:"wallet_currency"`

	InvoiceURL string `gorm:"size:512" json:"invoice_url"`
	CheckoutID string `gorm:"size:128" json:"checkout_id"`

	Status       string     `gorm:"size:16;index;default:pending" json:"status"`
	AdminComment string     `gorm:"size:255" json:"admin_comment"`
	RefID        string     `gorm:"size:64;index" json:"ref_id"`
	ApprovedAt   *time.Time `json:"approved_at"`
	RejectedAt   *time.Time `json:"rejected_at"`
	ProcessedAt  *time.Time `json:"processed_at"`
}
