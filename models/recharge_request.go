package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RechargeStatusPending  = "pending"
	RechargeStatusApproved = "approved"
	RechargeStatusRejected = "rejected"
	RechargeStatusFailed   = "failed"
)

// RechargeRequest moves gold coins into a third-party game account.
// The wallet is debited when the request is created, not when it is
// approved; a rejection credits the reservation back.
type RechargeRequest struct {
	gorm.Model

	UserID       uint   `gorm:"index" json:"user_id"`
	User         User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	GameName     string `gorm:"size:64;index" json:"game_name"`
	GameUsername string `gorm:"size:64" json:"game_username"`

	// AmountUSD is what the user asked for; AmountCoins is the debited
	// gold coin reservation (AmountUSD * GoldCoinsPerUSD).
	AmountUSD   int64 `json:"amount_usd"`
	AmountCoins int64 `json:"amount_coins"`

	Status       string     `gorm:"size:16;index;default:pending" json:"status"`
	AdminComment string     `gorm:"size:255" json:"admin_comment"`
	RefID        string     `gorm:"size:64;index" json:"ref_id"`
	ApprovedAt   *time.Time `json:"approved_at"`
	RejectedAt   *time.Time `json:"rejected_at"`
}
