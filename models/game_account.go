package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	GameAccountStatusPending  = "pending"
	GameAccountStatusApproved = "approved"
	GameAccountStatusRejected = "rejected"
)

// GameAccountRequest asks for login credentials on a specific game,
// optionally with an up-front funding amount debited at creation.
type GameAccountRequest struct {
	gorm.Model

	UserID   uint   `gorm:"index" json:"user_id"`
	User     User   `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	GameName string `gorm:"size:64;index" json:"game_name"`

	RequestedAmount int64 `json:"requested_amount"`

	Status       string     `gorm:"size:16;index;default:pending" json:"status"`
	AdminComment string     `gorm:"size:255" json:"admin_comment"`
	RefID        string     `gorm:"size:64;index" json:"ref_id"`
	ApprovedAt   *time.Time `json:"approved_at"`
	RejectedAt   *time.Time `json:"rejected_at"`
}

// UserGameAccount holds the provisioned credentials, created on approval.
type UserGameAccount struct {
	gorm.Model

	UserID   uint   `gorm:"index" json:"user_id"`
	GameName string `gorm:"size:64;index" json:"game_name"`
	Username string `gorm:"size:64" json:"username"`
	Password string `gorm:"size:128" json:"-"`
}
