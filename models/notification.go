package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotifyRechargeCreated    = "recharge_created"
	NotifyRechargeApproved   = "recharge_approved"
	NotifyRechargeRejected   = "recharge_rejected"
	NotifyWithdrawalCreated  = "withdrawal_created"
	NotifyWithdrawalApproved = "withdrawal_approved"
	NotifyWithdrawalRejected = "withdrawal_rejected"
	NotifyWithdrawalDone     = "withdrawal_processed"
	NotifyGameAccountCreated = "game_account_created"
	NotifyGameAccountReady   = "game_account_ready"
	NotifyGameAccountDenied  = "game_account_denied"
	NotifyStreakBonus        = "streak_bonus"
)

// Notification is an append-only per-user record with a 30 day TTL.
// Only the Read flag is ever mutated.
type Notification struct {
	gorm.Model

	// NotificationID is the external identifier; read endpoints accept
	// either it or the row ID.
	NotificationID string `gorm:"size:36;uniqueIndex;not null" json:"notification_id"`

	UserID    uint           `gorm:"index" json:"user_id"`
	EventType string         `gorm:"size:32;index" json:"event_type"`
	Read      bool           `gorm:"default:false;index" json:"read"`
	Payload   datatypes.JSON `json:"payload"`
	ExpiresAt time.Time      `gorm:"index" json:"expires_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) (err error) {
	if n.NotificationID == "" {
		n.NotificationID = strings.ToLower(uuid.New().String())
	}
	return nil
}
