package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	OTPPurposeVerifyPhone   = "verify_phone"
	OTPPurposePasswordReset = "password_reset"
)

// OTP is a single-use verification code. Sending a new code marks every
// prior unused, unexpired code for the same phone and purpose as used.
type OTP struct {
	gorm.Model

	Phone       string    `gorm:"size:20;index" json:"phone"`
	Code        string    `gorm:"size:8" json:"-"`
	Purpose     string    `gorm:"size:24;index" json:"purpose"`
	Used        bool      `gorm:"default:false;index" json:"used"`
	Attempts    int       `gorm:"default:0" json:"attempts"`
	MaxAttempts int       `gorm:"default:5" json:"max_attempts"`
	ExpiresAt   time.Time `gorm:"index" json:"expires_at"`
}
