package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	gorm.Model

	Email         string `gorm:"uniqueIndex;size:128" json:"email"`
	Password      string `gorm:"size:128" json:"-"`
	Phone         string `gorm:"index;size:20" json:"phone"`
	Role          string `gorm:"size:16;default:USER" json:"role"`
	ReferralCode  string `gorm:"uniqueIndex;size:16" json:"referral_code"`
	EmailVerified bool   `gorm:"default:false" json:"email_verified"`
	PhoneVerified bool   `gorm:"default:false" json:"phone_verified"`
	KYCVerified   bool   `gorm:"default:false" json:"kyc_verified"`
	IsActive      bool   `gorm:"default:true" json:"is_active"`

	Wallet Wallet `gorm:"foreignKey:UserID"`
	Bonus  Bonus  `gorm:"foreignKey:UserID"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

type Session struct {
	gorm.Model

	SID       string    `gorm:"size:36;uniqueIndex;not null"`
	UserID    uint      `gorm:"index"`
	User      User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	ExpiresAt time.Time `gorm:"index"`
}

func (s *Session) BeforeCreate(tx *gorm.DB) (err error) {
	s.SID = strings.ToLower(uuid.New().String())
	return nil
}
