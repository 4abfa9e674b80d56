package services

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"sweeparcade/apperrors"
	"sweeparcade/helpers"
	"sweeparcade/models"
)

const (
	otpTTL         = 10 * time.Minute
	otpMaxAttempts = 5

	defaultHourlySendCap  = 5
	defaultResendCooldown = 60 * time.Second
)

// VerifyOutcome is the tagged verification result; it replaces the
// ambiguous success/isValid pair with one explicit state.
type VerifyOutcome string

const (
	OTPValid            VerifyOutcome = "valid"
	OTPInvalidCode      VerifyOutcome = "invalid_code"
	OTPExpired          VerifyOutcome = "expired"
	OTPAttemptsExceeded VerifyOutcome = "attempts_exceeded"
)

// OTPPolicy holds the rate limits, enabled by default and overridable via
// OTP_HOURLY_SEND_CAP and OTP_RESEND_COOLDOWN_SECONDS.
type OTPPolicy struct {
	HourlySendCap  int
	ResendCooldown time.Duration
}

func OTPPolicyFromEnv() OTPPolicy {
	p := OTPPolicy{
		HourlySendCap:  defaultHourlySendCap,
		ResendCooldown: defaultResendCooldown,
	}
	if v, err := strconv.Atoi(os.Getenv("OTP_HOURLY_SEND_CAP")); err == nil && v > 0 {
		p.HourlySendCap = v
	}
	if v, err := strconv.Atoi(os.Getenv("OTP_RESEND_COOLDOWN_SECONDS")); err == nil && v >= 0 {
		p.ResendCooldown = time.Duration(v) * time.Second
	}
	return p
}

// OTPService issues and consumes single-use, time-boxed phone codes. SMS
// dispatch is best-effort; a send failure never rolls the persisted code
// back.
type OTPService struct {
	db     *gorm.DB
	sms    SMSSender
	policy OTPPolicy
	log    zerolog.Logger
}

func NewOTPService(db *gorm.DB, sms SMSSender, policy OTPPolicy, log zerolog.Logger) *OTPService {
	return &OTPService{db: db, sms: sms, policy: policy, log: log}
}

// Send normalizes the phone, enforces the hourly cap, invalidates every
// prior live code for the phone+purpose, then persists and dispatches a
// fresh 6-digit code.
func (s *OTPService) Send(rawPhone, purpose string) (*models.OTP, error) {
	phone, err := helpers.NormalizePhone(rawPhone)
	if err != nil {
		return nil, apperrors.Validationf("invalid phone number: %v", err)
	}

	var sentLastHour int64
	hourAgo := time.Now().Add(-time.Hour)
	if err := s.db.Model(&models.OTP{}).
		Where("phone = ? AND created_at > ?", phone, hourAgo).
		Count(&sentLastHour).Error; err != nil {
		return nil, err
	}
	if int(sentLastHour) >= s.policy.HourlySendCap {
		return nil, apperrors.Conflictf("hourly OTP send limit reached for %s", phone)
	}

	code, err := helpers.GenerateOTPCode()
	if err != nil {
		return nil, err
	}

	otp := models.OTP{
		Phone:       phone,
		Code:        code,
		Purpose:     purpose,
		MaxAttempts: otpMaxAttempts,
		ExpiresAt:   time.Now().Add(otpTTL),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// Stale codes must not stay guessable once a new one exists.
		if err := tx.Model(&models.OTP{}).
			Where("phone = ? AND purpose = ? AND used = false AND expires_at > ?", phone, purpose, time.Now()).
			UpdateColumn("used", true).Error; err != nil {
			return err
		}
		return tx.Create(&otp).Error
	})
	if err != nil {
		return nil, err
	}

	if s.sms != nil {
		res := s.sms.Send(phone, "Your sweeparcade verification code is "+code)
		if !res.Success {
			s.log.Warn().Err(res.Err).Str("phone", phone).Msg("OTP SMS dispatch failed")
		}
	}
	return &otp, nil
}

// Verify consumes the live code for the phone+purpose. The record is
// marked used on the first matching call whatever the outcome, so a code
// can never be verified twice.
func (s *OTPService) Verify(rawPhone, purpose, code string) (VerifyOutcome, error) {
	phone, err := helpers.NormalizePhone(rawPhone)
	if err != nil {
		return "", apperrors.Validationf("invalid phone number: %v", err)
	}

	var otp models.OTP
	err = s.db.Where("phone = ? AND purpose = ? AND used = false", phone, purpose).
		Order("created_at DESC").First(&otp).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return OTPInvalidCode, nil
		}
		return "", err
	}

	if time.Now().After(otp.ExpiresAt) {
		if err := s.db.Model(&otp).UpdateColumn("used", true).Error; err != nil {
			return "", err
		}
		return OTPExpired, nil
	}

	if otp.Attempts >= otp.MaxAttempts {
		if err := s.db.Model(&otp).UpdateColumn("used", true).Error; err != nil {
			return "", err
		}
		return OTPAttemptsExceeded, nil
	}

	if otp.Code != code {
		if err := s.db.Model(&otp).UpdateColumn("attempts", gorm.Expr("attempts + 1")).Error; err != nil {
			return "", err
		}
		if otp.Attempts+1 >= otp.MaxAttempts {
			if err := s.db.Model(&otp).UpdateColumn("used", true).Error; err != nil {
				return "", err
			}
			return OTPAttemptsExceeded, nil
		}
		return OTPInvalidCode, nil
	}

	// Conditional consume so two racing verifications of the same code
	// produce exactly one OTPValid.
	res := s.db.Model(&models.OTP{}).
		Where("id = ? AND used = false", otp.ID).
		Updates(map[string]any{
			"used":     true,
			"attempts": gorm.Expr("attempts + 1"),
		})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return OTPInvalidCode, nil
	}
	return OTPValid, nil
}

// Resend applies the cooldown against the newest send, then delegates.
func (s *OTPService) Resend(rawPhone, purpose string) (*models.OTP, error) {
	phone, err := helpers.NormalizePhone(rawPhone)
	if err != nil {
		return nil, apperrors.Validationf("invalid phone number: %v", err)
	}

	var last models.OTP
	err = s.db.Where("phone = ? AND purpose = ?", phone, purpose).
		Order("created_at DESC").First(&last).Error
	if err == nil && time.Since(last.CreatedAt) < s.policy.ResendCooldown {
		return nil, apperrors.Conflictf("resend cooldown active, retry in %s",
			(s.policy.ResendCooldown - time.Since(last.CreatedAt)).Round(time.Second))
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return s.Send(phone, purpose)
}
