package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"sweeparcade/apperrors"
	"sweeparcade/helpers"
	"sweeparcade/models"
)

const sessionTTL = 24 * time.Hour

// streakBonusSC is the sweep coin drip for a consecutive-day login,
// capped at seven days of growth.
var streakBonusSC = decimal.NewFromFloat(0.25)

const streakCapDays = 7

// AccountService owns registration, login sessions and the daily login
// streak credit.
type AccountService struct {
	db       *gorm.DB
	ledger   *Ledger
	notifier *NotificationService
	log      zerolog.Logger
}

func NewAccountService(db *gorm.DB, ledger *Ledger, notifier *NotificationService, log zerolog.Logger) *AccountService {
	return &AccountService{db: db, ledger: ledger, notifier: notifier, log: log}
}

// Register creates the user with its wallet and bonus rows in one
// transaction, so a user can never exist without a ledger entry.
func (s *AccountService) Register(email, password, phone string) (*models.User, error) {
	if email == "" || password == "" {
		return nil, apperrors.Validationf("email and password are required")
	}
	if len(password) < 8 {
		return nil, apperrors.Validationf("password must be at least 8 characters")
	}

	if phone != "" {
		normalized, err := helpers.NormalizePhone(phone)
		if err != nil {
			return nil, apperrors.Validationf("invalid phone number: %v", err)
		}
		phone = normalized
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Email:        email,
		Password:     string(hashed),
		Phone:        phone,
		Role:         models.RoleUser,
		ReferralCode: helpers.GenerateReferralCode(),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if err := tx.Create(&models.Wallet{UserID: user.ID, Currency: "GC"}).Error; err != nil {
			return err
		}
		return tx.Create(&models.Bonus{UserID: user.ID}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflictf("email already registered")
		}
		return nil, err
	}
	return &user, nil
}

// Login verifies credentials, opens a session and applies the daily
// streak credit.
func (s *AccountService) Login(email, password string) (*models.Session, error) {
	var user models.User
	if err := s.db.Where("email = ? AND is_active = true", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrUnauthorized
	}

	session := models.Session{
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(sessionTTL),
	}
	if err := s.db.Create(&session).Error; err != nil {
		return nil, err
	}

	if err := s.applyLoginStreak(user.ID); err != nil {
		s.log.Warn().Err(err).Uint("user_id", user.ID).Msg("login streak update failed")
	}

	session.User = user
	return &session, nil
}

// applyLoginStreak bumps the streak for a consecutive-day login and
// credits the sweep coin drip. Same-day repeat logins are a no-op.
func (s *AccountService) applyLoginStreak(userID uint) error {
	var streak int
	var credit decimal.Decimal
	credited := false

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var bonus models.Bonus
		if err := tx.Where("user_id = ?", userID).First(&bonus).Error; err != nil {
			return err
		}

		now := time.Now()
		today := now.Truncate(24 * time.Hour)

		streak = 1
		if bonus.LastLoginAt != nil {
			lastDay := bonus.LastLoginAt.Truncate(24 * time.Hour)
			switch {
			case lastDay.Equal(today):
				return nil
			case lastDay.Equal(today.Add(-24 * time.Hour)):
				streak = bonus.LoginStreak + 1
			}
		}

		if err := tx.Model(&bonus).Updates(map[string]any{
			"login_streak":  streak,
			"last_login_at": now,
		}).Error; err != nil {
			return err
		}

		days := streak
		if days > streakCapDays {
			days = streakCapDays
		}
		credit = streakBonusSC.Mul(decimal.NewFromInt(int64(days)))
		if err := s.ledger.CreditSweep(tx, userID, credit, models.TrxTypeStreakBonus, "daily login streak", uuid.New().String()); err != nil {
			return err
		}
		credited = true
		return nil
	})
	if err != nil || !credited {
		return err
	}

	// Notify only once the credit is committed.
	if err := s.notifier.SendToUser(userID, models.NotifyStreakBonus, payloadMap{
		"streak": streak,
		"amount": credit.StringFixed(2),
	}); err != nil {
		s.log.Warn().Err(err).Uint("user_id", userID).Msg("streak notification failed")
	}
	return nil
}

// ResolveSession returns the session's user or ErrUnauthorized when the
// SID is unknown or expired.
func (s *AccountService) ResolveSession(sid string) (*models.User, error) {
	var session models.Session
	err := s.db.Preload("User").
		Where("sid = ? AND expires_at > ?", sid, time.Now()).
		First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if !session.User.IsActive {
		return nil, apperrors.ErrUnauthorized
	}
	return &session.User, nil
}

// Profile returns the user with wallet and bonus balances attached.
func (s *AccountService) Profile(userID uint) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Wallet").Preload("Bonus").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("user %d", userID)
		}
		return nil, err
	}
	return &user, nil
}

// MarkPhoneVerified is called after a successful OTP verification.
func (s *AccountService) MarkPhoneVerified(userID uint) error {
	res := s.db.Model(&models.User{}).Where("id = ?", userID).UpdateColumn("phone_verified", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.NotFoundf("user %d", userID)
	}
	return nil
}
