package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"sweeparcade/apperrors"
	"sweeparcade/models"
)

// RefundGameAccountFeeOnReject is the provisioning-fee policy: a rejected
// game account request credits the reserved funding amount back. Flip to
// false to make the fee non-refundable.
const RefundGameAccountFeeOnReject = true

// GameAccountService provisions third-party game credentials, optionally
// reserving an initial funding amount at request time.
type GameAccountService struct {
	db       *gorm.DB
	ledger   *Ledger
	notifier *NotificationService
	log      zerolog.Logger
}

func NewGameAccountService(db *gorm.DB, ledger *Ledger, notifier *NotificationService, log zerolog.Logger) *GameAccountService {
	return &GameAccountService{db: db, ledger: ledger, notifier: notifier, log: log}
}

// Create persists a pending provisioning request, debiting the funding
// amount up front when one was asked for.
func (s *GameAccountService) Create(userID uint, gameName string, requestedAmount int64) (*models.GameAccountRequest, error) {
	if gameName == "" {
		return nil, apperrors.Validationf("game name is required")
	}
	if requestedAmount < 0 {
		return nil, apperrors.Validationf("requested amount cannot be negative")
	}

	req := models.GameAccountRequest{
		UserID:          userID,
		GameName:        gameName,
		RequestedAmount: requestedAmount,
		Status:          models.GameAccountStatusPending,
		RefID:           uuid.New().String(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if requestedAmount > 0 {
			if err := s.ledger.DebitGold(tx, userID, requestedAmount, models.TrxTypeGameFundDebit, "game account funding: "+gameName, req.RefID); err != nil {
				return err
			}
		}
		return tx.Create(&req).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendToAdmins(models.NotifyGameAccountCreated, payloadMap{
		"request_id": req.ID,
		"user_id":    userID,
		"game_name":  gameName,
		"amount":     requestedAmount,
	}); err != nil {
		s.log.Warn().Err(err).Uint("request_id", req.ID).Msg("admin notification failed")
	}
	return &req, nil
}

// Approve creates the UserGameAccount credential record and flips the
// request to approved.
func (s *GameAccountService) Approve(requestID uint) (*models.UserGameAccount, error) {
	var req models.GameAccountRequest
	var account models.UserGameAccount

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("game account request %d", requestID)
			}
			return err
		}

		now := time.Now()
		res := tx.Model(&models.GameAccountRequest{}).
			Where("id = ? AND status = ?", requestID, models.GameAccountStatusPending).
			Updates(map[string]any{
				"status":      models.GameAccountStatusApproved,
				"approved_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflictf("game account request %d is %s, not pending", requestID, req.Status)
		}

		account = models.UserGameAccount{
			UserID:   req.UserID,
			GameName: req.GameName,
			Username: fmt.Sprintf("sa_%d_%s", req.UserID, uuid.New().String()[:8]),
			Password: uuid.New().String(),
		}
		return tx.Create(&account).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendToUser(req.UserID, models.NotifyGameAccountReady, payloadMap{
		"request_id": req.ID,
		"game_name":  req.GameName,
		"username":   account.Username,
	}); err != nil {
		s.log.Warn().Err(err).Uint("request_id", req.ID).Msg("user notification failed")
	}
	return &account, nil
}

// Reject flips the request to rejected, refunding the reserved funding
// amount under the RefundGameAccountFeeOnReject policy.
func (s *GameAccountService) Reject(requestID uint, comment string) (*models.GameAccountRequest, error) {
	var req models.GameAccountRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("game account request %d", requestID)
			}
			return err
		}

		now := time.Now()
		res := tx.Model(&models.GameAccountRequest{}).
			Where("id = ? AND status = ?", requestID, models.GameAccountStatusPending).
			Updates(map[string]any{
				"status":        models.GameAccountStatusRejected,
				"admin_comment": comment,
				"rejected_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflictf("game account request %d is %s, not pending", requestID, req.Status)
		}

		if RefundGameAccountFeeOnReject && req.RequestedAmount > 0 {
			if err := s.ledger.CreditGold(tx, req.UserID, req.RequestedAmount, models.TrxTypeGameFundRefund, "game account funding refund", req.RefID); err != nil {
				return err
			}
		}
		return tx.First(&req, requestID).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendToUser(req.UserID, models.NotifyGameAccountDenied, payloadMap{
		"request_id": req.ID,
		"game_name":  req.GameName,
		"comment":    comment,
	}); err != nil {
		s.log.Warn().Err(err).Uint("request_id", req.ID).Msg("user notification failed")
	}
	return &req, nil
}

func (s *GameAccountService) ListForUser(userID uint) ([]models.GameAccountRequest, error) {
	var out []models.GameAccountRequest
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *GameAccountService) AccountsForUser(userID uint) ([]models.UserGameAccount, error) {
	var out []models.UserGameAccount
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}
