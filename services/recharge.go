package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"sweeparcade/apperrors"
	"sweeparcade/models"
)

// GoldCoinsPerUSD converts a requested USD amount into the gold coin
// reservation debited from the wallet.
const GoldCoinsPerUSD = 100

// RechargeService drives the recharge request lifecycle: debit-at-creation,
// admin approve (no ledger change) or reject (refund).
type RechargeService struct {
	db       *gorm.DB
	ledger   *Ledger
	notifier *NotificationService
	log      zerolog.Logger
}

func NewRechargeService(db *gorm.DB, ledger *Ledger, notifier *NotificationService, log zerolog.Logger) *RechargeService {
	return &RechargeService{db: db, ledger: ledger, notifier: notifier, log: log}
}

// Create validates the request, reserves the converted amount from the
// wallet and persists the pending request in one transaction. Funds are
// held during admin review so concurrent requests cannot overcommit.
func (s *RechargeService) Create(userID uint, gameName, gameUsername string, amountUSD int64) (*models.RechargeRequest, error) {
	if amountUSD <= 0 {
		return nil, apperrors.Validationf("amount must be positive")
	}
	if gameName == "" {
		return nil, apperrors.Validationf("game name is required")
	}

	req := models.RechargeRequest{
		UserID:       userID,
		GameName:     gameName,
		GameUsername: gameUsername,
		AmountUSD:    amountUSD,
		AmountCoins:  amountUSD * GoldCoinsPerUSD,
		Status:       models.RechargeStatusPending,
		RefID:        uuid.New().String(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.ledger.DebitGold(tx, userID, req.AmountCoins, models.TrxTypeRechargeDebit, "recharge reservation: "+gameName, req.RefID); err != nil {
			return err
		}
		return tx.Create(&req).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendToAdmins(models.NotifyRechargeCreated, payloadMap{
		"request_id": req.ID,
		"user_id":    userID,
		"game_name":  gameName,
		"amount_usd": amountUSD,
	}); err != nil {
		s.log.Warn().Err(err).Uint("request_id", req.ID).Msg("admin notification failed")
	}

	return &req, nil
}

// Approve moves a pending request to approved. The reservation stays
// spent; no ledger mutation happens here.
func (s *RechargeService) Approve(requestID uint) (*models.RechargeRequest, error) {
	req, err := s.transition(requestID, models.RechargeStatusApproved, "", func(tx *gorm.DB, req *models.RechargeRequest) error {
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendToUser(req.UserID, models.NotifyRechargeApproved, payloadMap{
		"request_id": req.ID,
		"game_name":  req.GameName,
		"amount_usd": req.AmountUSD,
	}); err != nil {
		s.log.Warn().Err(err).Uint("request_id", req.ID).Msg("user notification failed")
	}
	return req, nil
}

// Reject refunds the reservation and stores the admin comment. Only legal
// from pending; a racing second rejection loses the conditional update and
// gets ErrConflict, so the refund cannot double-apply.
func (s *RechargeService) Reject(requestID uint, comment string) (*models.RechargeRequest, error) {
	req, err := s.transition(requestID, models.RechargeStatusRejected, comment, func(tx *gorm.DB, req *models.RechargeRequest) error {
		return s.ledger.CreditGold(tx, req.UserID, req.AmountCoins, models.TrxTypeRechargeRefund, "recharge refund: "+req.GameName, req.RefID)
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendToUser(req.UserID, models.NotifyRechargeRejected, payloadMap{
		"request_id": req.ID,
		"game_name":  req.GameName,
		"comment":    comment,
	}); err != nil {
		s.log.Warn().Err(err).Uint("request_id", req.ID).Msg("user notification failed")
	}
	return req, nil
}

// transition performs the guarded pending -> target flip plus any ledger
// side effect inside one transaction. The status guard is a conditional
// UPDATE, so two racing admin actions cannot both win.
func (s *RechargeService) transition(requestID uint, target, comment string, sideEffect func(tx *gorm.DB, req *models.RechargeRequest) error) (*models.RechargeRequest, error) {
	var req models.RechargeRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("recharge request %d", requestID)
			}
			return err
		}

		now := time.Now()
		updates := map[string]any{"status": target}
		switch target {
		case models.RechargeStatusApproved:
			updates["approved_at"] = now
		case models.RechargeStatusRejected:
			updates["rejected_at"] = now
			updates["admin_comment"] = comment
		}

		res := tx.Model(&models.RechargeRequest{}).
			Where("id = ? AND status = ?", requestID, models.RechargeStatusPending).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflictf("recharge request %d is %s, not pending", requestID, req.Status)
		}

		if err := sideEffect(tx, &req); err != nil {
			return err
		}
		return tx.First(&req, requestID).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// ListForUser returns the user's requests, newest first.
func (s *RechargeService) ListForUser(userID uint) ([]models.RechargeRequest, error) {
	var out []models.RechargeRequest
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

// ListByStatus returns all requests in the given status for admin review.
func (s *RechargeService) ListByStatus(status string) ([]models.RechargeRequest, error) {
	var out []models.RechargeRequest
	err := s.db.Where("status = ?", status).Order("created_at ASC").Find(&out).Error
	return out, err
}

type payloadMap = map[string]any
