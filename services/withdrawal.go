package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"sweeparcade/apperrors"
	"sweeparcade/models"
	"sweeparcade/providers/payout"
)

// WithdrawalService drives the redeem lifecycle:
// pending -> {approved -> processed, rejected}. Sweep coins are debited at
// creation only on the in-house path; approval dispatches to the payout
// gateway; rejection refunds iff the creation debited.
type WithdrawalService struct {
	db       *gorm.DB
	ledger   *Ledger
	notifier *NotificationService
	payouts  payout.Resolver
	log      zerolog.Logger
}

func NewWithdrawalService(db *gorm.DB, ledger *Ledger, notifier *NotificationService, payouts payout.Resolver, log zerolog.Logger) *WithdrawalService {
	return &WithdrawalService{db: db, ledger: ledger, notifier: notifier, payouts: payouts, log: log}
}

type CreateWithdrawalInput struct {
	UserID         uint
	Amount         decimal.Decimal
	GameName       string
	GameUsername   string
	PaymentGateway string
	WalletAddress  string
	WalletCurrency string
}

func validGateway(name string) bool {
	switch name {
	case models.GatewaySoap, models.GatewayPlisio, models.GatewayPayouts, models.GatewayGoat:
		return true
	}
	return false
}

// Create persists a pending withdrawal. Requests against featuredGames
// debit the sweep balance up front; third-party game redemptions leave the
// ledger alone because those funds live in the external game.
func (s *WithdrawalService) Create(in CreateWithdrawalInput) (*models.WithdrawalRequest, error) {
	if !in.Amount.IsPositive() {
		return nil, apperrors.Validationf("amount must be positive")
	}
	if in.GameName == "" {
		return nil, apperrors.Validationf("game name is required")
	}
	if !validGateway(in.PaymentGateway) {
		return nil, apperrors.Validationf("unknown payment gateway %q", in.PaymentGateway)
	}
	if in.PaymentGateway == models.GatewayPlisio && in.WalletAddress == "" {
		return nil, apperrors.Validationf("wallet address is required for plisio")
	}

	req := models.WithdrawalRequest{
		UserID:         in.UserID,
		GameName:       in.GameName,
		GameUsername:   in.GameUsername,
		Amount:         in.Amount,
		LedgerDebited:  in.GameName == models.FeaturedGames,
		PaymentGateway: in.PaymentGateway,
		WalletAddress:  in.WalletAddress,
		WalletCurrency: in.WalletCurrency,
		Status:         models.WithdrawalStatusPending,
		RefID:          uuid.New().String(),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if req.LedgerDebited {
			if err := s.ledger.DebitSweep(tx, in.UserID, in.Amount, models.TrxTypeWithdrawDebit, "withdrawal reservation", req.RefID); err != nil {
				return err
			}
		}
		return tx.Create(&req).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendToAdmins(models.NotifyWithdrawalCreated, payloadMap{
		"request_id": req.ID,
		"user_id":    in.UserID,
		"amount":     in.Amount.StringFixed(2),
		"gateway":    in.PaymentGateway,
	}); err != nil {
		s.log.Warn().Err(err).Uint("request_id", req.ID).Msg("admin notification failed")
	}

	return &req, nil
}

// Approve flips pending -> approved and initiates the gateway payout,
// storing any checkout URL and ID the gateway hands back. The ledger is
// not touched again.
func (s *WithdrawalService) Approve(requestID uint) (*models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest
	if err := s.db.First(&req, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("withdrawal request %d", requestID)
		}
		return nil, err
	}

	gw := s.payouts.Get(req.PaymentGateway)
	if gw == nil {
		return nil, apperrors.Validationf("no payout gateway registered for %q", req.PaymentGateway)
	}

	// Claim the request before talking to the gateway, so a racing
	// second approval or rejection cannot refund a payout already in
	// flight.
	now := time.Now()
	res := s.db.Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", requestID, models.WithdrawalStatusPending).
		Updates(map[string]any{
			"status":      models.WithdrawalStatusApproved,
			"approved_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, apperrors.Conflictf("withdrawal request %d is %s, not pending", requestID, req.Status)
	}

	result, err := gw.InitiatePayout(payout.PayoutRequest{
		RequestRef:     req.RefID,
		UserID:         req.UserID,
		Amount:         req.Amount,
		WalletAddress:  req.WalletAddress,
		WalletCurrency: req.WalletCurrency,
	})
	if err != nil {
		// Release the claim; the request stays actionable.
		if relErr := s.db.Model(&models.WithdrawalRequest{}).
			Where("id = ? AND status = ?", requestID, models.WithdrawalStatusApproved).
			Updates(map[string]any{
				"status":      models.WithdrawalStatusPending,
				"approved_at": nil,
			}).Error; relErr != nil {
			s.log.Error().Err(relErr).Uint("request_id", requestID).Msg("failed to release withdrawal claim")
		}
		return nil, apperrors.Upstreamf("payout initiation for request %d: %v", requestID, err)
	}

	if err := s.db.Model(&models.WithdrawalRequest{}).
		Where("id = ?", requestID).
		Updates(map[string]any{
			"invoice_url": result.CheckoutURL,
			"checkout_id": result.CheckoutID,
		}).Error; err != nil {
		return nil, err
	}

	if err := s.db.First(&req, requestID).Error; err != nil {
		return nil, err
	}

	if err := s.notifier.SendToUser(req.UserID, models.NotifyWithdrawalApproved, payloadMap{
		"request_id":  req.ID,
		"amount":      req.Amount.StringFixed(2),
		"invoice_url": req.InvoiceURL,
	}); err != nil {
		s.log.Warn().Err(err).Uint("request_id", req.ID).Msg("user notification failed")
	}
	return &req, nil
}

// Reject refunds the sweep coins when the creation debited them, then
// stores the admin comment. Only legal from pending.
func (s *WithdrawalService) Reject(requestID uint, comment string) (*models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("withdrawal request %d", requestID)
			}
			return err
		}

		now := time.Now()
		res := tx.Model(&models.WithdrawalRequest{}).
			Where("id = ? AND status = ?", requestID, models.WithdrawalStatusPending).
			Updates(map[string]any{
				"status":        models.WithdrawalStatusRejected,
				"admin_comment": comment,
				"rejected_at":   now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflictf("withdrawal request %d is %s, not pending", requestID, req.Status)
		}

		if req.LedgerDebited {
			if err := s.ledger.CreditSweep(tx, req.UserID, req.Amount, models.TrxTypeWithdrawRefund, "withdrawal refund", req.RefID); err != nil {
				return err
			}
		}
		return tx.First(&req, requestID).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendToUser(req.UserID, models.NotifyWithdrawalRejected, payloadMap{
		"request_id": req.ID,
		"comment":    comment,
	}); err != nil {
		s.log.Warn().Err(err).Uint("request_id", req.ID).Msg("user notification failed")
	}
	return &req, nil
}

// MarkProcessed is the terminal success transition, only legal from
// approved. The linked audit row is flipped to completed; no money moves.
func (s *WithdrawalService) MarkProcessed(requestID uint, comment string) (*models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFoundf("withdrawal request %d", requestID)
			}
			return err
		}

		now := time.Now()
		res := tx.Model(&models.WithdrawalRequest{}).
			Where("id = ? AND status = ?", requestID, models.WithdrawalStatusApproved).
			Updates(map[string]any{
				"status":        models.WithdrawalStatusProcessed,
				"admin_comment": comment,
				"processed_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperrors.Conflictf("withdrawal request %d is %s, not approved", requestID, req.Status)
		}

		if err := tx.Model(&models.CoinTransaction{}).
			Where("ref_id = ?", req.RefID).
			UpdateColumn("status", models.TrxStatusCompleted).Error; err != nil {
			return err
		}
		return tx.First(&req, requestID).Error
	})
	if err != nil {
		return nil, err
	}

	if err := s.notifier.SendToUser(req.UserID, models.NotifyWithdrawalDone, payloadMap{
		"request_id": req.ID,
		"amount":     req.Amount.StringFixed(2),
	}); err != nil {
		s.log.Warn().Err(err).Uint("request_id", req.ID).Msg("user notification failed")
	}
	return &req, nil
}

func (s *WithdrawalService) ListForUser(userID uint) ([]models.WithdrawalRequest, error) {
	var out []models.WithdrawalRequest
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *WithdrawalService) ListByStatus(status string) ([]models.WithdrawalRequest, error) {
	var out []models.WithdrawalRequest
	err := s.db.Where("status = ?", status).Order("created_at ASC").Find(&out).Error
	return out, err
}

// Get returns one request, owner-scoped unless ownerID is zero.
func (s *WithdrawalService) Get(requestID, ownerID uint) (*models.WithdrawalRequest, error) {
	var req models.WithdrawalRequest
	q := s.db.Where("id = ?", requestID)
	if ownerID != 0 {
		q = q.Where("user_id = ?", ownerID)
	}
	if err := q.First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFoundf("withdrawal request %d", requestID)
		}
		return nil, fmt.Errorf("load withdrawal request: %w", err)
	}
	return &req, nil
}
