package services

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"sweeparcade/apperrors"
	"sweeparcade/models"
)

// AdminTarget fans a notification out to every admin-role user instead of
// a single recipient.
const AdminTarget = "admin"

const notificationTTL = 30 * 24 * time.Hour

// NotificationService writes the persisted notification row (awaited) then
// attempts the live push (best-effort). A push failure is logged and never
// rolls back the row.
type NotificationService struct {
	db     *gorm.DB
	pusher Pusher
	log    zerolog.Logger
}

func NewNotificationService(db *gorm.DB, pusher Pusher, log zerolog.Logger) *NotificationService {
	return &NotificationService{db: db, pusher: pusher, log: log}
}

// SendToUser persists one notification for userID and pushes it live.
func (s *NotificationService) SendToUser(userID uint, eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	n := models.Notification{
		UserID:    userID,
		EventType: eventType,
		Payload:   datatypes.JSON(raw),
		ExpiresAt: time.Now().Add(notificationTTL),
	}
	if err := s.db.Create(&n).Error; err != nil {
		return err
	}

	if s.pusher != nil {
		if err := s.pusher.PushToUser(userID, eventType, payload); err != nil {
			s.log.Warn().Err(err).Uint("user_id", userID).Str("event", eventType).Msg("live push failed")
		}
	}
	return nil
}

// SendToAdmins replicates the persisted row to every admin user and
// broadcasts once on the admin channel.
func (s *NotificationService) SendToAdmins(eventType string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	var admins []models.User
	if err := s.db.Where("role = ? AND is_active = true", models.RoleAdmin).Find(&admins).Error; err != nil {
		return err
	}

	expires := time.Now().Add(notificationTTL)
	for _, admin := range admins {
		n := models.Notification{
			UserID:    admin.ID,
			EventType: eventType,
			Payload:   datatypes.JSON(raw),
			ExpiresAt: expires,
		}
		if err := s.db.Create(&n).Error; err != nil {
			return err
		}
	}

	if s.pusher != nil {
		if err := s.pusher.PushToAdmins(eventType, payload); err != nil {
			s.log.Warn().Err(err).Str("event", eventType).Msg("admin broadcast failed")
		}
	}
	return nil
}

// Send routes to SendToAdmins when target is the admin sentinel.
func (s *NotificationService) Send(target any, eventType string, payload any) error {
	switch t := target.(type) {
	case string:
		if t == AdminTarget {
			return s.SendToAdmins(eventType, payload)
		}
		return apperrors.Validationf("unknown notification target %q", t)
	case uint:
		return s.SendToUser(t, eventType, payload)
	default:
		return apperrors.Validationf("unsupported notification target type")
	}
}

func (s *NotificationService) ListAll(userID uint) ([]models.Notification, error) {
	var out []models.Notification
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *NotificationService) ListUnread(userID uint) ([]models.Notification, error) {
	var out []models.Notification
	err := s.db.Where("user_id = ? AND read = false", userID).Order("created_at DESC").Find(&out).Error
	return out, err
}

func (s *NotificationService) UnreadCount(userID uint) (int64, error) {
	var count int64
	err := s.db.Model(&models.Notification{}).Where("user_id = ? AND read = false", userID).Count(&count).Error
	return count, err
}

// MarkRead flips the read flag on one notification. The identifier can be
// the generated NotificationID or the row ID; both are tried scoped to the
// requesting user.
func (s *NotificationService) MarkRead(userID uint, id string) error {
	var n models.Notification
	err := s.db.Where("user_id = ? AND (notification_id = ? OR CAST(id AS TEXT) = ?)", userID, id, id).First(&n).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFoundf("notification %s", id)
		}
		return err
	}
	return s.db.Model(&n).UpdateColumn("read", true).Error
}

// MarkAllRead returns how many rows the call flipped; a repeat call
// reports zero.
func (s *NotificationService) MarkAllRead(userID uint) (int64, error) {
	res := s.db.Model(&models.Notification{}).
		Where("user_id = ? AND read = false", userID).
		UpdateColumn("read", true)
	return res.RowsAffected, res.Error
}

// DeleteRead bulk-clears every read notification for the user.
func (s *NotificationService) DeleteRead(userID uint) (int64, error) {
	res := s.db.Where("user_id = ? AND read = true", userID).Delete(&models.Notification{})
	return res.RowsAffected, res.Error
}
