package task

import (
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"sweeparcade/models"
)

// PurgeExpiredNotifications enforces the 30 day notification TTL.
func PurgeExpiredNotifications(db *gorm.DB) {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.Notification{})
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("failed to purge expired notifications")
	} else if result.RowsAffected > 0 {
		log.Info().Int64("count", result.RowsAffected).Msg("purged expired notifications")
	}
}

// PurgeStaleOTPs removes codes that expired more than a day ago; recent
// expired rows stay so the hourly send cap still counts them.
func PurgeStaleOTPs(db *gorm.DB) {
	dayAgo := time.Now().Add(-24 * time.Hour)
	result := db.Where("expires_at < ?", dayAgo).Delete(&models.OTP{})
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("failed to purge stale OTPs")
	} else if result.RowsAffected > 0 {
		log.Info().Int64("count", result.RowsAffected).Msg("purged stale OTPs")
	}
}

// PurgeExpiredSessions drops sessions past their expiry.
func PurgeExpiredSessions(db *gorm.DB) {
	result := db.Where("expires_at < ?", time.Now()).Delete(&models.Session{})
	if result.Error != nil {
		log.Error().Err(result.Error).Msg("failed to purge expired sessions")
	} else if result.RowsAffected > 0 {
		log.Info().Int64("count", result.RowsAffected).Msg("purged expired sessions")
	}
}
