package jobs

import (
	"time"

	"gorm.io/gorm"

	"sweeparcade/task"
)

// StartCleanupScheduler runs the TTL purges in the background for the
// process lifetime.
func StartCleanupScheduler(db *gorm.DB) {
	tickerNotifications := time.NewTicker(1 * time.Hour)
	go func() {
		for {
			<-tickerNotifications.C
			task.PurgeExpiredNotifications(db)
		}
	}()

	tickerAuth := time.NewTicker(15 * time.Minute)
	go func() {
		for {
			<-tickerAuth.C
			task.PurgeStaleOTPs(db)
			task.PurgeExpiredSessions(db)
		}
	}()
}
