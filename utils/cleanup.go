package utils

import (
	"time"

	"gorm.io/gorm"
)

// StartSessionSweeper launches a background loop that deletes expired
// sessions. Login rows are small but a 30-day TTL accumulates; sweeping
// keeps the auth lookup index tight.
func StartSessionSweeper(db *gorm.DB, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			res := db.Exec("DELETE FROM sessions WHERE expires_at < ?", time.Now())
			if res.Error != nil {
				if Sugar != nil {
					Sugar.Warnf("session sweep failed: %v", res.Error)
				}
				continue
			}
			if res.RowsAffected > 0 && Sugar != nil {
				Sugar.Infof("session sweep removed %d expired sessions", res.RowsAffected)
			}
		}
	}()
}
