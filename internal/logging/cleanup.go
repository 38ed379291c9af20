package logging

import (
	"log/slog"
	"time"

	"github.com/kirankshetty/Hackathon-sub000/internal/models"
	"gorm.io/gorm"
)

// PurgeSystemLogs deletes persisted log rows written before cutoff.
func PurgeSystemLogs(db *gorm.DB, cutoff time.Time) (int64, error) {
	res := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return res.RowsAffected, res.Error
}

// StartCleanup purges system logs older than retention once at start and
// then every interval until done is closed.
func StartCleanup(db *gorm.DB, retention, interval time.Duration, done <-chan struct{}) {
	purge := func() {
		n, err := PurgeSystemLogs(db, time.Now().Add(-retention))
		if err != nil {
			slog.Warn("system log purge failed", "error", err)
			return
		}
		if n > 0 {
			slog.Info("system logs purged", "deleted", n, "retention", retention.String())
		}
	}

	go func() {
		purge()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				purge()
			case <-done:
				return
			}
		}
	}()
}
