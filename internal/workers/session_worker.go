package workers

import (
	"context"
	"time"

	"contacts_backend/internal/logger"
	"contacts_backend/internal/repositories"

	"gorm.io/gorm"
)

// SessionWorker гасит сохраненные токены, срок которых уже истек
type SessionWorker struct {
	db       *gorm.DB
	userRepo repositories.UserRepository
	ttl      time.Duration
	interval time.Duration
}

func NewSessionWorker(db *gorm.DB, userRepo repositories.UserRepository, ttl time.Duration) *SessionWorker {
	return &SessionWorker{
		db:       db,
		userRepo: userRepo,
		ttl:      ttl,
		interval: time.Hour,
	}
}

// Start запускает очистку раз в час до отмены ctx
func (w *SessionWorker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("Session worker stopped")
				return
			case now := <-ticker.C:
				w.RunOnce(ctx, now)
			}
		}
	}()
}

func (w *SessionWorker) RunOnce(ctx context.Context, now time.Time) int64 {
	cleared, err := w.userRepo.ClearExpiredSessions(w.db.WithContext(ctx), now.Add(-w.ttl))
	if err != nil {
		logger.Error("Error clearing expired sessions", "error", err)
		return 0
	}
	if cleared > 0 {
		logger.Info("Cleared expired sessions", "count", cleared)
	}
	return cleared
}
