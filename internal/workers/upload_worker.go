package workers

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"contacts_backend/internal/logger"
)

// UploadCleanupWorker удаляет временные файлы аватаров, оставшиеся
// после аварийно прерванных запросов
type UploadCleanupWorker struct {
	dir      string
	maxAge   time.Duration
	interval time.Duration
}

func NewUploadCleanupWorker(dir string) *UploadCleanupWorker {
	return &UploadCleanupWorker{
		dir:      dir,
		maxAge:   time.Hour,
		interval: 15 * time.Minute,
	}
}

func (w *UploadCleanupWorker) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("Upload cleanup worker stopped")
				return
			case now := <-ticker.C:
				w.RunOnce(now)
			}
		}
	}()
}

// RunOnce удаляет только файлы с префиксом avatar-, старше maxAge
func (w *UploadCleanupWorker) RunOnce(now time.Time) int {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read upload temp dir", "dir", w.dir, "error", err)
		}
		return 0
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), "avatar-") {
			continue
		}
		info, err := entry.Info()
		if err != nil || now.Sub(info.ModTime()) < w.maxAge {
			continue
		}
		if err := os.Remove(filepath.Join(w.dir, entry.Name())); err != nil {
			logger.Warn("Failed to remove stale upload", "file", entry.Name(), "error", err)
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info("Removed stale uploads", "count", removed)
	}
	return removed
}
