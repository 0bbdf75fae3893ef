package job

import (
	"Blips/internal/pkg/consts"
	"Blips/internal/pkg/storage"
	"Blips/internal/repository"
	"Blips/internal/service"
	"context"
	log "log/slog"
	"time"
)

// UploadCleanupJob deletes stored uploads that never became a Content within ttl
type UploadCleanupJob struct {
	uploads     service.UploadRegistry
	contentRepo repository.ContentRepo
	store       storage.Storage
	locker      service.Locker
	ttl         time.Duration
}

func NewUploadCleanupJob(uploads service.UploadRegistry, contentRepo repository.ContentRepo, store storage.Storage, locker service.Locker, ttl time.Duration) *UploadCleanupJob {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &UploadCleanupJob{uploads: uploads, contentRepo: contentRepo, store: store, locker: locker, ttl: ttl}
}

func (s *UploadCleanupJob) Run() {
	exclusive("upload_cleanup", s.locker, consts.UploadCleanupLock, 10*time.Minute, s.Cleanup)
}

// Cleanup removes expired registry entries. A key that a Content still points at only loses
// its registry entry; the file stays.
func (s *UploadCleanupJob) Cleanup(ctx context.Context) error {
	keys, err := s.uploads.Expired(ctx, s.ttl)
	if err != nil {
		return err
	}

	count := 0
	for _, key := range keys {
		referenced, err := s.contentRepo.ReferencesFile(ctx, key)
		if err != nil {
			log.ErrorContext(ctx, "failed to check upload references", "key", key, "err", err)
			continue
		}
		if !referenced {
			if err = storage.DeleteQuietly(ctx, s.store, key); err != nil {
				log.ErrorContext(ctx, "failed to delete expired upload", "key", key, "err", err)
				continue
			}
		} else {
			log.WarnContext(ctx, "expired upload is in use, keeping file", "key", key)
		}
		if err = s.uploads.Release(ctx, key); err != nil {
			log.ErrorContext(ctx, "failed to release upload", "key", key, "err", err)
			continue
		}
		if !referenced {
			count++
		}
	}

	if count > 0 {
		log.InfoContext(ctx, "expired uploads removed", "count", count)
	}
	return nil
}
