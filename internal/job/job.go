package job

import (
	"Blips/internal/pkg/logger"
	"Blips/internal/service"
	"context"
	log "log/slog"
	"time"

	"github.com/google/uuid"
)

// exclusive runs fn only if this instance wins the lock for key
func exclusive(name string, locker service.Locker, key string, ttl time.Duration, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(logger.NewTraceContext(name), ttl)
	defer cancel()

	owner := uuid.NewString()
	ok, err := locker.TryLock(ctx, key, owner, ttl)
	if err != nil {
		log.ErrorContext(ctx, "job lock failed", "job", name, "err", err)
		return
	}
	if !ok {
		log.DebugContext(ctx, "job already running elsewhere", "job", name)
		return
	}
	defer func() {
		if err := locker.Unlock(context.WithoutCancel(ctx), key, owner); err != nil {
			log.WarnContext(ctx, "job unlock failed", "job", name, "err", err)
		}
	}()

	start := time.Now()
	log.InfoContext(ctx, "job started", "job", name)
	if err = fn(ctx); err != nil {
		log.ErrorContext(ctx, "job failed", "job", name, "err", err, "elapsed", time.Since(start))
		return
	}
	log.InfoContext(ctx, "job finished", "job", name, "elapsed", time.Since(start))
}
