package job

import (
	"Blips/internal/pkg/consts"
	"Blips/internal/repository"
	"Blips/internal/service"
	"context"
	"fmt"
	log "log/slog"
	"time"
)

// CounterReconcileJob rewrites drifted like/save/comment counters from their source of truth
type CounterReconcileJob struct {
	contentRepo repository.ContentRepo
	commentRepo repository.CommentRepo
	locker      service.Locker
}

func NewCounterReconcileJob(contentRepo repository.ContentRepo, commentRepo repository.CommentRepo, locker service.Locker) *CounterReconcileJob {
	return &CounterReconcileJob{contentRepo: contentRepo, commentRepo: commentRepo, locker: locker}
}

func (s *CounterReconcileJob) Run() {
	exclusive("counter_reconcile", s.locker, consts.CounterReconcileLock, 10*time.Minute, s.Reconcile)
}

func (s *CounterReconcileJob) Reconcile(ctx context.Context) error {
	fixed, err := s.contentRepo.ReconcileMembershipCounters(ctx)
	if err != nil {
		return fmt.Errorf("membership counters: %w", err)
	}

	commentLikes, err := s.commentRepo.ReconcileLikeCounters(ctx)
	if err != nil {
		return fmt.Errorf("comment likes: %w", err)
	}

	counts, err := s.commentRepo.CountAllByContent(ctx)
	if err != nil {
		return fmt.Errorf("count comments: %w", err)
	}
	comments, err := s.contentRepo.SetCommentCounts(ctx, counts)
	if err != nil {
		return fmt.Errorf("comment counters: %w", err)
	}

	if fixed+commentLikes+comments > 0 {
		log.InfoContext(ctx, "counters reconciled", "content", fixed, "comment_likes", commentLikes, "comment_counts", comments)
	}
	return nil
}
