package job

import (
	"Blips/internal/pkg/storage"
	"Blips/internal/repository/mocks"
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type memLocker struct {
	mu    sync.Mutex
	held  map[string]string
	calls int
}

func (l *memLocker) TryLock(_ context.Context, key, owner string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.held == nil {
		l.held = map[string]string{}
	}
	if _, ok := l.held[key]; ok {
		return false, nil
	}
	l.held[key] = owner
	return true, nil
}

func (l *memLocker) Unlock(_ context.Context, key, owner string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] == owner {
		delete(l.held, key)
	}
	return nil
}

type memRegistry struct {
	expired  []string
	released []string
}

func (r *memRegistry) Track(context.Context, string, string) error { return nil }

func (r *memRegistry) Release(_ context.Context, keys ...string) error {
	r.released = append(r.released, keys...)
	return nil
}

func (r *memRegistry) Expired(context.Context, time.Duration) ([]string, error) {
	return r.expired, nil
}

type memStorage struct {
	deleted []string
}

func (s *memStorage) Kind() string { return "mem" }

func (s *memStorage) Put(context.Context, string, io.Reader, int64, string) error { return nil }

func (s *memStorage) Delete(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memStorage) Locate(context.Context, string, time.Duration) (*storage.Location, error) {
	return nil, storage.ErrNotFound
}

func (s *memStorage) URL(key string) string { return "/uploads/" + key }

func TestCounterReconcileJob(t *testing.T) {
	contents := new(mocks.MockContentRepo)
	comments := new(mocks.MockCommentRepo)
	locker := &memLocker{}

	counts := map[primitive.ObjectID]int64{primitive.NewObjectID(): 3}
	contents.On("ReconcileMembershipCounters", mock.Anything).Return(int64(2), nil).Once()
	comments.On("ReconcileLikeCounters", mock.Anything).Return(int64(0), nil).Once()
	comments.On("CountAllByContent", mock.Anything).Return(counts, nil).Once()
	contents.On("SetCommentCounts", mock.Anything, counts).Return(int64(1), nil).Once()

	NewCounterReconcileJob(contents, comments, locker).Run()

	contents.AssertExpectations(t)
	comments.AssertExpectations(t)
	assert.Empty(t, locker.held)
}

func TestCounterReconcileJob_SkipsWhenLocked(t *testing.T) {
	contents := new(mocks.MockContentRepo)
	locker := &memLocker{held: map[string]string{"lock:job:counter-reconcile": "other"}}

	NewCounterReconcileJob(contents, new(mocks.MockCommentRepo), locker).Run()

	contents.AssertNotCalled(t, "ReconcileMembershipCounters", mock.Anything)
	assert.Equal(t, "other", locker.held["lock:job:counter-reconcile"])
}

func TestUploadCleanupJob(t *testing.T) {
	registry := &memRegistry{expired: []string{"shorts/a.mp4", "images/b.png"}}
	store := &memStorage{}
	contents := new(mocks.MockContentRepo)
	contents.On("ReferencesFile", mock.Anything, mock.Anything).Return(false, nil)

	err := NewUploadCleanupJob(registry, contents, store, &memLocker{}, time.Hour).Cleanup(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"shorts/a.mp4", "images/b.png"}, store.deleted)
	assert.ElementsMatch(t, []string{"shorts/a.mp4", "images/b.png"}, registry.released)
}

func TestUploadCleanupJob_KeepsReferencedFiles(t *testing.T) {
	registry := &memRegistry{expired: []string{"shorts/live.mp4", "images/orphan.png", "films/unknown.mp4"}}
	store := &memStorage{}
	contents := new(mocks.MockContentRepo)
	contents.On("ReferencesFile", mock.Anything, "shorts/live.mp4").Return(true, nil)
	contents.On("ReferencesFile", mock.Anything, "images/orphan.png").Return(false, nil)
	contents.On("ReferencesFile", mock.Anything, "films/unknown.mp4").Return(false, errors.New("db down"))

	err := NewUploadCleanupJob(registry, contents, store, &memLocker{}, time.Hour).Cleanup(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"images/orphan.png"}, store.deleted)
	assert.ElementsMatch(t, []string{"shorts/live.mp4", "images/orphan.png"}, registry.released)
	contents.AssertExpectations(t)
}
