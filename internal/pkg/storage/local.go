package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	log "log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage keeps files under basePath, served by the router at /uploads
type LocalStorage struct {
	basePath string
	baseURL  string
}

func NewLocalStorage(basePath, publicURL string) (*LocalStorage, error) {
	for _, dir := range []string{"images", "shorts", "films"} {
		if err := os.MkdirAll(filepath.Join(basePath, dir), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create upload dir: %w", err)
		}
	}
	return &LocalStorage{basePath: basePath, baseURL: joinURL(publicURL, "uploads")}, nil
}

func (s *LocalStorage) Kind() string { return "local" }

func (s *LocalStorage) BasePath() string { return s.basePath }

func (s *LocalStorage) Put(ctx context.Context, key string, r io.Reader, _ int64, _ string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err = os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("failed to create dir: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, r); err != nil {
		_ = os.Remove(fullPath)
		return fmt.Errorf("failed to save file: %w", err)
	}

	log.DebugContext(ctx, "file stored", "path", fullPath)
	return nil
}

func (s *LocalStorage) Delete(_ context.Context, key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err = os.Remove(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *LocalStorage) Locate(_ context.Context, key string, _ time.Duration) (*Location, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	if _, err = os.Stat(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &Location{Path: fullPath}, nil
}

func (s *LocalStorage) URL(key string) string {
	return joinURL(s.baseURL, key)
}

// resolve maps key inside basePath, refusing anything that escapes it
func (s *LocalStorage) resolve(key string) (string, error) {
	key = NormalizeKey(key)
	if key == "" {
		return "", fmt.Errorf("empty storage key")
	}
	base, err := filepath.Abs(s.basePath)
	if err != nil {
		return "", err
	}
	full := filepath.Join(base, filepath.FromSlash(key))
	if full != base && !strings.HasPrefix(full, base+string(filepath.Separator)) {
		return "", fmt.Errorf("storage key %q escapes base path", key)
	}
	return full, nil
}
