package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/hlra-health/profilesync/profiles"
)

const (
	FileName = "profiles.json"

	lockRetryDelay = 50 * time.Millisecond
)

// FileCache stores one JSON document per account under <dir>/<accountId>/profiles.json.
// Writes go to a temporary file that is renamed over the previous version, and a file lock
// serializes writers across processes sharing the directory.
type FileCache struct {
	dir    string
	logger *zap.SugaredLogger
}

var _ profiles.Cache = &FileCache{}

func NewFileCache(dir string, logger *zap.SugaredLogger) (*FileCache, error) {
	if dir == "" {
		return nil, fmt.Errorf("cache directory is required")
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("unable to create cache directory: %w", err)
	}
	return &FileCache{dir: dir, logger: logger}, nil
}

func (f *FileCache) path(accountId string) string {
	return filepath.Join(f.dir, accountId, FileName)
}

func (f *FileCache) lock(ctx context.Context, accountId string, shared bool) (*flock.Flock, error) {
	accountDir := filepath.Join(f.dir, accountId)
	if err := os.MkdirAll(accountDir, 0750); err != nil {
		return nil, fmt.Errorf("unable to create cache directory for account %s: %w", accountId, err)
	}

	fl := flock.New(f.path(accountId) + ".lock")
	var locked bool
	var err error
	if shared {
		locked, err = fl.TryRLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = fl.TryLockContext(ctx, lockRetryDelay)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to lock cache for account %s: %w", accountId, err)
	}
	if !locked {
		return nil, fmt.Errorf("unable to lock cache for account %s", accountId)
	}
	return fl, nil
}

func (f *FileCache) unlock(fl *flock.Flock) {
	if err := fl.Unlock(); err != nil {
		f.logger.Warnw("unable to release cache lock", "path", fl.Path(), "error", err)
	}
}

func (f *FileCache) Load(ctx context.Context, accountId string) (*profiles.ProfileSet, error) {
	if err := validateAccountId(accountId); err != nil {
		return nil, err
	}
	if _, err := os.Stat(f.path(accountId)); os.IsNotExist(err) {
		return nil, nil
	}

	fl, err := f.lock(ctx, accountId, true)
	if err != nil {
		return nil, err
	}
	defer f.unlock(fl)

	// #nosec G304 -- the path is built from the cache directory and a validated account id
	data, err := os.ReadFile(f.path(accountId))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("unable to read cached profiles of account %s: %w", accountId, err)
	}

	set := &profiles.ProfileSet{}
	if err := json.Unmarshal(data, set); err != nil {
		return nil, fmt.Errorf("unable to decode cached profiles of account %s: %w", accountId, err)
	}
	return set, nil
}

func (f *FileCache) Save(ctx context.Context, set profiles.ProfileSet) error {
	if err := validateAccountId(set.AccountId); err != nil {
		return err
	}

	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("unable to encode profiles of account %s: %w", set.AccountId, err)
	}

	fl, err := f.lock(ctx, set.AccountId, false)
	if err != nil {
		return err
	}
	defer f.unlock(fl)

	path := f.path(set.AccountId)
	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		return fmt.Errorf("unable to write cached profiles of account %s: %w", set.AccountId, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("unable to replace cached profiles of account %s: %w", set.AccountId, err)
	}
	return nil
}

func (f *FileCache) Delete(ctx context.Context, accountId string) error {
	if err := validateAccountId(accountId); err != nil {
		return err
	}
	accountDir := filepath.Join(f.dir, accountId)
	if _, err := os.Stat(accountDir); os.IsNotExist(err) {
		return nil
	}

	fl, err := f.lock(ctx, accountId, false)
	if err != nil {
		return err
	}
	defer f.unlock(fl)

	if err := os.Remove(f.path(accountId)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unable to delete cached profiles of account %s: %w", accountId, err)
	}
	return nil
}
