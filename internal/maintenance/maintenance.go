// Package maintenance runs the storefront's background housekeeping:
// evicting idle carts from memory and taking daily storage backups.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/greenfield-poultry/farmshop/internal/storage"
)

const backupPrefix = "farmshop-carts-"

// ErrBackupUnsupported is returned when the storage backend cannot snapshot itself.
var ErrBackupUnsupported = errors.New("maintenance: storage backend does not support backups")

// Sweeper drops idle in-memory state.
type Sweeper interface {
	Sweep(maxIdle time.Duration) int
}

// Options configures the maintenance loops.
type Options struct {
	SweepInterval time.Duration
	IdleTTL       time.Duration
	BackupDir     string
	Retention     time.Duration // backups older than this are pruned
	BackupHour    int           // local hour of the daily backup
}

// Service manages background maintenance goroutines.
type Service struct {
	store   storage.Store
	sweeper Sweeper
	opts    Options
	now     func() time.Time
}

// New creates a new maintenance Service.
func New(store storage.Store, sweeper Sweeper, opts Options) *Service {
	if opts.Retention <= 0 {
		opts.Retention = 30 * 24 * time.Hour
	}
	if opts.BackupHour < 0 || opts.BackupHour > 23 {
		opts.BackupHour = 2
	}
	return &Service{store: store, sweeper: sweeper, opts: opts, now: time.Now}
}

// Start launches the sweep and backup loops and blocks until ctx is
// cancelled and both have returned.
func (s *Service) Start(ctx context.Context) {
	var wg sync.WaitGroup
	if s.sweeper != nil && s.opts.SweepInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runSweep(ctx)
		}()
	}
	if _, ok := s.store.(storage.Backuper); ok && s.opts.BackupDir != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.runBackup(ctx)
		}()
	} else {
		slog.Info("maintenance: daily backups disabled for this storage backend")
	}

	<-ctx.Done()
	wg.Wait()
}

// runSweep evicts idle carts every SweepInterval.
func (s *Service) runSweep(ctx context.Context) {
	ticker := time.NewTicker(s.opts.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.sweeper.Sweep(s.opts.IdleTTL); n > 0 {
				slog.Info("maintenance: evicted idle carts", "count", n)
			}
		}
	}
}

// runBackup performs daily backups at BackupHour.
func (s *Service) runBackup(ctx context.Context) {
	for {
		timer := time.NewTimer(untilHour(s.now(), s.opts.BackupHour))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			path, err := s.RunBackupNow(ctx)
			if err != nil {
				slog.Error("maintenance: backup failed", "err", err)
			} else {
				slog.Info("maintenance: backup created", "file", path)
			}
		}
	}
}

// untilHour returns the wait from now until the next occurrence of hour:00.
func untilHour(now time.Time, hour int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

// RunBackupNow writes a dated snapshot into BackupDir, prunes expired
// snapshots, and returns the new file's path.
func (s *Service) RunBackupNow(ctx context.Context) (string, error) {
	b, ok := s.store.(storage.Backuper)
	if !ok {
		return "", ErrBackupUnsupported
	}
	if err := os.MkdirAll(s.opts.BackupDir, 0755); err != nil {
		return "", fmt.Errorf("maintenance: create backup dir: %w", err)
	}

	name := backupPrefix + s.now().Format("2006-01-02") + b.BackupExt()
	dest := filepath.Join(s.opts.BackupDir, name)
	tmp, err := os.CreateTemp(s.opts.BackupDir, name+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("maintenance: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := b.Backup(ctx, tmp); err != nil {
		tmp.Close()
		return "", fmt.Errorf("maintenance: snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}
	if err := os.Rename(tmp.Name(), dest); err != nil {
		return "", err
	}

	pruneOldBackups(s.opts.BackupDir, s.now().Add(-s.opts.Retention))
	return dest, nil
}

// ListBackups returns backup files in dir sorted by name (oldest first).
func ListBackups(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}

	files := []string{}
	for _, e := range entries {
		if !e.IsDir() && isBackup(e.Name()) {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	return files, nil
}

func isBackup(name string) bool {
	return strings.HasPrefix(name, backupPrefix) && !strings.HasSuffix(name, ".tmp")
}

// pruneOldBackups deletes backup files last modified before cutoff.
func pruneOldBackups(backupDir string, cutoff time.Time) {
	entries, err := os.ReadDir(backupDir)
	if err != nil {
		return
	}

	for _, e := range entries {
		if e.IsDir() || !isBackup(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			path := filepath.Join(backupDir, e.Name())
			if err := os.Remove(path); err != nil {
				slog.Warn("maintenance: failed to prune old backup", "file", path, "err", err)
			} else {
				slog.Info("maintenance: pruned old backup", "file", path)
			}
		}
	}
}
