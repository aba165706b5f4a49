// Package cleanup removes stale resume files from the local resume
// directory.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"adsbot/pkg/storage"
)

const (
	defaultMaxAge      = 24 * time.Hour
	defaultInterval    = 6 * time.Hour
	defaultOrphanGrace = 30 * time.Minute
)

// Files is the directory being swept.
type Files interface {
	List() ([]storage.FileInfo, error)
	Remove(path string) error
}

// References reports the file paths still attached to live ads.
type References interface {
	ListActiveFilePaths() ([]string, error)
}

type Config struct {
	Files       Files
	Ads         References
	MaxAge      time.Duration
	OrphanGrace time.Duration
	Interval    time.Duration
}

// Result summarizes one pass.
type Result struct {
	Deleted    int
	BytesFreed int64
	Errors     []string
}

func (r *Result) merge(o Result) {
	r.Deleted += o.Deleted
	r.BytesFreed += o.BytesFreed
	r.Errors = append(r.Errors, o.Errors...)
}

type Sweeper struct {
	files       Files
	ads         References
	maxAge      time.Duration
	orphanGrace time.Duration
	interval    time.Duration
	now         func() time.Time
}

func New(cfg Config) (*Sweeper, error) {
	if cfg.Files == nil {
		return nil, errors.New("cleanup: files are required")
	}
	s := &Sweeper{
		files:       cfg.Files,
		ads:         cfg.Ads,
		maxAge:      cfg.MaxAge,
		orphanGrace: cfg.OrphanGrace,
		interval:    cfg.Interval,
		now:         time.Now,
	}
	if s.maxAge <= 0 {
		s.maxAge = defaultMaxAge
	}
	if s.orphanGrace <= 0 {
		s.orphanGrace = defaultOrphanGrace
	}
	if s.interval <= 0 {
		s.interval = defaultInterval
	}
	return s, nil
}

// CleanupOld removes every file older than the retention age.
func (s *Sweeper) CleanupOld() (Result, error) {
	files, err := s.files.List()
	if err != nil {
		return Result{}, fmt.Errorf("list files: %w", err)
	}
	cutoff := s.now().Add(-s.maxAge)
	var res Result
	for _, f := range files {
		if f.ModTime.Before(cutoff) {
			s.remove(f, &res)
		}
	}
	return res, nil
}

// CleanupOrphans removes files no live ad references once they are past
// the grace period. Younger files may belong to an upload in progress.
func (s *Sweeper) CleanupOrphans() (Result, error) {
	if s.ads == nil {
		return Result{}, nil
	}
	paths, err := s.ads.ListActiveFilePaths()
	if err != nil {
		return Result{}, fmt.Errorf("list referenced files: %w", err)
	}
	referenced := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		referenced[filepath.Clean(p)] = struct{}{}
	}
	files, err := s.files.List()
	if err != nil {
		return Result{}, fmt.Errorf("list files: %w", err)
	}
	cutoff := s.now().Add(-s.orphanGrace)
	var res Result
	for _, f := range files {
		if _, ok := referenced[filepath.Clean(f.Path)]; ok {
			continue
		}
		if f.ModTime.Before(cutoff) {
			s.remove(f, &res)
		}
	}
	return res, nil
}

func (s *Sweeper) remove(f storage.FileInfo, res *Result) {
	if err := s.files.Remove(f.Path); err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("%s: %v", filepath.Base(f.Path), err))
		return
	}
	res.Deleted++
	res.BytesFreed += f.Size
}

// Sweep runs both passes and logs the combined result.
func (s *Sweeper) Sweep() Result {
	var res Result
	old, err := s.CleanupOld()
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
	}
	res.merge(old)
	orphans, err := s.CleanupOrphans()
	if err != nil {
		res.Errors = append(res.Errors, err.Error())
	}
	res.merge(orphans)

	if len(res.Errors) > 0 {
		slog.Warn("file cleanup finished with errors", "deleted", res.Deleted, "bytes_freed", res.BytesFreed, "errors", res.Errors)
	} else {
		slog.Info("file cleanup finished", "deleted", res.Deleted, "bytes_freed", res.BytesFreed)
	}
	return res
}

// Run sweeps once immediately and then on every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	s.Sweep()
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Sweep()
		}
	}
}
