package logic

import (
	"context"
	"fed_core/shared"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"time"
)

const profilerStartDelaySec = 10
const profilerLoopSec = 60

// IProfiler periodically dumps goroutine stacks to disk, to catch leaking workers and stuck deliveries.
type IProfiler interface {
	Start()
	Stop()
}

type profiler struct {
	logger          shared.ILogger
	profileDir      string
	profileKeepDays int
	cancel          context.CancelFunc
}

func NewProfiler(cfg *shared.Config, logger shared.ILogger) IProfiler {
	return &profiler{
		logger:          logger,
		profileDir:      cfg.ProfileDir,
		profileKeepDays: cfg.ProfileKeepDays,
	}
}

func (prof *profiler) Start() {
	if prof.profileDir == "" {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	prof.cancel = cancel
	go prof.loop(ctx)
}

func (prof *profiler) Stop() {
	if prof.cancel != nil {
		prof.cancel()
	}
}

func (prof *profiler) loop(ctx context.Context) {
	delay := profilerStartDelaySec * time.Second
	for {
		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
		if err := prof.saveProfileAndPurgeOld(); err != nil {
			prof.logger.Warnf("Failed to save goroutine profile: %v", err)
		}
		delay = profilerLoopSec * time.Second
	}
}

func (prof *profiler) saveProfileAndPurgeOld() error {
	if err := saveProfile(prof.profileDir); err != nil {
		return err
	}
	return purgeOld(prof.profileDir, prof.profileKeepDays)
}

func saveProfile(profileDir string) error {
	ts := time.Now().Format("2006-01-02!15-04-05")
	profPath := filepath.Join(profileDir, fmt.Sprintf("%v.txt", ts))
	f, err := os.Create(profPath)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err = fmt.Fprintf(f, "Goroutine count: %d\n\n", runtime.NumGoroutine()); err != nil {
		return err
	}
	return pprof.Lookup("goroutine").WriteTo(f, 2)
}

func purgeOld(profileDir string, retentionDays int) error {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.Walk(profileDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && info.ModTime().Before(cutoff) {
			return os.Remove(path)
		}
		return nil
	})
}
