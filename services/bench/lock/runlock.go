// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package lock serializes benchmark batches over a catalog root.
//
// Two concurrent batches over the same programs would share bin/
// directories and, worse, share the machine while timing. The run lock
// makes the second invocation fail fast with a message naming the holder
// instead of silently corrupting both runs.
package lock

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// LockFileName is the lock file created in the catalog root.
const LockFileName = ".sandbench.lock"

// Holder identifies the process that owns a run lock. It is recorded as
// JSON inside the lock file so a conflicting invocation can say who is
// in the way.
type Holder struct {
	PID       int       `json:"pid"`
	RunID     string    `json:"run_id"`
	StartedAt time.Time `json:"started_at"`
}

// RunLock is an exclusive lock over one catalog root, backed by an
// advisory lock on the lock file itself.
//
// # Description
//
// The flock is held by the open file handle, so the kernel releases it
// when the process exits for any reason. A leftover holder record with
// no flock behind it is therefore always stale and is replaced on the
// next acquire.
//
// # Thread Safety
//
// A RunLock is owned by the goroutine that acquired it. Release must not
// be called concurrently with itself.
type RunLock struct {
	path   string
	file   *os.File
	locker FileLocker
	logger *slog.Logger
}

// Acquire takes the run lock for the catalog root.
//
// # Description
//
// Creates or opens <root>/.sandbench.lock, takes a non-blocking
// exclusive lock on it, and records this process as the holder. When
// another process holds the lock the returned error is a *FileLockError
// wrapping ErrFileLocked and naming the holder.
//
// # Inputs
//
//   - root: Catalog root directory, which must exist.
//   - runID: Identifier recorded in the holder info.
//   - logger: Structured logger, nil for slog.Default().
//
// # Outputs
//
//   - *RunLock: The held lock. Release it when the batch finishes.
//   - error: Non-nil when the lock is held elsewhere or the file is
//     inaccessible.
func Acquire(root, runID string, logger *slog.Logger) (*RunLock, error) {
	if logger == nil {
		logger = slog.Default()
	}
	path := filepath.Join(root, LockFileName)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening lock file %s: %w", path, err)
	}

	locker := newFileLocker()
	if err := locker.Lock(f); err != nil {
		f.Close()
		if errors.Is(err, ErrFileLocked) {
			return nil, &FileLockError{
				Path:   path,
				Holder: readHolder(path),
				Err:    ErrFileLocked,
			}
		}
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}

	// Winning the flock means any recorded holder already exited; the
	// kernel would have blocked us otherwise.
	if stale := readHolder(path); stale != nil {
		logger.Warn("Replacing stale run lock",
			slog.String("path", path),
			slog.Int("stale_pid", stale.PID),
			slog.String("stale_run_id", stale.RunID),
			slog.Bool("process_alive", IsProcessAlive(stale.PID)),
		)
	}

	holder := Holder{
		PID:       os.Getpid(),
		RunID:     runID,
		StartedAt: time.Now().UTC(),
	}
	if err := writeHolder(f, holder); err != nil {
		_ = locker.Unlock(f)
		f.Close()
		return nil, fmt.Errorf("recording lock holder in %s: %w", path, err)
	}

	logger.Debug("Acquired run lock",
		slog.String("path", path),
		slog.String("run_id", runID))

	return &RunLock{
		path:   path,
		file:   f,
		locker: locker,
		logger: logger,
	}, nil
}

// Path returns the lock file location.
func (l *RunLock) Path() string {
	return l.path
}

// Release drops the lock and clears the holder record.
//
// # Description
//
// The holder record is truncated before the flock is dropped so no
// reader ever sees this process listed without the lock behind it. The
// empty lock file stays behind; without a flock it locks nothing.
// Releasing twice returns ErrLockNotHeld.
func (l *RunLock) Release() error {
	if l == nil || l.file == nil {
		return ErrLockNotHeld
	}

	truncErr := l.file.Truncate(0)
	unlockErr := l.locker.Unlock(l.file)
	closeErr := l.file.Close()
	l.file = nil

	l.logger.Debug("Released run lock", slog.String("path", l.path))

	if truncErr != nil {
		return fmt.Errorf("clearing lock file %s: %w", l.path, truncErr)
	}
	if unlockErr != nil {
		return fmt.Errorf("unlocking %s: %w", l.path, unlockErr)
	}
	if closeErr != nil {
		return fmt.Errorf("closing %s: %w", l.path, closeErr)
	}
	return nil
}

// readHolder parses the holder record, returning nil when the file is
// missing, empty, or corrupt. A corrupt record is not fatal; it only
// degrades the conflict message.
func readHolder(path string) *Holder {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return nil
	}
	var h Holder
	if err := json.Unmarshal(data, &h); err != nil {
		return nil
	}
	return &h
}

// writeHolder replaces the file contents with the holder record.
func writeHolder(f *os.File, h Holder) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	if err := f.Truncate(0); err != nil {
		return err
	}
	if _, err := f.WriteAt(data, 0); err != nil {
		return err
	}
	return f.Sync()
}
