// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lock

import (
	"errors"
	"fmt"
)

// Sentinel errors for run lock operations.
var (
	// ErrFileLocked indicates another benchmark run holds the lock.
	ErrFileLocked = errors.New("lock is held by another process")

	// ErrLockNotHeld indicates a release of a lock this process never acquired.
	ErrLockNotHeld = errors.New("lock not held by this process")
)

// FileLockError reports a lock conflict together with what is known about
// the current holder.
//
// # Fields
//
//   - Path: The lock file that is held.
//   - Holder: The recorded holder, nil when the lock file was unreadable.
//   - Err: The underlying error, typically ErrFileLocked.
type FileLockError struct {
	Path   string
	Holder *Holder
	Err    error
}

// Error returns a human-readable error message.
func (e *FileLockError) Error() string {
	if e.Holder != nil {
		return fmt.Sprintf("lock %s is held by PID %d (run %s) since %s: %v",
			e.Path, e.Holder.PID, e.Holder.RunID,
			e.Holder.StartedAt.Format("15:04:05"), e.Err)
	}
	return fmt.Sprintf("lock %s is held: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *FileLockError) Unwrap() error {
	return e.Err
}
