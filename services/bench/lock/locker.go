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
	"os"
)

// FileLocker abstracts platform-specific file locking.
//
// # Description
//
// Unix uses advisory flock(2), Windows uses LockFileEx. Locks are held by
// the open file handle and evaporate when the owning process exits, which
// is what makes crash recovery automatic.
//
// # Thread Safety
//
// Implementations must be safe for concurrent use on different files.
type FileLocker interface {
	// Lock acquires an exclusive, non-blocking lock on the file.
	// Returns ErrFileLocked when another process already holds it.
	Lock(f *os.File) error

	// Unlock releases a previously acquired lock. Safe to call when
	// the file is not locked.
	Unlock(f *os.File) error
}

// IsProcessAlive reports whether a process with the given PID exists.
//
// # Description
//
// Used to classify leftover lock files: a recorded holder whose process
// is gone crashed without releasing. On Unix this sends signal 0, on
// Windows it uses OpenProcess.
func IsProcessAlive(pid int) bool {
	return isProcessAlive(pid)
}

// newFileLocker creates the platform-appropriate FileLocker.
func newFileLocker() FileLocker {
	return newPlatformLocker()
}
