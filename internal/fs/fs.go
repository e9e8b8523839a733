// Package fs provides the filesystem abstraction used by the file-backed
// key-value store.
//
// The main types are:
//   - [FS]: interface for the operations the store needs
//   - [Real]: production implementation using [os] and atomic writes
//   - [Faulty]: testing implementation that injects configured failures
//   - [Chaos]: testing implementation that injects seeded random failures
//
// Example usage:
//
//	fsys := fs.NewReal()
//	lock, err := fsys.Lock(path)
//	if err != nil {
//	    return err
//	}
//	defer lock.Close()
//
//	data, err := fsys.ReadFile(path)
package fs

import (
	"io"
	"os"
)

// Locker represents a held file lock.
// Call [Locker.Close] to release the lock.
type Locker interface {
	io.Closer
}

// FS defines the filesystem operations used by the store.
//
// All methods mirror their [os] package equivalents but can be intercepted
// for testing with fault injection.
type FS interface {
	// ReadFile reads an entire file into memory. See [os.ReadFile].
	ReadFile(path string) ([]byte, error)

	// WriteFileAtomic writes data to a file atomically.
	// Uses a temp file + rename to prevent partial writes on crash.
	WriteFileAtomic(path string, data []byte, perm os.FileMode) error

	// ReadDir reads a directory and returns its entries. See [os.ReadDir].
	ReadDir(path string) ([]os.DirEntry, error)

	// MkdirAll creates a directory and all parents. See [os.MkdirAll].
	MkdirAll(path string, perm os.FileMode) error

	// Exists reports whether a file or directory exists.
	// Returns (false, nil) if not found, (false, err) on other errors.
	Exists(path string) (bool, error)

	// Remove deletes a file. See [os.Remove].
	Remove(path string) error

	// Lock acquires an exclusive file lock.
	// Blocks until the lock is acquired or returns error on timeout.
	Lock(path string) (Locker, error)
}
