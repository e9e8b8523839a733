// Package kv is the durable key-value layer underneath the storage adapter.
//
// Keys are short lowercase names ("habits", "theme"); values are opaque
// bytes. Three drivers exist: a directory of files, a single SQLite
// database, and an in-memory map for tests.
package kv

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/calvinalkan/homebase/internal/fs"
)

// DefaultQuota is the largest value a driver accepts, in bytes.
const DefaultQuota = 5 << 20

var (
	ErrInvalidKey    = errors.New("invalid key")
	ErrQuotaExceeded = errors.New("quota exceeded")
	ErrClosed        = errors.New("store closed")
	ErrUnknownDriver = errors.New("unknown storage backend")
)

// UpdateFunc receives the current value (nil and false when absent) and
// returns the value to store. Returning a nil slice skips the write.
type UpdateFunc func(current []byte, exists bool) ([]byte, error)

// Store is a durable key-value store.
type Store interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set replaces the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Update runs a read-modify-write of key while holding the driver's
	// exclusive lock (file lock or transaction).
	Update(ctx context.Context, key string, fn UpdateFunc) error

	// Keys lists stored keys in lexical order.
	Keys(ctx context.Context) ([]string, error)

	// Close releases driver resources.
	Close() error
}

// Driver names a [Store] implementation.
type Driver string

// Drivers selectable from configuration.
const (
	DriverFile   Driver = "file"
	DriverSQLite Driver = "sqlite"
	DriverMemory Driver = "memory"
)

// Options configures [Open].
type Options struct {
	// Quota caps a single value in bytes. Zero means [DefaultQuota].
	Quota int

	// FS overrides the filesystem used by the file driver.
	FS fs.FS
}

// SQLiteFileName is the database file the sqlite driver creates in dir.
const SQLiteFileName = "hb.sqlite"

// Open selects a [Store] implementation for driver rooted at dir.
func Open(ctx context.Context, driver Driver, dir string, opts Options) (Store, error) {
	if opts.Quota <= 0 {
		opts.Quota = DefaultQuota
	}

	switch driver {
	case DriverFile, "":
		fsys := opts.FS
		if fsys == nil {
			fsys = fs.NewReal()
		}

		return NewFile(fsys, dir, opts.Quota)
	case DriverSQLite:
		return OpenSQLite(ctx, filepath.Join(dir, SQLiteFileName), opts.Quota)
	case DriverMemory:
		return NewMemory(opts.Quota), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, driver)
	}
}

// IsValidDriver reports whether name selects a known driver.
func IsValidDriver(name string) bool {
	switch Driver(name) {
	case DriverFile, DriverSQLite, DriverMemory:
		return true
	default:
		return false
	}
}

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// ValidateKey rejects keys that are empty or cannot be used as file names.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return nil
}

func checkQuota(key string, value []byte, quota int) error {
	if len(value) > quota {
		return fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrQuotaExceeded, key, len(value), quota)
	}

	return nil
}
