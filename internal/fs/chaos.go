package fs

import (
	"math/rand"
	"os"
	"sync"
	"syscall"
)

// ChaosConfig controls fault injection probabilities.
// Each rate is a float64 from 0.0 (never) to 1.0 (always).
type ChaosConfig struct {
	ReadFailRate    float64 // Fail ReadFile
	WriteFailRate   float64 // Fail WriteFileAtomic before anything is written
	ReadDirFailRate float64 // Fail ReadDir
	RemoveFailRate  float64 // Fail Remove
	LockFailRate    float64 // Fail Lock acquisition
}

// DefaultChaosConfig returns a config with reasonable fault rates for testing.
func DefaultChaosConfig() ChaosConfig {
	return ChaosConfig{
		ReadFailRate:    0.05,
		WriteFailRate:   0.1,
		ReadDirFailRate: 0.05,
		RemoveFailRate:  0.05,
		LockFailRate:    0.05,
	}
}

// ChaosStats contains counts of injected faults.
type ChaosStats struct {
	ReadFails    int
	WriteFails   int
	ReadDirFails int
	RemoveFails  int
	LockFails    int
}

// Total returns the number of injected faults.
func (s ChaosStats) Total() int {
	return s.ReadFails + s.WriteFails + s.ReadDirFails + s.RemoveFails + s.LockFails
}

// Chaos wraps an [FS] and injects random failures for testing.
//
// Injected errors are real OS errors (syscall.Errno wrapped in
// os.PathError), so errors.Is checks behave as they would against a real
// filesystem. Because writes are atomic, a failed write never leaves
// partial data behind. Faults are only injected while enabled.
type Chaos struct {
	fs     FS
	config ChaosConfig

	mu      sync.Mutex
	rng     *rand.Rand
	enabled bool
	stats   ChaosStats
}

var _ FS = (*Chaos)(nil)

// NewChaos creates a Chaos filesystem wrapping fs. The seed makes the
// fault sequence reproducible. Injection starts enabled.
func NewChaos(fs FS, seed int64, config ChaosConfig) *Chaos {
	return &Chaos{
		fs:      fs,
		config:  config,
		rng:     rand.New(rand.NewSource(seed)),
		enabled: true,
	}
}

// SetEnabled turns fault injection on or off.
func (c *Chaos) SetEnabled(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.enabled = enabled
}

// Stats returns the current fault injection counts.
func (c *Chaos) Stats() ChaosStats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}

// should reports whether to inject a fault at rate and counts it.
func (c *Chaos) should(rate float64, counter *int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.enabled || rate <= 0 {
		return false
	}

	if c.rng.Float64() >= rate {
		return false
	}

	*counter++

	return true
}

// errno picks a plausible error for op from errs.
func (c *Chaos) errno(op, path string, errs ...syscall.Errno) error {
	c.mu.Lock()
	e := errs[c.rng.Intn(len(errs))]
	c.mu.Unlock()

	return &os.PathError{Op: op, Path: path, Err: e}
}

func (c *Chaos) ReadFile(path string) ([]byte, error) {
	if c.should(c.config.ReadFailRate, &c.stats.ReadFails) {
		return nil, c.errno("read", path, syscall.EIO, syscall.EACCES)
	}

	return c.fs.ReadFile(path)
}

func (c *Chaos) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if c.should(c.config.WriteFailRate, &c.stats.WriteFails) {
		return c.errno("write", path, syscall.EIO, syscall.ENOSPC, syscall.EDQUOT, syscall.EROFS)
	}

	return c.fs.WriteFileAtomic(path, data, perm)
}

func (c *Chaos) ReadDir(path string) ([]os.DirEntry, error) {
	if c.should(c.config.ReadDirFailRate, &c.stats.ReadDirFails) {
		return nil, c.errno("readdirent", path, syscall.EIO, syscall.EACCES)
	}

	return c.fs.ReadDir(path)
}

func (c *Chaos) MkdirAll(path string, perm os.FileMode) error {
	return c.fs.MkdirAll(path, perm)
}

func (c *Chaos) Exists(path string) (bool, error) {
	return c.fs.Exists(path)
}

func (c *Chaos) Remove(path string) error {
	if c.should(c.config.RemoveFailRate, &c.stats.RemoveFails) {
		return c.errno("remove", path, syscall.EIO, syscall.EACCES, syscall.EROFS)
	}

	return c.fs.Remove(path)
}

func (c *Chaos) Lock(path string) (Locker, error) {
	if c.should(c.config.LockFailRate, &c.stats.LockFails) {
		return nil, c.errno("flock", path, syscall.EINTR, syscall.ENOLCK)
	}

	return c.fs.Lock(path)
}
