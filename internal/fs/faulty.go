package fs

import (
	"os"
	"sync"
)

// Op names an [FS] operation that [Faulty] can fail.
type Op string

// Operations that accept injected failures.
const (
	OpReadFile Op = "read"
	OpWrite    Op = "write"
	OpReadDir  Op = "readdir"
	OpMkdirAll Op = "mkdir"
	OpExists   Op = "exists"
	OpRemove   Op = "remove"
	OpLock     Op = "lock"
)

// Faulty wraps another [FS] and fails selected operations with a fixed
// error until the fault is cleared. Used to simulate a full disk or a
// read-only data directory.
type Faulty struct {
	inner FS

	mu     sync.Mutex
	faults map[Op]error
	calls  map[Op]int
}

// NewFaulty returns a [Faulty] that passes every call through to inner.
func NewFaulty(inner FS) *Faulty {
	return &Faulty{
		inner:  inner,
		faults: make(map[Op]error),
		calls:  make(map[Op]int),
	}
}

// Fail makes every subsequent call of op return err wrapped in [InjectedError].
func (f *Faulty) Fail(op Op, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.faults[op] = err
}

// Clear removes the fault for op.
func (f *Faulty) Clear(op Op) {
	f.mu.Lock()
	defer f.mu.Unlock()

	delete(f.faults, op)
}

// Calls returns how many times op was attempted, failed or not.
func (f *Faulty) Calls(op Op) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.calls[op]
}

func (f *Faulty) check(op Op, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls[op]++

	if err, ok := f.faults[op]; ok {
		return &InjectedError{Op: string(op), Path: path, Err: err}
	}

	return nil
}

func (f *Faulty) ReadFile(path string) ([]byte, error) {
	if err := f.check(OpReadFile, path); err != nil {
		return nil, err
	}

	return f.inner.ReadFile(path)
}

func (f *Faulty) WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	if err := f.check(OpWrite, path); err != nil {
		return err
	}

	return f.inner.WriteFileAtomic(path, data, perm)
}

func (f *Faulty) ReadDir(path string) ([]os.DirEntry, error) {
	if err := f.check(OpReadDir, path); err != nil {
		return nil, err
	}

	return f.inner.ReadDir(path)
}

func (f *Faulty) MkdirAll(path string, perm os.FileMode) error {
	if err := f.check(OpMkdirAll, path); err != nil {
		return err
	}

	return f.inner.MkdirAll(path, perm)
}

func (f *Faulty) Exists(path string) (bool, error) {
	if err := f.check(OpExists, path); err != nil {
		return false, err
	}

	return f.inner.Exists(path)
}

func (f *Faulty) Remove(path string) error {
	if err := f.check(OpRemove, path); err != nil {
		return err
	}

	return f.inner.Remove(path)
}

func (f *Faulty) Lock(path string) (Locker, error) {
	if err := f.check(OpLock, path); err != nil {
		return nil, err
	}

	return f.inner.Lock(path)
}

// Compile-time interface check.
var _ FS = (*Faulty)(nil)
