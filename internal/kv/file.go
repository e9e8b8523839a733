package kv

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/calvinalkan/homebase/internal/fs"
)

const (
	fileExt   = ".json"
	filePerms = 0o600
	dirPerms  = 0o750
)

// File stores each key as <dir>/<key>.json, written atomically.
type File struct {
	fs    fs.FS
	dir   string
	quota int
}

// NewFile returns a file-backed store rooted at dir, creating dir if needed.
func NewFile(fsys fs.FS, dir string, quota int) (*File, error) {
	if dir == "" {
		return nil, errors.New("open file store: directory is empty")
	}

	if err := fsys.MkdirAll(dir, dirPerms); err != nil {
		return nil, fmt.Errorf("open file store: create %s: %w", dir, err)
	}

	if quota <= 0 {
		quota = DefaultQuota
	}

	return &File{fs: fsys, dir: filepath.Clean(dir), quota: quota}, nil
}

// Dir returns the directory holding the value files.
func (f *File) Dir() string {
	return f.dir
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, key+fileExt)
}

func (f *File) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}

	return f.read(key)
}

func (f *File) read(key string) ([]byte, bool, error) {
	data, err := f.fs.ReadFile(f.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("read %s: %w", key, err)
	}

	return data, true, nil
}

func (f *File) Set(ctx context.Context, key string, value []byte) error {
	return f.Update(ctx, key, func([]byte, bool) ([]byte, error) {
		return value, nil
	})
}

func (f *File) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := ValidateKey(key); err != nil {
		return err
	}

	lock, err := f.fs.Lock(f.path(key))
	if err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}

	defer func() { _ = lock.Close() }()

	err = f.fs.Remove(f.path(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete %s: %w", key, err)
	}

	return nil
}

func (f *File) Update(ctx context.Context, key string, fn UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := ValidateKey(key); err != nil {
		return err
	}

	lock, err := f.fs.Lock(f.path(key))
	if err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}

	defer func() { _ = lock.Close() }()

	current, exists, err := f.read(key)
	if err != nil {
		return err
	}

	next, err := fn(current, exists)
	if err != nil {
		return err
	}

	if next == nil {
		return nil
	}

	if err := checkQuota(key, next, f.quota); err != nil {
		return err
	}

	if err := f.fs.WriteFileAtomic(f.path(key), next, filePerms); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}

	return nil
}

func (f *File) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := f.fs.ReadDir(f.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", f.dir, err)
	}

	var keys []string

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		key, ok := strings.CutSuffix(entry.Name(), fileExt)
		if !ok || ValidateKey(key) != nil {
			continue
		}

		keys = append(keys, key)
	}

	sort.Strings(keys)

	return keys, nil
}

// Close is a no-op; the file store holds no open handles between calls.
func (f *File) Close() error {
	return nil
}

var _ Store = (*File)(nil)
