package snapshot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/juju/fslock"
	"k8s.io/klog/v2"
)

// IterateFunc feeds records to Dump. It must call fn for every record in
// order and stop as soon as fn returns false.
type IterateFunc func(fn func(key, value string) bool)

// Dump writes every record produced by iterate to cfg.Path, replacing any
// previous content. Records the format cannot represent are skipped and
// counted. A failure part way leaves a truncated file behind.
func Dump(cfg Config, iterate IterateFunc) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return Stats{}, fmt.Errorf("%w: %w", ErrSnapshotIO, err)
		}
	}

	unlock, err := lockSnapshot(cfg.Path)
	if err != nil {
		return Stats{}, err
	}
	defer unlock()

	f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrSnapshotIO, err)
	}

	w := NewWriter(f, cfg.Delimiter)
	var werr error
	iterate(func(key, value string) bool {
		err := w.AddRecord(key, value)
		if errors.Is(err, ErrInvalidRecord) {
			klog.V(2).Infof("snapshot: skip record %q: %v", key, err)
			w.Skip()
			return true
		}
		werr = err
		return err == nil
	})
	if werr == nil {
		werr = w.Flush()
	}
	if werr == nil {
		werr = f.Sync()
	}
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return w.Stats(), fmt.Errorf("%w: write %s: %w", ErrSnapshotIO, cfg.Path, werr)
	}
	return w.Stats(), nil
}

// Load reads cfg.Path and calls fn for every valid record in file order. An
// error returned by fn stops the load and is returned as is.
func Load(cfg Config, fn func(key, value string) error) (Stats, error) {
	if err := cfg.Validate(); err != nil {
		return Stats{}, err
	}
	f, err := os.Open(cfg.Path)
	if err != nil {
		return Stats{}, fmt.Errorf("%w: %w", ErrSnapshotIO, err)
	}
	defer f.Close()

	unlock, err := lockSnapshot(cfg.Path)
	if err != nil {
		return Stats{}, err
	}
	defer unlock()

	r := NewReader(f, cfg.Delimiter)
	for {
		key, value, err := r.ReadRecord()
		if err == io.EOF {
			return r.Stats(), nil
		}
		if err != nil {
			return r.Stats(), fmt.Errorf("%w: read %s: %w", ErrSnapshotIO, cfg.Path, err)
		}
		if err := fn(key, value); err != nil {
			return r.Stats(), err
		}
	}
}

// LockPath is the advisory lock file guarding a snapshot at path.
func LockPath(path string) string {
	return path + ".lock"
}

func lockSnapshot(path string) (func(), error) {
	l := fslock.New(LockPath(path))
	if err := l.TryLock(); err != nil {
		if err == fslock.ErrLocked {
			return nil, fmt.Errorf("%w: %s", ErrLocked, path)
		}
		return nil, fmt.Errorf("%w: lock %s: %w", ErrSnapshotIO, path, err)
	}
	return func() {
		if err := l.Unlock(); err != nil {
			klog.Errorf("snapshot: unlock %s: %v", path, err)
		}
	}, nil
}
