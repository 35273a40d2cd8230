// Package kvindex is an in-memory ordered string index backed by a skiplist,
// with snapshot export to and import from a flat line-oriented file.
//
// The snapshot is a periodic copy, not a journal: nothing written between two
// Exports survives a crash.
package kvindex

import (
	"errors"
	"fmt"
	"strings"

	"Skipkv/pkg/skiplist"
	"Skipkv/pkg/snapshot"

	"k8s.io/klog/v2"
)

var (
	ErrInvalidOptions = errors.New("kvindex: invalid options")
	// ErrInvalidKey rejects keys the snapshot format could not load back:
	// empty keys and keys containing the delimiter or a line break.
	ErrInvalidKey = errors.New("kvindex: invalid key")
	// ErrInvalidValue rejects empty values and values with line breaks.
	ErrInvalidValue = errors.New("kvindex: invalid value")
)

type Index struct {
	opts  *Options
	list  *skiplist.Skiplist[string, string]
	snap  snapshot.Config
	delim byte
}

// New creates an empty index. opts is copied; later changes to it have no
// effect.
func New(opts *Options) (*Index, error) {
	if opts == nil {
		opts = NewDefaultOptions()
	}
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, errors.Join(errs...))
	}
	o := *opts
	return &Index{
		opts:  &o,
		list:  skiplist.NewOrdered[string, string](o.skiplistOptions()...),
		snap:  o.snapshotConfig(),
		delim: o.delimiter(),
	}, nil
}

func (db *Index) checkRecord(key, value string) error {
	if key == "" || strings.IndexByte(key, db.delim) >= 0 || strings.ContainsAny(key, "\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	if value == "" || strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%w: %q", ErrInvalidValue, value)
	}
	return nil
}

// Insert stores value under key, reporting whether the key was new.
func (db *Index) Insert(key, value string) (skiplist.InsertResult, error) {
	if err := db.checkRecord(key, value); err != nil {
		return skiplist.Inserted, err
	}
	r, err := db.list.Insert(key, value)
	if err != nil {
		return r, err
	}
	klog.V(4).Infof("[kvindex.Insert] key=%s result=%s", key, r)
	return r, nil
}

// Search returns the value stored under key.
func (db *Index) Search(key string) (string, bool) {
	return db.list.Search(key)
}

// Delete removes key and reports whether it was present.
func (db *Index) Delete(key string) bool {
	found := db.list.Delete(key)
	klog.V(4).Infof("[kvindex.Delete] key=%s found=%v", key, found)
	return found
}

func (db *Index) Size() int {
	return db.list.Size()
}

func (db *Index) Height() int {
	return db.list.Height()
}

func (db *Index) Levels() [][]skiplist.Entry[string, string] {
	return db.list.Levels()
}

func (db *Index) Display() string {
	return db.list.Display()
}

// Range visits every entry in key order under the read lock.
func (db *Index) Range(fn func(key, value string) bool) {
	db.list.Range(fn)
}

func (db *Index) Options() Options {
	return *db.opts
}

// Export writes the level 0 chain to the configured store file, replacing
// its previous content. Writers are blocked for the duration.
func (db *Index) Export() (snapshot.Stats, error) {
	stats, err := snapshot.Dump(db.snap, snapshot.IterateFunc(db.list.Range))
	if err != nil {
		klog.Errorf("Export to %s failed after %d records: %v", db.snap.Path, stats.Records, err)
		return stats, err
	}
	klog.Infof("Export %d records to %s, skipped %d, checksum %016x",
		stats.Records, db.snap.Path, stats.Skipped, stats.Checksum)
	return stats, nil
}

// Import reads the configured store file and inserts every valid record in
// file order. The whole batch is applied under one write lock, so readers
// never see a half imported file. Heights are drawn afresh, so the resulting
// shape differs from the exporting index.
func (db *Index) Import() (snapshot.Stats, error) {
	var entries []skiplist.Entry[string, string]
	stats, err := snapshot.Load(db.snap, func(key, value string) error {
		entries = append(entries, skiplist.Entry[string, string]{Key: key, Value: value})
		return nil
	})
	if err != nil {
		klog.Errorf("Import from %s failed: %v", db.snap.Path, err)
		return stats, err
	}

	inserted, updated, err := db.list.InsertAll(entries)
	if err != nil {
		klog.Errorf("Import from %s stopped after %d records: %v", db.snap.Path, inserted+updated, err)
		return stats, err
	}
	klog.Infof("Import %d records from %s (%d new, %d updated), skipped %d lines, checksum %016x",
		stats.Records, db.snap.Path, inserted, updated, stats.Skipped, stats.Checksum)
	return stats, nil
}

// Close releases every node. The index is unusable afterwards.
func (db *Index) Close() {
	db.list.Close()
}
