package kvindex

import (
	"errors"
	"fmt"
	"strings"

	"Skipkv/pkg/skiplist"
	"Skipkv/pkg/snapshot"
)

type Options struct {
	// MaxHeight is the top level index a node may reach. Fixed once the
	// index is created.
	MaxHeight int
	// StoreFile is where Export writes and Import reads the snapshot.
	StoreFile string
	// Delimiter separates key and value in the snapshot. Exactly one byte.
	Delimiter string
	// MaxNodes caps the number of stored keys; 0 means unlimited.
	MaxNodes int
	// Seed makes node heights reproducible; 0 seeds from the clock.
	Seed uint32
	// ExclusiveLock serializes readers with each other as well as with
	// writers instead of letting searches share the lock.
	ExclusiveLock bool
}

func NewDefaultOptions() *Options {
	return &Options{
		MaxHeight: skiplist.DefaultMaxHeight,
		StoreFile: snapshot.DefaultPath,
		Delimiter: string(rune(snapshot.DefaultDelimiter)),
	}
}

// Validate checks every field and reports all problems at once.
func (o *Options) Validate() []error {
	var errs []error
	if o.MaxHeight < 1 || o.MaxHeight > skiplist.MaxHeightLimit {
		errs = append(errs, fmt.Errorf("max height must be in [1, %d], got %d", skiplist.MaxHeightLimit, o.MaxHeight))
	}
	if o.MaxNodes < 0 {
		errs = append(errs, fmt.Errorf("max nodes must not be negative, got %d", o.MaxNodes))
	}
	if len(o.Delimiter) != 1 {
		errs = append(errs, fmt.Errorf("delimiter must be a single byte, got %q", o.Delimiter))
	} else if strings.ContainsAny(o.Delimiter, "\r\n\x00") {
		errs = append(errs, fmt.Errorf("delimiter %q cannot be used in a line format", o.Delimiter))
	}
	if o.StoreFile == "" {
		errs = append(errs, errors.New("store file must not be empty"))
	}
	return errs
}

func (o *Options) delimiter() byte {
	if len(o.Delimiter) == 0 {
		return snapshot.DefaultDelimiter
	}
	return o.Delimiter[0]
}

func (o *Options) snapshotConfig() snapshot.Config {
	return snapshot.Config{
		Path:      o.StoreFile,
		Delimiter: o.delimiter(),
	}
}

func (o *Options) skiplistOptions() []skiplist.Option {
	opts := []skiplist.Option{
		skiplist.WithMaxHeight(o.MaxHeight),
		skiplist.WithMaxNodes(o.MaxNodes),
	}
	if o.Seed != 0 {
		opts = append(opts, skiplist.WithSeed(o.Seed))
	}
	if o.ExclusiveLock {
		opts = append(opts, skiplist.WithLocker(skiplist.ExclusiveLocker()))
	}
	return opts
}
