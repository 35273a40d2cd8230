package skiplist

import (
	"sync"

	"Skipkv/pkg/util/random"
)

const (
	// DefaultMaxHeight is the top level index a node may reach by default.
	DefaultMaxHeight = 18
	// MaxHeightLimit bounds WithMaxHeight.
	MaxHeightLimit = 64
)

type options struct {
	maxHeight int
	locker    RWLocker
	coin      Coin
	seed      uint32
	maxNodes  int
}

// Option configures a skiplist at construction time.
type Option func(*options)

// WithMaxHeight sets the highest level index any node may occupy. It cannot
// be changed afterwards.
func WithMaxHeight(h int) Option {
	return func(o *options) {
		o.maxHeight = h
	}
}

// WithLocker injects the synchronization policy. The default is a
// *sync.RWMutex; see ExclusiveLocker for the uniform exclusive policy.
func WithLocker(l RWLocker) Option {
	return func(o *options) {
		o.locker = l
	}
}

// WithCoin replaces the coin used by the level selector.
func WithCoin(c Coin) Option {
	return func(o *options) {
		o.coin = c
	}
}

// WithSeed seeds the default coin. Ignored when WithCoin is given.
func WithSeed(seed uint32) Option {
	return func(o *options) {
		o.seed = seed
	}
}

// WithMaxNodes caps the number of live nodes; 0 means unlimited.
func WithMaxNodes(n int) Option {
	return func(o *options) {
		o.maxNodes = n
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		maxHeight: DefaultMaxHeight,
	}
	for _, fn := range opts {
		fn(o)
	}
	if o.maxHeight < 1 || o.maxHeight > MaxHeightLimit {
		panic("skiplist: max height out of range")
	}
	if o.maxNodes < 0 {
		panic("skiplist: negative node limit")
	}
	if o.locker == nil {
		o.locker = &sync.RWMutex{}
	}
	if o.coin == nil {
		if o.seed != 0 {
			o.coin = random.New(o.seed)
		} else {
			o.coin = random.NewFromTime()
		}
	}
	return o
}
