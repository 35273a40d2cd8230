package skiplist

import "sync"

// Comparator orders keys.
//
//	if k1 < k2,  ret < 0
//	if k1 == k2, ret == 0
//	if k1 > k2,  ret > 0
type Comparator[K any] func(k1, k2 K) int

// Entry is a key/value pair read out of, or bulk loaded into, a skiplist.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// InsertResult reports what an Insert did to the list.
type InsertResult int

const (
	// Inserted means a new key was linked in.
	Inserted InsertResult = iota
	// Updated means the key already existed and its value was replaced.
	Updated
)

func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	}
	return "unknown"
}

// Coin drives the level selector. *random.Random satisfies it.
type Coin interface {
	// OneIn returns true roughly once every n calls.
	OneIn(n int) bool
}

// RWLocker guards a skiplist. Readers (Search, Contains, traversal) take the
// read side, Insert and Delete take the write side.
type RWLocker interface {
	sync.Locker
	RLock()
	RUnlock()
}

type exclusiveLocker struct {
	sync.Mutex
}

func (l *exclusiveLocker) RLock()   { l.Lock() }
func (l *exclusiveLocker) RUnlock() { l.Unlock() }

// ExclusiveLocker returns a locker whose read side is the same exclusive
// mutex as its write side, so readers are serialized with each other too.
func ExclusiveLocker() RWLocker {
	return &exclusiveLocker{}
}

type ISkiplist[K, V any] interface {
	Insert(key K, value V) (InsertResult, error)
	Search(key K) (V, bool)
	Contains(key K) bool
	Delete(key K) bool
	Size() int
	Range(fn func(key K, value V) bool)
	Close()
}
