// Package skiplist implements a generic ordered index with expected O(log n)
// search, insertion and deletion.
//
// Nodes are kept in an arena owned by the list and linked by index. Every
// exported method is a complete transition applied under the list's RWLocker:
// readers take the read side, Insert/Delete/Close take the write side.
package skiplist

import (
	"cmp"
	"fmt"
	"strings"
)

type Skiplist[K, V any] struct {
	arena   *nodeArena[K, V]
	compare Comparator[K]
	// maxHeight is the top level index any node may reach; the head always
	// spans 0..maxHeight.
	maxHeight int
	// height is the top level index that currently holds a real node.
	height int
	count  int
	coin   Coin
	mu     RWLocker
	closed bool
}

// New creates an empty list ordered by compare.
func New[K, V any](compare Comparator[K], opts ...Option) *Skiplist[K, V] {
	if compare == nil {
		panic("skiplist: nil comparator")
	}
	o := newOptions(opts)
	return &Skiplist[K, V]{
		arena:     newNodeArena[K, V](o.maxHeight, o.maxNodes),
		compare:   compare,
		maxHeight: o.maxHeight,
		coin:      o.coin,
		mu:        o.locker,
	}
}

// NewOrdered creates an empty list over a naturally ordered key type.
func NewOrdered[K cmp.Ordered, V any](opts ...Option) *Skiplist[K, V] {
	return New[K, V](cmp.Compare[K], opts...)
}

// findLessThan descends from the top populated level and returns the last
// node on level 0 whose key is less than key. When prev is not nil, prev[i]
// receives the last node visited on level i before dropping down.
func (l *Skiplist[K, V]) findLessThan(key K, prev []nodeRef) nodeRef {
	x := headRef
	for level := l.height; level >= 0; level-- {
		for {
			next := l.arena.at(x).next[level]
			if next == nilRef || l.compare(l.arena.at(next).key, key) >= 0 {
				break
			}
			x = next
		}
		if prev != nil {
			prev[level] = x
		}
	}
	return x
}

// find returns the node holding key, or nilRef.
func (l *Skiplist[K, V]) find(key K, prev []nodeRef) nodeRef {
	x := l.arena.at(l.findLessThan(key, prev)).next[0]
	if x != nilRef && l.compare(l.arena.at(x).key, key) == 0 {
		return x
	}
	return nilRef
}

// Search returns the value stored under key.
func (l *Skiplist[K, V]) Search(key K) (V, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var zero V
	if l.closed {
		return zero, false
	}
	x := l.find(key, nil)
	if x == nilRef {
		return zero, false
	}
	return l.arena.at(x).value, true
}

func (l *Skiplist[K, V]) Contains(key K) bool {
	_, ok := l.Search(key)
	return ok
}

// Insert links a new key, or replaces the value of an existing one. Equal
// keys never coexist; inserting an existing key always reports Updated.
func (l *Skiplist[K, V]) Insert(key K, value V) (InsertResult, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return Inserted, ErrClosed
	}
	return l.insert(key, value)
}

// InsertAll applies entries in order under a single write lock. It stops at
// the first error; entries before it stay applied.
func (l *Skiplist[K, V]) InsertAll(entries []Entry[K, V]) (inserted, updated int, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, 0, ErrClosed
	}
	for _, e := range entries {
		r, err := l.insert(e.Key, e.Value)
		if err != nil {
			return inserted, updated, err
		}
		if r == Inserted {
			inserted++
		} else {
			updated++
		}
	}
	return inserted, updated, nil
}

func (l *Skiplist[K, V]) insert(key K, value V) (InsertResult, error) {
	prev := make([]nodeRef, l.maxHeight+1)
	if x := l.find(key, prev); x != nilRef {
		l.arena.at(x).value = value
		return Updated, nil
	}

	height := l.randomHeight()
	o, err := l.arena.alloc(key, value, height)
	if err != nil {
		return Inserted, err
	}
	if l.height < height {
		for i := l.height + 1; i <= height; i++ {
			prev[i] = headRef
		}
		l.height = height
	}

	x := l.arena.at(o)
	for i := 0; i <= height; i++ {
		p := l.arena.at(prev[i])
		x.SetNext(i, p.next[i])
		p.SetNext(i, o)
	}
	l.count++
	return Inserted, nil
}

// Delete unlinks key and reports whether it was present.
func (l *Skiplist[K, V]) Delete(key K) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return false
	}
	prev := make([]nodeRef, l.maxHeight+1)
	o := l.find(key, prev)
	if o == nilRef {
		return false
	}

	x := l.arena.at(o)
	for i := 0; i <= l.height; i++ {
		p := l.arena.at(prev[i])
		// o is absent from every level above the first one that skips it
		if p.next[i] != o {
			break
		}
		p.next[i] = x.next[i]
	}

	head := l.arena.at(headRef)
	for l.height > 0 && head.next[l.height] == nilRef {
		l.height--
	}

	l.arena.release(o)
	l.count--
	return true
}

// Size returns the number of distinct keys stored.
func (l *Skiplist[K, V]) Size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.count
}

// Height returns the top level index currently holding a real node.
func (l *Skiplist[K, V]) Height() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.height
}

func (l *Skiplist[K, V]) MaxHeight() int {
	return l.maxHeight
}

// Range calls fn for every entry on level 0 in key order until fn returns
// false. The read lock is held throughout, so fn must not call back into l
// for writing.
func (l *Skiplist[K, V]) Range(fn func(key K, value V) bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return
	}
	for x := l.arena.at(headRef).next[0]; x != nilRef; {
		n := l.arena.at(x)
		if !fn(n.key, n.value) {
			return
		}
		x = n.next[0]
	}
}

// Levels returns, for every level 0..Height(), the entries reachable along
// that level's chain.
func (l *Skiplist[K, V]) Levels() [][]Entry[K, V] {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return nil
	}
	levels := make([][]Entry[K, V], l.height+1)
	for i := 0; i <= l.height; i++ {
		for x := l.arena.at(headRef).next[i]; x != nilRef; {
			n := l.arena.at(x)
			levels[i] = append(levels[i], Entry[K, V]{Key: n.key, Value: n.value})
			x = n.next[i]
		}
	}
	return levels
}

// Display renders Levels as text for humans. The format is not stable.
func (l *Skiplist[K, V]) Display() string {
	var b strings.Builder
	b.WriteString("*****Skip List*****\n")
	for i, level := range l.Levels() {
		fmt.Fprintf(&b, "Level %d: ", i)
		for _, e := range level {
			fmt.Fprintf(&b, "%v:%v;", e.Key, e.Value)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Check walks the whole structure and verifies ordering, level nesting,
// height bookkeeping and the element count.
func (l *Skiplist[K, V]) Check() error {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if l.closed {
		return nil
	}
	head := l.arena.at(headRef)
	if head.Height() != l.maxHeight {
		return fmt.Errorf("%w: head height %d, want %d", ErrCorrupted, head.Height(), l.maxHeight)
	}
	for i := l.height + 1; i <= l.maxHeight; i++ {
		if head.next[i] != nilRef {
			return fmt.Errorf("%w: level %d populated above height %d", ErrCorrupted, i, l.height)
		}
	}
	if l.height > 0 && head.next[l.height] == nilRef {
		return fmt.Errorf("%w: top level %d is empty", ErrCorrupted, l.height)
	}

	var below map[nodeRef]bool
	for i := 0; i <= l.height; i++ {
		seen := make(map[nodeRef]bool)
		prev := nilRef
		for x := head.next[i]; x != nilRef; x = l.arena.at(x).next[i] {
			n := l.arena.at(x)
			if seen[x] {
				return fmt.Errorf("%w: cycle on level %d", ErrCorrupted, i)
			}
			seen[x] = true
			if h := n.Height(); h < 1 || h > l.maxHeight || h < i {
				return fmt.Errorf("%w: node height %d on level %d", ErrCorrupted, h, i)
			}
			if prev != nilRef && l.compare(l.arena.at(prev).key, n.key) >= 0 {
				return fmt.Errorf("%w: level %d out of order at %v", ErrCorrupted, i, n.key)
			}
			if below != nil && !below[x] {
				return fmt.Errorf("%w: %v on level %d but not on level %d", ErrCorrupted, n.key, i, i-1)
			}
			prev = x
		}
		if i == 0 && len(seen) != l.count {
			return fmt.Errorf("%w: level 0 holds %d nodes, count is %d", ErrCorrupted, len(seen), l.count)
		}
		below = seen
	}
	if l.arena.live != l.count {
		return fmt.Errorf("%w: arena holds %d live nodes, count is %d", ErrCorrupted, l.arena.live, l.count)
	}
	return nil
}

// Close tears the list down, releasing every node once. Later reads report
// nothing and later writes fail with ErrClosed.
func (l *Skiplist[K, V]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	for x := l.arena.at(headRef).next[0]; x != nilRef; {
		next := l.arena.at(x).next[0]
		l.arena.release(x)
		x = next
	}
	l.arena = newNodeArena[K, V](l.maxHeight, 0)
	l.height = 0
	l.count = 0
	l.closed = true
}
