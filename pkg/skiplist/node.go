package skiplist

import "Skipkv/pkg/util"

// nodeRef is a stable index into a nodeArena. Forward links are refs, not
// pointers, so unlinking a node can never leave a dangling reference behind.
type nodeRef uint32

const (
	nilRef  nodeRef = 0 // end of a level chain
	headRef nodeRef = 1 // sentinel head, never a forward target
)

type node[K, V any] struct {
	key   K
	value V
	// next[i] is the following node on level i; len(next) == height+1.
	next []nodeRef
}

func (o *node[K, V]) Key() K {
	return o.key
}

func (o *node[K, V]) Value() V {
	return o.value
}

// Height is the top level index the node participates in.
func (o *node[K, V]) Height() int {
	return len(o.next) - 1
}

func (o *node[K, V]) Next(level int) nodeRef {
	if len(o.next) <= level {
		return nilRef
	}
	return o.next[level]
}

func (o *node[K, V]) SetNext(level int, x nodeRef) {
	util.Assertf(level < len(o.next), "SetNext level %d above node height %d", level, o.Height())
	o.next[level] = x
}

// nodeArena owns every node of a list. Slot 0 is reserved so the zero
// nodeRef means "none"; slot 1 is the head.
type nodeArena[K, V any] struct {
	nodes []node[K, V]
	free  []nodeRef
	live  int
	limit int
}

func newNodeArena[K, V any](maxHeight, limit int) *nodeArena[K, V] {
	a := &nodeArena[K, V]{
		nodes: make([]node[K, V], 2, 64),
		limit: limit,
	}
	a.nodes[headRef].next = make([]nodeRef, maxHeight+1)
	return a
}

// at returns the slot for ref. The pointer is only valid until the next
// alloc, which may grow the backing slice.
func (a *nodeArena[K, V]) at(ref nodeRef) *node[K, V] {
	return &a.nodes[ref]
}

func (a *nodeArena[K, V]) alloc(key K, value V, height int) (nodeRef, error) {
	util.Assert(height >= 1)
	if a.limit > 0 && a.live >= a.limit {
		return nilRef, ErrArenaFull
	}

	var ref nodeRef
	if n := len(a.free); n > 0 {
		ref = a.free[n-1]
		a.free = a.free[:n-1]
	} else {
		a.nodes = append(a.nodes, node[K, V]{})
		ref = nodeRef(len(a.nodes) - 1)
	}

	x := &a.nodes[ref]
	x.key = key
	x.value = value
	if cap(x.next) > height {
		x.next = x.next[:height+1]
		for i := range x.next {
			x.next[i] = nilRef
		}
	} else {
		x.next = make([]nodeRef, height+1)
	}
	a.live++
	return ref, nil
}

// release returns a fully unlinked node's slot to the free list.
func (a *nodeArena[K, V]) release(ref nodeRef) {
	util.Assertf(ref > headRef && int(ref) < len(a.nodes), "release of invalid ref %d", ref)
	var zeroK K
	var zeroV V
	x := &a.nodes[ref]
	x.key = zeroK
	x.value = zeroV
	x.next = x.next[:0]
	a.free = append(a.free, ref)
	a.live--
}

// slots reports allocated slots, live or free, excluding the reserved ones.
func (a *nodeArena[K, V]) slots() int {
	return len(a.nodes) - 2
}
