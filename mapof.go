package chainmap

import (
	"errors"
	"math/rand/v2"
	"unsafe"
)

const (
	// defaultMinTableLen is the minimum number of buckets. It is sized so
	// that a fresh table's bucket array of pointers fills one cache line.
	defaultMinTableLen = int(CacheLineSize / ptrSize)

	// loadFactor is the size/bucket-count threshold that triggers a grow
	// during insertion. At most loadFactor entries per bucket on average.
	loadFactor = 1.0
)

// ErrKeyNotFound is returned by At for keys that are not in the map.
var ErrKeyNotFound = errors.New("chainmap: key not found")

// EntryOf is an immutable map entry.
type EntryOf[K comparable, V any] struct {
	Key   K
	Value V
}

// node is one live entry. It is linked into two structures at once: the
// entry chain (prev/next, newest entry first), which owns every live
// entry, and exactly one bucket chain (bucketNext). Nodes never move once
// allocated, so a value pointer handed out by Ref stays valid until the
// entry is deleted or the map is cleared.
type node[K comparable, V any] struct {
	EntryOf[K, V]
	hash       uintptr // cached so that growth never re-hashes keys
	prev, next *node[K, V]
	bucketNext *node[K, V]
}

// MapOf is an insertion-ordered hash map built from two cooperating
// linked structures: a doubly-linked chain of entry nodes, newest first,
// holding every live key/value pair, and a bucket table of singly-linked
// chains threaded through the same nodes. Collisions are absorbed by
// chaining; the bucket table doubles whenever the load factor passes 1.0
// and never shrinks.
//
// Key features of chainmap.MapOf:
//   - Zero-value usability: the zero MapOf is empty and ready to use
//   - Defaults to Go's built-in hash function, customizable on creation
//     or initialization
//   - First write wins: Insert and Ref never overwrite an existing entry
//   - Stable entries: growth reclassifies bucket membership without
//     moving entries, so value pointers and entry-chain positions
//     survive it
//   - Deterministic iteration in entry-chain order, newest insertion first
//
// MapOf is not safe for concurrent use. Callers that share a map across
// goroutines must serialize access externally.
type MapOf[K comparable, V any] struct {
	head         *node[K, V]
	buckets      []*node[K, V] // length is always a power of two
	size         int
	seed         uintptr
	keyHash      hashFunc
	userHash     func(key K, seed uintptr) uintptr // non-nil only for custom hashers
	minTableLen  int                               // WithPresize
	totalGrowths int
}

// MapConfig defines configurable MapOf options.
type MapConfig struct {
	sizeHint int
}

// WithPresize configures new MapOf instance with capacity enough
// to hold sizeHint entries. The capacity is treated as the minimal
// capacity, meaning that the bucket table never goes below it; Clear and
// CopyFrom reset the table back to it. If sizeHint is zero or negative,
// the value is ignored.
func WithPresize(sizeHint int) func(*MapConfig) {
	return func(c *MapConfig) {
		c.sizeHint = sizeHint
	}
}

// NewMapOf creates a new MapOf instance. Direct initialization is also
// supported.
//
// Parameters:
//   - WithPresize option for initial capacity
func NewMapOf[K comparable, V any](
	options ...func(*MapConfig),
) *MapOf[K, V] {
	return NewMapOfWithHasher[K, V](nil, options...)
}

// NewMapOfWithHasher creates a MapOf with a custom key hash function.
//
// Parameters:
//   - keyHash: nil uses the built-in hasher. A custom function must be
//     deterministic: equal keys must hash equal for a given seed.
//   - WithPresize option for initial capacity
func NewMapOfWithHasher[K comparable, V any](
	keyHash func(key K, seed uintptr) uintptr,
	options ...func(*MapConfig),
) *MapOf[K, V] {
	m := &MapOf[K, V]{}
	m.Init(keyHash, options...)
	return m
}

// NewMapOfFromEntries creates a MapOf pre-populated with entries.
// Duplicate keys resolve to the first occurrence.
func NewMapOfFromEntries[K comparable, V any](
	entries []EntryOf[K, V],
	options ...func(*MapConfig),
) *MapOf[K, V] {
	m := NewMapOf[K, V](options...)
	for i := range entries {
		m.Insert(entries[i].Key, entries[i].Value)
	}
	return m
}

// Init configures a MapOf in place, for instances not built by a
// constructor (struct fields, composite literals). Calling Init on a map
// that already holds entries discards them.
//
// Parameters:
//   - keyHash: nil uses the built-in hasher
//   - WithPresize option for initial capacity
func (m *MapOf[K, V]) Init(
	keyHash func(key K, seed uintptr) uintptr,
	options ...func(*MapConfig),
) {
	c := &MapConfig{}
	for _, o := range options {
		o(c)
	}

	m.seed = uintptr(rand.Uint64())
	m.userHash = keyHash
	if keyHash != nil {
		m.keyHash = func(pointer unsafe.Pointer, seed uintptr) uintptr {
			return keyHash(*(*K)(pointer), seed)
		}
	} else {
		m.keyHash = defaultHasher[K]()
	}

	m.minTableLen = calcTableLen(c.sizeHint)
	m.head = nil
	m.size = 0
	m.totalGrowths = 0
	m.buckets = make([]*node[K, V], m.minTableLen)
}

// init lazily initializes a zero-value map on its first mutation.
func (m *MapOf[K, V]) init() {
	if m.buckets == nil {
		m.Init(nil)
	}
}

// calcTableLen rounds sizeHint up to a power of two, never below the
// cache-line-derived default.
func calcTableLen(sizeHint int) int {
	tableLen := defaultMinTableLen
	for tableLen < sizeHint {
		tableLen <<= 1
	}
	return tableLen
}

func (m *MapOf[K, V]) hashOf(key *K) uintptr {
	return m.keyHash(noescape(unsafe.Pointer(key)), m.seed)
}

// findNode walks the one bucket chain the hash selects and returns the
// node holding key, or nil. This is the only place key equality is
// tested; every public operation composes it with at most one splice.
func (m *MapOf[K, V]) findNode(hash uintptr, key *K) *node[K, V] {
	bidx := hash & uintptr(len(m.buckets)-1)
	for e := m.buckets[bidx]; e != nil; e = e.bucketNext {
		if e.hash == hash && e.Key == *key {
			return e
		}
	}
	return nil
}

// link splices a new entry onto the front of the entry chain and onto the
// front of its bucket chain, then grows the table if the insertion pushed
// the load factor past the threshold. Growth completes before link
// returns.
func (m *MapOf[K, V]) link(hash uintptr, key K, value V) *node[K, V] {
	e := &node[K, V]{
		EntryOf: EntryOf[K, V]{Key: key, Value: value},
		hash:    hash,
	}
	e.next = m.head
	if m.head != nil {
		m.head.prev = e
	}
	m.head = e

	bidx := hash & uintptr(len(m.buckets)-1)
	e.bucketNext = m.buckets[bidx]
	m.buckets[bidx] = e

	m.size++
	if float64(m.size) > loadFactor*float64(len(m.buckets)) {
		m.grow()
	}
	return e
}

// grow doubles the bucket table and rebuilds every bucket chain with a
// single walk of the entry chain, using the cached hashes. Entries are
// never moved or re-hashed; only bucket membership changes.
func (m *MapOf[K, V]) grow() {
	buckets := make([]*node[K, V], len(m.buckets)<<1)
	mask := uintptr(len(buckets) - 1)
	for e := m.head; e != nil; e = e.next {
		bidx := e.hash & mask
		e.bucketNext = buckets[bidx]
		buckets[bidx] = e
	}
	m.buckets = buckets
	m.totalGrowths++
}

// unlink removes e from its bucket chain and from the entry chain.
func (m *MapOf[K, V]) unlink(e *node[K, V]) {
	bidx := e.hash & uintptr(len(m.buckets)-1)
	if m.buckets[bidx] == e {
		m.buckets[bidx] = e.bucketNext
	} else {
		p := m.buckets[bidx]
		for p.bucketNext != e {
			p = p.bucketNext
		}
		p.bucketNext = e.bucketNext
	}

	if e.prev != nil {
		e.prev.next = e.next
	} else {
		m.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	}
	e.prev, e.next, e.bucketNext = nil, nil, nil
	m.size--
}

// Load retrieves a value for a key, compatible with `sync.Map`.
func (m *MapOf[K, V]) Load(key K) (value V, ok bool) {
	if m.size == 0 {
		return
	}
	if e := m.findNode(m.hashOf(&key), &key); e != nil {
		return e.Value, true
	}
	return
}

// HasKey reports whether the key is in the map.
func (m *MapOf[K, V]) HasKey(key K) bool {
	_, ok := m.Load(key)
	return ok
}

// At returns the value for a key, or ErrKeyNotFound if the key is not in
// the map. Use Load when absence is an ordinary outcome.
func (m *MapOf[K, V]) At(key K) (V, error) {
	if v, ok := m.Load(key); ok {
		return v, nil
	}
	var zero V
	return zero, ErrKeyNotFound
}

// Ref returns a pointer to the stored value for a key, first inserting
// the zero value when the key is absent. Ref never overwrites: for an
// existing key it points at the current value.
//
// The pointer stays valid until the entry is deleted or the map is
// cleared; growth does not invalidate it. Writes through it are visible
// to subsequent lookups.
func (m *MapOf[K, V]) Ref(key K) *V {
	m.init()
	hash := m.hashOf(&key)
	if e := m.findNode(hash, &key); e != nil {
		return &e.Value
	}
	var zero V
	return &m.link(hash, key, zero).Value
}

// Insert stores the key/value pair if the key is absent and reports
// whether it did. An existing key keeps its current value: first write
// wins. Use Ref to modify a stored value in place.
func (m *MapOf[K, V]) Insert(key K, value V) bool {
	_, loaded := m.LoadOrStore(key, value)
	return !loaded
}

// LoadOrStore returns the existing value for the key if present.
// Otherwise, it stores and returns the given value.
// The loaded result is true if the value was loaded, false if stored.
func (m *MapOf[K, V]) LoadOrStore(key K, value V) (actual V, loaded bool) {
	return m.LoadOrStoreFn(key, func() V { return value })
}

// LoadOrStoreFn is similar to LoadOrStore, but uses a generator function
// for lazy value creation. valueFn is called only on absence.
func (m *MapOf[K, V]) LoadOrStoreFn(key K, valueFn func() V) (actual V, loaded bool) {
	m.init()
	hash := m.hashOf(&key)
	if e := m.findNode(hash, &key); e != nil {
		return e.Value, true
	}
	value := valueFn()
	m.link(hash, key, value)
	return value, false
}

// Delete deletes the value for a key. Deleting an absent key is a no-op.
// Value pointers for other keys remain valid.
func (m *MapOf[K, V]) Delete(key K) {
	m.LoadAndDelete(key)
}

// LoadAndDelete deletes the value for a key, returning the previous value
// if any. The loaded result reports whether the key was present.
func (m *MapOf[K, V]) LoadAndDelete(key K) (value V, loaded bool) {
	if m.size == 0 {
		return
	}
	e := m.findNode(m.hashOf(&key), &key)
	if e == nil {
		return
	}
	m.unlink(e)
	return e.Value, true
}

// Clear deletes all the entries, resulting in an empty MapOf with the
// bucket table back at its configured minimum length. Clearing an empty
// map is a no-op.
func (m *MapOf[K, V]) Clear() {
	if m.buckets == nil {
		return
	}
	m.head = nil
	m.size = 0
	m.buckets = make([]*node[K, V], m.minTableLen)
}

// Size returns the number of entries in the map.
func (m *MapOf[K, V]) Size() int {
	return m.size
}

// IsZero checks if the map is empty.
func (m *MapOf[K, V]) IsZero() bool {
	return m.size == 0
}

// HashFunc returns a copy of the configured hash function: the custom one
// when the map was built with NewMapOfWithHasher or Init, otherwise a
// typed wrapper around the built-in hasher for K.
func (m *MapOf[K, V]) HashFunc() func(key K, seed uintptr) uintptr {
	if m.userHash != nil {
		return m.userHash
	}
	keyHash := m.keyHash
	if keyHash == nil {
		keyHash = defaultHasher[K]()
	}
	return func(key K, seed uintptr) uintptr {
		return keyHash(noescape(unsafe.Pointer(&key)), seed)
	}
}
