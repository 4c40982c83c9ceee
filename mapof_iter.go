package chainmap

// Range calls yield sequentially for each key and value present in the
// map, in entry-chain order: the most recently inserted entry first.
// If yield returns false, Range stops the iteration.
//
// Each live entry is visited exactly once. yield must not mutate the map.
func (m *MapOf[K, V]) Range(yield func(key K, value V) bool) {
	for e := m.head; e != nil; e = e.next {
		if !yield(e.Key, e.Value) {
			return
		}
	}
}

// RangeEntry is like Range but yields entries as EntryOf values.
func (m *MapOf[K, V]) RangeEntry(yield func(e EntryOf[K, V]) bool) {
	for e := m.head; e != nil; e = e.next {
		if !yield(e.EntryOf) {
			return
		}
	}
}

// RangeKeys iterates over the keys of the map.
func (m *MapOf[K, V]) RangeKeys(yield func(key K) bool) {
	for e := m.head; e != nil; e = e.next {
		if !yield(e.Key) {
			return
		}
	}
}

// RangeValues iterates over the values of the map.
func (m *MapOf[K, V]) RangeValues(yield func(value V) bool) {
	for e := m.head; e != nil; e = e.next {
		if !yield(e.Value) {
			return
		}
	}
}

// All returns an iterator over each key and value present in the map,
// for use with range. The guarantees are those of Range.
func (m *MapOf[K, V]) All() func(yield func(K, V) bool) {
	return m.Range
}

// Keys returns an iterator over the keys of the map, for use with range.
func (m *MapOf[K, V]) Keys() func(yield func(K) bool) {
	return m.RangeKeys
}

// Values returns an iterator over the values of the map, for use with
// range.
func (m *MapOf[K, V]) Values() func(yield func(V) bool) {
	return m.RangeValues
}

// ToMap returns all key-value pairs as a standard map.
func (m *MapOf[K, V]) ToMap() map[K]V {
	out := make(map[K]V, m.size)
	for e := m.head; e != nil; e = e.next {
		out[e.Key] = e.Value
	}
	return out
}

// FromMap inserts all key-value pairs from a standard map. Keys already
// present keep their current values.
func (m *MapOf[K, V]) FromMap(source map[K]V) {
	for k, v := range source {
		m.Insert(k, v)
	}
}

// CopyFrom replaces m's contents with a copy of other's entries. The
// bucket table is reset to m's configured minimum length and regrows
// through the normal insert path; physical layout is not carried over.
// Entries are reinserted oldest first, so both maps iterate in the same
// order afterwards. CopyFrom(m) is a no-op.
func (m *MapOf[K, V]) CopyFrom(other *MapOf[K, V]) {
	if m == other {
		return
	}
	m.Clear()
	m.init()
	var tail *node[K, V]
	for e := other.head; e != nil; e = e.next {
		tail = e
	}
	for e := tail; e != nil; e = e.prev {
		m.Insert(e.Key, e.Value)
	}
}

// Clone returns a copy of the map sharing nothing with the original: the
// same custom hash function (if any) and minimum table length, the same
// iteration order, fully independent storage.
func (m *MapOf[K, V]) Clone() *MapOf[K, V] {
	clone := &MapOf[K, V]{}
	clone.Init(m.userHash, WithPresize(m.minTableLen))
	clone.CopyFrom(m)
	return clone
}
