package datamodel

// Map is an IPLD Map value: a sequence of string-keyed entries with no
// duplicate keys. It preserves insertion order for iteration, while
// codecs are free to impose their own canonical order (byte-lexicographic
// by UTF-8 of the key) when serializing.
type Map struct {
	keys    []string
	entries map[string]Node
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Get looks up the value stored under key; ok is false if absent.
func (m *Map) Get(key string) (Node, bool) {
	if m == nil {
		return Node{}, false
	}
	v, ok := m.entries[key]
	return v, ok
}

// Keys returns the keys in insertion order. The caller must not mutate
// the returned slice.
func (m *Map) Keys() []string {
	if m == nil {
		return nil
	}
	return m.keys
}

// MapIterator yields a Map's entries in insertion order.
type MapIterator struct {
	m   *Map
	idx int
}

func (m *Map) Iterator() *MapIterator {
	return &MapIterator{m: m}
}

func (it *MapIterator) Done() bool {
	return it.idx >= len(it.m.keys)
}

// Next returns the next key/value pair. Calling Next after Done reports
// true is a programmer error (ErrIteratorOverread-style), signaled by a
// panic, since it can't happen from any codec path in this module.
func (it *MapIterator) Next() (string, Node) {
	k := it.m.keys[it.idx]
	v := it.m.entries[k]
	it.idx++
	return k, v
}

// MapBuilder accumulates key/value pairs into a Map, rejecting duplicate
// keys the way a strict decoder must.
type MapBuilder struct {
	keys    []string
	entries map[string]Node
}

func NewMapBuilder() *MapBuilder {
	return &MapBuilder{entries: map[string]Node{}}
}

// Insert adds key/value. It returns ErrRepeatedMapKey if key was already
// present — decoders should translate that into the codec-specific
// ErrDuplicateKey so an offset can be attached.
func (b *MapBuilder) Insert(key string, value Node) error {
	if _, exists := b.entries[key]; exists {
		return ErrRepeatedMapKey{Key: key}
	}
	b.keys = append(b.keys, key)
	b.entries[key] = value
	return nil
}

// Has reports whether key has already been inserted, without erroring;
// useful for decoders that want to produce a DecodeError with their own
// offset before calling Insert.
func (b *MapBuilder) Has(key string) bool {
	_, ok := b.entries[key]
	return ok
}

func (b *MapBuilder) Build() *Map {
	return &Map{keys: b.keys, entries: b.entries}
}
