package resp

// Reply values are plain Go values:
//
//	simple, bulk and verbatim strings  string (decoded) or []byte (raw)
//	integer                            int64
//	double                             float64
//	boolean                            bool
//	big number                         *big.Int
//	null                               nil
//	error, bulk error                  the Config.ReplyError result (*ReplyError by default)
//	array                              []any
//	push                               Push
//	map                                *Map
//	set                                *Set

// Push is an out-of-band push message. It is an array that the peer sent
// without a matching request.
type Push []any

// MapEntry is one key/value pair of a Map.
type MapEntry struct {
	Key   any
	Value any
}

// Map is a map reply. Entries keep their arrival order; setting a key that is
// already present replaces its value in place.
//
// Keys are compared with Equal, so aggregate keys are supported and a string
// key matches a []byte key holding the same bytes.
type Map struct {
	entries []MapEntry
	index   map[uint64][]int
}

// NewMap returns a Map holding entries, in order.
func NewMap(entries ...MapEntry) *Map {
	m := newMap(len(entries))
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

func newMap(capacity int) *Map {
	capacity = min(capacity, maxPrealloc)
	return &Map{
		entries: make([]MapEntry, 0, capacity),
		index:   make(map[uint64][]int, capacity),
	}
}

// Set stores value under key.
func (m *Map) Set(key, value any) {
	h := hashValue(key)
	for _, i := range m.index[h] {
		if Equal(m.entries[i].Key, key) {
			m.entries[i].Value = value
			return
		}
	}
	m.index[h] = append(m.index[h], len(m.entries))
	m.entries = append(m.entries, MapEntry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m *Map) Get(key any) (any, bool) {
	if m == nil {
		return nil, false
	}
	for _, i := range m.index[hashValue(key)] {
		if Equal(m.entries[i].Key, key) {
			return m.entries[i].Value, true
		}
	}
	return nil, false
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the entries in arrival order. The slice must not be modified.
func (m *Map) Entries() []MapEntry {
	if m == nil {
		return nil
	}
	return m.entries
}

// Keys returns the keys in arrival order.
func (m *Map) Keys() []any {
	keys := make([]any, 0, m.Len())
	for _, e := range m.Entries() {
		keys = append(keys, e.Key)
	}
	return keys
}

// Set is a set reply. Members keep their arrival order and duplicates are
// dropped; membership uses Equal.
type Set struct {
	members []any
	index   map[uint64][]int
}

// NewSet returns a Set holding the distinct members.
func NewSet(members ...any) *Set {
	s := newSet(len(members))
	for _, v := range members {
		s.Add(v)
	}
	return s
}

func newSet(capacity int) *Set {
	capacity = min(capacity, maxPrealloc)
	return &Set{
		members: make([]any, 0, capacity),
		index:   make(map[uint64][]int, capacity),
	}
}

// Add inserts v and reports whether it was not already a member.
func (s *Set) Add(v any) bool {
	h := hashValue(v)
	for _, i := range s.index[h] {
		if Equal(s.members[i], v) {
			return false
		}
	}
	s.index[h] = append(s.index[h], len(s.members))
	s.members = append(s.members, v)
	return true
}

// Contains reports whether v is a member.
func (s *Set) Contains(v any) bool {
	if s == nil {
		return false
	}
	for _, i := range s.index[hashValue(v)] {
		if Equal(s.members[i], v) {
			return true
		}
	}
	return false
}

// Len returns the number of members.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.members)
}

// Members returns the members in arrival order. The slice must not be modified.
func (s *Set) Members() []any {
	if s == nil {
		return nil
	}
	return s.members
}
