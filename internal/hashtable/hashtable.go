// Package hashtable implements the open-addressed, FNV-1a-hashed string
// table shared by the symbol interner and the global environment
// (spec.md §3, §4.6): linear probing, tombstone deletion, resize at 0.7
// load factor, initial capacity a power of two.
package hashtable

// entryState tracks whether a slot is empty, live, or a tombstone left
// behind by a deletion (needed so probing doesn't stop early).
type entryState uint8

const (
	stateEmpty entryState = iota
	stateLive
	stateTomb
)

type entry struct {
	state entryState
	hash  uint64
	key   string
	value interface{}
}

// Table is a generic-enough open-addressed map from string to interface{};
// the symbol interner stores *cell.Cell and the global environment stores
// *cell.Cell too, so callers type-assert on retrieval.
type Table struct {
	slots []entry
	count int // live entries
	used  int // live + tombstones, drives resize decisions
}

const initialCapacity = 16
const loadFactor = 0.7

func New() *Table {
	return &Table{slots: make([]entry, initialCapacity)}
}

// hashString computes the FNV-1a 64-bit hash (grounded on the teacher's
// own HashString helper in its value-registration package).
func hashString(s string) uint64 {
	hash := uint64(14695981039346656037)
	for i := 0; i < len(s); i++ {
		hash ^= uint64(s[i])
		hash *= 1099511628211
	}
	return hash
}

func (t *Table) mask() uint64 { return uint64(len(t.slots) - 1) }

// Get returns the value for key and whether it was found.
func (t *Table) Get(key string) (interface{}, bool) {
	h := hashString(key)
	i := h & t.mask()
	for {
		e := &t.slots[i]
		switch e.state {
		case stateEmpty:
			return nil, false
		case stateLive:
			if e.hash == h && e.key == key {
				return e.value, true
			}
		}
		i = (i + 1) & t.mask()
	}
}

// Set installs or overwrites a binding, resizing first if the table has
// grown past the load factor.
func (t *Table) Set(key string, value interface{}) {
	if float64(t.used+1) > loadFactor*float64(len(t.slots)) {
		t.grow()
	}
	t.insert(key, value)
}

func (t *Table) insert(key string, value interface{}) {
	h := hashString(key)
	i := h & t.mask()
	var firstTomb = -1
	for {
		e := &t.slots[i]
		switch e.state {
		case stateEmpty:
			idx := i
			if firstTomb >= 0 {
				idx = uint64(firstTomb)
			}
			t.slots[idx] = entry{state: stateLive, hash: h, key: key, value: value}
			t.count++
			if firstTomb < 0 {
				t.used++
			}
			return
		case stateTomb:
			if firstTomb < 0 {
				firstTomb = int(i)
			}
		case stateLive:
			if e.hash == h && e.key == key {
				e.value = value
				return
			}
		}
		i = (i + 1) & t.mask()
	}
}

// Delete tombstones the slot for key, if present.
func (t *Table) Delete(key string) bool {
	h := hashString(key)
	i := h & t.mask()
	for {
		e := &t.slots[i]
		switch e.state {
		case stateEmpty:
			return false
		case stateLive:
			if e.hash == h && e.key == key {
				e.state = stateTomb
				e.value = nil
				t.count--
				return true
			}
		}
		i = (i + 1) & t.mask()
	}
}

func (t *Table) Len() int { return t.count }

func (t *Table) grow() {
	old := t.slots
	newCap := len(t.slots) * 2
	t.slots = make([]entry, newCap)
	t.count = 0
	t.used = 0
	for _, e := range old {
		if e.state == stateLive {
			t.insert(e.key, e.value)
		}
	}
}

// Each iterates live entries in storage order, skipping empties and
// tombstones, for completion enumeration or flushing (spec.md §4.6).
func (t *Table) Each(fn func(key string, value interface{})) {
	for _, e := range t.slots {
		if e.state == stateLive {
			fn(e.key, e.value)
		}
	}
}
