// Package dedup implements a small fixed-capacity, linear-probed hash map
// keyed by an 8-byte BLAKE2s digest, recording solution words already
// reported by the block-Lanczos outer loop so repeated restarts don't
// re-report the same kernel vector.
package dedup

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/crypto/blake2s"
)

// KeyLen is the digest length used as the map key, matching the
// reference's HMAP_HASH_LEN.
const KeyLen = 8

// Key is a truncated BLAKE2s digest.
type Key [KeyLen]byte

// HashSolution derives the dedup key for a solution word.
func HashSolution(sol uint64) Key {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], sol)
	full := blake2s.Sum256(buf[:])
	var k Key
	copy(k[:], full[:KeyLen])
	return k
}

type slot struct {
	used  bool
	key   Key
	value uint64
}

// Map is a fixed-capacity, linear-probed hash table. Zero value is not
// usable; construct with New.
type Map struct {
	slots []slot
	size  int
}

// New allocates a Map with room for exactly capacity entries.
func New(capacity int) (*Map, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("dedup: capacity must be positive, got %d", capacity)
	}
	return &Map{slots: make([]slot, capacity)}, nil
}

// Cap returns the map's fixed capacity.
func (m *Map) Cap() int { return len(m.slots) }

// Len returns the current number of stored entries.
func (m *Map) Len() int { return m.size }

func (m *Map) probe(k Key) int {
	h := binary.LittleEndian.Uint64(k[:])
	return int(h % uint64(len(m.slots)))
}

// InsertResult is the outcome of Insert.
type InsertResult int

const (
	// Inserted means the key was not present and has now been stored.
	Inserted InsertResult = iota
	// Duplicate means a slot for this exact key already existed.
	Duplicate
	// Full means the map has no room and no matching key was found.
	Full
)

// Insert stores value keyed by k, unless k is already present (Duplicate)
// or the map has no free slot (Full).
func (m *Map) Insert(k Key, value uint64) InsertResult {
	n := len(m.slots)
	start := m.probe(k)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		s := &m.slots[idx]
		if !s.used {
			s.used = true
			s.key = k
			s.value = value
			m.size++
			return Inserted
		}
		if s.key == k {
			return Duplicate
		}
	}
	return Full
}

// Get returns the value stored for k and true, or the zero value and false
// if k is not present.
func (m *Map) Get(k Key) (uint64, bool) {
	n := len(m.slots)
	start := m.probe(k)
	for i := 0; i < n; i++ {
		idx := (start + i) % n
		s := &m.slots[idx]
		if !s.used {
			return 0, false
		}
		if s.key == k {
			return s.value, true
		}
	}
	return 0, false
}

// Reset clears every entry without reallocating.
func (m *Map) Reset() {
	for i := range m.slots {
		m.slots[i] = slot{}
	}
	m.size = 0
}

// ForEach calls f for every stored (key, value) pair, in slot order.
func (m *Map) ForEach(f func(Key, uint64)) {
	for _, s := range m.slots {
		if s.used {
			f(s.key, s.value)
		}
	}
}
