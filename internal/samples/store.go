// Package samples holds the encoded sound samples of a loaded pack.
package samples

// Entry is one logical key and its encoded sample bytes.
type Entry struct {
	ID   string
	Data []byte
}

// Store maps logical sound keys to encoded sample bytes.
//
// A Store is built once and never modified afterwards, so it may be shared
// between goroutines without locking.
type Store struct {
	data  map[string][]byte
	ids   []string
	bytes int64
}

// NewStore builds a store from entries. When an id repeats, the last entry
// wins and the id keeps its first position in IDs.
func NewStore(entries []Entry) *Store {
	s := &Store{
		data: make(map[string][]byte, len(entries)),
		ids:  make([]string, 0, len(entries)),
	}
	for _, e := range entries {
		if old, ok := s.data[e.ID]; ok {
			s.bytes -= int64(len(old))
		} else {
			s.ids = append(s.ids, e.ID)
		}
		s.data[e.ID] = e.Data
		s.bytes += int64(len(e.Data))
	}
	return s
}

// Lookup returns the sample for id.
func (s *Store) Lookup(id string) ([]byte, bool) {
	data, ok := s.data[id]
	return data, ok
}

// IDs returns a copy of the ids in insertion order.
func (s *Store) IDs() []string {
	return append([]string(nil), s.ids...)
}

// ID returns the i-th id. It panics if i is out of range.
func (s *Store) ID(i int) string {
	return s.ids[i]
}

// Len returns the number of samples.
func (s *Store) Len() int {
	return len(s.ids)
}

// TotalBytes returns the combined size of all samples.
func (s *Store) TotalBytes() int64 {
	return s.bytes
}
