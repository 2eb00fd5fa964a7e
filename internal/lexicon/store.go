package lexicon

import "sync/atomic"

// Store publishes the current Lexicon. Readers get a consistent snapshot for
// the whole of a request; Swap never affects a snapshot already handed out.
type Store struct {
	current atomic.Pointer[Lexicon]
}

// NewStore creates a store holding initial.
func NewStore(initial *Lexicon) *Store {
	s := &Store{}
	s.current.Store(initial)
	return s
}

// Load returns the current snapshot.
func (s *Store) Load() *Lexicon {
	return s.current.Load()
}

// Swap publishes next and returns the previous snapshot.
func (s *Store) Swap(next *Lexicon) *Lexicon {
	return s.current.Swap(next)
}
