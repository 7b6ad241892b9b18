package cart

import (
	"slices"
	"sync"

	"studymart-checkout/internal/model"
)

// Listener receives the cart contents after every mutation.
type Listener func(snapshot model.CartSnapshot)

// Store owns the cart line items of one session. Items are unique by id and
// kept in insertion order.
type Store struct {
	mu        sync.RWMutex
	items     []model.CartItem
	index     map[string]int
	listeners []subscription
	nextID    int
}

type subscription struct {
	id int
	fn Listener
}

func NewStore(items ...model.CartItem) *Store {
	s := &Store{
		index: make(map[string]int),
	}
	for _, item := range items {
		s.insert(item)
	}
	return s
}

// Add inserts the item unless its id is already present. It reports whether
// the item was inserted; false means "already in cart" and is not an error.
func (s *Store) Add(item model.CartItem) bool {
	s.mu.Lock()
	added := s.insert(item)
	s.mu.Unlock()

	if added {
		s.notify()
	}
	return added
}

func (s *Store) insert(item model.CartItem) bool {
	if _, ok := s.index[item.ID]; ok {
		return false
	}
	s.index[item.ID] = len(s.items)
	s.items = append(s.items, item)
	return true
}

// Remove deletes the item with the given id. Absent ids are ignored.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	pos, ok := s.index[id]
	if !ok {
		s.mu.Unlock()
		return
	}

	s.items = append(s.items[:pos], s.items[pos+1:]...)
	delete(s.index, id)
	for i := pos; i < len(s.items); i++ {
		s.index[s.items[i].ID] = i
	}
	s.mu.Unlock()

	s.notify()
}

func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	s.index = make(map[string]int)
	s.mu.Unlock()

	s.notify()
}

func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.index[id]
	return ok
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.items)
}

// Snapshot returns a copy of the items; later mutations do not affect it.
func (s *Store) Snapshot() model.CartSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]model.CartItem, len(s.items))
	copy(items, s.items)
	return model.CartSnapshot{Items: items}
}

// Subscribe registers fn for mutation notifications and returns a func that removes it.
func (s *Store) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		s.listeners = slices.DeleteFunc(s.listeners, func(sub subscription) bool { return sub.id == id })
		s.mu.Unlock()
	}
}

func (s *Store) notify() {
	snapshot := s.Snapshot()

	s.mu.RLock()
	listeners := slices.Clone(s.listeners)
	s.mu.RUnlock()

	for _, sub := range listeners {
		sub.fn(snapshot)
	}
}
