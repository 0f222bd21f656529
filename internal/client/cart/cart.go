// Package cart holds the order draft: the menu items picked so far and
// their quantities. It is local state only and never talks to the server.
package cart

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/fooddelivery/internal/client/models"
	"github.com/dmitrijs2005/fooddelivery/internal/client/observe"
)

// Snapshot is the cart state handed to observers.
type Snapshot struct {
	Lines []models.CartLine
	Total float64
	Count int
}

// Store is the cart. The zero value is an empty cart ready to use.
type Store struct {
	mu    sync.Mutex
	lines []models.CartLine
	subs  observe.Subscribers[Snapshot]
}

func New() *Store {
	return &Store{}
}

// Add puts one more unit of line into the cart. If a line with the same ID
// is already there its quantity grows by one and the name and price passed
// in are ignored; the existing line stays canonical.
func (s *Store) Add(line models.CartLine) {
	s.mu.Lock()
	if i := s.index(line.ID); i >= 0 {
		s.lines[i].Quantity++
	} else {
		line.Quantity = 1
		s.lines = append(s.lines, line)
	}
	snap := s.snapshot()
	s.mu.Unlock()

	s.subs.Notify(snap)
}

// UpdateQuantity sets the quantity of line id to max(0, quantity).
// A resulting quantity of zero removes the line. Unknown ids are ignored.
func (s *Store) UpdateQuantity(id int64, quantity int) {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	if quantity <= 0 {
		s.lines = slices.Delete(s.lines, i, i+1)
	} else {
		s.lines[i].Quantity = quantity
	}
	snap := s.snapshot()
	s.mu.Unlock()

	s.subs.Notify(snap)
}

// Remove drops line id if present.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	i := s.index(id)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.lines = slices.Delete(s.lines, i, i+1)
	snap := s.snapshot()
	s.mu.Unlock()

	s.subs.Notify(snap)
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	s.lines = nil
	snap := s.snapshot()
	s.mu.Unlock()

	s.subs.Notify(snap)
}

// Lines returns a copy of the lines in insertion order.
func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.lines)
}

// Total is the sum of price*quantity over the current lines.
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return total(s.lines)
}

// Count is the number of units in the cart.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return count(s.lines)
}

func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	return s.subs.Subscribe(fn)
}

func (s *Store) index(id int64) int {
	return slices.IndexFunc(s.lines, func(l models.CartLine) bool { return l.ID == id })
}

func (s *Store) snapshot() Snapshot {
	return Snapshot{Lines: slices.Clone(s.lines), Total: total(s.lines), Count: count(s.lines)}
}

func total(lines []models.CartLine) float64 {
	var sum float64
	for _, l := range lines {
		sum += l.LineTotal()
	}
	return sum
}

func count(lines []models.CartLine) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
