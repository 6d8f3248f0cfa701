package booking

import "sync"

// Snapshot is the in-memory booking list for one business, the server-side
// equivalent of the console page state. It is populated by a single fetch,
// owned exclusively, and mirrored only after an acknowledged remote write.
type Snapshot struct {
	mu       sync.RWMutex
	bookings []Booking
	selected string
	loaded   bool
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{}
}

// Loaded reports whether the snapshot holds a fetched list.
func (s *Snapshot) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Replace swaps in a freshly fetched booking list.
func (s *Snapshot) Replace(bookings []Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = append([]Booking(nil), bookings...)
	s.loaded = true
}

// Clear drops the list. Switching businesses clears before repopulating, so
// a brief empty state is visible and expected.
func (s *Snapshot) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bookings = nil
	s.selected = ""
	s.loaded = false
}

// Bookings returns a copy of the list in fetch order.
func (s *Snapshot) Bookings() []Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Booking(nil), s.bookings...)
}

// Select marks a booking as the currently open one.
func (s *Snapshot) Select(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = id
}

// Selected returns the currently open booking, refreshed against the list.
func (s *Snapshot) Selected() (Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selected == "" {
		return Booking{}, false
	}
	for _, b := range s.bookings {
		if b.ID == s.selected {
			return b, true
		}
	}
	return Booking{}, false
}

// Get returns one booking by id.
func (s *Snapshot) Get(id string) (Booking, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.ID == id {
			return b, true
		}
	}
	return Booking{}, false
}

// ApplyStatus mirrors a successful remote status write into the list.
func (s *Snapshot) ApplyStatus(id string, status Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings[i].Status = status
			return
		}
	}
}

// ApplyAssignment mirrors a successful provider assignment: provider id,
// display name, and the forced confirmed status.
func (s *Snapshot) ApplyAssignment(id, providerID, displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings[i].ProviderID = providerID
			s.bookings[i].ProviderName = displayName
			s.bookings[i].Status = StatusConfirmed
			return
		}
	}
}
