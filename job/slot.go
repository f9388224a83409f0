package job

import (
	"sync"

	"github.com/google/uuid"
)

// SlotState is a consistent view of the slot.
type SlotState struct {
	Occupied bool
	// CurrentJobID is the last claimed id; stale when Occupied is false.
	CurrentJobID string
}

// Slot admits at most one job at a time. Claims never block or queue.
type Slot struct {
	mu       sync.Mutex
	occupied bool
	current  string
	gen      uint64
	newID    func() string
}

// NewSlot returns an idle slot.
func NewSlot() *Slot {
	return &Slot{newID: uuid.NewString}
}

// TryClaim moves the slot from idle to occupied and returns a handle for
// the new job, or false if a job is already running.
func (s *Slot) TryClaim() (*Handle, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.occupied {
		return nil, false
	}
	s.occupied = true
	s.gen++
	s.current = s.newID()
	return &Handle{slot: s, id: s.current, gen: s.gen}, true
}

// Release marks the slot idle. It is idempotent.
func (s *Slot) Release() {
	s.mu.Lock()
	s.occupied = false
	s.mu.Unlock()
}

func (s *Slot) releaseGen(gen uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.occupied || s.gen != gen {
		return false
	}
	s.occupied = false
	return true
}

func (s *Slot) IsOccupied() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.occupied
}

func (s *Slot) CurrentJobID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Slot) Snapshot() SlotState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SlotState{Occupied: s.occupied, CurrentJobID: s.current}
}

// Handle is the claim held by one job.
type Handle struct {
	slot *Slot
	id   string
	gen  uint64
	once sync.Once
}

// JobID returns the id generated for this claim.
func (h *Handle) JobID() string { return h.id }

// Release frees the slot if this handle still owns it. Only the first call
// has an effect; a handle never releases a later job's claim.
func (h *Handle) Release() bool {
	released := false
	h.once.Do(func() {
		released = h.slot.releaseGen(h.gen)
	})
	return released
}
