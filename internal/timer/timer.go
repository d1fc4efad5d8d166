// Package timer schedules auction deadline expirations.
//
// Each auction has at most one armed deadline. Rescheduling replaces the
// pending timer; a fire from a replaced or cancelled timer is a no-op, so
// callbacks only ever run for the deadline that is actually current.
package timer

import (
	"fmt"
	"sync"
	"time"

	"auction-arena/internal/auctionerrors"
)

type armed struct {
	gen      uint64
	timer    *time.Timer
	onExpire func()
}

// Service manages one resettable deadline per auction.
type Service struct {
	mu    sync.Mutex
	slots map[string]*armed
}

// NewService creates an empty timer service.
func NewService() *Service {
	return &Service{slots: make(map[string]*armed)}
}

// Arm schedules onExpire to run once the deadline passes. Arming an auction
// that already has a pending timer is an error: start must never double-arm.
func (s *Service) Arm(auctionID string, deadline time.Time, onExpire func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.slots[auctionID]; exists {
		return fmt.Errorf("arm auction %s: %w", auctionID, auctionerrors.ErrTimerUnavailable)
	}

	slot := &armed{gen: 1, onExpire: onExpire}
	slot.timer = s.schedule(auctionID, slot.gen, deadline)
	s.slots[auctionID] = slot
	return nil
}

// Reschedule replaces the pending deadline. The superseded timer may already
// be firing concurrently; its generation no longer matches, so it does nothing.
func (s *Service) Reschedule(auctionID string, newDeadline time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, ok := s.slots[auctionID]
	if !ok {
		return fmt.Errorf("reschedule auction %s: %w", auctionID, auctionerrors.ErrTimerUnavailable)
	}

	slot.timer.Stop()
	slot.gen++
	slot.timer = s.schedule(auctionID, slot.gen, newDeadline)
	return nil
}

// Cancel drops the pending timer, if any. Safe to call repeatedly and safe
// to call for auctions that were never armed.
func (s *Service) Cancel(auctionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if slot, ok := s.slots[auctionID]; ok {
		slot.timer.Stop()
		delete(s.slots, auctionID)
	}
}

// schedule must be called with s.mu held.
func (s *Service) schedule(auctionID string, gen uint64, deadline time.Time) *time.Timer {
	wait := time.Until(deadline)
	if wait < 0 {
		wait = 0
	}

	return time.AfterFunc(wait, func() {
		s.fire(auctionID, gen)
	})
}

func (s *Service) fire(auctionID string, gen uint64) {
	s.mu.Lock()
	slot, ok := s.slots[auctionID]
	if !ok || slot.gen != gen {
		// Stale fire from a rescheduled or cancelled timer.
		s.mu.Unlock()
		return
	}
	onExpire := slot.onExpire
	// The slot stays armed: a deadline reset racing this fire must still
	// find it to reschedule. Cancel removes it once the auction settles.
	s.mu.Unlock()

	onExpire()
}
