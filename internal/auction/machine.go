// Package auction implements the per-auction state machine.
//
// One Machine owns the price/leading-bidder/status triple for one auction.
// PlaceBid and End are each atomic with respect to the other: both run
// entirely inside the machine's mutex, and repository writes and event
// publishes happen only after the lock is released, on a snapshot taken
// under it. End is the single terminal entry point for every trigger
// (timer, admin, recovery) and settles exactly once.
package auction

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"auction-arena/internal/auctionerrors"
	"auction-arena/internal/ledger"
	"auction-arena/internal/metrics"
	model "auction-arena/internal/models"
	"auction-arena/internal/notify"
	"auction-arena/utils"
)

// Trigger identifies what requested the terminal transition.
type Trigger string

const (
	TriggerTimer    Trigger = "timer"
	TriggerAdmin    Trigger = "admin"
	TriggerRecovery Trigger = "recovery"
)

// TimerService is the deadline scheduler consumed by the machine.
type TimerService interface {
	Arm(auctionID string, deadline time.Time, onExpire func()) error
	Reschedule(auctionID string, newDeadline time.Time) error
	Cancel(auctionID string)
}

// Deps are the collaborators a machine needs beyond its own state.
type Deps struct {
	Timers      TimerService
	Broadcaster notify.Broadcaster
	Settler     *Settler
	Metrics     *metrics.Manager
	Clock       func() time.Time

	// OnTerminal runs after the terminal transition is sealed; the
	// coordinator uses it to release the active-auction slot.
	OnTerminal func(auctionID string)
}

// Machine is the serializing authority for one auction.
type Machine struct {
	deps Deps

	mu              sync.Mutex
	auctionID       string
	playerID        string
	currentBid      float64
	highestBidderID string
	status          model.AuctionStatus
	startTime       time.Time
	deadline        time.Time
	duration        time.Duration
	bids            *ledger.Ledger
	settlement      *model.Settlement // non-nil once terminal
}

// NewMachine builds a machine from an auction record. Records reconstructed
// from the repository keep their recorded status, deadline and bid history;
// fresh auctions start Pending.
func NewMachine(record model.Auction, deps Deps) *Machine {
	if deps.Clock == nil {
		deps.Clock = time.Now
	}
	return &Machine{
		deps:            deps,
		auctionID:       record.AuctionID,
		playerID:        record.PlayerID,
		currentBid:      record.CurrentBid,
		highestBidderID: record.HighestBidderID,
		status:          record.Status,
		startTime:       record.StartTime,
		deadline:        record.Deadline,
		duration:        record.Duration,
		bids:            ledger.New(record.Bids...),
	}
}

// AuctionID returns the auction's identity.
func (m *Machine) AuctionID() string { return m.auctionID }

// PlayerID returns the auctioned player's identity.
func (m *Machine) PlayerID() string { return m.playerID }

// Start transitions Pending -> Active and arms the expiry timer. If the
// timer cannot be armed the auction does not start: an active auction must
// never exist without an enforceable deadline.
func (m *Machine) Start() (model.AuctionSnapshot, error) {
	m.mu.Lock()
	if m.status != model.AuctionPending {
		status := m.status
		m.mu.Unlock()
		return model.AuctionSnapshot{}, fmt.Errorf("start auction %s in status %s: %w",
			m.auctionID, status, auctionerrors.ErrAuctionConflict)
	}

	now := m.deps.Clock()
	deadline := now.Add(m.duration)
	// Arm while still Pending: the auction must never be biddable without
	// an enforceable deadline. The lock order is machine then timer; the
	// timer service never calls back while holding its own mutex.
	if err := m.deps.Timers.Arm(m.auctionID, deadline, m.expire); err != nil {
		m.mu.Unlock()
		return model.AuctionSnapshot{}, fmt.Errorf("start auction %s: %w", m.auctionID, err)
	}
	m.status = model.AuctionActive
	m.startTime = now
	m.deadline = deadline
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.deps.Broadcaster.Publish(m.auctionID, notify.AuctionStarted(snap))
	return snap, nil
}

// Resume re-arms the timer for an auction reconstructed in Active status,
// keeping its persisted deadline.
func (m *Machine) Resume() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.status != model.AuctionActive {
		return fmt.Errorf("resume auction %s in status %s: %w",
			m.auctionID, m.status, auctionerrors.ErrAuctionNotActive)
	}
	return m.deps.Timers.Arm(m.auctionID, m.deadline, m.expire)
}

// PlaceBid validates and admits one bid. Concurrent bids are resolved by
// this lock: the first admitted raises the price, later equal bids observe
// it and fail with ErrBidTooLow.
func (m *Machine) PlaceBid(team model.Team, amount float64) (model.AuctionSnapshot, error) {
	if team.TeamID == "" {
		return model.AuctionSnapshot{}, fmt.Errorf("place bid: %w - missing team", auctionerrors.ErrInvalidBid)
	}
	if amount <= 0 {
		return model.AuctionSnapshot{}, fmt.Errorf("place bid: %w - non-positive amount", auctionerrors.ErrInvalidBid)
	}

	m.mu.Lock()

	if m.status != model.AuctionActive {
		status := m.status
		m.mu.Unlock()
		return model.AuctionSnapshot{}, m.reject("not_active",
			fmt.Errorf("auction %s is %s: %w", m.auctionID, status, auctionerrors.ErrAuctionNotActive))
	}

	now := m.deps.Clock()
	// The deadline is authoritative even if the timer has not fired yet.
	if !now.Before(m.deadline) {
		m.mu.Unlock()
		return model.AuctionSnapshot{}, m.reject("expired",
			fmt.Errorf("auction %s deadline passed: %w", m.auctionID, auctionerrors.ErrAuctionExpired))
	}

	if amount <= m.currentBid {
		current := m.currentBid
		m.mu.Unlock()
		return model.AuctionSnapshot{}, m.reject("too_low",
			fmt.Errorf("bid %.2f against current %.2f: %w", amount, current, auctionerrors.ErrBidTooLow))
	}

	if amount > team.Budget {
		m.mu.Unlock()
		return model.AuctionSnapshot{}, m.reject("insufficient_funds",
			fmt.Errorf("bid %.2f exceeds budget %.2f of team %s: %w",
				amount, team.Budget, team.TeamID, auctionerrors.ErrInsufficientFunds))
	}

	bid := model.Bid{
		BidID:     utils.GenerateID(),
		AuctionID: m.auctionID,
		TeamID:    team.TeamID,
		PlayerID:  m.playerID,
		Amount:    amount,
		Timestamp: now,
	}
	m.bids.Append(bid)
	m.currentBid = amount
	m.highestBidderID = team.TeamID
	// Full-window reset: each accepted bid restarts the countdown.
	m.deadline = now.Add(m.duration)
	snap := m.snapshotLocked()
	m.mu.Unlock()

	if err := m.deps.Timers.Reschedule(m.auctionID, snap.Deadline); err != nil {
		// End is racing us; it wins on the terminal flag, the bid stands.
		utils.Warn("auction: reschedule after accepted bid failed", map[string]any{
			"auction_id": m.auctionID,
			"error":      err.Error(),
		})
	}

	if m.deps.Metrics != nil {
		m.deps.Metrics.BidAccepted()
	}
	m.deps.Broadcaster.Publish(m.auctionID, notify.BidAccepted(snap))
	return snap, nil
}

// End performs the terminal transition. It is idempotent: the first caller
// wins, and every later call (timer, admin, recovery sweep) gets the same
// settlement back with no further side effects.
func (m *Machine) End(trigger Trigger) (model.Settlement, error) {
	m.mu.Lock()

	if m.settlement != nil {
		settled := *m.settlement
		m.mu.Unlock()
		return settled, nil
	}
	if m.status != model.AuctionActive {
		status := m.status
		m.mu.Unlock()
		return model.Settlement{}, fmt.Errorf("end auction %s in status %s: %w",
			m.auctionID, status, auctionerrors.ErrAuctionNotActive)
	}

	now := m.deps.Clock()
	// A timer fire can race a bid's deadline reset. The deadline under
	// this lock is authoritative: a fire for a superseded deadline must
	// not end an auction whose countdown was just restarted.
	if trigger == TriggerTimer && now.Before(m.deadline) {
		m.mu.Unlock()
		return model.Settlement{}, fmt.Errorf("end auction %s: %w",
			m.auctionID, auctionerrors.ErrDeadlineNotReached)
	}

	settled := model.Settlement{
		AuctionID: m.auctionID,
		PlayerID:  m.playerID,
		EndedAt:   now,
	}
	if m.highestBidderID != "" && m.currentBid > 0 {
		m.status = model.AuctionSold
		settled.Outcome = model.OutcomeSold
		settled.WinnerID = m.highestBidderID
		settled.Price = m.currentBid
	} else {
		m.status = model.AuctionEnded
		settled.Outcome = model.OutcomeUnsold
	}
	m.settlement = &settled
	record := m.recordLocked()
	m.mu.Unlock()

	// The terminal flag is sealed: no bid can be admitted past this point.
	// Everything below is side effects on a snapshot.
	m.deps.Timers.Cancel(m.auctionID)

	if m.deps.OnTerminal != nil {
		m.deps.OnTerminal(m.auctionID)
	}

	utils.Info("auction ended", map[string]any{
		"auction_id": m.auctionID,
		"player_id":  m.playerID,
		"trigger":    string(trigger),
		"outcome":    string(settled.Outcome),
		"price":      settled.Price,
	})

	if m.deps.Metrics != nil {
		m.deps.Metrics.Settled(string(settled.Outcome))
	}
	m.deps.Broadcaster.Publish(m.auctionID, notify.AuctionSettled(settled))
	m.deps.Settler.Settle(record, settled)

	return settled, nil
}

// expire is the timer callback. The auction may already have ended through
// another path; End absorbs that.
func (m *Machine) expire() {
	if _, err := m.End(TriggerTimer); err != nil {
		if errors.Is(err, auctionerrors.ErrDeadlineNotReached) {
			// Stale fire; a bid reset the countdown and rearmed the timer.
			return
		}
		utils.Warn("auction: timer expiry on non-active auction", map[string]any{
			"auction_id": m.auctionID,
			"error":      err.Error(),
		})
	}
}

// Snapshot returns a consistent view of the auction's live state.
func (m *Machine) Snapshot() model.AuctionSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// Record returns the full auction record, including bid history, for
// persistence.
func (m *Machine) Record() model.Auction {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordLocked()
}

// Bids returns up to limit bids, most recent first.
func (m *Machine) Bids(limit int) []model.Bid {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bids.History(limit)
}

func (m *Machine) snapshotLocked() model.AuctionSnapshot {
	return model.AuctionSnapshot{
		AuctionID:       m.auctionID,
		PlayerID:        m.playerID,
		Status:          m.status,
		CurrentBid:      m.currentBid,
		HighestBidderID: m.highestBidderID,
		StartTime:       m.startTime,
		Deadline:        m.deadline,
		Duration:        m.duration,
		BidCount:        m.bids.Len(),
	}
}

func (m *Machine) recordLocked() model.Auction {
	return model.Auction{
		AuctionID:       m.auctionID,
		PlayerID:        m.playerID,
		CurrentBid:      m.currentBid,
		HighestBidderID: m.highestBidderID,
		Status:          m.status,
		StartTime:       m.startTime,
		Deadline:        m.deadline,
		Duration:        m.duration,
		Bids:            m.bids.All(),
	}
}

func (m *Machine) reject(reason string, err error) error {
	if m.deps.Metrics != nil {
		m.deps.Metrics.BidRejected(reason)
	}
	return err
}
