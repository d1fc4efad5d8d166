// Package coordinator owns the set of auctions and the single slot for
// "the active auction". The slot is its own exclusion region, taken only on
// start and terminal transitions, never on the bid path; bids on an auction
// serialize inside that auction's machine.
package coordinator

import (
	"fmt"
	"sync"
	"time"

	"auction-arena/internal/auction"
	"auction-arena/internal/auctionerrors"
	"auction-arena/internal/metrics"
	model "auction-arena/internal/models"
	"auction-arena/internal/notify"
	"auction-arena/internal/repository"
	"auction-arena/utils"
)

// CurrentAuctionRef is the shorthand clients may use instead of an auction ID.
const CurrentAuctionRef = "current"

// Coordinator routes start/bid/end requests to auction machines and
// enforces the at-most-one-active invariant.
type Coordinator struct {
	repo        repository.AuctionDB
	timers      auction.TimerService
	broadcaster notify.Broadcaster
	metrics     *metrics.Manager
	settler     *auction.Settler
	duration    time.Duration
	clock       func() time.Time

	mu       sync.Mutex
	active   *auction.Machine
	machines map[string]*auction.Machine
}

// Option customizes a Coordinator.
type Option func(*Coordinator)

// WithClock overrides the time source, for tests.
func WithClock(clock func() time.Time) Option {
	return func(c *Coordinator) { c.clock = clock }
}

// New creates a coordinator. duration is the default auction window used
// when a start request does not carry one.
func New(repo repository.AuctionDB, timers auction.TimerService, broadcaster notify.Broadcaster,
	m *metrics.Manager, settler *auction.Settler, duration time.Duration, opts ...Option) *Coordinator {
	c := &Coordinator{
		repo:        repo,
		timers:      timers,
		broadcaster: broadcaster,
		metrics:     m,
		settler:     settler,
		duration:    duration,
		clock:       time.Now,
		machines:    make(map[string]*auction.Machine),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartAuction opens bidding on a player. Fails with ErrAuctionConflict if
// another auction is active, ErrPlayerNotFound / ErrPlayerUnavailable on bad
// players. The timer is armed before the auction becomes visible; a timer
// failure aborts the start.
func (c *Coordinator) StartAuction(playerID string, duration time.Duration) (model.AuctionSnapshot, error) {
	if duration <= 0 {
		duration = c.duration
	}

	player, err := c.repo.FindPlayer(playerID)
	if err != nil {
		return model.AuctionSnapshot{}, fmt.Errorf("start auction: %w", err)
	}
	if player.Status != model.PlayerAvailable {
		return model.AuctionSnapshot{}, fmt.Errorf("start auction for player %s in status %s: %w",
			playerID, player.Status, auctionerrors.ErrPlayerUnavailable)
	}

	record := model.Auction{
		AuctionID:  utils.GenerateID(),
		PlayerID:   playerID,
		CurrentBid: player.BasePrice,
		Status:     model.AuctionPending,
		Duration:   duration,
	}

	c.mu.Lock()
	if c.active != nil {
		c.mu.Unlock()
		return model.AuctionSnapshot{}, fmt.Errorf("start auction: %w", auctionerrors.ErrAuctionConflict)
	}
	m := c.newMachine(record)
	c.active = m
	c.machines[record.AuctionID] = m
	c.mu.Unlock()

	snap, err := m.Start()
	if err != nil {
		c.mu.Lock()
		if c.active == m {
			c.active = nil
		}
		delete(c.machines, record.AuctionID)
		c.mu.Unlock()
		return model.AuctionSnapshot{}, err
	}

	player.Status = model.PlayerInAuction
	if err := c.repo.SavePlayer(player); err != nil {
		utils.Warn("coordinator: persisting player status failed", map[string]any{
			"player_id": playerID, "error": err.Error(),
		})
	}
	if err := c.repo.SaveAuction(m.Record()); err != nil {
		utils.Warn("coordinator: persisting auction failed", map[string]any{
			"auction_id": record.AuctionID, "error": err.Error(),
		})
	}

	if c.metrics != nil {
		c.metrics.AuctionStarted()
	}
	utils.Info("auction started", map[string]any{
		"auction_id": snap.AuctionID,
		"player_id":  playerID,
		"base_price": player.BasePrice,
		"deadline":   snap.Deadline,
	})
	return snap, nil
}

// PlaceBid routes a bid from the given team to the referenced auction.
// auctionRef may be an auction ID or "current".
func (c *Coordinator) PlaceBid(auctionRef, teamID string, amount float64) (model.AuctionSnapshot, error) {
	team, err := c.repo.FindTeam(teamID)
	if err != nil {
		return model.AuctionSnapshot{}, fmt.Errorf("place bid: %w", err)
	}
	return c.placeBid(auctionRef, team, amount)
}

// PlaceBidByCaptain resolves the captain's team before routing the bid.
func (c *Coordinator) PlaceBidByCaptain(auctionRef, captainID string, amount float64) (model.AuctionSnapshot, error) {
	team, err := c.repo.FindTeamByCaptain(captainID)
	if err != nil {
		return model.AuctionSnapshot{}, fmt.Errorf("place bid: %w", err)
	}
	return c.placeBid(auctionRef, team, amount)
}

func (c *Coordinator) placeBid(auctionRef string, team model.Team, amount float64) (model.AuctionSnapshot, error) {
	m, err := c.resolve(auctionRef)
	if err != nil {
		return model.AuctionSnapshot{}, err
	}

	snap, err := m.PlaceBid(team, amount)
	if err != nil {
		return model.AuctionSnapshot{}, err
	}

	// Terminal records belong to the settler. If End sealed the auction
	// between our bid and this write, persisting here could mask an
	// in-flight settlement pass.
	if record := m.Record(); !record.Status.Terminal() {
		if err := c.repo.SaveAuction(record); err != nil {
			utils.Warn("coordinator: persisting auction after bid failed", map[string]any{
				"auction_id": snap.AuctionID, "error": err.Error(),
			})
		}
	}
	return snap, nil
}

// EndAuction triggers the terminal transition. Idempotent: a second call
// returns the recorded settlement.
func (c *Coordinator) EndAuction(auctionRef string, trigger auction.Trigger) (model.Settlement, error) {
	m, err := c.resolve(auctionRef)
	if err != nil {
		return model.Settlement{}, err
	}
	return m.End(trigger)
}

// CurrentAuction returns the active auction's snapshot and its most recent
// bids, or ErrNoActiveAuction.
func (c *Coordinator) CurrentAuction() (model.AuctionSnapshot, []model.Bid, error) {
	c.mu.Lock()
	m := c.active
	c.mu.Unlock()

	if m == nil {
		return model.AuctionSnapshot{}, nil, auctionerrors.ErrNoActiveAuction
	}
	return m.Snapshot(), m.Bids(10), nil
}

// AuctionBids returns up to limit bids for an auction, most recent first.
func (c *Coordinator) AuctionBids(auctionRef string, limit int) ([]model.Bid, error) {
	m, err := c.resolve(auctionRef)
	if err != nil {
		return nil, err
	}
	return m.Bids(limit), nil
}

// Stats summarizes repository state for dashboards.
type Stats struct {
	Teams          int `json:"teams"`
	Players        int `json:"players"`
	PlayersSold    int `json:"players_sold"`
	ActiveAuctions int `json:"active_auctions"`
}

// Summary returns dashboard counts.
func (c *Coordinator) Summary() (Stats, error) {
	teams, err := c.repo.ListTeams()
	if err != nil {
		return Stats{}, err
	}
	players, err := c.repo.ListPlayers()
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{Teams: len(teams), Players: len(players)}
	for _, p := range players {
		if p.Status == model.PlayerSold {
			stats.PlayersSold++
		}
	}

	c.mu.Lock()
	if c.active != nil {
		stats.ActiveAuctions = 1
	}
	c.mu.Unlock()
	return stats, nil
}

// Recover adopts persisted Active auctions after a restart. Auctions whose
// deadline already passed are ended through the normal End entry point so a
// crash never strands a player in bidding status; an unexpired one is
// re-armed for its remaining window.
func (c *Coordinator) Recover() error {
	now := c.clock()
	active, err := c.repo.FindActiveAuctions()
	if err != nil {
		return fmt.Errorf("recovery: list active auctions: %w", err)
	}

	for _, record := range active {
		if !record.Deadline.After(now) {
			c.recoverExpired(record)
			continue
		}

		c.mu.Lock()
		if c.active != nil {
			// The at-most-one invariant was violated by whatever state we
			// inherited; keep the first and settle the rest.
			c.mu.Unlock()
			c.recoverExpired(record)
			continue
		}
		m := c.newMachine(record)
		c.active = m
		c.machines[record.AuctionID] = m
		c.mu.Unlock()

		if err := m.Resume(); err != nil {
			utils.Error("recovery: re-arming auction failed, ending it", map[string]any{
				"auction_id": record.AuctionID, "error": err.Error(),
			})
			if _, endErr := m.End(auction.TriggerRecovery); endErr != nil {
				return fmt.Errorf("recovery: end auction %s: %w", record.AuctionID, endErr)
			}
			continue
		}

		if c.metrics != nil {
			c.metrics.AuctionStarted()
		}
		utils.Info("recovery: re-adopted active auction", map[string]any{
			"auction_id": record.AuctionID,
			"deadline":   record.Deadline,
		})
	}
	return nil
}

// SweepExpired ends every persisted Active auction whose deadline has
// passed. Live machines are ended through their own idempotent End; orphaned
// records get a machine reconstructed first. Safe to run on a ticker
// alongside the per-auction timers.
func (c *Coordinator) SweepExpired() error {
	now := c.clock()
	expired, err := c.repo.FindExpiredActiveAuctions(now)
	if err != nil {
		return fmt.Errorf("sweep: list expired auctions: %w", err)
	}

	for _, record := range expired {
		c.mu.Lock()
		m, known := c.machines[record.AuctionID]
		c.mu.Unlock()

		if known {
			// Snapshot may be stale: the live machine is authoritative and
			// its deadline may have been reset by a bid since the read.
			if !m.Snapshot().Deadline.After(now) {
				if _, err := m.End(auction.TriggerRecovery); err != nil {
					utils.Warn("sweep: end failed", map[string]any{
						"auction_id": record.AuctionID, "error": err.Error(),
					})
				}
			}
			continue
		}
		c.recoverExpired(record)
	}
	return nil
}

// recoverExpired reconstructs a machine for an orphaned record and ends it.
func (c *Coordinator) recoverExpired(record model.Auction) {
	c.mu.Lock()
	m, known := c.machines[record.AuctionID]
	if !known {
		m = c.newMachine(record)
		c.machines[record.AuctionID] = m
	}
	c.mu.Unlock()

	if _, err := m.End(auction.TriggerRecovery); err != nil {
		utils.Warn("recovery: end expired auction failed", map[string]any{
			"auction_id": record.AuctionID, "error": err.Error(),
		})
	}
}

// resolve maps an auction reference to its machine.
func (c *Coordinator) resolve(auctionRef string) (*auction.Machine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if auctionRef == "" || auctionRef == CurrentAuctionRef {
		if c.active == nil {
			return nil, auctionerrors.ErrNoActiveAuction
		}
		return c.active, nil
	}

	m, ok := c.machines[auctionRef]
	if !ok {
		return nil, fmt.Errorf("auction %s: %w", auctionRef, auctionerrors.ErrAuctionNotFound)
	}
	return m, nil
}

// clearActive releases the single active slot once a machine goes terminal.
func (c *Coordinator) clearActive(auctionID string) {
	c.mu.Lock()
	wasActive := c.active != nil && c.active.AuctionID() == auctionID
	if wasActive {
		c.active = nil
	}
	c.mu.Unlock()

	// Recovered orphans end through here too; the gauge tracks only the
	// live slot.
	if wasActive && c.metrics != nil {
		c.metrics.AuctionClosed()
	}
}

func (c *Coordinator) newMachine(record model.Auction) *auction.Machine {
	return auction.NewMachine(record, auction.Deps{
		Timers:      c.timers,
		Broadcaster: c.broadcaster,
		Settler:     c.settler,
		Metrics:     c.metrics,
		Clock:       c.clock,
		OnTerminal:  c.clearActive,
	})
}
