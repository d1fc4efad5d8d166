package repository

import (
	"fmt"
	"sync"
	"time"

	"auction-arena/internal/auctionerrors"
	model "auction-arena/internal/models"
)

// AuctionDB defines the persistence interface consumed by the auction engine
type AuctionDB interface {
	FindPlayer(playerID string) (model.Player, error)
	SavePlayer(player model.Player) error
	FindTeam(teamID string) (model.Team, error)
	FindTeamByCaptain(captainID string) (model.Team, error)
	SaveTeam(team model.Team) error
	FindAuction(auctionID string) (model.Auction, error)
	SaveAuction(auction model.Auction) error
	FindActiveAuctions() ([]model.Auction, error)
	FindExpiredActiveAuctions(now time.Time) ([]model.Auction, error)
	ListPlayers() ([]model.Player, error)
	ListTeams() ([]model.Team, error)
}

// MemoryRepo is a concurrency-safe in-memory implementation of AuctionDB
type MemoryRepo struct {
	mu       sync.RWMutex
	players  map[string]model.Player
	teams    map[string]model.Team
	auctions map[string]model.Auction
}

// NewMemoryRepo creates a new in-memory repository instance
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		players:  make(map[string]model.Player),
		teams:    make(map[string]model.Team),
		auctions: make(map[string]model.Auction),
	}
}

// FindPlayer returns a player by ID
func (r *MemoryRepo) FindPlayer(playerID string) (model.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	player, ok := r.players[playerID]
	if !ok {
		return model.Player{}, fmt.Errorf("find player %s: %w", playerID, auctionerrors.ErrPlayerNotFound)
	}
	return player, nil
}

// SavePlayer inserts or replaces a player record
func (r *MemoryRepo) SavePlayer(player model.Player) error {
	if player.PlayerID == "" {
		return fmt.Errorf("save player: %w", auctionerrors.ErrPlayerNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[player.PlayerID] = player
	return nil
}

// FindTeam returns a team by ID
func (r *MemoryRepo) FindTeam(teamID string) (model.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	team, ok := r.teams[teamID]
	if !ok {
		return model.Team{}, fmt.Errorf("find team %s: %w", teamID, auctionerrors.ErrTeamNotFound)
	}
	return copyTeam(team), nil
}

// FindTeamByCaptain returns the team led by the given captain
func (r *MemoryRepo) FindTeamByCaptain(captainID string) (model.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, team := range r.teams {
		if team.CaptainID == captainID {
			return copyTeam(team), nil
		}
	}
	return model.Team{}, fmt.Errorf("find team for captain %s: %w", captainID, auctionerrors.ErrTeamNotFound)
}

// SaveTeam inserts or replaces a team record
func (r *MemoryRepo) SaveTeam(team model.Team) error {
	if team.TeamID == "" {
		return fmt.Errorf("save team: %w", auctionerrors.ErrTeamNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.teams[team.TeamID] = copyTeam(team)
	return nil
}

// FindAuction returns an auction by ID
func (r *MemoryRepo) FindAuction(auctionID string) (model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	auction, ok := r.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("find auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return copyAuction(auction), nil
}

// SaveAuction inserts or replaces an auction record
func (r *MemoryRepo) SaveAuction(auction model.Auction) error {
	if auction.AuctionID == "" {
		return fmt.Errorf("save auction: %w", auctionerrors.ErrAuctionNotFound)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.auctions[auction.AuctionID] = copyAuction(auction)
	return nil
}

// FindActiveAuctions returns all auctions currently in active status
func (r *MemoryRepo) FindActiveAuctions() ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var active []model.Auction
	for _, auction := range r.auctions {
		if auction.Status == model.AuctionActive {
			active = append(active, copyAuction(auction))
		}
	}
	return active, nil
}

// FindExpiredActiveAuctions returns active auctions whose deadline has passed.
// Used by the recovery sweep.
func (r *MemoryRepo) FindExpiredActiveAuctions(now time.Time) ([]model.Auction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var expired []model.Auction
	for _, auction := range r.auctions {
		if auction.Status == model.AuctionActive && !auction.Deadline.After(now) {
			expired = append(expired, copyAuction(auction))
		}
	}
	return expired, nil
}

// ListPlayers returns all player records
func (r *MemoryRepo) ListPlayers() ([]model.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	players := make([]model.Player, 0, len(r.players))
	for _, player := range r.players {
		players = append(players, player)
	}
	return players, nil
}

// ListTeams returns all team records
func (r *MemoryRepo) ListTeams() ([]model.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	teams := make([]model.Team, 0, len(r.teams))
	for _, team := range r.teams {
		teams = append(teams, copyTeam(team))
	}
	return teams, nil
}

func copyTeam(team model.Team) model.Team {
	team.PlayerIDs = append([]string(nil), team.PlayerIDs...)
	return team
}

func copyAuction(auction model.Auction) model.Auction {
	auction.Bids = append([]model.Bid(nil), auction.Bids...)
	return auction
}
