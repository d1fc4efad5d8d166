package models

import "time"

// PlayerStatus tracks where a player is in the auction flow
type PlayerStatus string

const (
	PlayerAvailable PlayerStatus = "available"
	PlayerInAuction PlayerStatus = "bidding"
	PlayerSold      PlayerStatus = "sold"
)

// AuctionStatus is the lifecycle state of an auction
type AuctionStatus string

const (
	AuctionPending AuctionStatus = "pending"
	AuctionActive  AuctionStatus = "active"
	AuctionEnded   AuctionStatus = "ended"
	AuctionSold    AuctionStatus = "sold"
)

// Terminal reports whether the status admits no further transitions
func (s AuctionStatus) Terminal() bool {
	return s == AuctionEnded || s == AuctionSold
}

// Player represents an auctionable player
type Player struct {
	PlayerID   string       `json:"player_id"`
	Name       string       `json:"name"`
	Position   string       `json:"position"`
	RollNo     string       `json:"roll_no"`
	Dept       string       `json:"dept"`
	Rating     int          `json:"rating"`
	BasePrice  float64      `json:"base_price"`
	CurrentBid float64      `json:"current_bid"`
	Status     PlayerStatus `json:"status"`
	TeamID     string       `json:"team_id,omitempty"` // set once sold
}

// Team represents a bidding team led by a captain
type Team struct {
	TeamID    string   `json:"team_id"`
	Name      string   `json:"name"`
	CaptainID string   `json:"captain_id"`
	Budget    float64  `json:"budget"`
	PlayerIDs []string `json:"player_ids"`
}

// Bid represents a team's bid in an auction. Immutable once recorded.
type Bid struct {
	BidID     string    `json:"bid_id"`
	AuctionID string    `json:"auction_id"`
	TeamID    string    `json:"team_id"`
	PlayerID  string    `json:"player_id"`
	Amount    float64   `json:"amount"`
	Timestamp time.Time `json:"timestamp"`
}

// Auction is the persisted record of one auction
type Auction struct {
	AuctionID       string        `json:"auction_id"`
	PlayerID        string        `json:"player_id"`
	CurrentBid      float64       `json:"current_bid"`
	HighestBidderID string        `json:"highest_bidder_id,omitempty"`
	Status          AuctionStatus `json:"status"`
	StartTime       time.Time     `json:"start_time"`
	Deadline        time.Time     `json:"deadline"`
	Duration        time.Duration `json:"duration"`
	Bids            []Bid         `json:"bids"`
}

// SettlementOutcome says how an auction resolved
type SettlementOutcome string

const (
	OutcomeSold   SettlementOutcome = "sold"
	OutcomeUnsold SettlementOutcome = "unsold"
)

// Settlement is the result of an auction's terminal transition
type Settlement struct {
	AuctionID string            `json:"auction_id"`
	PlayerID  string            `json:"player_id"`
	Outcome   SettlementOutcome `json:"outcome"`
	WinnerID  string            `json:"winner_id,omitempty"`
	Price     float64           `json:"price,omitempty"`
	EndedAt   time.Time         `json:"ended_at"`
}

// AuctionSnapshot is a consistent read of an auction's live state
type AuctionSnapshot struct {
	AuctionID       string        `json:"auction_id"`
	PlayerID        string        `json:"player_id"`
	Status          AuctionStatus `json:"status"`
	CurrentBid      float64       `json:"current_bid"`
	HighestBidderID string        `json:"highest_bidder_id,omitempty"`
	StartTime       time.Time     `json:"start_time"`
	Deadline        time.Time     `json:"deadline"`
	Duration        time.Duration `json:"duration"`
	BidCount        int           `json:"bid_count"`
}
