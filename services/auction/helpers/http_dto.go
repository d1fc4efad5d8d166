package helpers

import (
	"time"

	model "auction-arena/internal/models"
)

// Request/Response DTOs
type StartAuctionRequest struct {
	PlayerID        string `json:"player_id" binding:"required"`
	DurationSeconds int    `json:"duration_seconds" binding:"omitempty,gt=0"`
}

type PlaceBidRequest struct {
	AuctionID string  `json:"auction_id"` // empty or "current" targets the active auction
	Amount    float64 `json:"amount" binding:"required,gt=0"`
}

type EndAuctionRequest struct {
	AuctionID string `json:"auction_id" binding:"required"`
}

type AuctionResponse struct {
	AuctionID       string  `json:"auction_id"`
	PlayerID        string  `json:"player_id"`
	Status          string  `json:"status"`
	CurrentBid      float64 `json:"current_bid"`
	HighestBidderID string  `json:"highest_bidder_id,omitempty"`
	Deadline        string  `json:"deadline"`
	TimeLeftSeconds int64   `json:"time_left_seconds"`
	BidCount        int     `json:"bid_count"`
}

type BidResponse struct {
	BidID     string  `json:"bid_id"`
	AuctionID string  `json:"auction_id"`
	TeamID    string  `json:"team_id"`
	PlayerID  string  `json:"player_id"`
	Amount    float64 `json:"amount"`
	Timestamp string  `json:"timestamp"`
}

type SettlementResponse struct {
	AuctionID string  `json:"auction_id"`
	PlayerID  string  `json:"player_id"`
	Outcome   string  `json:"outcome"`
	WinnerID  string  `json:"winner_id,omitempty"`
	Price     float64 `json:"price,omitempty"`
	EndedAt   string  `json:"ended_at"`
}

type CurrentAuctionResponse struct {
	Auction    AuctionResponse `json:"auction"`
	RecentBids []BidResponse   `json:"recent_bids"`
}

// ToAuctionResponse converts a snapshot, computing the display-only time
// left from the server clock. Only the deadline is authoritative.
func ToAuctionResponse(snap model.AuctionSnapshot, now time.Time) AuctionResponse {
	timeLeft := int64(0)
	if snap.Status == model.AuctionActive && snap.Deadline.After(now) {
		timeLeft = int64(snap.Deadline.Sub(now).Seconds())
	}
	return AuctionResponse{
		AuctionID:       snap.AuctionID,
		PlayerID:        snap.PlayerID,
		Status:          string(snap.Status),
		CurrentBid:      snap.CurrentBid,
		HighestBidderID: snap.HighestBidderID,
		Deadline:        snap.Deadline.UTC().Format(time.RFC3339),
		TimeLeftSeconds: timeLeft,
		BidCount:        snap.BidCount,
	}
}

// ToBidResponses converts bids preserving order.
func ToBidResponses(bids []model.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, BidResponse{
			BidID:     b.BidID,
			AuctionID: b.AuctionID,
			TeamID:    b.TeamID,
			PlayerID:  b.PlayerID,
			Amount:    b.Amount,
			Timestamp: b.Timestamp.UTC().Format(time.RFC3339),
		})
	}
	return out
}

// ToSettlementResponse converts a settlement result.
func ToSettlementResponse(s model.Settlement) SettlementResponse {
	return SettlementResponse{
		AuctionID: s.AuctionID,
		PlayerID:  s.PlayerID,
		Outcome:   string(s.Outcome),
		WinnerID:  s.WinnerID,
		Price:     s.Price,
		EndedAt:   s.EndedAt.UTC().Format(time.RFC3339),
	}
}
