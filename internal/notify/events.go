package notify

import (
	"time"

	model "auction-arena/internal/models"
)

// Event types carried on the fan-out channel.
const (
	TypeAuctionStarted = "auction_started"
	TypeBidAccepted    = "bid_accepted"
	TypeAuctionSettled = "auction_settled"
)

// Event is a state-change notification. Every event carries the auction's
// current state so late or duplicate deliveries reconcile idempotently on
// the consumer side.
type Event struct {
	Type            string                  `json:"type"`
	AuctionID       string                  `json:"auction_id"`
	PlayerID        string                  `json:"player_id,omitempty"`
	Price           float64                 `json:"price,omitempty"`
	LeadingBidderID string                  `json:"leading_bidder_id,omitempty"`
	Deadline        time.Time               `json:"deadline,omitempty"`
	Outcome         model.SettlementOutcome `json:"outcome,omitempty"`
	WinnerID        string                  `json:"winner_id,omitempty"`
}

// AuctionStarted builds the start event from a snapshot.
func AuctionStarted(snap model.AuctionSnapshot) Event {
	return Event{
		Type:      TypeAuctionStarted,
		AuctionID: snap.AuctionID,
		PlayerID:  snap.PlayerID,
		Price:     snap.CurrentBid,
		Deadline:  snap.Deadline,
	}
}

// BidAccepted builds the bid event from a snapshot.
func BidAccepted(snap model.AuctionSnapshot) Event {
	return Event{
		Type:            TypeBidAccepted,
		AuctionID:       snap.AuctionID,
		PlayerID:        snap.PlayerID,
		Price:           snap.CurrentBid,
		LeadingBidderID: snap.HighestBidderID,
		Deadline:        snap.Deadline,
	}
}

// AuctionSettled builds the settlement event.
func AuctionSettled(settlement model.Settlement) Event {
	ev := Event{
		Type:      TypeAuctionSettled,
		AuctionID: settlement.AuctionID,
		PlayerID:  settlement.PlayerID,
		Outcome:   settlement.Outcome,
	}
	if settlement.Outcome == model.OutcomeSold {
		ev.WinnerID = settlement.WinnerID
		ev.Price = settlement.Price
	}
	return ev
}
