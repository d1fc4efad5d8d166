// Package ledger holds the append-only bid record for a single auction.
//
// The ledger is not concurrency-safe on its own: it is only ever mutated
// from inside the owning state machine's serialized section.
package ledger

import model "auction-arena/internal/models"

// Ledger is an ordered, append-only sequence of accepted bids.
type Ledger struct {
	bids []model.Bid
}

// New creates an empty ledger. Recorded bids, if any, seed the sequence in
// their original acceptance order (used when reconstructing a persisted auction).
func New(recorded ...model.Bid) *Ledger {
	l := &Ledger{}
	if len(recorded) > 0 {
		l.bids = append([]model.Bid(nil), recorded...)
	}
	return l
}

// Append records an accepted bid. Validation is the state machine's job.
func (l *Ledger) Append(bid model.Bid) {
	l.bids = append(l.bids, bid)
}

// Latest returns the most recently accepted bid, if any.
func (l *Ledger) Latest() (model.Bid, bool) {
	if len(l.bids) == 0 {
		return model.Bid{}, false
	}
	return l.bids[len(l.bids)-1], true
}

// History returns up to limit bids, most recent first. A non-positive limit
// returns the full history.
func (l *Ledger) History(limit int) []model.Bid {
	n := len(l.bids)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]model.Bid, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, l.bids[i])
	}
	return out
}

// All returns the full history in acceptance order.
func (l *Ledger) All() []model.Bid {
	return append([]model.Bid(nil), l.bids...)
}

// Len returns the number of recorded bids.
func (l *Ledger) Len() int {
	return len(l.bids)
}
