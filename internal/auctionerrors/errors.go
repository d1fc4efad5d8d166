package auctionerrors

import "errors"

// Repository-level errors
var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrTeamNotFound    = errors.New("team not found")
	ErrAuctionNotFound = errors.New("auction not found")
	ErrNoBids          = errors.New("no bids found for auction")
)

// Validation errors: no state change, safe to retry with corrected input
var (
	ErrInvalidBid        = errors.New("invalid bid")
	ErrBidTooLow         = errors.New("bid amount too low")
	ErrInsufficientFunds = errors.New("insufficient budget")
	ErrAuctionNotActive  = errors.New("auction is not active")
	ErrAuctionExpired    = errors.New("auction has expired")
)

// Conflict errors: caller must re-fetch state before retrying
var (
	ErrAuctionConflict   = errors.New("another auction is already active")
	ErrPlayerUnavailable = errors.New("player is not available for auction")
	ErrNoActiveAuction   = errors.New("no active auction")
)

// Timer coordination errors
var (
	ErrTimerUnavailable   = errors.New("timer could not be armed")
	ErrDeadlineNotReached = errors.New("auction deadline not reached")
)
