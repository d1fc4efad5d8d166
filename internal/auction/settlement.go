package auction

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"auction-arena/internal/metrics"
	model "auction-arena/internal/models"
	"auction-arena/internal/repository"
	"auction-arena/utils"
)

// Settler applies settlement side effects to the repository. The auction's
// in-memory terminal state is already sealed before Settle runs, so every
// retry re-applies the same instruction; each step checks current repository
// state first, making re-runs safe (no double debit, no double assignment).
type Settler struct {
	repo       repository.AuctionDB
	metrics    *metrics.Manager
	maxRetries uint64
	backoff    time.Duration
}

// NewSettler creates a settlement pipeline over the repository.
func NewSettler(repo repository.AuctionDB, m *metrics.Manager, maxRetries int, backoff time.Duration) *Settler {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if backoff <= 0 {
		backoff = 200 * time.Millisecond
	}
	return &Settler{
		repo:       repo,
		metrics:    m,
		maxRetries: uint64(maxRetries),
		backoff:    backoff,
	}
}

// Settle applies the settlement, retrying transient repository failures in
// the background so the caller (timer goroutine or request handler) never
// blocks on a flaky write.
func (s *Settler) Settle(record model.Auction, settled model.Settlement) {
	err := s.Apply(record, settled)
	if err == nil {
		return
	}
	utils.Warn("settlement: first write attempt failed, retrying", map[string]any{
		"auction_id": settled.AuctionID,
		"error":      err.Error(),
	})

	go func() {
		b := retry.WithMaxRetries(s.maxRetries, retry.NewExponential(s.backoff))
		err := retry.Do(context.Background(), b, func(ctx context.Context) error {
			if s.metrics != nil {
				s.metrics.SettlementRetried()
			}
			if err := s.Apply(record, settled); err != nil {
				return retry.RetryableError(err)
			}
			return nil
		})
		if err != nil {
			utils.Error("settlement: giving up after retries", map[string]any{
				"auction_id": settled.AuctionID,
				"error":      err.Error(),
			})
		}
	}()
}

// Apply performs one settlement write pass. Every step checks current
// repository state before mutating, so a pass may run any number of times:
// the player and auction writes overwrite with the same terminal values and
// the roster guard blocks a second debit. A stored terminal record is NOT
// taken as proof of a completed pass; other writers persist auction records
// too, so only the per-step guards are trusted.
func (s *Settler) Apply(record model.Auction, settled model.Settlement) error {
	switch settled.Outcome {
	case model.OutcomeSold:
		if err := s.applySold(settled); err != nil {
			return err
		}
	default:
		if err := s.applyUnsold(settled); err != nil {
			return err
		}
	}

	if err := s.repo.SaveAuction(record); err != nil {
		return fmt.Errorf("settlement: save auction %s: %w", settled.AuctionID, err)
	}
	return nil
}

// applySold assigns the player and debits the winner's budget. The team's
// roster membership is the check-and-set guard: a player already on the
// roster means the debit already happened.
func (s *Settler) applySold(settled model.Settlement) error {
	player, err := s.repo.FindPlayer(settled.PlayerID)
	if err != nil {
		return fmt.Errorf("settlement: find player: %w", err)
	}
	player.Status = model.PlayerSold
	player.TeamID = settled.WinnerID
	player.CurrentBid = settled.Price
	if err := s.repo.SavePlayer(player); err != nil {
		return fmt.Errorf("settlement: save player: %w", err)
	}

	team, err := s.repo.FindTeam(settled.WinnerID)
	if err != nil {
		return fmt.Errorf("settlement: find winning team: %w", err)
	}
	for _, id := range team.PlayerIDs {
		if id == settled.PlayerID {
			return nil
		}
	}
	team.Budget -= settled.Price
	team.PlayerIDs = append(team.PlayerIDs, settled.PlayerID)
	if err := s.repo.SaveTeam(team); err != nil {
		return fmt.Errorf("settlement: save winning team: %w", err)
	}
	return nil
}

// applyUnsold releases the player back to the pool.
func (s *Settler) applyUnsold(settled model.Settlement) error {
	player, err := s.repo.FindPlayer(settled.PlayerID)
	if err != nil {
		return fmt.Errorf("settlement: find player: %w", err)
	}
	player.Status = model.PlayerAvailable
	player.TeamID = ""
	player.CurrentBid = 0
	if err := s.repo.SavePlayer(player); err != nil {
		return fmt.Errorf("settlement: save player: %w", err)
	}
	return nil
}
