package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"auction-arena/internal/auction"
	"auction-arena/internal/auth"
	"auction-arena/internal/coordinator"
	model "auction-arena/internal/models"
	"auction-arena/services/auction/helpers"
	"auction-arena/utils"

	"github.com/gin-gonic/gin"
)

// PrincipalKey is the gin context key holding the verified caller.
const PrincipalKey = "principal"

type AuctionCoordinator interface {
	StartAuction(playerID string, duration time.Duration) (model.AuctionSnapshot, error)
	PlaceBid(auctionRef, teamID string, amount float64) (model.AuctionSnapshot, error)
	PlaceBidByCaptain(auctionRef, captainID string, amount float64) (model.AuctionSnapshot, error)
	EndAuction(auctionRef string, trigger auction.Trigger) (model.Settlement, error)
	CurrentAuction() (model.AuctionSnapshot, []model.Bid, error)
	AuctionBids(auctionRef string, limit int) ([]model.Bid, error)
	Summary() (coordinator.Stats, error)
}

type AuctionHandler struct {
	coord AuctionCoordinator
}

func NewAuctionHandler(coord AuctionCoordinator) *AuctionHandler {
	return &AuctionHandler{coord: coord}
}

// StartAuctionHandler handles POST /auction/start (admin)
func (h *AuctionHandler) StartAuctionHandler(c *gin.Context) {
	var req helpers.StartAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "StartAuctionHandler", err)
		return
	}

	duration := time.Duration(req.DurationSeconds) * time.Second
	snap, err := h.coord.StartAuction(req.PlayerID, duration)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Error("StartAuctionHandler: failed to start auction", map[string]any{
			"player_id": req.PlayerID,
			"error":     err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToAuctionResponse(snap, time.Now()), "auction started successfully")
	helpers.LogSuccess("StartAuctionHandler", "auction started successfully", map[string]any{
		"auction_id": snap.AuctionID,
		"player_id":  snap.PlayerID,
		"base_price": snap.CurrentBid,
	})
}

// PlaceBidHandler handles POST /auction/bid (captain)
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	principal := principalFrom(c)
	if principal == nil {
		utils.JSONError(c, http.StatusUnauthorized, auth.ErrInvalidToken, "authentication required")
		return
	}

	var snap model.AuctionSnapshot
	var err error
	if principal.TeamID != "" {
		snap, err = h.coord.PlaceBid(req.AuctionID, principal.TeamID, req.Amount)
	} else {
		snap, err = h.coord.PlaceBidByCaptain(req.AuctionID, principal.UserID, req.Amount)
	}
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("PlaceBidHandler: bid rejected", map[string]any{
			"auction_id": req.AuctionID,
			"user_id":    principal.UserID,
			"amount":     req.Amount,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.ToAuctionResponse(snap, time.Now()), "bid placed successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid placed successfully", map[string]any{
		"auction_id":  snap.AuctionID,
		"current_bid": snap.CurrentBid,
		"team_id":     snap.HighestBidderID,
	})
}

// EndAuctionHandler handles POST /auction/end (admin). Idempotent: repeat
// calls return the recorded settlement.
func (h *AuctionHandler) EndAuctionHandler(c *gin.Context) {
	var req helpers.EndAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "EndAuctionHandler", err)
		return
	}

	settled, err := h.coord.EndAuction(req.AuctionID, auction.TriggerAdmin)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("EndAuctionHandler: end failed", map[string]any{
			"auction_id": req.AuctionID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToSettlementResponse(settled), "auction ended successfully")
	helpers.LogSuccess("EndAuctionHandler", "auction ended successfully", map[string]any{
		"auction_id": settled.AuctionID,
		"outcome":    string(settled.Outcome),
		"price":      settled.Price,
	})
}

// GetCurrentAuctionHandler handles GET /auction/current
func (h *AuctionHandler) GetCurrentAuctionHandler(c *gin.Context) {
	snap, bids, err := h.coord.CurrentAuction()
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, err, message)
		return
	}

	resp := helpers.CurrentAuctionResponse{
		Auction:    helpers.ToAuctionResponse(snap, time.Now()),
		RecentBids: helpers.ToBidResponses(bids),
	}
	utils.JSONResponse(c, http.StatusOK, resp, "current auction retrieved successfully")
}

// GetAuctionBidsHandler handles GET /auction/:auction_id/bids
func (h *AuctionHandler) GetAuctionBidsHandler(c *gin.Context) {
	auctionID := c.Param("auction_id")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			utils.JSONError(c, http.StatusBadRequest, fmt.Errorf("invalid limit %q", raw), "invalid limit")
			return
		}
		limit = parsed
	}

	bids, err := h.coord.AuctionBids(auctionID, limit)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAuctionBidsHandler: error retrieving bids", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.ToBidResponses(bids), "bids retrieved successfully")
}

// GetStatsHandler handles GET /stats
func (h *AuctionHandler) GetStatsHandler(c *gin.Context) {
	stats, err := h.coord.Summary()
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, err, "internal server error")
		return
	}
	utils.JSONResponse(c, http.StatusOK, stats, "stats retrieved successfully")
}

func principalFrom(c *gin.Context) *auth.Principal {
	value, ok := c.Get(PrincipalKey)
	if !ok {
		return nil
	}
	principal, ok := value.(*auth.Principal)
	if !ok {
		return nil
	}
	return principal
}
