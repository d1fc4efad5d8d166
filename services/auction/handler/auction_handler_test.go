package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"auction-arena/internal/auction"
	"auction-arena/internal/auctionerrors"
	"auction-arena/internal/auth"
	"auction-arena/internal/coordinator"
	model "auction-arena/internal/models"
	"auction-arena/services/auction/helpers"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// withPrincipal injects a verified caller the way the auth middleware does.
func withPrincipal(p *auth.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		if p != nil {
			c.Set(PrincipalKey, p)
		}
		c.Next()
	}
}

func activeSnapshot(auctionID string) model.AuctionSnapshot {
	now := time.Now().UTC()
	return model.AuctionSnapshot{
		AuctionID:  auctionID,
		PlayerID:   "player1",
		Status:     model.AuctionActive,
		CurrentBid: 50,
		StartTime:  now,
		Deadline:   now.Add(30 * time.Second),
		Duration:   30 * time.Second,
	}
}

// Test StartAuctionHandler
func TestStartAuctionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCoord := NewMockAuctionCoordinator(ctrl)
	handler := NewAuctionHandler(mockCoord)

	// Initialize Gin in test mode
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auction/start", handler.StartAuctionHandler)

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success_default_duration",
			requestBody: helpers.StartAuctionRequest{PlayerID: "player1"},
			mockSetup: func() {
				mockCoord.EXPECT().
					StartAuction("player1", time.Duration(0)).
					Return(activeSnapshot(uuid.NewString()), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "auction started successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, "player1", data["player_id"])
				require.Equal(t, "active", data["status"])
				require.Equal(t, 50.0, data["current_bid"])
				require.Greater(t, data["time_left_seconds"].(float64), 0.0)
			},
		},
		{
			name:        "success_explicit_duration",
			requestBody: helpers.StartAuctionRequest{PlayerID: "player1", DurationSeconds: 60},
			mockSetup: func() {
				mockCoord.EXPECT().
					StartAuction("player1", 60*time.Second).
					Return(activeSnapshot(uuid.NewString()), nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "auction started successfully",
		},
		{
			name:           "invalid_json",
			requestBody:    `{invalid json}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_player_id",
			requestBody:    helpers.StartAuctionRequest{PlayerID: ""},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "negative_duration",
			requestBody:    map[string]any{"player_id": "player1", "duration_seconds": -5},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "player_not_found",
			requestBody: helpers.StartAuctionRequest{PlayerID: "ghost"},
			mockSetup: func() {
				mockCoord.EXPECT().
					StartAuction("ghost", time.Duration(0)).
					Return(model.AuctionSnapshot{}, auctionerrors.ErrPlayerNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "player not found",
		},
		{
			name:        "auction_conflict",
			requestBody: helpers.StartAuctionRequest{PlayerID: "player2"},
			mockSetup: func() {
				mockCoord.EXPECT().
					StartAuction("player2", time.Duration(0)).
					Return(model.AuctionSnapshot{}, auctionerrors.ErrAuctionConflict)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "another auction is already active",
		},
		{
			name:        "player_unavailable",
			requestBody: helpers.StartAuctionRequest{PlayerID: "player1"},
			mockSetup: func() {
				mockCoord.EXPECT().
					StartAuction("player1", time.Duration(0)).
					Return(model.AuctionSnapshot{}, auctionerrors.ErrPlayerUnavailable)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "player is not available for auction",
		},
		{
			name:        "service_generic_error",
			requestBody: helpers.StartAuctionRequest{PlayerID: "player1"},
			mockSetup: func() {
				mockCoord.EXPECT().
					StartAuction("player1", time.Duration(0)).
					Return(model.AuctionSnapshot{}, errors.New("database failure"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedMsg:    "internal server error",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var reqBody []byte
			var err error
			switch v := tc.requestBody.(type) {
			case string:
				reqBody = []byte(v)
			default:
				reqBody, err = json.Marshal(v)
				require.NoError(t, err)
			}

			tc.mockSetup()

			req := httptest.NewRequest(http.MethodPost, "/auction/start", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			var resp map[string]any
			err = json.Unmarshal(w.Body.Bytes(), &resp)
			require.NoError(t, err)

			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil && w.Code == http.StatusCreated {
				data := resp["data"].(map[string]any)
				tc.validateData(t, data)
			}
		})
	}
}

// Test PlaceBidHandler
func TestPlaceBidHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCoord := NewMockAuctionCoordinator(ctrl)
	handler := NewAuctionHandler(mockCoord)

	gin.SetMode(gin.TestMode)

	captain := &auth.Principal{UserID: "captain1", TeamID: "teamA", Role: auth.RoleCaptain}

	tests := []struct {
		name           string
		principal      *auth.Principal
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success_with_team_claim",
			principal:   captain,
			requestBody: helpers.PlaceBidRequest{AuctionID: "current", Amount: 75},
			mockSetup: func() {
				snap := activeSnapshot("auction1")
				snap.CurrentBid = 75
				snap.HighestBidderID = "teamA"
				snap.BidCount = 1
				mockCoord.EXPECT().
					PlaceBid("current", "teamA", 75.0).
					Return(snap, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid placed successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, 75.0, data["current_bid"])
				require.Equal(t, "teamA", data["highest_bidder_id"])
				require.Equal(t, 1.0, data["bid_count"])
			},
		},
		{
			name:        "success_team_resolved_from_captain",
			principal:   &auth.Principal{UserID: "captain2", Role: auth.RoleCaptain},
			requestBody: helpers.PlaceBidRequest{Amount: 80},
			mockSetup: func() {
				snap := activeSnapshot("auction1")
				snap.CurrentBid = 80
				snap.HighestBidderID = "teamB"
				mockCoord.EXPECT().
					PlaceBidByCaptain("", "captain2", 80.0).
					Return(snap, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid placed successfully",
		},
		{
			name:           "no_principal",
			principal:      nil,
			requestBody:    helpers.PlaceBidRequest{Amount: 75},
			mockSetup:      func() {},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "authentication required",
		},
		{
			name:           "invalid_json",
			principal:      captain,
			requestBody:    `{invalid json}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "missing_amount",
			principal:      captain,
			requestBody:    helpers.PlaceBidRequest{AuctionID: "current"},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:           "negative_amount",
			principal:      captain,
			requestBody:    helpers.PlaceBidRequest{Amount: -10},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "bid_too_low",
			principal:   captain,
			requestBody: helpers.PlaceBidRequest{Amount: 40},
			mockSetup: func() {
				mockCoord.EXPECT().
					PlaceBid("", "teamA", 40.0).
					Return(model.AuctionSnapshot{}, auctionerrors.ErrBidTooLow)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "bid amount too low",
		},
		{
			name:        "insufficient_budget",
			principal:   captain,
			requestBody: helpers.PlaceBidRequest{Amount: 5000},
			mockSetup: func() {
				mockCoord.EXPECT().
					PlaceBid("", "teamA", 5000.0).
					Return(model.AuctionSnapshot{}, auctionerrors.ErrInsufficientFunds)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "insufficient budget",
		},
		{
			name:        "no_active_auction",
			principal:   captain,
			requestBody: helpers.PlaceBidRequest{Amount: 75},
			mockSetup: func() {
				mockCoord.EXPECT().
					PlaceBid("", "teamA", 75.0).
					Return(model.AuctionSnapshot{}, auctionerrors.ErrNoActiveAuction)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "no active auction",
		},
		{
			name:        "auction_expired",
			principal:   captain,
			requestBody: helpers.PlaceBidRequest{Amount: 75},
			mockSetup: func() {
				mockCoord.EXPECT().
					PlaceBid("", "teamA", 75.0).
					Return(model.AuctionSnapshot{}, auctionerrors.ErrAuctionExpired)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "auction has expired",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			router := gin.New()
			router.POST("/auction/bid", withPrincipal(tc.principal), handler.PlaceBidHandler)

			var reqBody []byte
			var err error
			switch v := tc.requestBody.(type) {
			case string:
				reqBody = []byte(v)
			default:
				reqBody, err = json.Marshal(v)
				require.NoError(t, err)
			}

			tc.mockSetup()

			req := httptest.NewRequest(http.MethodPost, "/auction/bid", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			var resp map[string]any
			err = json.Unmarshal(w.Body.Bytes(), &resp)
			require.NoError(t, err)

			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil && w.Code == http.StatusCreated {
				data := resp["data"].(map[string]any)
				tc.validateData(t, data)
			}
		})
	}
}

// Test EndAuctionHandler
func TestEndAuctionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCoord := NewMockAuctionCoordinator(ctrl)
	handler := NewAuctionHandler(mockCoord)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auction/end", handler.EndAuctionHandler)

	now := time.Now().UTC()

	tests := []struct {
		name           string
		requestBody    any
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name:        "success_sold",
			requestBody: helpers.EndAuctionRequest{AuctionID: "auction1"},
			mockSetup: func() {
				mockCoord.EXPECT().
					EndAuction("auction1", auction.TriggerAdmin).
					Return(model.Settlement{
						AuctionID: "auction1",
						PlayerID:  "player1",
						Outcome:   model.OutcomeSold,
						WinnerID:  "teamA",
						Price:     120,
						EndedAt:   now,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "auction ended successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, "sold", data["outcome"])
				require.Equal(t, "teamA", data["winner_id"])
				require.Equal(t, 120.0, data["price"])
			},
		},
		{
			name:        "success_unsold",
			requestBody: helpers.EndAuctionRequest{AuctionID: "auction2"},
			mockSetup: func() {
				mockCoord.EXPECT().
					EndAuction("auction2", auction.TriggerAdmin).
					Return(model.Settlement{
						AuctionID: "auction2",
						PlayerID:  "player2",
						Outcome:   model.OutcomeUnsold,
						EndedAt:   now,
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "auction ended successfully",
			validateData: func(t *testing.T, data map[string]any) {
				require.Equal(t, "unsold", data["outcome"])
				_, hasWinner := data["winner_id"]
				require.False(t, hasWinner)
			},
		},
		{
			name:           "missing_auction_id",
			requestBody:    helpers.EndAuctionRequest{},
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid request payload",
		},
		{
			name:        "auction_not_found",
			requestBody: helpers.EndAuctionRequest{AuctionID: "ghost"},
			mockSetup: func() {
				mockCoord.EXPECT().
					EndAuction("ghost", auction.TriggerAdmin).
					Return(model.Settlement{}, auctionerrors.ErrAuctionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reqBody, err := json.Marshal(tc.requestBody)
			require.NoError(t, err)

			tc.mockSetup()

			req := httptest.NewRequest(http.MethodPost, "/auction/end", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			var resp map[string]any
			err = json.Unmarshal(w.Body.Bytes(), &resp)
			require.NoError(t, err)

			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil && w.Code == http.StatusOK {
				data := resp["data"].(map[string]any)
				tc.validateData(t, data)
			}
		})
	}
}

// Test GetCurrentAuctionHandler
func TestGetCurrentAuctionHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCoord := NewMockAuctionCoordinator(ctrl)
	handler := NewAuctionHandler(mockCoord)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auction/current", handler.GetCurrentAuctionHandler)

	now := time.Now().UTC()

	tests := []struct {
		name           string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data map[string]any)
	}{
		{
			name: "success_with_recent_bids",
			mockSetup: func() {
				snap := activeSnapshot("auction1")
				snap.CurrentBid = 90
				snap.HighestBidderID = "teamB"
				snap.BidCount = 2
				bids := []model.Bid{
					{BidID: uuid.NewString(), AuctionID: "auction1", TeamID: "teamB", PlayerID: "player1", Amount: 90, Timestamp: now},
					{BidID: uuid.NewString(), AuctionID: "auction1", TeamID: "teamA", PlayerID: "player1", Amount: 75, Timestamp: now.Add(-time.Second)},
				}
				mockCoord.EXPECT().CurrentAuction().Return(snap, bids, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "current auction retrieved successfully",
			validateData: func(t *testing.T, data map[string]any) {
				auctionData := data["auction"].(map[string]any)
				require.Equal(t, 90.0, auctionData["current_bid"])
				require.Equal(t, "teamB", auctionData["highest_bidder_id"])

				recent := data["recent_bids"].([]any)
				require.Len(t, recent, 2)
				first := recent[0].(map[string]any)
				require.Equal(t, 90.0, first["amount"])
			},
		},
		{
			name: "no_active_auction",
			mockSetup: func() {
				mockCoord.EXPECT().
					CurrentAuction().
					Return(model.AuctionSnapshot{}, nil, auctionerrors.ErrNoActiveAuction)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "no active auction",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()

			req := httptest.NewRequest(http.MethodGet, "/auction/current", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			var resp map[string]any
			err := json.Unmarshal(w.Body.Bytes(), &resp)
			require.NoError(t, err)

			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil && w.Code == http.StatusOK {
				data := resp["data"].(map[string]any)
				tc.validateData(t, data)
			}
		})
	}
}

// Test GetAuctionBidsHandler
func TestGetAuctionBidsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCoord := NewMockAuctionCoordinator(ctrl)
	handler := NewAuctionHandler(mockCoord)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auction/:auction_id/bids", handler.GetAuctionBidsHandler)

	now := time.Now().UTC()

	tests := []struct {
		name           string
		path           string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
		validateData   func(t *testing.T, data []map[string]any)
	}{
		{
			name: "success_all_bids",
			path: "/auction/auction1/bids",
			mockSetup: func() {
				mockCoord.EXPECT().
					AuctionBids("auction1", 0).
					Return([]model.Bid{
						{BidID: uuid.NewString(), AuctionID: "auction1", TeamID: "teamB", Amount: 90, Timestamp: now},
						{BidID: uuid.NewString(), AuctionID: "auction1", TeamID: "teamA", Amount: 75, Timestamp: now.Add(-time.Second)},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			validateData: func(t *testing.T, data []map[string]any) {
				require.Len(t, data, 2)
				require.Equal(t, 90.0, data[0]["amount"])
			},
		},
		{
			name: "success_with_limit",
			path: "/auction/auction1/bids?limit=1",
			mockSetup: func() {
				mockCoord.EXPECT().
					AuctionBids("auction1", 1).
					Return([]model.Bid{
						{BidID: uuid.NewString(), AuctionID: "auction1", TeamID: "teamB", Amount: 90, Timestamp: now},
					}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "bids retrieved successfully",
			validateData: func(t *testing.T, data []map[string]any) {
				require.Len(t, data, 1)
			},
		},
		{
			name:           "invalid_limit",
			path:           "/auction/auction1/bids?limit=abc",
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid limit",
		},
		{
			name:           "negative_limit",
			path:           "/auction/auction1/bids?limit=-1",
			mockSetup:      func() {},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "invalid limit",
		},
		{
			name: "auction_not_found",
			path: "/auction/ghost/bids",
			mockSetup: func() {
				mockCoord.EXPECT().
					AuctionBids("ghost", 0).
					Return(nil, auctionerrors.ErrAuctionNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "auction not found",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()

			req := httptest.NewRequest(http.MethodGet, tc.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)

			var resp map[string]any
			err := json.Unmarshal(w.Body.Bytes(), &resp)
			require.NoError(t, err)

			require.Contains(t, resp["message"], tc.expectedMsg)

			if tc.validateData != nil && w.Code == http.StatusOK {
				dataRaw := resp["data"].([]any)
				data := make([]map[string]any, len(dataRaw))
				for i, v := range dataRaw {
					data[i] = v.(map[string]any)
				}
				tc.validateData(t, data)
			}
		})
	}
}

// Test GetStatsHandler
func TestGetStatsHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCoord := NewMockAuctionCoordinator(ctrl)
	handler := NewAuctionHandler(mockCoord)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/stats", handler.GetStatsHandler)

	mockCoord.EXPECT().
		Summary().
		Return(coordinator.Stats{Teams: 2, Players: 10, PlayersSold: 3, ActiveAuctions: 1}, nil)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Contains(t, resp["message"], "stats retrieved successfully")

	data := resp["data"].(map[string]any)
	require.Equal(t, 2.0, data["teams"])
	require.Equal(t, 10.0, data["players"])
	require.Equal(t, 3.0, data["players_sold"])
	require.Equal(t, 1.0, data["active_auctions"])

	mockCoord.EXPECT().Summary().Return(coordinator.Stats{}, errors.New("database failure"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
}
