package integrationtests

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"auction-arena/internal/auction"
	"auction-arena/internal/auth"
	"auction-arena/internal/coordinator"
	model "auction-arena/internal/models"
	"auction-arena/internal/notify"
	"auction-arena/internal/repository"
	"auction-arena/internal/server"
	"auction-arena/internal/timer"

	"github.com/gin-gonic/gin"
)

const testJWTSecret = "integration-test-secret"

// TestEnv bundles the wired application for integration tests.
type TestEnv struct {
	Router *gin.Engine
	Repo   *repository.MemoryRepo
	Coord  *coordinator.Coordinator
	Hub    *notify.Hub
}

// SetupTestEnv wires the full stack on an in-memory repository. duration is
// the default auction window.
func SetupTestEnv(t *testing.T, duration time.Duration, players []model.Player, teams []model.Team) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	for _, player := range players {
		if err := repo.SavePlayer(player); err != nil {
			t.Fatalf("failed to seed player: %v", err)
		}
	}
	for _, team := range teams {
		if err := repo.SaveTeam(team); err != nil {
			t.Fatalf("failed to seed team: %v", err)
		}
	}

	hub := notify.NewHub(64)
	t.Cleanup(hub.Close)

	settler := auction.NewSettler(repo, nil, 3, 10*time.Millisecond)
	coord := coordinator.New(repo, timer.NewService(), hub, nil, settler, duration)
	router := server.SetupRouter(coord, hub, nil, testJWTSecret)

	return &TestEnv{Router: router, Repo: repo, Coord: coord, Hub: hub}
}

// DefaultTestEnv seeds the standard fixture: three available players, two
// teams with 1000 budget each.
func DefaultTestEnv(t *testing.T, duration time.Duration) *TestEnv {
	t.Helper()
	return SetupTestEnv(t, duration,
		[]model.Player{
			{PlayerID: "player1", Name: "Player One", Position: "Striker", Rating: 90, BasePrice: 100, Status: model.PlayerAvailable},
			{PlayerID: "player2", Name: "Player Two", Position: "Keeper", Rating: 80, BasePrice: 80, Status: model.PlayerAvailable},
			{PlayerID: "player3", Name: "Player Three", Position: "Defender", Rating: 70, BasePrice: 50, Status: model.PlayerAvailable},
		},
		[]model.Team{
			{TeamID: "teamA", Name: "Team A", CaptainID: "captain1", Budget: 1000},
			{TeamID: "teamB", Name: "Team B", CaptainID: "captain2", Budget: 1000},
		},
	)
}

// AdminToken issues a token accepted by admin-gated routes.
func AdminToken(t *testing.T) string {
	t.Helper()
	token, err := auth.GenerateToken("admin1", "", auth.RoleAdmin, testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate admin token: %v", err)
	}
	return token
}

// CaptainToken issues a token carrying the captain's team claim.
func CaptainToken(t *testing.T, captainID, teamID string) string {
	t.Helper()
	token, err := auth.GenerateToken(captainID, teamID, auth.RoleCaptain, testJWTSecret, time.Hour)
	if err != nil {
		t.Fatalf("failed to generate captain token: %v", err)
	}
	return token
}

// ExecuteRequestAndParse executes an HTTP request on the router and parses
// the JSON envelope. token may be empty for unauthenticated routes.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if len(w.Body.Bytes()) > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}
