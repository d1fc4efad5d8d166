package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"auction-arena/internal/auction"
	"auction-arena/internal/config"
	"auction-arena/internal/coordinator"
	"auction-arena/internal/metrics"
	model "auction-arena/internal/models"
	"auction-arena/internal/notify"
	"auction-arena/internal/repository"
	"auction-arena/internal/server"
	"auction-arena/internal/timer"
	"auction-arena/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	utils.SetLevel(cfg.LogLevel)

	repo := repository.NewMemoryRepo()
	prepopulate(repo)

	hub := notify.NewHub(cfg.EventBufferSize)
	defer hub.Close()

	metricsManager := metrics.NewManager()
	timers := timer.NewService()
	settler := auction.NewSettler(repo, metricsManager, cfg.SettlementMaxRetries, cfg.SettlementBackoff())
	coord := coordinator.New(repo, timers, hub, metricsManager, settler, cfg.BidDuration())

	// Settle anything a previous run left behind before accepting traffic.
	if err := coord.Recover(); err != nil {
		utils.Fatal("recovery sweep failed", map[string]any{"error": err.Error()})
	}

	stopSweep := startSweeper(coord, cfg.SweepInterval())
	defer stopSweep()

	router := server.SetupRouter(coord, hub, metricsManager, cfg.JWTSecret)

	srv := &http.Server{Addr: cfg.Addr, Handler: router}

	go func() {
		fmt.Printf("Starting auction server on %s...\n", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.Fatal("server failed", map[string]any{"error": err.Error()})
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	utils.Info("shutting down", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		utils.Error("shutdown error", map[string]any{"error": err.Error()})
	}
}

// startSweeper runs the expired-auction sweep on a ticker. The per-auction
// timers normally end auctions; the sweep is the backstop for anything they
// miss. Returns a stop function.
func startSweeper(coord *coordinator.Coordinator, interval time.Duration) func() {
	if interval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := coord.SweepExpired(); err != nil {
					utils.Warn("expiry sweep failed", map[string]any{"error": err.Error()})
				}
			case <-done:
				return
			}
		}
	}()
	return func() { close(done) }
}

// prepopulate adds sample players and teams to the in-memory repo
func prepopulate(repo *repository.MemoryRepo) {
	players := []model.Player{
		{PlayerID: "player1", Name: "Arjun Mehta", Position: "Forward", RollNo: "CS-101", Dept: "CS", Rating: 82, BasePrice: 100, Status: model.PlayerAvailable},
		{PlayerID: "player2", Name: "Ravi Sharma", Position: "Goalkeeper", RollNo: "EE-214", Dept: "EE", Rating: 74, BasePrice: 80, Status: model.PlayerAvailable},
		{PlayerID: "player3", Name: "Karan Patel", Position: "Midfielder", RollNo: "ME-307", Dept: "ME", Rating: 68, BasePrice: 50, Status: model.PlayerAvailable},
	}
	for _, player := range players {
		if err := repo.SavePlayer(player); err != nil {
			utils.Warn("seed: player not saved", map[string]any{"player_id": player.PlayerID, "error": err.Error()})
		}
	}

	teams := []model.Team{
		{TeamID: "team1", Name: "Thunder FC", CaptainID: "captain1", Budget: 1000},
		{TeamID: "team2", Name: "Falcon United", CaptainID: "captain2", Budget: 1000},
	}
	for _, team := range teams {
		if err := repo.SaveTeam(team); err != nil {
			utils.Warn("seed: team not saved", map[string]any{"team_id": team.TeamID, "error": err.Error()})
		}
	}
}
