package server

import (
	"net/http"

	"auction-arena/internal/auth"
	"auction-arena/internal/metrics"
	"auction-arena/internal/notify"
	handler "auction-arena/services/auction/handler"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(coord handler.AuctionCoordinator, hub *notify.Hub, m *metrics.Manager, jwtSecret string) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(coord)
	streamHandler := handler.NewStreamHandler(hub)

	auctions := router.Group("/auction")
	{
		auctions.POST("/start", RequireRole(auth.RoleAdmin, jwtSecret), auctionHandler.StartAuctionHandler)
		auctions.POST("/bid", RequireRole(auth.RoleCaptain, jwtSecret), auctionHandler.PlaceBidHandler)
		auctions.POST("/end", RequireRole(auth.RoleAdmin, jwtSecret), auctionHandler.EndAuctionHandler)
		auctions.GET("/current", auctionHandler.GetCurrentAuctionHandler)
		auctions.GET("/:auction_id/bids", auctionHandler.GetAuctionBidsHandler)
	}

	router.GET("/stats", auctionHandler.GetStatsHandler)
	router.GET("/ws", streamHandler.SubscribeHandler)

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if m != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Registry(), promhttp.HandlerOpts{})))
	}

	return router
}
