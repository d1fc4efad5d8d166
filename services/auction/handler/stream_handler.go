package handler

import (
	"net/http"
	"time"

	"auction-arena/internal/notify"
	"auction-arena/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const writeTimeout = 10 * time.Second

// StreamHandler bridges the notification hub onto websocket connections.
// It is a pure observer: a dropped connection never touches auction state.
type StreamHandler struct {
	hub      *notify.Hub
	upgrader websocket.Upgrader
}

func NewStreamHandler(hub *notify.Hub) *StreamHandler {
	return &StreamHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// SubscribeHandler handles GET /ws. An optional auction_id query narrows
// the stream to one auction; otherwise all events are streamed.
func (h *StreamHandler) SubscribeHandler(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		utils.Warn("StreamHandler: upgrade failed", map[string]any{"error": err.Error()})
		return
	}

	auctionID := c.Query("auction_id")
	subID, events := h.hub.Subscribe(auctionID)

	utils.Info("StreamHandler: subscriber connected", map[string]any{
		"subscriber_id": subID,
		"auction_id":    auctionID,
		"remote_addr":   c.Request.RemoteAddr,
	})

	// Reader goroutine only detects disconnects; clients do not send.
	go func() {
		defer h.hub.Unsubscribe(subID)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	welcome := map[string]string{"type": "connected", "subscriber_id": subID}
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(welcome); err != nil {
		h.hub.Unsubscribe(subID)
		_ = conn.Close()
		return
	}

	for event := range events {
		_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(event); err != nil {
			utils.Warn("StreamHandler: send failed, dropping subscriber", map[string]any{
				"subscriber_id": subID,
				"error":         err.Error(),
			})
			h.hub.Unsubscribe(subID)
			break
		}
	}
	_ = conn.Close()
}
