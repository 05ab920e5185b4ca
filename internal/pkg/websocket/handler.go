package websocket

import (
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/yigit/esgchampions/internal/middleware"
)

// Handler upgrades HTTP requests to topic subscriptions
type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	logger   zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, allowedOrigins []string, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:      hub,
		upgrader: newUpgrader(allowedOrigins),
		logger:   logger.With().Str("component", "websocket").Logger(),
	}
}

// RankingsLive godoc
// @Summary Subscribe to ranking updates
// @Description Upgrades to a WebSocket that receives a rankings.updated event whenever the ranking changes
// @Tags rankings
// @Success 101 {string} string "Switching Protocols"
// @Router /rankings/live [get]
func (h *Handler) RankingsLive(c *gin.Context) {
	h.subscribe(c, TopicRankings)
}

func (h *Handler) subscribe(c *gin.Context, topic string) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the error response
		h.logger.Debug().Err(err).Str("topic", topic).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:        h.hub,
		conn:       conn,
		send:       make(chan []byte, 16),
		championID: middleware.SessionFromContext(c).ChampionID,
		topic:      topic,
		logger:     h.logger,
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.logger.Debug().
		Str("topic", topic).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
