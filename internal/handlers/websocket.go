package handlers

import (
	"net/http"

	"github.com/bengin34/rightyLove/internal/middleware"
	"github.com/bengin34/rightyLove/internal/services"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // clients connect from app webviews, no fixed origin
	},
}

// WebSocketHandler upgrades connections and feeds them into the hub
type WebSocketHandler struct {
	hub         *services.WSHub
	authService *services.AuthService
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(hub *services.WSHub, authService *services.AuthService) *WebSocketHandler {
	return &WebSocketHandler{
		hub:         hub,
		authService: authService,
	}
}

// HandleWebSocket handles GET /ws?token=
func (h *WebSocketHandler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	userID, err := middleware.ValidateWebSocketToken(token, h.authService)
	if err != nil {
		respondError(w, "not authenticated", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to upgrade connection")
		return
	}

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID)

	// the server only pushes; drain client frames until the peer goes away
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Debug().Err(err).Str("user_id", userID).Msg("WebSocket read error")
			}
			return
		}
	}
}
