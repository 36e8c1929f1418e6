package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage represents a WebSocket event sent to a member
type WSMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// WSHub manages WebSocket connections, one per user id
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]*websocket.Conn
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]*websocket.Conn),
	}
}

// Register registers a new WebSocket connection for a user, replacing any
// existing one
func (h *WSHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, exists := h.connections[userID]; exists {
		existing.Close()
	}
	h.connections[userID] = conn

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes a user's WebSocket connection
func (h *WSHub) Unregister(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conn, exists := h.connections[userID]; exists {
		conn.Close()
		delete(h.connections, userID)
		log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
	}
}

// IsOnline checks if a user has a live connection
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, exists := h.connections[userID]
	return exists
}

// SendToUser sends a message to a specific user
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	h.mu.RLock()
	conn, exists := h.connections[userID]
	h.mu.RUnlock()

	if !exists {
		return fmt.Errorf("user %s is not connected", userID)
	}

	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		h.Unregister(userID)
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}

// notify sends best-effort: delivery failure is logged, never surfaced to the
// request that triggered the event
func (h *WSHub) notify(userID string, message WSMessage) {
	if userID == "" || !h.IsOnline(userID) {
		return
	}
	if err := h.SendToUser(userID, message); err != nil {
		log.Error().Err(err).
			Str("user_id", userID).
			Str("type", message.Type).
			Msg("Failed to deliver event")
	}
}

// NotifyPairJoined tells a member their couple is now complete
func (h *WSHub) NotifyPairJoined(userID, coupleID string, joinedAt time.Time) {
	h.notify(userID, WSMessage{
		Type: "pair_joined",
		Data: map[string]interface{}{
			"couple_id": coupleID,
			"joined_at": joinedAt,
		},
	})
}

// NotifyPairDissolved tells a member their partner unpaired
func (h *WSHub) NotifyPairDissolved(userID string) {
	h.notify(userID, WSMessage{Type: "pair_dissolved"})
}

// NotifyAnswerSubmitted tells a member their partner answered today's question
func (h *WSHub) NotifyAnswerSubmitted(userID, dateKey string) {
	h.notify(userID, WSMessage{
		Type: "answer_submitted",
		Data: map[string]interface{}{"date_key": dateKey},
	})
}

// NotifyQuestionUnlocked tells a member today's answers are revealed
func (h *WSHub) NotifyQuestionUnlocked(userID, dateKey string) {
	h.notify(userID, WSMessage{
		Type: "question_unlocked",
		Data: map[string]interface{}{"date_key": dateKey},
	})
}
