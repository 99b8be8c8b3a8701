package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/mitchelldurbincs/ChessRulesEngine/internal/game/events"
	"github.com/mitchelldurbincs/ChessRulesEngine/internal/session"
)

const (
	writeWait    = 10 * time.Second
	readLimit    = 512
	snapshotType = "snapshot"
)

// snapshotMessage is the first frame sent to a watcher.
type snapshotMessage struct {
	Type   string           `json:"type"`
	GameID string           `json:"game_id"`
	Game   session.GameView `json:"game"`
}

// watchGame upgrades to a websocket and streams a snapshot followed by every
// event of the game. Incoming frames are read only to notice the close.
func (h *Handler) watchGame(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if _, err := h.manager.Get(id); err != nil {
		respondWithSessionError(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Str("game_id", id).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	logger := h.logger.With().Str("game_id", id).Logger()
	send := make(chan []byte, h.opts.StreamBuffer)

	cancel, done, err := h.manager.Watch(id, func(e events.Event) {
		data, err := json.Marshal(e)
		if err != nil {
			logger.Error().Err(err).Str("event_type", e.Type()).Msg("Failed to encode event")
			return
		}
		select {
		case send <- data:
		default:
			logger.Warn().Str("event_type", e.Type()).Msg("Watcher queue full, dropping event")
		}
	})
	if err != nil {
		closeWith(conn, websocket.CloseGoingAway, err.Error())
		return
	}
	defer cancel()

	info, err := h.manager.Get(id)
	if err != nil {
		closeWith(conn, websocket.CloseGoingAway, err.Error())
		return
	}
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(snapshotMessage{Type: snapshotType, GameID: id, Game: info.View()}); err != nil {
		logger.Error().Err(err).Msg("Failed to send initial game state")
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(readLimit)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					logger.Debug().Err(err).Msg("WebSocket read error")
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(h.opts.PingInterval)
	defer ticker.Stop()

	logger.Info().Msg("Watcher connected")
	for {
		select {
		case msg := <-send:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Error().Err(err).Msg("WebSocket write error")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			logger.Info().Msg("Game removed, closing watcher")
			closeWith(conn, websocket.CloseNormalClosure, "game removed")
			return
		case <-closed:
			logger.Info().Msg("Watcher disconnected")
			return
		}
	}
}

func closeWith(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
}
