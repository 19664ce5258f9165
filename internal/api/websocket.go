package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/playdrawer/backend/internal/logging"
	"github.com/playdrawer/backend/internal/models"
	"github.com/playdrawer/backend/internal/storage"
)

// WebSocket message types for the play events protocol
const (
	// Client -> Server messages
	MsgTypePing      = "ping"
	MsgTypePlaysList = "plays:list"
	MsgTypePlayLoad  = "play:load"

	// Server -> Client messages
	MsgTypeConnected   = "connected"
	MsgTypePong        = "pong"
	MsgTypeError       = "error"
	MsgTypePlaySaved   = storage.EventPlaySaved
	MsgTypePlayRemoved = storage.EventPlayRemoved
)

// WebSocket message structure
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// Play load payload
type PlayLoadPayload struct {
	PlayID string `json:"playId"`
}

// WebSocket error response
type WSErrorResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// WebSocketHandler pushes play changes to connected editors and answers
// list/load requests
type WebSocketHandler struct {
	plays    *storage.Observed
	upgrader websocket.Upgrader
	maxSize  int64
	log      *log.Logger
}

// NewWebSocketHandler creates a play events handler. maxMessageKB bounds
// client messages; zero means 64KB.
func NewWebSocketHandler(plays *storage.Observed, maxMessageKB int) *WebSocketHandler {
	if maxMessageKB <= 0 {
		maxMessageKB = 64
	}
	return &WebSocketHandler{
		plays: plays,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow connections from dev server
				return true
			},
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 16 * 1024,
		},
		maxSize: int64(maxMessageKB) * 1024,
		log:     logging.New("websocket"),
	}
}

// wsConn serialises writes; gorilla connections allow one concurrent writer.
type wsConn struct {
	ws  *websocket.Conn
	mu  sync.Mutex
	log *log.Logger
}

// HandleWebSocket upgrades HTTP connection to WebSocket and runs the play
// events protocol until the client goes away
func (wsh *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	ws, err := wsh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()
	ws.SetReadLimit(wsh.maxSize)

	conn := &wsConn{ws: ws, log: wsh.log}
	wsh.log.Info("client connected for play events")

	events, cancel := wsh.plays.Subscribe()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range events {
			conn.send(WSMessage{
				Type:      ev.Type,
				ID:        ev.PlayID,
				Payload:   mustJSON(ev),
				Timestamp: time.Now().UnixMilli(),
			})
		}
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	// Send welcome message
	conn.send(WSMessage{
		Type:      MsgTypeConnected,
		Timestamp: time.Now().UnixMilli(),
	})

	// Main message loop
	for {
		var msg WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsh.log.Warnf("connection error: %v", err)
			}
			break
		}

		switch msg.Type {
		case MsgTypePing:
			// Respond with pong to keep connection alive
			conn.send(WSMessage{Type: MsgTypePong, ID: msg.ID, Timestamp: time.Now().UnixMilli()})
		case MsgTypePlaysList:
			wsh.handlePlaysList(conn, msg)
		case MsgTypePlayLoad:
			wsh.handlePlayLoad(conn, msg)
		default:
			conn.sendError(msg.ID, "Unknown message type: "+msg.Type, "INVALID_TYPE")
		}
	}

	wsh.log.Info("client disconnected")
	return nil
}

func (wsh *WebSocketHandler) handlePlaysList(conn *wsConn, msg WSMessage) {
	plays, err := wsh.plays.List()
	if err != nil {
		conn.sendError(msg.ID, "Failed to list plays: "+err.Error(), "LIST_ERROR")
		return
	}

	infos := make([]models.PlayInfo, 0, len(plays))
	for _, p := range plays {
		infos = append(infos, p.Info())
	}
	conn.send(WSMessage{
		Type:      MsgTypePlaysList,
		ID:        msg.ID,
		Payload:   mustJSON(infos),
		Timestamp: time.Now().UnixMilli(),
	})
}

func (wsh *WebSocketHandler) handlePlayLoad(conn *wsConn, msg WSMessage) {
	var payload PlayLoadPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		conn.sendError(msg.ID, "Invalid load payload: "+err.Error(), "INVALID_PAYLOAD")
		return
	}
	if payload.PlayID == "" {
		conn.sendError(msg.ID, "playId is required", "INVALID_PAYLOAD")
		return
	}

	play, err := wsh.plays.Get(payload.PlayID)
	if err != nil {
		conn.sendError(msg.ID, err.Error(), fromDomainError("", err).Code)
		return
	}
	conn.send(WSMessage{
		Type:      MsgTypePlayLoad,
		ID:        msg.ID,
		Payload:   mustJSON(play),
		Timestamp: time.Now().UnixMilli(),
	})
}

func (c *wsConn) send(msg WSMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.ws.WriteJSON(msg); err != nil {
		c.log.Warnf("failed to send message: %v", err)
	}
}

func (c *wsConn) sendError(id, message, code string) {
	c.send(WSMessage{
		Type:      MsgTypeError,
		ID:        id,
		Timestamp: time.Now().UnixMilli(),
		Payload: mustJSON(WSErrorResponse{
			Type:    MsgTypeError,
			Message: message,
			Code:    code,
		}),
	})
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
