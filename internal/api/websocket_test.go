package api

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/playdrawer/backend/internal/models"
	"github.com/playdrawer/backend/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialPlayEvents(t *testing.T, plays *storage.Observed) *websocket.Conn {
	t.Helper()

	e := echo.New()
	e.GET("/api/ws/plays", NewWebSocketHandler(plays, 0).HandleWebSocket)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/plays"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })

	require.Equal(t, MsgTypeConnected, readMessage(t, ws).Type)
	return ws
}

func readMessage(t *testing.T, ws *websocket.Conn) WSMessage {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg WSMessage
	require.NoError(t, ws.ReadJSON(&msg))
	return msg
}

func TestWebSocketHandler_Requests(t *testing.T) {
	plays := storage.NewObserved(seededStore(t))
	ws := dialPlayEvents(t, plays)

	require.NoError(t, ws.WriteJSON(WSMessage{Type: MsgTypePing, ID: "p1"}))
	msg := readMessage(t, ws)
	assert.Equal(t, MsgTypePong, msg.Type)
	assert.Equal(t, "p1", msg.ID)

	require.NoError(t, ws.WriteJSON(WSMessage{Type: MsgTypePlaysList, ID: "l1"}))
	msg = readMessage(t, ws)
	require.Equal(t, MsgTypePlaysList, msg.Type)
	var infos []models.PlayInfo
	require.NoError(t, json.Unmarshal(msg.Payload, &infos))
	assert.Len(t, infos, 2)

	require.NoError(t, ws.WriteJSON(WSMessage{Type: MsgTypePlayLoad, ID: "g1", Payload: mustJSON(PlayLoadPayload{PlayID: "flood"})}))
	msg = readMessage(t, ws)
	require.Equal(t, MsgTypePlayLoad, msg.Type)
	var play models.Play
	require.NoError(t, json.Unmarshal(msg.Payload, &play))
	assert.Equal(t, "Flood Right", play.Name)

	require.NoError(t, ws.WriteJSON(WSMessage{Type: MsgTypePlayLoad, ID: "g2", Payload: mustJSON(PlayLoadPayload{PlayID: "missing"})}))
	msg = readMessage(t, ws)
	require.Equal(t, MsgTypeError, msg.Type)
	var wsErr WSErrorResponse
	require.NoError(t, json.Unmarshal(msg.Payload, &wsErr))
	assert.Equal(t, "NOT_FOUND", wsErr.Code)

	require.NoError(t, ws.WriteJSON(WSMessage{Type: "upload:init"}))
	msg = readMessage(t, ws)
	require.Equal(t, MsgTypeError, msg.Type)
	require.NoError(t, json.Unmarshal(msg.Payload, &wsErr))
	assert.Equal(t, "INVALID_TYPE", wsErr.Code)
}

func TestWebSocketHandler_PushesChanges(t *testing.T) {
	plays := storage.NewObserved(seededStore(t))
	ws := dialPlayEvents(t, plays)

	saved, _, err := plays.Save(&models.Play{
		Name:  "Mesh",
		Spots: map[int]models.SpotConfig{2: {Position: "WR"}},
	}, time.Now())
	require.NoError(t, err)

	msg := readMessage(t, ws)
	require.Equal(t, MsgTypePlaySaved, msg.Type)
	assert.Equal(t, saved.ID, msg.ID)
	var ev storage.Event
	require.NoError(t, json.Unmarshal(msg.Payload, &ev))
	assert.True(t, ev.Created)
	assert.Equal(t, "Mesh", ev.Play.Name)

	require.NoError(t, plays.Delete("dive"))
	msg = readMessage(t, ws)
	assert.Equal(t, MsgTypePlayRemoved, msg.Type)
	assert.Equal(t, "dive", msg.ID)
}
