package live

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/ws", WSHandler(hub, zerolog.Nop()))

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })

	// consume welcome frame
	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, welcome, err := ws.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(welcome), "welcome")

	return ws
}

func TestHubBroadcastsMatchEvents(t *testing.T) {
	hub := NewHub()
	ws := dialTestHub(t, hub)

	// wait for the server side of the socket to register
	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	hub.BroadcastJSON(MatchEvent{Type: MatchUpdated, MatchID: 5, EventID: 1, At: time.Now()})

	_ = ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := ws.ReadMessage()
	require.NoError(t, err)

	var ev MatchEvent
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, MatchUpdated, ev.Type)
	assert.Equal(t, int64(5), ev.MatchID)
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := NewHub()
	ws := dialTestHub(t, hub)

	require.Eventually(t, func() bool { return hub.Count() == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, ws.Close())

	// broadcasting to a closed socket evicts it
	require.Eventually(t, func() bool {
		hub.BroadcastJSON(MatchEvent{Type: MatchUpdated, MatchID: 1, EventID: 1, At: time.Now()})
		return hub.Count() == 0
	}, 2*time.Second, 50*time.Millisecond)
}
