// internal/realtime/hub_test.go
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wsServer(t *testing.T, hub *Hub) (*httptest.Server, string) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))
	t.Cleanup(srv.Close)
	return srv, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClients(t *testing.T, hub *Hub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, hub.ClientCount())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestPublishReachesConnectedClients(t *testing.T) {
	hub := NewHub(nil)
	_, url := wsServer(t, hub)

	first := dial(t, url)
	second := dial(t, url)
	waitForClients(t, hub, 2)

	hub.Publish(context.Background(), Event{
		Type: EventStatusUpdate,
		Data: EventData{LicenseID: 7, State: "SP", Status: "rejected"},
	})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, payload, err := conn.ReadMessage()
		require.NoError(t, err)

		var ev Event
		require.NoError(t, json.Unmarshal(payload, &ev))
		assert.Equal(t, EventStatusUpdate, ev.Type)
		assert.Equal(t, uint(7), ev.Data.LicenseID)
		assert.Equal(t, "SP", ev.Data.State)
		assert.Equal(t, "rejected", ev.Data.Status)
	}
}

func TestWholeLicenseEventOmitsState(t *testing.T) {
	hub := NewHub(nil)
	_, url := wsServer(t, hub)

	conn := dial(t, url)
	waitForClients(t, hub, 1)

	hub.Publish(context.Background(), Event{
		Type: EventStatusUpdate,
		Data: EventData{
			LicenseID: 12,
			Status:    "under_review",
			License:   map[string]interface{}{"id": 12, "status": "under_review"},
		},
	})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(payload, &raw))
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(raw["data"], &data))

	_, hasState := data["state"]
	assert.False(t, hasState)
	assert.NotNil(t, data["license"])
}

func TestDisconnectedClientIsDropped(t *testing.T) {
	hub := NewHub(nil)
	_, url := wsServer(t, hub)

	conn := dial(t, url)
	waitForClients(t, hub, 1)

	conn.Close()
	waitForClients(t, hub, 0)

	// Publishing with nobody connected must not block or panic.
	hub.Publish(context.Background(), Event{
		Type: EventStatusUpdate,
		Data: EventData{LicenseID: 1, State: "MG", Status: "approved"},
	})
}
