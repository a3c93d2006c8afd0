package live

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/monitor"
	"github.com/ANIKETSHETTY47/smart-aquarium-monitoring-system/internal/safety"
)

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubSendsInitThenUpdates(t *testing.T) {
	initial := monitor.Snapshot{Online: true, Safety: safety.Result{Safe: true, Violations: []string{}, Message: safety.MessageSafe}}
	hub := NewHub(func() (monitor.Snapshot, bool) { return initial, true })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()
	conn := dial(t, srv)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))

	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "init", msg.Type)
	assert.True(t, msg.Data.Online)

	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)
	hub.Publish(ctx, monitor.Snapshot{Safety: safety.Result{Violations: []string{}, Message: safety.MessageOffline}})

	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "update", msg.Type)
	assert.False(t, msg.Data.Online)
	assert.Equal(t, safety.MessageOffline, msg.Data.Safety.Message)
}

func TestHubSkipsInitWithoutSnapshot(t *testing.T) {
	hub := NewHub(func() (monitor.Snapshot, bool) { return monitor.Snapshot{}, false })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()
	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	hub.Publish(ctx, monitor.Snapshot{Online: true})
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg Message
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "update", msg.Type)
}

func TestHubDropsClosedClients(t *testing.T) {
	hub := NewHub(func() (monitor.Snapshot, bool) { return monitor.Snapshot{}, false })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := httptest.NewServer(hub)
	defer srv.Close()
	conn := dial(t, srv)
	require.Eventually(t, func() bool { return hub.Clients() == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	require.Eventually(t, func() bool { return hub.Clients() == 0 }, time.Second, 10*time.Millisecond)
}

func TestWriteJSONOnClosedConnection(t *testing.T) {
	hub := NewHub(func() (monitor.Snapshot, bool) { return monitor.Snapshot{}, false })
	srv := httptest.NewServer(hub)
	defer srv.Close()

	conn := dial(t, srv)
	require.NoError(t, conn.Close())
	assert.Error(t, writeJSON(conn, Message{Type: "update"}))
}
