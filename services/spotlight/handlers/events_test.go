// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// Tests for the change-events websocket

package handlers

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/spotlight/services/spotlight/datatypes"
)

func dialEvents(t *testing.T, hub *EventHub) (*websocket.Conn, func()) {
	t.Helper()
	router := gin.New()
	router.GET("/events", Events(hub))
	srv := httptest.NewServer(router)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	return ws, func() {
		ws.Close()
		srv.Close()
	}
}

func waitForClients(t *testing.T, hub *EventHub, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() != n {
		if time.Now().After(deadline) {
			t.Fatalf("hub never reached %d clients", n)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestEvents_BroadcastReachesClient(t *testing.T) {
	hub := NewEventHub()
	ws, cleanup := dialEvents(t, hub)
	defer cleanup()

	waitForClients(t, hub, 1)
	hub.Broadcast([]string{"filters/lower.js"})

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var event datatypes.ChangeEvent
	require.NoError(t, ws.ReadJSON(&event))
	assert.Equal(t, "user_plugins_changed", event.Event)
	assert.Equal(t, []string{"filters/lower.js"}, event.Paths)
}

func TestEvents_DisconnectRemovesClient(t *testing.T) {
	hub := NewEventHub()
	ws, cleanup := dialEvents(t, hub)
	defer cleanup()

	waitForClients(t, hub, 1)
	ws.Close()
	waitForClients(t, hub, 0)
}

func TestEvents_BroadcastWithNoClients(t *testing.T) {
	hub := NewEventHub()
	// Must not panic or block.
	hub.Broadcast([]string{"x.js"})
	assert.Equal(t, 0, hub.ClientCount())
}
