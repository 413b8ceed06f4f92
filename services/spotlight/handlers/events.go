// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package handlers

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/AleutianAI/spotlight/services/spotlight/datatypes"
)

var upgrader = websocket.Upgrader{
	// The events socket is same-process dev tooling; the host mounts us
	// behind its own origin checks.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  4 * 1024,
	WriteBufferSize: 4 * 1024,
}

const writeWait = 10 * time.Second

// EventHub fans change events out to connected websocket clients. The
// zero value is not usable; use NewEventHub.
type EventHub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

// NewEventHub returns an empty hub ready to accept clients.
func NewEventHub() *EventHub {
	return &EventHub{clients: make(map[*websocket.Conn]struct{})}
}

// Broadcast pushes a change event to every connected client. Clients
// whose writes fail are dropped.
func (h *EventHub) Broadcast(paths []string) {
	event := datatypes.ChangeEvent{Event: "user_plugins_changed", Paths: paths}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ws := range h.clients {
		_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
		if err := ws.WriteJSON(event); err != nil {
			slog.Info("dropping stale events client", "error", err.Error())
			ws.Close()
			delete(h.clients, ws)
		}
	}
}

// ClientCount reports how many sockets are currently connected.
func (h *EventHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *EventHub) add(ws *websocket.Conn) {
	h.mu.Lock()
	h.clients[ws] = struct{}{}
	h.mu.Unlock()
}

func (h *EventHub) remove(ws *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[ws]; ok {
		delete(h.clients, ws)
		ws.Close()
	}
	h.mu.Unlock()
}

// Events upgrades the connection and registers it with the hub. The
// read loop exists only to detect disconnects; clients are not expected
// to send anything.
func Events(hub *EventHub) gin.HandlerFunc {
	return func(c *gin.Context) {
		ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Error("failed to upgrade the websocket", "error", err)
			return
		}
		hub.add(ws)
		defer hub.remove(ws)
		slog.Info("events client connected")

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				slog.Info("events client disconnected", "error", err.Error())
				return
			}
		}
	}
}
