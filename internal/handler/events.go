package handler

import (
	"context"
	"net/http"

	"findit/internal/logger"

	"github.com/gorilla/websocket"
)

// Upgrader upgrades HTTP connections to WebSocket; CheckOrigin allows all origins.
var Upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// EventHub fans observation events out to viewers.
type EventHub interface {
	Register(ctx context.Context, client *websocket.Conn)
	Unregister(ctx context.Context, client *websocket.Conn)
}

// EventsWebsocketHandler registers a viewer with the hub and keeps it
// registered until the viewer goes away.
func EventsWebsocketHandler(hub EventHub, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := Upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}

		hub.Register(r.Context(), connection)
		defer hub.Unregister(r.Context(), connection)

		logger.Info("Viewer connected")

		for {
			if _, _, err := connection.ReadMessage(); err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Info("Viewer disconnected normally")
				} else {
					logger.Debug("Viewer disconnected: %v", err)
				}
				return
			}
		}
	}
}
