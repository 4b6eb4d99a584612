package server

import (
	"context"
	"sync"

	"campfire/internal/middleware"
	"campfire/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// NotificationsWebsocket streams the caller's follow and ban events.
// @Summary Notification stream
// @Description WebSocket carrying JSON events published to the caller's channel
// @Tags notifications
// @Security BearerAuth
// @Router /ws [get]
func (s *Server) NotificationsWebsocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		observability.ActiveWebSockets.Inc()
		defer observability.ActiveWebSockets.Dec()

		userID, ok := conn.Locals("userID").(uint)
		if !ok || userID == 0 {
			_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"error":"unauthorized"}`))
			_ = conn.Close()
			return
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// WriteMessage is not safe for concurrent use.
		var writeMu sync.Mutex
		done, err := s.notifier.SubscribeUser(ctx, userID, func(payload string) {
			writeMu.Lock()
			defer writeMu.Unlock()
			if err := conn.WriteMessage(websocket.TextMessage, []byte(payload)); err != nil {
				cancel()
			}
		})
		if err != nil {
			middleware.Logger.Error("notification subscribe failed", "user_id", userID, "error", err.Error())
			_ = conn.Close()
			return
		}

		middleware.Logger.Info("notification stream opened", "user_id", userID)

		// Incoming frames are ignored; reading detects the client going away.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}

		cancel()
		<-done
		middleware.Logger.Info("notification stream closed", "user_id", userID)
	})
}
