package handlers

import (
	"context"
	"net/http"

	"engagement-prediction-api/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ToastWebSocket streams the toasts addressed to one page.
func ToastWebSocket(notifier *services.Notifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientID := providedClientID(c)
		if clientID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid client query parameter"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Warn().Err(err).Msg("websocket upgrade failed")
			return
		}
		defer conn.Close()

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		// Read pump: detect client disconnect
		go func() {
			defer cancel()
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		toasts, unsubscribe := notifier.Subscribe(ctx, clientID)
		defer unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case toast, ok := <-toasts:
				if !ok {
					return
				}
				err := conn.WriteJSON(gin.H{
					"type": "toast",
					"data": toast,
				})
				if err != nil {
					log.Warn().Err(err).Str("client", clientID).Msg("ws write error")
					return
				}
			}
		}
	}
}
