package user

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"freshkart_back_end/internal/database"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// TODO: restrict to the storefront origins once they are final.
		return true
	},
}

// CartWebSocket streams live cart updates to the client. The cart store
// publishes on cart:<userID> after every mutation; each notification triggers
// a re-read so all of the user's devices converge on the same cart.
func CartWebSocket(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("❌ WebSocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	ctx := context.Background()

	pubsub := database.Redis.Subscribe(ctx, "cart:"+userID)
	defer pubsub.Close()
	ch := pubsub.Channel()

	conn.WriteJSON(map[string]interface{}{
		"type":    "connected",
		"message": "Cart sync enabled",
	})

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if msg.Payload != "updated" && msg.Payload != "cleared" {
				continue
			}

			items, err := carts.Get(ctx, userID)
			if err != nil {
				items = nil
			}

			total := 0.0
			for _, item := range items {
				total += item.Price * float64(item.Quantity)
			}

			if err := conn.WriteJSON(map[string]interface{}{
				"type":  "cart_updated",
				"items": items,
				"total": total,
				"count": len(items),
			}); err != nil {
				log.Printf("❌ WebSocket write error: %v", err)
				return
			}
		case <-time.After(30 * time.Second):
			// Keepalive ping.
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
