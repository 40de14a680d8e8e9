package handlers

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"insurancecrm/middleware"
	websocketpkg "insurancecrm/websocket"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     checkOrigin,
}

// checkOrigin allows the configured frontend origins, plus localhost.
func checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		host := r.Host
		return strings.HasPrefix(host, "localhost:") || strings.HasPrefix(host, "127.0.0.1:")
	}

	allowedOrigins := []string{}
	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}
	if additional := os.Getenv("ADDITIONAL_ALLOWED_ORIGINS"); additional != "" {
		for _, url := range strings.Split(additional, ",") {
			url = strings.TrimSpace(url)
			if url != "" {
				allowedOrigins = append(allowedOrigins, url)
			}
		}
	}

	for _, allowed := range allowedOrigins {
		if allowed == origin {
			return true
		}
	}

	if os.Getenv("ALLOW_ALL_ORIGINS") == "true" {
		log.Printf("Warning: allowing origin %s (ALLOW_ALL_ORIGINS=true)", origin)
		return true
	}

	log.Printf("Rejected origin: %s", origin)
	return false
}

// ServeWs upgrades an authenticated connection onto the lead event feed.
// The JWT arrives as a query parameter since browsers cannot set headers
// on WebSocket upgrades.
func ServeWs(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token required"})
		return
	}

	claims, err := middleware.ValidateToken(token)
	if err != nil {
		log.Printf("ServeWs: token validation failed: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("ServeWs: upgrade failed: %v", err)
		return
	}

	client := websocketpkg.NewClient(WebSocketHub, conn, claims.UserID, claims.Role)
	WebSocketHub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	log.Printf("ServeWs: user %s (%s) subscribed to the event feed", claims.UserID, claims.Role)
}
