package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"insurancecrm/analytics"
	"insurancecrm/database"
	"insurancecrm/models"
	"insurancecrm/websocket"
)

// WebSocketHub gives every handler access to the event feed hub.
var WebSocketHub *websocket.Hub

// SetWebSocketHub wires the hub into the handlers.
func SetWebSocketHub(hub *websocket.Hub) {
	WebSocketHub = hub
	log.Println("WebSocket hub attached to handlers")
}

// actorID returns the authenticated caller's id from the gin context.
func actorID(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString("userID"))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// actorRole returns the authenticated caller's role.
func actorRole(c *gin.Context) models.UserRole {
	return models.UserRole(c.GetString("role"))
}

// requestScope builds the query restriction for the caller.
func requestScope(c *gin.Context) (analytics.Scope, bool) {
	id, ok := actorID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user identity"})
		return analytics.Scope{}, false
	}
	return analytics.NewScope(actorRole(c), id), true
}

// respondError maps store errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id format"})
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, database.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "not enough permissions"})
	case errors.Is(err, database.ErrDuplicate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "duplicate record"})
	default:
		log.Printf("Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

// canAccessLead checks the record-level rule: privileged actors see every
// lead, agents only their own.
func canAccessLead(c *gin.Context, lead *models.Lead) bool {
	if actorRole(c).Privileged() {
		return true
	}
	id, ok := actorID(c)
	if !ok {
		return false
	}
	return lead.AssignedAgentID != nil && *lead.AssignedAgentID == id
}

// daysParam reads the ?days=N query parameter with a report-specific
// default, clamped to [1, 365].
func daysParam(c *gin.Context, fallback int) int {
	days := fallback
	if raw := c.Query("days"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			days = v
		}
	}
	if days < 1 {
		days = 1
	}
	if days > 365 {
		days = 365
	}
	return days
}
