package routes

import (
	"encoding/json"
	"net/http"
	"time"

	"tagdo/tagdo/database"
	"tagdo/tagdo/models"
	"tagdo/tagdo/services"

	"github.com/gin-gonic/gin"
)

var debugTables = []string{"tasks", "tags", "task_tags", "events"}

type broadcastRequest struct {
	Event   string                 `json:"event" binding:"required"`
	Payload map[string]interface{} `json:"payload"`
}

// RegisterDebugRoutes sets up routes for debugging
func RegisterDebugRoutes(group *gin.RouterGroup, db *database.Database, hub services.WebSocketServiceInterface) {
	debugGroup := group.Group("/debug")
	{
		// Push a message to every websocket client, bypassing the outbox
		debugGroup.POST("/broadcast", func(c *gin.Context) {
			var req broadcastRequest
			if err := c.ShouldBindJSON(&req); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			data, err := json.Marshal(models.NewStandardMessage(models.EventMessage, req.Event, req.Payload))
			if err != nil {
				respondError(c, err)
				return
			}
			hub.BroadcastMessage(data)
			c.JSON(http.StatusAccepted, gin.H{"clients": hub.ClientCount()})
		})

		// Outbox events not yet published to the broker
		debugGroup.GET("/event-queue", func(c *gin.Context) {
			var events []models.Event
			if err := db.DB.Where("dispatched = ?", false).Order("timestamp ASC").Find(&events).Error; err != nil {
				respondError(c, err)
				return
			}

			counts := make(map[string]int64, len(debugTables))
			for _, table := range debugTables {
				var n int64
				result, err := db.Query("SELECT COUNT(*) FROM " + table)
				if err == nil {
					err = result.Scan(&n).Error
				}
				if err != nil {
					respondError(c, err)
					return
				}
				counts[table] = n
			}

			c.JSON(http.StatusOK, gin.H{
				"pending_events": len(events),
				"events":         events,
				"rows":           counts,
				"time":           time.Now(),
			})
		})
	}
}

// RegisterHealthRoutes reports liveness and database reachability.
func RegisterHealthRoutes(group *gin.RouterGroup, db *database.Database) {
	group.GET("/health", func(c *gin.Context) {
		status, code := "ok", http.StatusOK
		err := db.Execute("SELECT 1")
		if err != nil {
			status, code = "degraded", http.StatusServiceUnavailable
		}

		body := gin.H{"status": status, "time": time.Now()}
		if err != nil {
			body["error"] = err.Error()
		}
		c.JSON(code, body)
	})
}
