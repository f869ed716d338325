package routes

import (
	"tagdo/tagdo/services"

	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes exposes the change feed. Authentication, when
// enabled, is applied by the group's middleware.
func RegisterWebSocketRoutes(group *gin.RouterGroup, wsService services.WebSocketServiceInterface) {
	group.GET("/ws", func(c *gin.Context) {
		wsService.HandleConnection(c)
	})
}
