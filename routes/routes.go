package routes

import (
	"Mheibes/controllers"
	"Mheibes/services/rooms"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, registry *rooms.Registry) {
	roomController := &controllers.RoomController{Rooms: registry}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes group
	api := router.Group("/api/v1")
	{
		api.GET("/rooms/:code", roomController.GetRoomInfo)
	}
}
