package controllers

import (
	"net/http"

	"Mheibes/services/rooms"

	"github.com/gin-gonic/gin"
)

type RoomController struct {
	Rooms *rooms.Registry
}

// GetRoomInfo gets the public pre-join information about a room with
// the provided code. No secrets here: just what a join screen needs.
func (rc *RoomController) GetRoomInfo(c *gin.Context) {
	code := c.Param("code")

	room, ok := rc.Rooms.GetRoom(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()

	hostName := ""
	if host, exists := room.Players[room.Host]; exists {
		hostName = host.Name
	}

	c.JSON(http.StatusOK, gin.H{
		"code":         room.Code,
		"phase":        room.Phase,
		"player_count": len(room.Players),
		"host_name":    hostName,
	})
}
