package main

import (
	"Mheibes/config"
	"Mheibes/middleware"
	"Mheibes/routes"
	"Mheibes/services/game_flow"
	"Mheibes/services/rooms"
	"Mheibes/services/socket_io"
	socketio_types "Mheibes/services/socket_io/types"
	socketio_utils "Mheibes/services/socket_io/utils"
	"Mheibes/services/timers"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()
	log.Println("Setting up server...")

	if os.Getenv("PROD") == "true" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Room state lives in this process only; no external store
	registry := rooms.NewRegistry()
	timerRegistry := timers.NewRegistry()

	sio := socketio_types.NewSocketServer()
	broadcaster := &socketio_utils.RoomBroadcaster{Sio: sio}

	gf := game_flow.NewGameFlow(registry, timerRegistry, broadcaster)
	gf.Grace = config.DisconnectGrace()

	r := gin.Default()

	middleware.SetUpMiddleware(r)

	routes.SetupRoutes(r, registry)

	(*socket_io.MySocketServer)(sio).Start(r, gf)

	port := config.ServerPort()

	if os.Getenv("USE_HTTPS") == "true" {
		// SSL certification configuration for HTTPS
		certFile := os.Getenv("SSL_CERT_FILE")
		keyFile := os.Getenv("SSL_KEY_FILE")

		if err := r.RunTLS(":"+port, certFile, keyFile); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	} else {
		if err := r.Run(":" + port); err != nil {
			log.Fatalf("Error starting server: %v", err)
		}
	}
}
