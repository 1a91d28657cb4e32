package config

import (
	"log"
	"os"
	"strconv"
	"time"

	game_constants "Mheibes/constants/game"
)

// ServerPort resolves the HTTP port from the environment, honoring the
// HTTPS default the same way deployment expects it.
func ServerPort() string {
	port := os.Getenv("PORT")
	if port == "" && os.Getenv("USE_HTTPS") == "true" {
		return "443"
	}
	if port == "" {
		return "8080"
	}
	return port
}

// DisconnectGrace returns how long a disconnected player's seat stays
// reserved. Overridable through DISCONNECT_GRACE_SECS, mostly for
// local testing against impatient clients.
func DisconnectGrace() time.Duration {
	raw := os.Getenv("DISCONNECT_GRACE_SECS")
	if raw == "" {
		return game_constants.DefaultDisconnectGrace
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		log.Printf("Invalid DISCONNECT_GRACE_SECS %q, using default", raw)
		return game_constants.DefaultDisconnectGrace
	}
	return time.Duration(secs) * time.Second
}
