package handlers

import (
	"Mheibes/models/game"
	"Mheibes/services/game_flow"
	socketio_types "Mheibes/services/socket_io/types"
	socketio_utils "Mheibes/services/socket_io/utils"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// Function to handle the host starting the game from the lobby.
func HandleStartGame(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, bound := boundRoom(sio, client)
		if !bound {
			return
		}
		if gameErr := gf.StartGame(code, string(client.Id())); gameErr != nil {
			client.Emit("error_msg", gin.H{"code": gameErr.Code})
		}
	}
}

// Function to handle the host flipping the coin. The winner takes the
// hiding role and the room auto-advances shortly after.
func HandleCoinToss(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, bound := boundRoom(sio, client)
		if !bound {
			return
		}
		gf.CoinToss(code, string(client.Id()))
	}
}

// Function to handle the hiding-team leader placing the ring.
func HandleSelectRing(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, bound := boundRoom(sio, client)
		if !bound {
			return
		}
		payload := socketio_utils.EventPayload(args)
		gf.SelectRing(code, string(client.Id()),
			socketio_utils.PayloadString(payload, "target_id"),
			game.Hand(socketio_utils.PayloadString(payload, "hand")))
	}
}

// Function to handle the hiding-team leader confirming the ring is
// hidden.
func HandleBat(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, bound := boundRoom(sio, client)
		if !bound {
			return
		}
		gf.Bat(code, string(client.Id()))
	}
}

// Function to handle the searching-team leader designating the tayer.
func HandleSelectTayer(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, bound := boundRoom(sio, client)
		if !bound {
			return
		}
		payload := socketio_utils.EventPayload(args)
		gf.SelectTayer(code, string(client.Id()), socketio_utils.PayloadString(payload, "target_id"))
	}
}

// Function to handle the host restarting a finished game.
func HandlePlayAgain(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, bound := boundRoom(sio, client)
		if !bound {
			return
		}
		gf.PlayAgain(code, string(client.Id()))
	}
}
