package handlers

import (
	"Mheibes/models/game"
	"Mheibes/services/game_flow"
	socketio_types "Mheibes/services/socket_io/types"
	socketio_utils "Mheibes/services/socket_io/utils"

	"github.com/zishang520/socket.io/v2/socket"
)

// Function to handle a tak: the tayer strikes one (player, hand). A hit
// on the ring ends the round for the hiding team; a miss opens the hand
// and the search goes on.
func HandleTak(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, bound := boundRoom(sio, client)
		if !bound {
			return
		}
		payload := socketio_utils.EventPayload(args)
		gf.Tak(code, string(client.Id()),
			socketio_utils.PayloadString(payload, "target_id"),
			game.Hand(socketio_utils.PayloadString(payload, "hand")))
	}
}

// Function to handle a jeeba: the tayer's final accusation. It always
// ends the round, one way or the other.
func HandleJeeba(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, bound := boundRoom(sio, client)
		if !bound {
			return
		}
		payload := socketio_utils.EventPayload(args)
		gf.Jeeba(code, string(client.Id()),
			socketio_utils.PayloadString(payload, "target_id"),
			game.Hand(socketio_utils.PayloadString(payload, "hand")))
	}
}
