package handlers

import (
	"log"

	"Mheibes/models/game"
	"Mheibes/services/game_flow"
	socketio_types "Mheibes/services/socket_io/types"
	socketio_utils "Mheibes/services/socket_io/utils"

	"github.com/zishang520/socket.io/v2/socket"
)

// Function to handle a player switching teams while in the lobby.
func HandleSwitchTeam(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, bound := boundRoom(sio, client)
		if !bound {
			return
		}
		payload := socketio_utils.EventPayload(args)
		team := game.TeamID(socketio_utils.PayloadString(payload, "team"))
		gf.SwitchTeam(code, string(client.Id()), team)
	}
}

// Function to handle a team leader renaming their team.
func HandleRenameTeam(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, bound := boundRoom(sio, client)
		if !bound {
			return
		}
		payload := socketio_utils.EventPayload(args)
		team := game.TeamID(socketio_utils.PayloadString(payload, "team"))
		newName := socketio_utils.PayloadString(payload, "new_name")
		gf.RenameTeam(code, string(client.Id()), team, newName)
	}
}

// Function to handle the host updating the session settings.
func HandleSetSettings(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, bound := boundRoom(sio, client)
		if !bound {
			return
		}
		payload := socketio_utils.EventPayload(args)
		gf.SetSettings(code, string(client.Id()),
			socketio_utils.PayloadInt(payload, "max_rounds"),
			socketio_utils.PayloadInt(payload, "countdown_secs"),
			socketio_utils.PayloadInt(payload, "hide_timer_secs"))
	}
}

// Function to handle the host kicking a player. The removed connection
// is notified directly and its room binding severed.
func HandleKickPlayer(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, bound := boundRoom(sio, client)
		if !bound {
			return
		}
		payload := socketio_utils.EventPayload(args)
		targetID := socketio_utils.PayloadString(payload, "target_id")

		kickedID, ok := gf.KickPlayer(code, string(client.Id()), targetID)
		if !ok {
			return
		}

		log.Printf("[KICK] Notifying kicked conn %s in room %s", kickedID, code)
		if target, exists := sio.GetConnection(kickedID); exists {
			target.Emit("kicked")
			target.Leave(socket.Room(code))
		}
		sio.UnbindRoom(kickedID)
	}
}

// Function to handle the host handing the room over to another player.
func HandleTransferHost(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		code, bound := boundRoom(sio, client)
		if !bound {
			return
		}
		payload := socketio_utils.EventPayload(args)
		gf.TransferHost(code, string(client.Id()), socketio_utils.PayloadString(payload, "target_id"))
	}
}
