package handlers

import (
	"log"

	"Mheibes/services/game_flow"
	socketio_types "Mheibes/services/socket_io/types"
	socketio_utils "Mheibes/services/socket_io/utils"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// boundRoom resolves the room the connection currently belongs to.
func boundRoom(sio *socketio_types.SocketServer, client *socket.Socket) (string, bool) {
	return sio.Binding(string(client.Id()))
}

// canBindRoom reports whether a connection may enter a new room. A
// connection already sitting in a room cannot take a second seat; the
// old seat would look connected forever and keep its room alive.
func canBindRoom(sio *socketio_types.SocketServer, connID string) bool {
	_, bound := sio.Binding(connID)
	return !bound
}

// Function to handle room creation. The caller becomes the sole player,
// leader of team A and host of the fresh room.
func HandleCreateRoom(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		connID := string(client.Id())
		payload := socketio_utils.EventPayload(args)
		name := socketio_utils.PayloadString(payload, "name")

		log.Printf("[CREATE] HandleCreateRoom - conn %s, name %q", connID, name)

		if !canBindRoom(sio, connID) {
			log.Printf("[CREATE-GUARD] conn %s already sits in a room, ignoring", connID)
			return
		}

		room := gf.CreateRoom(connID, name)
		sio.BindRoom(connID, room.Code)
		client.Join(socket.Room(room.Code))

		client.Emit("room_created", gin.H{"code": room.Code})
		gf.BroadcastRoom(room.Code)
	}
}

// Function to handle joining an existing lobby-phase room. Validation
// failures travel back to the requester as an error_msg code.
func HandleJoinRoom(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		connID := string(client.Id())
		payload := socketio_utils.EventPayload(args)
		name := socketio_utils.PayloadString(payload, "name")
		code := socketio_utils.PayloadString(payload, "code")

		log.Printf("[JOIN] HandleJoinRoom - conn %s, room %s", connID, code)

		if !canBindRoom(sio, connID) {
			log.Printf("[JOIN-GUARD] conn %s already sits in a room, ignoring", connID)
			return
		}

		room, gameErr := gf.JoinRoom(connID, name, code)
		if gameErr != nil {
			log.Printf("[JOIN-ERROR] conn %s -> room %s: %s", connID, code, gameErr.Code)
			client.Emit("error_msg", gin.H{"code": gameErr.Code})
			return
		}

		sio.BindRoom(connID, room.Code)
		client.Join(socket.Room(room.Code))

		client.Emit("room_joined", gin.H{"code": room.Code})
		sio.Sio_server.To(socket.Room(room.Code)).Emit("player_joined", gin.H{"name": name})
		gf.BroadcastRoom(room.Code)
	}
}

// Function to handle reconnection after a transport loss. The seat is
// matched by the previous connection id, falling back to the display
// name among the room's disconnected players.
func HandleTryRejoin(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		connID := string(client.Id())
		payload := socketio_utils.EventPayload(args)
		name := socketio_utils.PayloadString(payload, "name")
		code := socketio_utils.PayloadString(payload, "room_code")
		oldConnID := socketio_utils.PayloadString(payload, "old_conn_id")

		log.Printf("[REJOIN] HandleTryRejoin - conn %s, room %s, old conn %s", connID, code, oldConnID)

		room, ok := gf.TryRejoin(connID, name, code, oldConnID)
		if !ok {
			log.Printf("[REJOIN-FAILED] conn %s could not be matched in room %s", connID, code)
			client.Emit("rejoin_failed")
			return
		}

		sio.BindRoom(connID, room.Code)
		client.Join(socket.Room(room.Code))

		client.Emit("rejoin_ok", gin.H{"code": room.Code})
		gf.BroadcastRoom(room.Code)
	}
}

// Function to handle socket.io client disconnections. The seat is kept
// reserved for the grace period; roles that would block the game move
// to a connected player right away.
func HandleDisconnecting(gf *game_flow.GameFlow, client *socket.Socket,
	sio *socketio_types.SocketServer) func(args ...interface{}) {
	return func(args ...interface{}) {
		connID := string(client.Id())
		log.Printf("[DISCONNECT] HandleDisconnecting - conn %s", connID)

		if code, bound := sio.Binding(connID); bound {
			gf.Disconnect(code, connID)
		}
		sio.RemoveConnection(connID)
	}
}
