package socketio_utils

import (
	"Mheibes/models/game"
	socketio_types "Mheibes/services/socket_io/types"
)

// RoomBroadcaster pushes per-viewer room_update events over the socket
// server. Each member gets their own sanitized projection, so this
// never multicasts the raw room to the socket.io room.
type RoomBroadcaster struct {
	Sio *socketio_types.SocketServer
}

// BroadcastRoom emits room_update to every connected member of the
// room. Called with the room lock held; emits only queue packets.
func (b *RoomBroadcaster) BroadcastRoom(room *game.Room) {
	for _, p := range room.PlayersInOrder() {
		if p.Disconnected {
			continue
		}
		client, ok := b.Sio.GetConnection(p.ID)
		if !ok {
			continue
		}
		client.Emit("room_update", game.BuildRoomView(room, p.ID))
	}
}
