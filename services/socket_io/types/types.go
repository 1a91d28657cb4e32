package socketio_types

import (
	"sync"

	"github.com/zishang520/socket.io/v2/socket"
)

// SocketServer is a struct that contains the socket.io server, a map of
// live socket connections keyed by connection id, and the binding from
// connection id to the room the connection currently sits in.
type SocketServer struct {
	Sio_server *socket.Server
	// Map to track connection id -> socket
	Connections map[string]*socket.Socket
	// Map to track connection id -> room code
	RoomOfConn map[string]string
	mutex      sync.RWMutex
}

func NewSocketServer() *SocketServer {
	return &SocketServer{
		Connections: make(map[string]*socket.Socket),
		RoomOfConn:  make(map[string]string),
	}
}

// Add methods to manage connections
func (s *SocketServer) AddConnection(connID string, socket *socket.Socket) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.Connections[connID] = socket
}

func (s *SocketServer) RemoveConnection(connID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.Connections, connID)
	delete(s.RoomOfConn, connID)
}

func (s *SocketServer) GetConnection(connID string) (*socket.Socket, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	socket, exists := s.Connections[connID]
	return socket, exists
}

// BindRoom records which room a connection belongs to.
func (s *SocketServer) BindRoom(connID, roomCode string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.RoomOfConn[connID] = roomCode
}

func (s *SocketServer) UnbindRoom(connID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.RoomOfConn, connID)
}

// Binding returns the room code a connection is bound to, if any.
func (s *SocketServer) Binding(connID string) (string, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	code, exists := s.RoomOfConn[connID]
	return code, exists
}
